// SPDX-License-Identifier: EPL-2.0

package audioring

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audioring/pcm"
	"github.com/ik5/audioring/ring"
	"github.com/ik5/audioring/source"
	"github.com/ik5/audioring/utils"
)

// Fill pumps frames from src into rb in chunks of chunkFrames until the
// source is exhausted or the ring no longer has room for a whole chunk.
// Returns the number of frames written.
//
// Fill runs on the producer side of rb; a consumer goroutine may drain
// the ring concurrently.
func Fill(rb *ring.AudioRingBuffer, src source.Source, chunkFrames int) (int64, error) {
	if chunkFrames <= 0 {
		return 0, ErrInvalidChunkSize
	}

	bl, err := pcm.NewBufferList(src.Format(), chunkFrames)
	if err != nil {
		return 0, err
	}

	var written int64
	for {
		if rb.FramesAvailableToWrite() < chunkFrames {
			return written, nil
		}

		bl.ResetByteLengths()
		n, err := src.ReadFrames(bl)
		if n > 0 {
			written += int64(rb.Write(bl, n, true))
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("%w", err)
		}
	}
}

// FillTimestamped pumps frames from src into trb, assigning consecutive
// absolute frame positions beginning at startFrame. Older data is
// overwritten as the buffer wraps. Returns the number of frames
// written.
//
// FillTimestamped runs on the producer side of trb.
func FillTimestamped(trb *ring.TimestampedRingBuffer, src source.Source, startFrame int64, chunkFrames int) (int64, error) {
	if chunkFrames <= 0 {
		return 0, ErrInvalidChunkSize
	}

	bl, err := pcm.NewBufferList(src.Format(), chunkFrames)
	if err != nil {
		return 0, err
	}

	position := startFrame
	for {
		bl.ResetByteLengths()
		n, err := src.ReadFrames(bl)
		if n > 0 {
			if !trb.Write(bl, n, position) {
				return position - startFrame, nil
			}
			position += int64(n)
		}
		if err == io.EOF {
			return position - startFrame, nil
		}
		if err != nil {
			return position - startFrame, fmt.Errorf("%w", err)
		}
	}
}

// WriteWAV16 drains rb and encodes its contents as a 16-bit PCM WAV
// using github.com/go-audio/wav. The ring buffer must hold
// non-interleaved float32 data. Returns the number of frames encoded.
//
// WriteWAV16 runs on the consumer side of rb.
func WriteWAV16(ws io.WriteSeeker, rb *ring.AudioRingBuffer, chunkFrames int) (int64, error) {
	if chunkFrames <= 0 {
		return 0, ErrInvalidChunkSize
	}

	format := rb.Format()
	if format.BytesPerFrame != pcm.BytesPerFloat32 || format.Interleaved {
		return 0, ErrNotFloat32Format
	}

	bl, err := pcm.NewBufferList(format, chunkFrames)
	if err != nil {
		return 0, err
	}

	const wavFormatPCM = 1
	enc := wav.NewEncoder(ws, format.SampleRate, 16, format.ChannelCount, wavFormatPCM)

	intBuf := &goaudio.IntBuffer{
		Format:         format.GoAudio(),
		SourceBitDepth: 16,
		Data:           make([]int, chunkFrames*format.ChannelCount),
	}

	var encoded int64
	for {
		bl.ResetByteLengths()
		n := rb.Read(bl, chunkFrames, true)
		if n == 0 {
			break
		}

		fb := bl.Float32Buffer(format, n)
		intBuf.Data = intBuf.Data[:len(fb.Data)]
		for i, sample := range fb.Data {
			intBuf.Data[i] = int(utils.Float32ToInt16(sample))
		}

		if err := enc.Write(intBuf); err != nil {
			return encoded, fmt.Errorf("%w", err)
		}
		encoded += int64(n)
	}

	if err := enc.Close(); err != nil {
		return encoded, fmt.Errorf("%w", err)
	}

	return encoded, nil
}
