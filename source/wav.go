// SPDX-License-Identifier: EPL-2.0

package source

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audioring/pcm"
)

// toReadSeeker returns r unchanged when it already seeks, otherwise it
// buffers the remaining data in memory.
func toReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return bytes.NewReader(data), nil
}

// pcmScale returns the normalization divisor for integer PCM of the
// given bit depth, or 0 when the depth is unsupported.
func pcmScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 0
	}
}

// pcmDecoder is the slice of go-audio's WAV and AIFF decoders the
// adapters consume, kept narrow so tests can substitute their own.
type pcmDecoder interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// intPCMSource adapts a pcmDecoder into an interleavedSource read
// function, normalizing integer samples to float32.
func intPCMSource(dec pcmDecoder, bitDepth int) (Source, error) {
	scale := pcmScale(bitDepth)
	if scale == 0 {
		return nil, ErrUnsupportedBitDepth
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, pcm.ErrInvalidFormat
	}

	intBuf := &goaudio.IntBuffer{
		Data:   make([]int, 4096),
		Format: format,
	}

	read := func(dst []float32) (int, error) {
		if cap(intBuf.Data) < len(dst) {
			intBuf.Data = make([]int, len(dst))
		}
		intBuf.Data = intBuf.Data[:len(dst)]

		n, err := dec.PCMBuffer(intBuf)
		if n == 0 {
			if err != nil {
				return 0, err
			}
			return 0, io.EOF
		}

		for i := 0; i < n; i++ {
			dst[i] = float32(intBuf.Data[i]) / scale
		}

		return n, err
	}

	return &interleavedSource{
		format: pcm.Float32Format(format.NumChannels, format.SampleRate),
		read:   read,
	}, nil
}

// OpenWAV opens a WAV stream using github.com/go-audio/wav and exposes
// it as a non-interleaved float32 Source. Readers that cannot seek are
// buffered in memory.
func OpenWAV(r io.Reader) (Source, error) {
	rs, err := toReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWAVFile
	}

	return intPCMSource(dec, int(dec.BitDepth))
}
