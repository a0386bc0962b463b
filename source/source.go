// SPDX-License-Identifier: EPL-2.0

package source

import (
	"fmt"
	"io"

	"github.com/ik5/audioring/pcm"
)

// Source produces non-interleaved float32 audio frames.
type Source interface {
	// Format describes the produced frames. Always a non-interleaved
	// float32 layout.
	Format() pcm.Format
	// ReadFrames fills dst with whole frames, one channel per buffer,
	// and sets each buffer's ByteLength to the bytes delivered. Returns
	// the number of frames read. When n == 0 with err == io.EOF the
	// stream is finished.
	ReadFrames(dst *pcm.BufferList) (int, error)
	// Close releases any resources.
	Close() error
}

// interleavedSource adapts a pull function returning interleaved
// float32 samples into the Source frame interface. All four decoder
// adapters in this package reduce to one of these.
type interleavedSource struct {
	format pcm.Format
	// read fills dst with interleaved samples and returns the count
	// read, io.EOF at end of stream.
	read  func(dst []float32) (int, error)
	close func() error

	buf   []float32
	chbuf []float32
	rest  []float32 // undelivered tail of a short read
}

func (s *interleavedSource) Format() pcm.Format {
	return s.format
}

func (s *interleavedSource) Close() error {
	if s.close == nil {
		return nil
	}
	if err := s.close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (s *interleavedSource) ReadFrames(dst *pcm.BufferList) (int, error) {
	channels := s.format.ChannelCount
	if dst == nil || dst.ChannelCount() < channels {
		return 0, pcm.ErrInvalidFormat
	}

	capacityFrames := len(dst.Buffers[0].Data) / pcm.BytesPerFloat32
	if capacityFrames == 0 {
		return 0, nil
	}

	wanted := capacityFrames * channels
	if cap(s.buf) < wanted {
		s.buf = make([]float32, wanted)
	}

	// Carry over samples a previous short read left behind.
	have := copy(s.buf[:wanted], s.rest)
	s.rest = nil

	var readErr error
	for have < wanted {
		n, err := s.read(s.buf[have:wanted])
		have += n
		if err != nil {
			readErr = err
			break
		}
		if n == 0 {
			break
		}
	}

	frames := have / channels
	if frames > capacityFrames {
		frames = capacityFrames
	}
	if leftover := have - frames*channels; leftover > 0 {
		s.rest = s.buf[frames*channels : have]
	}

	if frames == 0 {
		if readErr == io.EOF || readErr == nil {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w", readErr)
	}

	// Deinterleave into the destination channels.
	if cap(s.chbuf) < frames {
		s.chbuf = make([]float32, frames)
	}
	for ch := 0; ch < channels; ch++ {
		chb := s.chbuf[:frames]
		for i := range chb {
			chb[i] = s.buf[i*channels+ch]
		}
		dst.PutFloat32Channel(ch, 0, chb)
	}
	dst.SetByteLengths(frames * pcm.BytesPerFloat32)

	if readErr != nil && readErr != io.EOF {
		return frames, fmt.Errorf("%w", readErr)
	}
	return frames, nil
}
