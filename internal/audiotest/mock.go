// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio data for tests.
package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audioring/pcm"
)

// SequenceBytes returns n bytes counting up from start, wrapping at 256.
// Useful for asserting FIFO ordering through a ring buffer.
func SequenceBytes(start, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(start + i)
	}
	return b
}

// BufferListFromBytes builds a BufferList whose channels alias the
// given byte slices.
func BufferListFromBytes(channels ...[]byte) *pcm.BufferList {
	bl := &pcm.BufferList{Buffers: make([]pcm.Buffer, len(channels))}
	for i, data := range channels {
		bl.Buffers[i] = pcm.Buffer{Data: data, ByteLength: len(data)}
	}
	return bl
}

// FrameSource generates non-interleaved float32 frames for testing.
// It implements the source.Source interface (without importing it to
// avoid cycles).
type FrameSource struct {
	format      pcm.Format
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32
}

// NewFrameSource creates a source producing totalFrames frames, with
// sample values supplied by waveform.
func NewFrameSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *FrameSource {
	return &FrameSource{
		format:      pcm.Float32Format(channels, sampleRate),
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewConstantFrameSource creates a source whose every sample is value.
func NewConstantFrameSource(sampleRate, channels, totalFrames int, value float32) *FrameSource {
	return NewFrameSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return value
	})
}

// NewSineFrameSource creates a source generating a sine wave at the
// given frequency on every channel.
func NewSineFrameSource(sampleRate, channels, totalFrames int, frequency float64) *FrameSource {
	return NewFrameSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// IndexFrameSource creates a source whose samples encode their own
// position: value = float32(frame*channels+channel). Lets tests verify
// exactly which frames landed where.
func IndexFrameSource(sampleRate, channels, totalFrames int) *FrameSource {
	return NewFrameSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return float32(frame*channels + channel)
	})
}

func (s *FrameSource) Format() pcm.Format { return s.format }
func (s *FrameSource) Close() error       { return nil }

// Reset rewinds the source so it can be read again.
func (s *FrameSource) Reset() {
	s.generated = 0
}

// ReadFrames fills dst with as many frames as fit, returning io.EOF
// once totalFrames have been produced.
func (s *FrameSource) ReadFrames(dst *pcm.BufferList) (int, error) {
	if s.generated >= s.totalFrames {
		return 0, io.EOF
	}

	capacityFrames := len(dst.Buffers[0].Data) / pcm.BytesPerFloat32
	frames := min(capacityFrames, s.totalFrames-s.generated)

	for ch := 0; ch < s.format.ChannelCount; ch++ {
		samples := make([]float32, frames)
		for i := range samples {
			samples[i] = s.waveform(s.generated+i, ch)
		}
		dst.PutFloat32Channel(ch, 0, samples)
	}
	dst.SetByteLengths(frames * pcm.BytesPerFloat32)

	s.generated += frames

	return frames, nil
}
