// SPDX-License-Identifier: EPL-2.0

package pcm

// BytesPerFloat32 is the size of one float32 sample in bytes.
const BytesPerFloat32 = 4

// Format is a plain value describing the layout of a PCM stream.
//
// For non-interleaved data BytesPerFrame is the byte size of one frame
// within a single channel stream; for interleaved data it spans all
// channels of the frame.
type Format struct {
	// ChannelCount is the number of audio channels.
	ChannelCount int
	// BytesPerFrame is the byte size of one frame in one channel stream
	// (non-interleaved) or of one complete frame (interleaved).
	BytesPerFrame int
	// SampleRate in Hz.
	SampleRate int
	// Interleaved reports whether samples from all channels alternate
	// within a single region.
	Interleaved bool
}

// Float32Format returns the canonical non-interleaved 32-bit float
// format for the given channel count and sample rate.
func Float32Format(channelCount, sampleRate int) Format {
	return Format{
		ChannelCount:  channelCount,
		BytesPerFrame: BytesPerFloat32,
		SampleRate:    sampleRate,
		Interleaved:   false,
	}
}

// IsValid reports whether the format describes a usable PCM layout.
func (f Format) IsValid() bool {
	return f.ChannelCount > 0 && f.BytesPerFrame > 0 && f.SampleRate > 0
}

// IsInterleaved reports whether samples from all channels share one region.
func (f Format) IsInterleaved() bool {
	return f.Interleaved
}

// ChannelStreamCount returns the number of independent sample streams:
// one for interleaved data, ChannelCount otherwise.
func (f Format) ChannelStreamCount() int {
	if f.Interleaved {
		return 1
	}
	return f.ChannelCount
}

// FrameCountToByteSize converts a frame count to the byte size it
// occupies in one channel stream.
func (f Format) FrameCountToByteSize(frameCount int) int {
	return frameCount * f.BytesPerFrame
}

// ByteSizeToFrameCount converts a byte size in one channel stream to
// whole frames. Returns 0 when BytesPerFrame is 0.
func (f Format) ByteSizeToFrameCount(byteSize int) int {
	if f.BytesPerFrame == 0 {
		return 0
	}
	return byteSize / f.BytesPerFrame
}

// Reset returns the format to its zero state.
func (f *Format) Reset() {
	*f = Format{}
}
