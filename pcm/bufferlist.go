// SPDX-License-Identifier: EPL-2.0

package pcm

// Buffer is a single channel's memory region.
type Buffer struct {
	// Data holds the channel's samples.
	Data []byte
	// ByteLength is the number of valid bytes in Data. Operations that
	// deliver data overwrite it with the byte count actually produced.
	ByteLength int
}

// BufferList is an ordered list of per-channel buffers, one Buffer per
// channel stream.
type BufferList struct {
	Buffers []Buffer
}

// NewBufferList allocates a BufferList for capacityFrames frames of the
// given non-interleaved format. Every buffer's ByteLength starts at the
// full capacity.
func NewBufferList(format Format, capacityFrames int) (*BufferList, error) {
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if format.IsInterleaved() {
		return nil, ErrInterleavedFormat
	}
	if capacityFrames <= 0 {
		return nil, ErrInvalidFrameCount
	}

	byteSize := format.FrameCountToByteSize(capacityFrames)
	// One backing allocation subsliced per channel.
	backing := make([]byte, byteSize*format.ChannelCount)

	bl := &BufferList{Buffers: make([]Buffer, format.ChannelCount)}
	for i := range bl.Buffers {
		bl.Buffers[i] = Buffer{
			Data:       backing[i*byteSize : (i+1)*byteSize : (i+1)*byteSize],
			ByteLength: byteSize,
		}
	}
	return bl, nil
}

// ChannelCount returns the number of buffers in the list.
func (bl *BufferList) ChannelCount() int {
	return len(bl.Buffers)
}

// ResetByteLengths restores every buffer's ByteLength to the full
// capacity of its Data slice.
func (bl *BufferList) ResetByteLengths() {
	for i := range bl.Buffers {
		bl.Buffers[i].ByteLength = len(bl.Buffers[i].Data)
	}
}

// SetByteLengths sets every buffer's ByteLength to n, capped at each
// buffer's capacity.
func (bl *BufferList) SetByteLengths(n int) {
	for i := range bl.Buffers {
		if n > len(bl.Buffers[i].Data) {
			bl.Buffers[i].ByteLength = len(bl.Buffers[i].Data)
		} else {
			bl.Buffers[i].ByteLength = n
		}
	}
}

// ZeroRange zeroes byteCount bytes starting at byteOffset in every
// buffer, clipped to each buffer's ByteLength.
func (bl *BufferList) ZeroRange(byteOffset, byteCount int) {
	for i := range bl.Buffers {
		b := &bl.Buffers[i]
		if byteOffset >= b.ByteLength {
			continue
		}
		end := byteOffset + byteCount
		if end > b.ByteLength {
			end = b.ByteLength
		}
		clear(b.Data[byteOffset:end])
	}
}
