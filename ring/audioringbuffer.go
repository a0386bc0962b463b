// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"sync/atomic"

	"github.com/ik5/audioring/pcm"
)

// AudioRingBuffer is a lock-free single-producer, single-consumer ring
// buffer for non-interleaved audio. It follows the same cursor protocol
// as RingBuffer but counts in whole frames and stores each channel in
// its own contiguous region.
//
// The zero value is unallocated; call Allocate before use.
type AudioRingBuffer struct {
	format             pcm.Format
	channels           [][]byte
	capacityFrames     uint32
	capacityFramesMask uint32

	writePosition atomic.Uint32
	_             [60]byte
	readPosition  atomic.Uint32
	_             [60]byte
}

// NewAudioRingBuffer returns an allocated AudioRingBuffer for the given
// format with the requested frame capacity rounded up to the next power
// of two.
func NewAudioRingBuffer(format pcm.Format, capacityFrames int) (*AudioRingBuffer, error) {
	rb := &AudioRingBuffer{}
	if err := rb.Allocate(format, capacityFrames); err != nil {
		return nil, err
	}
	return rb, nil
}

// Allocate sets up zeroed storage for at least capacityFrames frames of
// the given format, rounded up to the next power of two. Only
// non-interleaved formats are supported. Any previous allocation is
// released first.
//
// Not safe to call concurrently with any other method.
func (rb *AudioRingBuffer) Allocate(format pcm.Format, capacityFrames int) error {
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	if format.IsInterleaved() {
		return ErrInterleavedFormat
	}
	if int64(capacityFrames) < minCapacity || int64(capacityFrames) > maxCapacity {
		return ErrCapacityOutOfRange
	}

	rb.Deallocate()

	capacity := nextPowerOfTwo(uint32(capacityFrames))
	capacityBytes := int(capacity) * format.BytesPerFrame

	// One backing allocation holds every channel region.
	backing := make([]byte, capacityBytes*format.ChannelCount)

	rb.format = format
	rb.capacityFrames = capacity
	rb.capacityFramesMask = capacity - 1

	rb.channels = make([][]byte, format.ChannelCount)
	for i := range rb.channels {
		rb.channels[i] = backing[i*capacityBytes : (i+1)*capacityBytes : (i+1)*capacityBytes]
	}

	return nil
}

// Deallocate releases the channel storage and returns the buffer to its
// unallocated state.
//
// Not safe to call concurrently with any other method.
func (rb *AudioRingBuffer) Deallocate() {
	if rb.channels == nil {
		return
	}

	rb.channels = nil
	rb.format.Reset()
	rb.capacityFrames = 0
	rb.capacityFramesMask = 0

	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// Reset rewinds both cursors to empty without releasing storage.
//
// Not safe to call concurrently with any other method.
func (rb *AudioRingBuffer) Reset() {
	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// Format returns the format the buffer was allocated with.
func (rb *AudioRingBuffer) Format() pcm.Format {
	return rb.format
}

// CapacityFrames returns the allocated capacity in frames. The usable
// capacity is one frame less.
func (rb *AudioRingBuffer) CapacityFrames() int {
	return int(rb.capacityFrames)
}

func (rb *AudioRingBuffer) framesAvailableToRead(writePosition, readPosition uint32) uint32 {
	if writePosition > readPosition {
		return writePosition - readPosition
	}
	return (writePosition - readPosition + rb.capacityFrames) & rb.capacityFramesMask
}

func (rb *AudioRingBuffer) framesAvailableToWrite(writePosition, readPosition uint32) uint32 {
	switch {
	case writePosition > readPosition:
		return ((readPosition - writePosition + rb.capacityFrames) & rb.capacityFramesMask) - 1
	case writePosition < readPosition:
		return readPosition - writePosition - 1
	default:
		if rb.capacityFrames == 0 {
			return 0
		}
		return rb.capacityFrames - 1
	}
}

// FramesAvailableToRead returns the number of frames that may currently
// be read.
func (rb *AudioRingBuffer) FramesAvailableToRead() int {
	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()
	return int(rb.framesAvailableToRead(writePosition, readPosition))
}

// FramesAvailableToWrite returns the free space currently available for
// writing, in frames.
func (rb *AudioRingBuffer) FramesAvailableToWrite() int {
	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()
	return int(rb.framesAvailableToWrite(writePosition, readPosition))
}

// Read copies up to frameCount frames into bl and advances the read
// cursor. When fewer frames are available the call copies what is there
// if allowPartial is true and nothing otherwise. Each buffer's
// ByteLength is set to the bytes actually delivered. Returns the number
// of frames read.
func (rb *AudioRingBuffer) Read(bl *pcm.BufferList, frameCount int, allowPartial bool) int {
	if bl == nil || frameCount <= 0 || rb.channels == nil {
		return 0
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	framesAvailable := int(rb.framesAvailableToRead(writePosition, readPosition))
	if framesAvailable == 0 || (framesAvailable < frameCount && !allowPartial) {
		return 0
	}

	framesToRead := min(framesAvailable, frameCount)
	bytesPerFrame := rb.format.BytesPerFrame

	pos := int(readPosition)
	if pos+framesToRead > int(rb.capacityFrames) {
		framesAfterReadPosition := int(rb.capacityFrames) - pos
		bytesAfterReadPosition := framesAfterReadPosition * bytesPerFrame
		fetchBufferList(bl, 0, rb.channels, pos*bytesPerFrame, bytesAfterReadPosition)
		fetchBufferList(bl, bytesAfterReadPosition, rb.channels, 0, (framesToRead-framesAfterReadPosition)*bytesPerFrame)
	} else {
		fetchBufferList(bl, 0, rb.channels, pos*bytesPerFrame, framesToRead*bytesPerFrame)
	}

	rb.readPosition.Store((readPosition + uint32(framesToRead)) & rb.capacityFramesMask)

	bl.SetByteLengths(framesToRead * bytesPerFrame)

	return framesToRead
}

// Write copies up to frameCount frames from bl and advances the write
// cursor. When there is room for fewer frames the call copies what fits
// if allowPartial is true and nothing otherwise. Returns the number of
// frames written.
func (rb *AudioRingBuffer) Write(bl *pcm.BufferList, frameCount int, allowPartial bool) int {
	if bl == nil || frameCount <= 0 || rb.channels == nil {
		return 0
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	framesAvailable := int(rb.framesAvailableToWrite(writePosition, readPosition))
	if framesAvailable == 0 || (framesAvailable < frameCount && !allowPartial) {
		return 0
	}

	framesToWrite := min(framesAvailable, frameCount)
	bytesPerFrame := rb.format.BytesPerFrame

	pos := int(writePosition)
	if pos+framesToWrite > int(rb.capacityFrames) {
		framesAfterWritePosition := int(rb.capacityFrames) - pos
		bytesAfterWritePosition := framesAfterWritePosition * bytesPerFrame
		storeBufferList(rb.channels, pos*bytesPerFrame, bl, 0, bytesAfterWritePosition)
		storeBufferList(rb.channels, 0, bl, bytesAfterWritePosition, (framesToWrite-framesAfterWritePosition)*bytesPerFrame)
	} else {
		storeBufferList(rb.channels, pos*bytesPerFrame, bl, 0, framesToWrite*bytesPerFrame)
	}

	rb.writePosition.Store((writePosition + uint32(framesToWrite)) & rb.capacityFramesMask)

	return framesToWrite
}

// storeBufferList scatters byteCount bytes per channel from bl at
// srcOffset into the channel regions at dstOffset. Channels past the
// shorter of the two lists are ignored.
func storeBufferList(channels [][]byte, dstOffset int, bl *pcm.BufferList, srcOffset, byteCount int) {
	n := min(len(channels), len(bl.Buffers))
	for i := 0; i < n; i++ {
		src := &bl.Buffers[i]
		if srcOffset >= src.ByteLength {
			continue
		}
		count := min(byteCount, src.ByteLength-srcOffset)
		copy(channels[i][dstOffset:dstOffset+count], src.Data[srcOffset:srcOffset+count])
	}
}

// fetchBufferList gathers byteCount bytes per channel from the channel
// regions at srcOffset into bl at dstOffset. Channels past the shorter
// of the two lists are ignored.
func fetchBufferList(bl *pcm.BufferList, dstOffset int, channels [][]byte, srcOffset, byteCount int) {
	n := min(len(channels), len(bl.Buffers))
	for i := 0; i < n; i++ {
		dst := &bl.Buffers[i]
		if dstOffset >= dst.ByteLength {
			continue
		}
		count := min(byteCount, dst.ByteLength-dstOffset)
		copy(dst.Data[dstOffset:dstOffset+count], channels[i][srcOffset:srcOffset+count])
	}
}
