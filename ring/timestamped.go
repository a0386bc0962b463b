// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"sync/atomic"

	"github.com/ik5/audioring/pcm"
)

const (
	timeBoundsQueueSize    = 8
	timeBoundsQueueMask    = timeBoundsQueueSize - 1
	timeBoundsReadAttempts = 8
)

// timeBounds is one slot of the bounds publication queue. The writer
// fills startTime and endTime, then publishes updateCounter; a reader
// that observes a matching counter may trust the pair.
type timeBounds struct {
	startTime     atomic.Int64
	endTime       atomic.Int64
	updateCounter atomic.Uint64
}

// TimestampedRingBuffer stores non-interleaved audio addressed by an
// absolute sample-frame position. Writers state the frame at which
// their data begins; readers request an arbitrary frame window and
// receive silence for any portion outside the currently valid bounds.
//
// Like the other buffers in this package it supports exactly one
// producer goroutine (Write) and one consumer goroutine (Read,
// GetTimeBounds). The zero value is unallocated; call Allocate before
// use.
type TimestampedRingBuffer struct {
	format             pcm.Format
	channels           [][]byte
	capacityFrames     uint32
	capacityFramesMask uint32

	boundsQueue        [timeBoundsQueueSize]timeBounds
	boundsQueueCounter atomic.Uint64
}

// NewTimestampedRingBuffer returns an allocated TimestampedRingBuffer
// for the given format with the requested frame capacity rounded up to
// the next power of two.
func NewTimestampedRingBuffer(format pcm.Format, capacityFrames int) (*TimestampedRingBuffer, error) {
	rb := &TimestampedRingBuffer{}
	if err := rb.Allocate(format, capacityFrames); err != nil {
		return nil, err
	}
	return rb, nil
}

// Allocate sets up zeroed storage for at least capacityFrames frames of
// the given format, rounded up to the next power of two, and clears the
// time bounds. Only non-interleaved formats are supported. Any previous
// allocation is released first.
//
// Not safe to call concurrently with any other method.
func (rb *TimestampedRingBuffer) Allocate(format pcm.Format, capacityFrames int) error {
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

	backing := make([]byte, capacityBytes*format.ChannelCount)

	rb.format = format
	rb.capacityFrames = capacity
	rb.capacityFramesMask = capacity - 1

	rb.channels = make([][]byte, format.ChannelCount)
	for i := range rb.channels {
		rb.channels[i] = backing[i*capacityBytes : (i+1)*capacityBytes : (i+1)*capacityBytes]
	}

	rb.resetTimeBounds()

	return nil
}

// Deallocate releases the channel storage, clears the time bounds and
// returns the buffer to its unallocated state.
//
// Not safe to call concurrently with any other method.
func (rb *TimestampedRingBuffer) Deallocate() {
	if rb.channels == nil {
		return
	}

	rb.channels = nil
	rb.format.Reset()
	rb.capacityFrames = 0
	rb.capacityFramesMask = 0

	rb.resetTimeBounds()
}

// Reset clears the time bounds and zeroes the storage without releasing
// it.
//
// Not safe to call concurrently with any other method.
func (rb *TimestampedRingBuffer) Reset() {
	for i := range rb.channels {
		clear(rb.channels[i])
	}
	rb.resetTimeBounds()
}

func (rb *TimestampedRingBuffer) resetTimeBounds() {
	for i := range rb.boundsQueue {
		rb.boundsQueue[i].startTime.Store(0)
		rb.boundsQueue[i].endTime.Store(0)
		rb.boundsQueue[i].updateCounter.Store(0)
	}
	rb.boundsQueueCounter.Store(0)
}

// Format returns the format the buffer was allocated with.
func (rb *TimestampedRingBuffer) Format() pcm.Format {
	return rb.format
}

// CapacityFrames returns the allocated capacity in frames.
func (rb *TimestampedRingBuffer) CapacityFrames() int {
	return int(rb.capacityFrames)
}

// GetTimeBounds returns the frame window [startTime, endTime) currently
// holding valid data. ok is false when every retry observed a bounds
// slot mid-update; callers should simply poll again.
func (rb *TimestampedRingBuffer) GetTimeBounds() (startTime, endTime int64, ok bool) {
	for i := 0; i < timeBoundsReadAttempts; i++ {
		currentCounter := rb.boundsQueueCounter.Load()
		bounds := &rb.boundsQueue[currentCounter&timeBoundsQueueMask]

		if bounds.updateCounter.Load() == currentCounter {
			return bounds.startTime.Load(), bounds.endTime.Load(), true
		}
	}

	return 0, 0, false
}

// setTimeBounds publishes a new bounds pair. Writer goroutine only.
func (rb *TimestampedRingBuffer) setTimeBounds(startTime, endTime int64) {
	nextCounter := rb.boundsQueueCounter.Load() + 1
	bounds := &rb.boundsQueue[nextCounter&timeBoundsQueueMask]

	bounds.startTime.Store(startTime)
	bounds.endTime.Store(endTime)
	bounds.updateCounter.Store(nextCounter)

	rb.boundsQueueCounter.Store(nextCounter)
}

// startTime returns the current start bound. Coherent only on the
// writer goroutine, which is the sole mutator of the queue.
func (rb *TimestampedRingBuffer) startTime() int64 {
	return rb.boundsQueue[rb.boundsQueueCounter.Load()&timeBoundsQueueMask].startTime.Load()
}

// endTime returns the current end bound. Writer goroutine only.
func (rb *TimestampedRingBuffer) endTime() int64 {
	return rb.boundsQueue[rb.boundsQueueCounter.Load()&timeBoundsQueueMask].endTime.Load()
}

// clampTimesToBounds intersects the requested window with the published
// bounds. A window entirely outside the bounds collapses to an empty
// window at startRead, which is not a failure.
func (rb *TimestampedRingBuffer) clampTimesToBounds(startRead, endRead int64) (clampedStart, clampedEnd int64, ok bool) {
	startTime, endTime, ok := rb.GetTimeBounds()
	if !ok {
		return 0, 0, false
	}

	if startRead > endTime || endRead < startTime {
		return startRead, startRead, true
	}

	clampedStart = max(startRead, startTime)
	clampedEnd = max(min(endRead, endTime), clampedStart)

	return clampedStart, clampedEnd, true
}

// frameByteOffset maps an absolute frame position to its byte offset
// within each channel region.
func (rb *TimestampedRingBuffer) frameByteOffset(frame int64) int {
	return int(frame&int64(rb.capacityFramesMask)) * rb.format.BytesPerFrame
}

// zeroRange zeroes byteCount bytes starting at byteOffset in every
// channel region.
func zeroRange(channels [][]byte, byteOffset, byteCount int) {
	for i := range channels {
		clear(channels[i][byteOffset : byteOffset+byteCount])
	}
}

// Write stores frameCount frames from bl beginning at absolute frame
// position startWrite and publishes the new bounds. A startWrite
// earlier than the current end time rewinds the buffer and discards the
// entire previously valid range. A startWrite past the current end time
// zeroes the skipped region so reads of the gap return silence.
//
// Returns false for a nil buffer list, a negative startWrite or a
// frameCount exceeding the capacity. Writer goroutine only.
func (rb *TimestampedRingBuffer) Write(bl *pcm.BufferList, frameCount int, startWrite int64) bool {
	if frameCount == 0 {
		return true
	}
	if bl == nil || rb.channels == nil || frameCount < 0 || int64(frameCount) > int64(rb.capacityFrames) || startWrite < 0 {
		return false
	}

	endWrite := startWrite + int64(frameCount)

	switch {
	case startWrite < rb.endTime():
		// Going backwards, throw everything out.
		rb.setTimeBounds(startWrite, startWrite)
	case endWrite-rb.startTime() <= int64(rb.capacityFrames):
		// The buffer has not yet wrapped and will not need to.
	default:
		// Advance the start time past the region about to be
		// overwritten, keeping one buffer of history behind the write
		// position.
		newStart := endWrite - int64(rb.capacityFrames)
		newEnd := max(newStart, rb.endTime())
		rb.setTimeBounds(newStart, newEnd)
	}

	capacityBytes := int(rb.capacityFrames) * rb.format.BytesPerFrame

	var offset0, offset1 int
	curEnd := rb.endTime()

	if startWrite > curEnd {
		// Zero the range of frames being skipped.
		offset0 = rb.frameByteOffset(curEnd)
		offset1 = rb.frameByteOffset(startWrite)
		if offset0 < offset1 {
			zeroRange(rb.channels, offset0, offset1-offset0)
		} else {
			zeroRange(rb.channels, offset0, capacityBytes-offset0)
			zeroRange(rb.channels, 0, offset1)
		}
		offset0 = offset1
	} else {
		offset0 = rb.frameByteOffset(startWrite)
	}

	offset1 = rb.frameByteOffset(endWrite)
	if offset0 < offset1 {
		storeBufferList(rb.channels, offset0, bl, 0, offset1-offset0)
	} else {
		byteCount := capacityBytes - offset0
		storeBufferList(rb.channels, offset0, bl, 0, byteCount)
		storeBufferList(rb.channels, 0, bl, byteCount, offset1)
	}

	rb.setTimeBounds(rb.startTime(), endWrite)

	return true
}

// Read copies the frame window [startRead, startRead+frameCount) into
// bl. The window is clamped to the published bounds; any leading or
// trailing frames outside the bounds are zero-filled in the output, and
// a window entirely outside the bounds yields all zeros with a true
// result. Each buffer's ByteLength is set to the bytes spanned by the
// clamped window.
//
// Returns false for a nil buffer list, a negative startRead, a
// frameCount exceeding the capacity, or when the bounds could not be
// read consistently. Consumer goroutine only.
func (rb *TimestampedRingBuffer) Read(bl *pcm.BufferList, frameCount int, startRead int64) bool {
	if frameCount == 0 {
		return true
	}
	if bl == nil || rb.channels == nil || frameCount < 0 || int64(frameCount) > int64(rb.capacityFrames) || startRead < 0 {
		return false
	}

	requestedStart := startRead
	requestedEnd := startRead + int64(frameCount)

	clampedStart, clampedEnd, ok := rb.clampTimesToBounds(requestedStart, requestedEnd)
	if !ok {
		return false
	}

	bytesPerFrame := rb.format.BytesPerFrame

	if clampedStart == clampedEnd {
		bl.ZeroRange(0, frameCount*bytesPerFrame)
		return true
	}

	byteSize := int(clampedEnd-clampedStart) * bytesPerFrame

	// Zero the leading frames preceding the valid bounds.
	leadingByteOffset := int(max(0, clampedStart-requestedStart)) * bytesPerFrame
	if leadingByteOffset > 0 {
		bl.ZeroRange(0, min(frameCount*bytesPerFrame, leadingByteOffset))
	}

	// Zero the trailing frames following the valid bounds.
	trailingFrames := int(max(0, requestedEnd-clampedEnd))
	if trailingFrames > 0 {
		bl.ZeroRange(leadingByteOffset+byteSize, trailingFrames*bytesPerFrame)
	}

	capacityBytes := int(rb.capacityFrames) * bytesPerFrame

	offset0 := rb.frameByteOffset(clampedStart)
	offset1 := rb.frameByteOffset(clampedEnd)

	var byteCount int
	if offset0 < offset1 {
		byteCount = offset1 - offset0
		fetchBufferList(bl, leadingByteOffset, rb.channels, offset0, byteCount)
	} else {
		byteCount = capacityBytes - offset0
		fetchBufferList(bl, leadingByteOffset, rb.channels, offset0, byteCount)
		fetchBufferList(bl, leadingByteOffset+byteCount, rb.channels, 0, offset1)
		byteCount += offset1
	}

	bl.SetByteLengths(byteCount)

	return true
}
