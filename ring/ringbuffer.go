// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"math/bits"
	"sync/atomic"
)

const (
	minCapacity = 2
	maxCapacity = int64(1) << 31
)

// nextPowerOfTwo returns the smallest power of two >= x.
// x must be in [2, 2^31].
func nextPowerOfTwo(x uint32) uint32 {
	return 1 << (32 - bits.LeadingZeros32(x-1))
}

// RingBuffer is a lock-free single-producer, single-consumer circular
// byte buffer.
//
// The zero value is unallocated; call Allocate before use. Write and
// AdvanceWritePosition belong to the producer goroutine, Read, Peek and
// AdvanceReadPosition to the consumer goroutine.
type RingBuffer struct {
	buf               []byte
	capacityBytes     uint32
	capacityBytesMask uint32

	// Cursors sit on separate cache lines to avoid false sharing
	// between the producer and consumer.
	writePosition atomic.Uint32
	_             [60]byte
	readPosition  atomic.Uint32
	_             [60]byte
}

// NewRingBuffer returns an allocated RingBuffer with the requested
// capacity rounded up to the next power of two.
func NewRingBuffer(capacityBytes int) (*RingBuffer, error) {
	rb := &RingBuffer{}
	if err := rb.Allocate(capacityBytes); err != nil {
		return nil, err
	}
	return rb, nil
}

// Allocate sets up zeroed storage for at least capacityBytes bytes,
// rounded up to the next power of two. Capacities from 2 to 2^31 are
// supported. Any previous allocation is released first.
//
// Not safe to call concurrently with any other method.
func (rb *RingBuffer) Allocate(capacityBytes int) error {
	if int64(capacityBytes) < minCapacity || int64(capacityBytes) > maxCapacity {
		return ErrCapacityOutOfRange
	}

	rb.Deallocate()

	capacity := nextPowerOfTwo(uint32(capacityBytes))

	rb.buf = make([]byte, capacity)
	rb.capacityBytes = capacity
	rb.capacityBytesMask = capacity - 1

	return nil
}

// Deallocate releases the buffer storage and returns the RingBuffer to
// its unallocated state.
//
// Not safe to call concurrently with any other method.
func (rb *RingBuffer) Deallocate() {
	if rb.buf == nil {
		return
	}

	rb.buf = nil
	rb.capacityBytes = 0
	rb.capacityBytesMask = 0

	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// Reset rewinds both cursors to empty without releasing storage.
//
// Not safe to call concurrently with any other method.
func (rb *RingBuffer) Reset() {
	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// CapacityBytes returns the allocated capacity in bytes. The usable
// capacity is one byte less.
func (rb *RingBuffer) CapacityBytes() int {
	return int(rb.capacityBytes)
}

func (rb *RingBuffer) bytesAvailableToRead(writePosition, readPosition uint32) uint32 {
	if writePosition > readPosition {
		return writePosition - readPosition
	}
	return (writePosition - readPosition + rb.capacityBytes) & rb.capacityBytesMask
}

func (rb *RingBuffer) bytesAvailableToWrite(writePosition, readPosition uint32) uint32 {
	switch {
	case writePosition > readPosition:
		return ((readPosition - writePosition + rb.capacityBytes) & rb.capacityBytesMask) - 1
	case writePosition < readPosition:
		return readPosition - writePosition - 1
	default:
		if rb.capacityBytes == 0 {
			return 0
		}
		return rb.capacityBytes - 1
	}
}

// BytesAvailableToRead returns the number of bytes that may currently
// be read.
func (rb *RingBuffer) BytesAvailableToRead() int {
	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()
	return int(rb.bytesAvailableToRead(writePosition, readPosition))
}

// BytesAvailableToWrite returns the free space currently available for
// writing.
func (rb *RingBuffer) BytesAvailableToWrite() int {
	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()
	return int(rb.bytesAvailableToWrite(writePosition, readPosition))
}

// Read copies up to len(dst) bytes into dst and advances the read
// cursor. When fewer than len(dst) bytes are available the call copies
// what is there if allowPartial is true and nothing otherwise. Returns
// the number of bytes read.
func (rb *RingBuffer) Read(dst []byte, allowPartial bool) int {
	return rb.copyOut(dst, allowPartial, true)
}

// Peek copies like Read but leaves the read cursor unchanged.
func (rb *RingBuffer) Peek(dst []byte, allowPartial bool) int {
	return rb.copyOut(dst, allowPartial, false)
}

func (rb *RingBuffer) copyOut(dst []byte, allowPartial, advance bool) int {
	if len(dst) == 0 || rb.buf == nil {
		return 0
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	bytesAvailable := int(rb.bytesAvailableToRead(writePosition, readPosition))
	if bytesAvailable == 0 || (bytesAvailable < len(dst) && !allowPartial) {
		return 0
	}

	bytesToRead := min(bytesAvailable, len(dst))

	pos := int(readPosition)
	if pos+bytesToRead > len(rb.buf) {
		bytesAfterReadPosition := len(rb.buf) - pos
		copy(dst[:bytesAfterReadPosition], rb.buf[pos:])
		copy(dst[bytesAfterReadPosition:bytesToRead], rb.buf[:bytesToRead-bytesAfterReadPosition])
	} else {
		copy(dst[:bytesToRead], rb.buf[pos:pos+bytesToRead])
	}

	if advance {
		rb.readPosition.Store((readPosition + uint32(bytesToRead)) & rb.capacityBytesMask)
	}

	return bytesToRead
}

// Write copies up to len(src) bytes from src and advances the write
// cursor. When there is room for fewer than len(src) bytes the call
// copies what fits if allowPartial is true and nothing otherwise.
// Returns the number of bytes written.
func (rb *RingBuffer) Write(src []byte, allowPartial bool) int {
	if len(src) == 0 || rb.buf == nil {
		return 0
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	bytesAvailable := int(rb.bytesAvailableToWrite(writePosition, readPosition))
	if bytesAvailable == 0 || (bytesAvailable < len(src) && !allowPartial) {
		return 0
	}

	bytesToWrite := min(bytesAvailable, len(src))

	pos := int(writePosition)
	if pos+bytesToWrite > len(rb.buf) {
		bytesAfterWritePosition := len(rb.buf) - pos
		copy(rb.buf[pos:], src[:bytesAfterWritePosition])
		copy(rb.buf[:bytesToWrite-bytesAfterWritePosition], src[bytesAfterWritePosition:bytesToWrite])
	} else {
		copy(rb.buf[pos:pos+bytesToWrite], src[:bytesToWrite])
	}

	rb.writePosition.Store((writePosition + uint32(bytesToWrite)) & rb.capacityBytesMask)

	return bytesToWrite
}

// AdvanceReadPosition moves the read cursor forward byteCount bytes
// without copying. Pair with ReadVector for zero-copy consumption.
func (rb *RingBuffer) AdvanceReadPosition(byteCount int) {
	rb.readPosition.Store((rb.readPosition.Load() + uint32(byteCount)) & rb.capacityBytesMask)
}

// AdvanceWritePosition moves the write cursor forward byteCount bytes
// without copying. Pair with WriteVector for zero-copy production.
func (rb *RingBuffer) AdvanceWritePosition(byteCount int) {
	rb.writePosition.Store((rb.writePosition.Load() + uint32(byteCount)) & rb.capacityBytesMask)
}

// ReadVector returns the currently readable data as up to two
// contiguous subslices. second is non-nil only when the readable
// region wraps past the end of storage.
func (rb *RingBuffer) ReadVector() (first, second []byte) {
	if rb.buf == nil {
		return nil, nil
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	bytesAvailable := rb.bytesAvailableToRead(writePosition, readPosition)
	endOfRead := readPosition + bytesAvailable

	if endOfRead > rb.capacityBytes {
		return rb.buf[readPosition:], rb.buf[:endOfRead&rb.capacityBytesMask]
	}
	return rb.buf[readPosition:endOfRead], nil
}

// WriteVector returns the currently writable space as up to two
// contiguous subslices. second is non-nil only when the writable
// region wraps past the end of storage.
func (rb *RingBuffer) WriteVector() (first, second []byte) {
	if rb.buf == nil {
		return nil, nil
	}

	writePosition := rb.writePosition.Load()
	readPosition := rb.readPosition.Load()

	bytesAvailable := rb.bytesAvailableToWrite(writePosition, readPosition)
	endOfWrite := writePosition + bytesAvailable

	if endOfWrite > rb.capacityBytes {
		return rb.buf[writePosition:], rb.buf[:endOfWrite&rb.capacityBytesMask]
	}
	return rb.buf[writePosition:endOfWrite], nil
}
