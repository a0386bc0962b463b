// SPDX-License-Identifier: EPL-2.0

package bytestream

import "encoding/binary"

// ByteStream provides heterogeneous typed access to an untyped byte
// buffer through an advancing read position.
//
// All read methods use sentinel returns: a false ok or a zero count
// means there were not enough bytes remaining, and the read position is
// left unchanged. The zero value is an empty stream.
type ByteStream struct {
	buf []byte
	pos int
}

// New returns a ByteStream reading from buf with the position at 0.
// The stream aliases buf; it does not copy.
func New(buf []byte) *ByteStream {
	return &ByteStream{buf: buf}
}

// Length returns the total length of the underlying buffer.
func (s *ByteStream) Length() int {
	return len(s.buf)
}

// Position returns the current read position.
func (s *ByteStream) Position() int {
	return s.pos
}

// SetPosition moves the read position. Returns false and leaves the
// position unchanged when pos is out of range.
func (s *ByteStream) SetPosition(pos int) bool {
	if pos < 0 || pos > len(s.buf) {
		return false
	}
	s.pos = pos
	return true
}

// Remaining returns the number of unread bytes.
func (s *ByteStream) Remaining() int {
	return len(s.buf) - s.pos
}

// Rewind moves the read position back to 0.
func (s *ByteStream) Rewind() {
	s.pos = 0
}

// Skip advances the read position by up to byteCount bytes and returns
// the number of bytes actually skipped.
func (s *ByteStream) Skip(byteCount int) int {
	if byteCount < 0 {
		return 0
	}
	n := min(byteCount, s.Remaining())
	s.pos += n
	return n
}

// Read copies up to len(dst) bytes into dst, advances the read position
// and returns the number of bytes copied.
func (s *ByteStream) Read(dst []byte) int {
	n := copy(dst, s.buf[s.pos:])
	s.pos += n
	return n
}

func (s *ByteStream) take(n int) ([]byte, bool) {
	if s.Remaining() < n {
		return nil, false
	}
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b, true
}

// ReadUint8 reads one byte.
func (s *ByteStream) ReadUint8() (uint8, bool) {
	b, ok := s.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// ReadUint16 reads a host-order uint16.
func (s *ByteStream) ReadUint16() (uint16, bool) {
	b, ok := s.take(2)
	if !ok {
		return 0, false
	}
	return binary.NativeEndian.Uint16(b), true
}

// ReadUint32 reads a host-order uint32.
func (s *ByteStream) ReadUint32() (uint32, bool) {
	b, ok := s.take(4)
	if !ok {
		return 0, false
	}
	return binary.NativeEndian.Uint32(b), true
}

// ReadUint64 reads a host-order uint64.
func (s *ByteStream) ReadUint64() (uint64, bool) {
	b, ok := s.take(8)
	if !ok {
		return 0, false
	}
	return binary.NativeEndian.Uint64(b), true
}

// ReadUint16LE reads a little-endian uint16.
func (s *ByteStream) ReadUint16LE() (uint16, bool) {
	b, ok := s.take(2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

// ReadUint16BE reads a big-endian uint16.
func (s *ByteStream) ReadUint16BE() (uint16, bool) {
	b, ok := s.take(2)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint16(b), true
}

// ReadUint32LE reads a little-endian uint32.
func (s *ByteStream) ReadUint32LE() (uint32, bool) {
	b, ok := s.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// ReadUint32BE reads a big-endian uint32.
func (s *ByteStream) ReadUint32BE() (uint32, bool) {
	b, ok := s.take(4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(b), true
}

// ReadUint64LE reads a little-endian uint64.
func (s *ByteStream) ReadUint64LE() (uint64, bool) {
	b, ok := s.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// ReadUint64BE reads a big-endian uint64.
func (s *ByteStream) ReadUint64BE() (uint64, bool) {
	b, ok := s.take(8)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint64(b), true
}
