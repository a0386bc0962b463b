// SPDX-License-Identifier: EPL-2.0

package bytestream

import (
	"bytes"
	"testing"
)

func TestByteStream_TypedReads(t *testing.T) {
	t.Parallel()

	// A RIFF-style header fragment: tag, LE chunk size, BE sample.
	s := New([]byte{
		'R', 'I', 'F', 'F',
		0x24, 0x08, 0x00, 0x00, // 2084 LE
		0x12, 0x34, // 0x1234 BE
		0xEF, 0xCD, // 0xCDEF LE
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	})

	tag := make([]byte, 4)
	if n := s.Read(tag); n != 4 || !bytes.Equal(tag, []byte("RIFF")) {
		t.Fatalf("Read tag = %d %q", n, tag)
	}
	if v, ok := s.ReadUint32LE(); !ok || v != 2084 {
		t.Errorf("ReadUint32LE = %d, %v", v, ok)
	}
	if v, ok := s.ReadUint16BE(); !ok || v != 0x1234 {
		t.Errorf("ReadUint16BE = %#x, %v", v, ok)
	}
	if v, ok := s.ReadUint16LE(); !ok || v != 0xCDEF {
		t.Errorf("ReadUint16LE = %#x, %v", v, ok)
	}
	if v, ok := s.ReadUint64LE(); !ok || v != 0x0807060504030201 {
		t.Errorf("ReadUint64LE = %#x, %v", v, ok)
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestByteStream_BigEndianWideReads(t *testing.T) {
	t.Parallel()

	s := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	if v, ok := s.ReadUint32BE(); !ok || v != 0x01020304 {
		t.Errorf("ReadUint32BE = %#x, %v", v, ok)
	}
	s.Rewind()
	if v, ok := s.ReadUint64BE(); !ok || v != 0x0102030405060708 {
		t.Errorf("ReadUint64BE = %#x, %v", v, ok)
	}
}

func TestByteStream_ShortReadLeavesPosition(t *testing.T) {
	t.Parallel()

	s := New([]byte{0xAA, 0xBB, 0xCC})

	if _, ok := s.ReadUint32LE(); ok {
		t.Error("ReadUint32LE succeeded with 3 bytes")
	}
	if s.Position() != 0 {
		t.Errorf("position moved on failed read: %d", s.Position())
	}

	if v, ok := s.ReadUint16LE(); !ok || v != 0xBBAA {
		t.Errorf("ReadUint16LE = %#x, %v", v, ok)
	}
	if _, ok := s.ReadUint16LE(); ok {
		t.Error("ReadUint16LE succeeded with 1 byte left")
	}
	if v, ok := s.ReadUint8(); !ok || v != 0xCC {
		t.Errorf("ReadUint8 = %#x, %v", v, ok)
	}
}

func TestByteStream_HostOrderReads(t *testing.T) {
	t.Parallel()

	// Host-order reads agree with one of the explicit-order variants.
	raw := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	s := New(raw)
	v16, ok := s.ReadUint16()
	if !ok {
		t.Fatal("ReadUint16 failed")
	}
	s.Rewind()
	le16, _ := s.ReadUint16LE()
	s.Rewind()
	be16, _ := s.ReadUint16BE()
	if v16 != le16 && v16 != be16 {
		t.Errorf("ReadUint16 = %#x, want %#x or %#x", v16, le16, be16)
	}

	s.Rewind()
	if _, ok := s.ReadUint32(); !ok {
		t.Error("ReadUint32 failed")
	}
	s.Rewind()
	if _, ok := s.ReadUint64(); !ok {
		t.Error("ReadUint64 failed")
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestByteStream_Positioning(t *testing.T) {
	t.Parallel()

	s := New([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	if got := s.Length(); got != 8 {
		t.Errorf("Length = %d, want 8", got)
	}
	if n := s.Skip(3); n != 3 {
		t.Errorf("Skip(3) = %d", n)
	}
	if v, _ := s.ReadUint8(); v != 3 {
		t.Errorf("byte after skip = %d, want 3", v)
	}

	// Skipping past the end clamps.
	if n := s.Skip(100); n != 4 {
		t.Errorf("Skip(100) = %d, want 4", n)
	}
	if n := s.Skip(-1); n != 0 {
		t.Errorf("Skip(-1) = %d, want 0", n)
	}

	if !s.SetPosition(8) {
		t.Error("SetPosition(len) rejected")
	}
	if s.SetPosition(9) || s.SetPosition(-1) {
		t.Error("out-of-range SetPosition accepted")
	}

	s.Rewind()
	if s.Position() != 0 || s.Remaining() != 8 {
		t.Errorf("after Rewind: pos %d remaining %d", s.Position(), s.Remaining())
	}
}

func TestByteStream_ZeroValue(t *testing.T) {
	t.Parallel()

	var s ByteStream
	if s.Length() != 0 || s.Remaining() != 0 {
		t.Error("zero value not empty")
	}
	if _, ok := s.ReadUint8(); ok {
		t.Error("read from empty stream succeeded")
	}
	if n := s.Read(make([]byte, 4)); n != 0 {
		t.Errorf("Read from empty stream = %d", n)
	}
}
