// SPDX-License-Identifier: EPL-2.0

// Package bytestream reads typed values from an untyped byte buffer.
//
// A ByteStream wraps a byte slice with an advancing read position and
// decodes fixed-width integers in either byte order:
//
//	s := bytestream.New(header)
//	magic, ok := s.ReadUint32BE()
//	if !ok || magic != expectedMagic {
//	    return ErrBadHeader
//	}
//	s.Skip(4)
//	length, _ := s.ReadUint32LE()
//
// Reads past the end of the buffer return a false ok value and leave
// the position unchanged, so a parse can be validated once at the end
// rather than after every field. The package pairs naturally with
// ring.RingBuffer's Peek and ReadVector for decoding framed data out
// of a ring without extra copies.
package bytestream
