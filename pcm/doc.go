// SPDX-License-Identifier: EPL-2.0

// Package pcm describes raw PCM audio layouts and holds per-channel
// sample memory.
//
// This package contains the two value types the ring buffers in
// github.com/ik5/audioring/ring operate on:
//   - Format, a plain description of a PCM stream layout
//   - BufferList, an ordered set of per-channel byte buffers
//
// # Format
//
// A Format describes how samples are laid out in memory:
//
//	format := pcm.Format{
//	    ChannelCount:  2,
//	    BytesPerFrame: 4,     // one float32 sample per channel stream
//	    SampleRate:    48000,
//	    Interleaved:   false,
//	}
//
// For non-interleaved data BytesPerFrame counts the bytes of a single
// frame within one channel stream, so a stereo float32 format has
// BytesPerFrame of 4, not 8. This matches the convention of the ring
// buffers, which store every channel in its own contiguous region.
//
// # BufferList
//
// A BufferList carries one Buffer per channel. Each Buffer has a Data
// slice and a mutable ByteLength. On input ByteLength tells a consumer
// how many bytes are valid; operations that deliver data (for example
// ring buffer reads) overwrite ByteLength with the number of bytes they
// actually produced:
//
//	bl, _ := pcm.NewBufferList(format, 1024)
//	n := rb.Read(bl, 1024, true)
//	// bl.Buffers[ch].ByteLength now holds the delivered byte count
//
// Call ResetByteLengths before reusing a BufferList whose lengths were
// shortened by a previous read.
//
// # go-audio Bridge
//
// The package converts to and from github.com/go-audio/audio types so
// BufferLists can meet the wider Go audio ecosystem. Samples cross the
// bridge as 32-bit little-endian floats, stored non-interleaved:
//
//	fb := &audio.Float32Buffer{Format: format.GoAudio(), Data: samples}
//	frames := bl.CopyFromFloat32Buffer(fb)
package pcm
