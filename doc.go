// SPDX-License-Identifier: EPL-2.0

// Package audioring provides lock-free single-producer, single-consumer
// ring buffers for realtime audio, together with the PCM value types
// they operate on and adapters for feeding and draining them.
//
// # Layout
//
// The module is organized leaf to root:
//   - ring holds the three ring buffers: a byte RingBuffer, a
//     frame-counted multichannel AudioRingBuffer, and a
//     TimestampedRingBuffer addressed by absolute frame position
//   - pcm holds the Format descriptor and per-channel BufferList the
//     ring buffers consume, plus a bridge to github.com/go-audio/audio
//   - source decodes WAV, AIFF, MP3 and Ogg Vorbis streams into
//     non-interleaved float32 frames
//   - bytestream reads typed values from untyped byte buffers
//
// This root package adds conveniences that tie them together.
//
// # Quick Start
//
// Decode a file into an audio ring buffer and drain it back out as a
// 16-bit WAV:
//
//	src, err := source.OpenWAV(f)
//	if err != nil { ... }
//	defer src.Close()
//
//	var rb ring.AudioRingBuffer
//	if err := rb.Allocate(src.Format(), 1<<16); err != nil { ... }
//
//	if _, err := audioring.Fill(&rb, src, 1024); err != nil { ... }
//	if _, err := audioring.WriteWAV16(out, &rb, 1024); err != nil { ... }
//
// # Realtime Use
//
// The ring buffers never block, sleep or allocate after setup, making
// them safe to call from audio callbacks. The conveniences in this
// package are for the non-realtime side: preloading, capture and
// draining to disk. See the ring package documentation for the
// threading rules.
package audioring
