// SPDX-License-Identifier: EPL-2.0

// Package ring provides lock-free single-producer, single-consumer
// ring buffers for realtime audio.
//
// The package contains three progressively richer buffers:
//   - RingBuffer, a fixed-capacity circular byte buffer
//   - AudioRingBuffer, the same cursor protocol over per-channel
//     non-interleaved sample regions, counted in frames
//   - TimestampedRingBuffer, channel storage addressed by an absolute
//     sample-frame time axis with lock-free bounds publication
//
// # Threading Model
//
// Every buffer is safe for exactly one producer goroutine and one
// consumer goroutine running concurrently. The producer side owns
// Write and AdvanceWritePosition; the consumer side owns Read, Peek
// and AdvanceReadPosition. Calling either side from more than one
// goroutine is unsupported. Allocate, Deallocate and Reset are not
// safe to call concurrently with any other operation and must only
// run while both sides are quiescent.
//
// Coordination uses atomic cursor loads and stores only. No operation
// blocks, sleeps or allocates after Allocate, which makes the buffers
// usable from hard-realtime callbacks.
//
// # Capacity
//
// Requested capacities are rounded up to the next power of two so
// wraparound is a bitmask operation. One slot is always kept unused to
// distinguish empty from full, so the usable capacity is the rounded
// capacity minus one.
//
// # Failure Model
//
// Hot-path operations never return errors and never panic. Read and
// Write report the byte or frame count actually transferred, with 0
// meaning nothing happened; the timestamped variant reports a plain
// bool. Only Allocate, which runs during setup, returns an error.
//
// # Byte Buffer
//
//	var rb ring.RingBuffer
//	if err := rb.Allocate(4096); err != nil { ... }
//	n := rb.Write(data, true)   // producer goroutine
//	n = rb.Read(out, true)      // consumer goroutine
//
// ReadVector and WriteVector expose the readable and writable regions
// as subslices for zero-copy use, paired with AdvanceReadPosition and
// AdvanceWritePosition.
//
// # Timestamped Buffer
//
// TimestampedRingBuffer addresses data by absolute frame position.
// Writers state where their data begins; readers state what window
// they want and receive silence for any part of it that falls outside
// the published bounds:
//
//	trb.Write(bl, 512, 1000)                  // frames 1000..1511
//	start, end, ok := trb.GetTimeBounds()
//	trb.Read(out, 512, 900)                   // zeros for 900..999
package ring
