// SPDX-License-Identifier: EPL-2.0

package ring

import (
	"bytes"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ik5/audioring/internal/audiotest"
	"github.com/ik5/audioring/pcm"
)

func monoFormat() pcm.Format {
	return pcm.Format{ChannelCount: 1, BytesPerFrame: 1, SampleRate: 8000}
}

func mustTimestamped(t *testing.T, format pcm.Format, capacityFrames int) *TimestampedRingBuffer {
	t.Helper()
	rb, err := NewTimestampedRingBuffer(format, capacityFrames)
	if err != nil {
		t.Fatal(err)
	}
	return rb
}

func readFrames(t *testing.T, rb *TimestampedRingBuffer, frameCount int, startRead int64) *pcm.BufferList {
	t.Helper()
	format := rb.Format()
	out := audiotest.BufferListFromBytes(make([]byte, frameCount*format.BytesPerFrame))
	if !rb.Read(out, frameCount, startRead) {
		t.Fatalf("Read(%d, %d) failed", frameCount, startRead)
	}
	return out
}

func TestTimestampedRingBuffer_EmptyBounds(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 64)

	start, end, ok := rb.GetTimeBounds()
	if !ok || start != 0 || end != 0 {
		t.Errorf("GetTimeBounds = (%d, %d, %v), want (0, 0, true)", start, end, ok)
	}
}

func TestTimestampedRingBuffer_WritePublishesBounds(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 128)

	in := audiotest.BufferListFromBytes(audiotest.SequenceBytes(1, 100))
	if !rb.Write(in, 100, 1000) {
		t.Fatal("Write failed")
	}

	start, end, ok := rb.GetTimeBounds()
	if !ok {
		t.Fatal("GetTimeBounds failed")
	}
	// The start bound trails the end by at most one capacity: the
	// initial write at 1000 leaves [972, 1100) valid, with the gap
	// before 1000 zeroed in storage.
	if start != 972 || end != 1100 {
		t.Errorf("bounds = (%d, %d), want (972, 1100)", start, end)
	}
}

func TestTimestampedRingBuffer_ClampBehavior(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 128)

	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i + 1) // nonzero so silence is distinguishable
	}
	if !rb.Write(audiotest.BufferListFromBytes(data), 100, 1000) {
		t.Fatal("Write failed")
	}

	t.Run("fully inside", func(t *testing.T) {
		out := readFrames(t, rb, 50, 1050)
		if !bytes.Equal(out.Buffers[0].Data[:50], data[50:100]) {
			t.Errorf("got %v, want %v", out.Buffers[0].Data[:50], data[50:100])
		}
		if got := out.Buffers[0].ByteLength; got != 50 {
			t.Errorf("ByteLength = %d, want 50", got)
		}
	})

	t.Run("entirely past the end", func(t *testing.T) {
		out := readFrames(t, rb, 50, 2000)
		for i, b := range out.Buffers[0].Data {
			if b != 0 {
				t.Fatalf("expected silence, byte %d = %d", i, b)
			}
		}
	})

	t.Run("straddling the start", func(t *testing.T) {
		// Nothing was written before frame 1000; 980..999 must be
		// zeros (the zeroed gap), 1000..1029 real data.
		out := readFrames(t, rb, 50, 980)
		for i := 0; i < 20; i++ {
			if out.Buffers[0].Data[i] != 0 {
				t.Fatalf("leading byte %d = %d, want 0", i, out.Buffers[0].Data[i])
			}
		}
		if !bytes.Equal(out.Buffers[0].Data[20:50], data[:30]) {
			t.Errorf("got %v, want %v", out.Buffers[0].Data[20:50], data[:30])
		}
	})

	t.Run("straddling the valid start bound", func(t *testing.T) {
		// The published start is 972; frames before it clamp away and
		// the delivered span shrinks accordingly.
		out := readFrames(t, rb, 50, 950)
		for i := 0; i < 22; i++ {
			if out.Buffers[0].Data[i] != 0 {
				t.Fatalf("leading byte %d = %d, want 0", i, out.Buffers[0].Data[i])
			}
		}
		if got := out.Buffers[0].ByteLength; got != 28 {
			t.Errorf("ByteLength = %d, want 28 (clamped span)", got)
		}
	})

	t.Run("straddling the end", func(t *testing.T) {
		out := readFrames(t, rb, 50, 1080)
		if !bytes.Equal(out.Buffers[0].Data[:20], data[80:100]) {
			t.Errorf("got %v, want %v", out.Buffers[0].Data[:20], data[80:100])
		}
		for i := 20; i < 50; i++ {
			if out.Buffers[0].Data[i] != 0 {
				t.Fatalf("trailing byte %d = %d, want 0", i, out.Buffers[0].Data[i])
			}
		}
	})
}

func TestTimestampedRingBuffer_RewindDiscards(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 128)

	nonzero := make([]byte, 64)
	for i := range nonzero {
		nonzero[i] = 0xAA
	}

	if !rb.Write(audiotest.BufferListFromBytes(nonzero), 64, 1000) {
		t.Fatal("first Write failed")
	}
	if !rb.Write(audiotest.BufferListFromBytes(nonzero[:32]), 32, 500) {
		t.Fatal("rewinding Write failed")
	}

	start, end, ok := rb.GetTimeBounds()
	if !ok {
		t.Fatal("GetTimeBounds failed")
	}
	if start != 500 || end != 532 {
		t.Errorf("bounds after rewind = (%d, %d), want (500, 532)", start, end)
	}

	// The 1000-region is no longer claimed as valid even though its
	// bytes are still physically present.
	out := readFrames(t, rb, 32, 1000)
	for i, b := range out.Buffers[0].Data {
		if b != 0 {
			t.Fatalf("stale data visible after rewind: byte %d = %d", i, b)
		}
	}
}

func TestTimestampedRingBuffer_GapIsZeroed(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 64)

	nonzero := make([]byte, 16)
	for i := range nonzero {
		nonzero[i] = 0xBB
	}

	if !rb.Write(audiotest.BufferListFromBytes(nonzero), 16, 0) {
		t.Fatal("first Write failed")
	}
	// Skip frames 16..39, leaving old bytes physically in that range.
	if !rb.Write(audiotest.BufferListFromBytes(nonzero), 16, 40) {
		t.Fatal("gapped Write failed")
	}

	out := readFrames(t, rb, 24, 16)
	for i, b := range out.Buffers[0].Data {
		if b != 0 {
			t.Fatalf("gap byte %d = %d, want 0", i, b)
		}
	}
}

func TestTimestampedRingBuffer_AdvancesStartPastOverwrite(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 64)

	chunk := audiotest.BufferListFromBytes(audiotest.SequenceBytes(0, 32))
	for i := int64(0); i < 8; i++ {
		if !rb.Write(chunk, 32, i*32) {
			t.Fatalf("Write %d failed", i)
		}
	}

	start, end, ok := rb.GetTimeBounds()
	if !ok {
		t.Fatal("GetTimeBounds failed")
	}
	if end != 256 {
		t.Errorf("end = %d, want 256", end)
	}
	// One capacity's worth of history is retained.
	if start != end-64 {
		t.Errorf("start = %d, want %d", start, end-64)
	}
}

func TestTimestampedRingBuffer_ArgumentRejections(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 64)
	bl := audiotest.BufferListFromBytes(make([]byte, 128))

	if rb.Write(nil, 10, 0) {
		t.Error("Write(nil) succeeded")
	}
	if rb.Write(bl, 65, 0) {
		t.Error("Write with frameCount > capacity succeeded")
	}
	if rb.Write(bl, 10, -1) {
		t.Error("Write with negative startWrite succeeded")
	}
	if !rb.Write(bl, 0, 0) {
		t.Error("Write with frameCount 0 failed")
	}

	if rb.Read(nil, 10, 0) {
		t.Error("Read(nil) succeeded")
	}
	if rb.Read(bl, 65, 0) {
		t.Error("Read with frameCount > capacity succeeded")
	}
	if rb.Read(bl, 10, -1) {
		t.Error("Read with negative startRead succeeded")
	}
	if !rb.Read(bl, 0, 0) {
		t.Error("Read with frameCount 0 failed")
	}
}

func TestTimestampedRingBuffer_MultiChannel(t *testing.T) {
	t.Parallel()

	format := pcm.Format{ChannelCount: 2, BytesPerFrame: 2, SampleRate: 48000}
	rb := mustTimestamped(t, format, 64)

	left := audiotest.SequenceBytes(1, 40)
	right := audiotest.SequenceBytes(101, 40)
	if !rb.Write(audiotest.BufferListFromBytes(left, right), 20, 100) {
		t.Fatal("Write failed")
	}

	out := audiotest.BufferListFromBytes(make([]byte, 20), make([]byte, 20))
	if !rb.Read(out, 10, 105) {
		t.Fatal("Read failed")
	}
	if !bytes.Equal(out.Buffers[0].Data, left[10:30]) {
		t.Errorf("left = %v, want %v", out.Buffers[0].Data, left[10:30])
	}
	if !bytes.Equal(out.Buffers[1].Data, right[10:30]) {
		t.Errorf("right = %v, want %v", out.Buffers[1].Data, right[10:30])
	}
}

func TestTimestampedRingBuffer_WrapAcrossCapacity(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 16)

	// Write a window that straddles the physical wrap boundary.
	data := audiotest.SequenceBytes(1, 10)
	if !rb.Write(audiotest.BufferListFromBytes(data), 10, 12) {
		t.Fatal("Write failed")
	}

	out := readFrames(t, rb, 10, 12)
	if !bytes.Equal(out.Buffers[0].Data, data) {
		t.Errorf("got %v, want %v", out.Buffers[0].Data, data)
	}
}

func TestTimestampedRingBuffer_ConcurrentSPSC(t *testing.T) {
	t.Parallel()

	rb := mustTimestamped(t, monoFormat(), 256)

	const totalFrames = 1 << 15

	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer done.Store(true)
		rng := rand.New(rand.NewSource(7))
		var position int64
		for position < totalFrames {
			frames := 1 + rng.Intn(64)
			chunk := audiotest.BufferListFromBytes(audiotest.SequenceBytes(int(position), frames))
			if !rb.Write(chunk, frames, position) {
				t.Errorf("Write(%d, %d) failed", frames, position)
				return
			}
			position += int64(frames)
		}
	}()

	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(8))
		var lastEnd int64
		out := audiotest.BufferListFromBytes(make([]byte, 64))
		for !done.Load() {
			start, end, ok := rb.GetTimeBounds()
			if !ok {
				continue
			}
			if end < lastEnd {
				t.Errorf("end time went backwards: %d -> %d", lastEnd, end)
				return
			}
			lastEnd = end
			if end-start <= 0 {
				continue
			}

			frames := 1 + rng.Intn(64)
			out.ResetByteLengths()
			readStart := end - int64(frames)
			if readStart < 0 {
				readStart = 0
			}
			if !rb.Read(out, frames, readStart) {
				// A torn bounds read under contention is allowed;
				// re-poll and retry.
				continue
			}
		}
	}()

	wg.Wait()
}
