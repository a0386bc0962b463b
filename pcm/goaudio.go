// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"math"

	goaudio "github.com/go-audio/audio"
)

// GoAudio converts the format to its go-audio equivalent. Layout
// details (byte size, interleaving) have no counterpart there and are
// dropped.
func (f Format) GoAudio() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: f.ChannelCount,
		SampleRate:  f.SampleRate,
	}
}

// FormatFromGoAudio builds the canonical non-interleaved float32 format
// matching a go-audio format.
func FormatFromGoAudio(f *goaudio.Format) Format {
	return Float32Format(f.NumChannels, f.SampleRate)
}

// Float32Channel decodes the samples of channel ch as little-endian
// float32 values, up to the channel's ByteLength.
func (bl *BufferList) Float32Channel(ch int, dst []float32) int {
	b := bl.Buffers[ch]
	n := b.ByteLength / BytesPerFloat32
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(b.Data[i*BytesPerFloat32:])
		dst[i] = math.Float32frombits(bits)
	}
	return n
}

// PutFloat32Channel encodes src into channel ch as little-endian
// float32 values starting at frame offset frameOffset. Returns the
// number of samples stored.
func (bl *BufferList) PutFloat32Channel(ch, frameOffset int, src []float32) int {
	b := bl.Buffers[ch]
	n := len(src)
	room := len(b.Data)/BytesPerFloat32 - frameOffset
	if room < 0 {
		room = 0
	}
	if n > room {
		n = room
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(b.Data[(frameOffset+i)*BytesPerFloat32:], math.Float32bits(src[i]))
	}
	return n
}

// CopyFromFloat32Buffer deinterleaves fb into the list starting at
// frame 0 and sets every buffer's ByteLength to the bytes stored.
// Returns the number of whole frames copied.
func (bl *BufferList) CopyFromFloat32Buffer(fb *goaudio.Float32Buffer) int {
	channels := bl.ChannelCount()
	if channels == 0 || fb.Format == nil || fb.Format.NumChannels != channels {
		return 0
	}

	frames := len(fb.Data) / channels
	capacity := len(bl.Buffers[0].Data) / BytesPerFloat32
	if frames > capacity {
		frames = capacity
	}

	for ch := 0; ch < channels; ch++ {
		data := bl.Buffers[ch].Data
		for i := 0; i < frames; i++ {
			bits := math.Float32bits(fb.Data[i*channels+ch])
			binary.LittleEndian.PutUint32(data[i*BytesPerFloat32:], bits)
		}
	}
	bl.SetByteLengths(frames * BytesPerFloat32)

	return frames
}

// Float32Buffer interleaves frameCount frames from the list into a new
// go-audio Float32Buffer with the given format.
func (bl *BufferList) Float32Buffer(format Format, frameCount int) *goaudio.Float32Buffer {
	channels := bl.ChannelCount()
	fb := &goaudio.Float32Buffer{
		Format: format.GoAudio(),
		Data:   make([]float32, frameCount*channels),
	}

	for ch := 0; ch < channels; ch++ {
		b := bl.Buffers[ch]
		n := b.ByteLength / BytesPerFloat32
		if n > frameCount {
			n = frameCount
		}
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(b.Data[i*BytesPerFloat32:])
			fb.Data[i*channels+ch] = math.Float32frombits(bits)
		}
	}

	return fb
}
