// SPDX-License-Identifier: EPL-2.0

// Package source opens encoded audio and delivers it as non-interleaved
// float32 frames, ready for the ring buffers in
// github.com/ik5/audioring/ring.
//
// # Source Interface
//
// Every decoder adapter implements Source:
//
//	type Source interface {
//	    Format() pcm.Format
//	    ReadFrames(dst *pcm.BufferList) (int, error)
//	    Close() error
//	}
//
// ReadFrames fills as many whole frames as fit in dst, one channel per
// buffer, and reports io.EOF when the stream is finished. The format is
// always canonical non-interleaved float32, which is what the audio
// ring buffers expect.
//
// # Supported Formats
//
// Decoding is delegated entirely to existing libraries; this package
// implements no codecs itself:
//   - WAV via github.com/go-audio/wav
//   - AIFF via github.com/go-audio/aiff
//   - MP3 via github.com/hajimehoshi/go-mp3
//   - Ogg Vorbis via github.com/jfreymuth/oggvorbis
//
// # Usage
//
//	src, err := source.OpenWAV(f)
//	if err != nil { ... }
//	defer src.Close()
//
//	bl, _ := pcm.NewBufferList(src.Format(), 1024)
//	for {
//	    n, err := src.ReadFrames(bl)
//	    if n > 0 {
//	        rb.Write(bl, n, true)
//	    }
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil { ... }
//	}
//
// # Registry
//
// Openers can be registered by format key for applications that pick
// the decoder at runtime:
//
//	registry := source.NewRegistry()
//	registry.Register("wav", source.OpenWAV)
//	open, ok := registry.Get("wav")
package source
