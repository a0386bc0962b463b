// SPDX-License-Identifier: EPL-2.0

package source

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audioring/pcm"
	"github.com/ik5/audioring/utils"
)

// mp3Channels is fixed by go-mp3, which always decodes to stereo.
const mp3Channels = 2

// OpenMP3 opens an MP3 stream using github.com/hajimehoshi/go-mp3 and
// exposes it as a non-interleaved float32 Source.
func OpenMP3(r io.Reader) (Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	// go-mp3 yields 16-bit little-endian interleaved stereo PCM.
	var buf []byte
	read := func(dst []float32) (int, error) {
		want := len(dst) * 2
		if cap(buf) < want {
			buf = make([]byte, want)
		}

		n, err := dec.Read(buf[:want])
		samples := n / 2
		for i := 0; i < samples; i++ {
			v := int16(binary.LittleEndian.Uint16(buf[2*i:]))
			dst[i] = utils.Int16ToFloat32(v)
		}

		if samples == 0 && err == nil {
			return 0, io.EOF
		}
		return samples, err
	}

	return &interleavedSource{
		format: pcm.Float32Format(mp3Channels, dec.SampleRate()),
		read:   read,
	}, nil
}
