// SPDX-License-Identifier: EPL-2.0

package source

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audioring/pcm"
)

// OpenVorbis opens an Ogg Vorbis stream using
// github.com/jfreymuth/oggvorbis and exposes it as a non-interleaved
// float32 Source.
func OpenVorbis(r io.Reader) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	// oggvorbis already produces interleaved float32 samples.
	read := func(dst []float32) (int, error) {
		return dec.Read(dst)
	}

	return &interleavedSource{
		format: pcm.Float32Format(dec.Channels(), dec.SampleRate()),
		read:   read,
	}, nil
}
