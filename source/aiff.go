// SPDX-License-Identifier: EPL-2.0

package source

import (
	"io"

	"github.com/go-audio/aiff"
)

// OpenAIFF opens an AIFF stream using github.com/go-audio/aiff and
// exposes it as a non-interleaved float32 Source. Readers that cannot
// seek are buffered in memory.
func OpenAIFF(r io.Reader) (Source, error) {
	rs, err := toReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAIFFFile
	}
	dec.ReadInfo()

	return intPCMSource(dec, int(dec.BitDepth))
}
