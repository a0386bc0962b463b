// SPDX-License-Identifier: EPL-2.0

package source

import "errors"

var (
	ErrNotWAVFile          = errors.New("not a WAV file")
	ErrNotAIFFFile         = errors.New("not an AIFF file")
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
)
