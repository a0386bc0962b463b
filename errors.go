// SPDX-License-Identifier: EPL-2.0

package audioring

import "errors"

var (
	ErrNotFloat32Format = errors.New("ring buffer format is not non-interleaved float32")
	ErrInvalidChunkSize = errors.New("chunk frame count must be positive")
)
