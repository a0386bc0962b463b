// SPDX-License-Identifier: EPL-2.0

package ring

import "errors"

var (
	ErrCapacityOutOfRange = errors.New("capacity must be between 2 and 2^31")
	ErrInvalidFormat      = errors.New("invalid PCM format")
	ErrInterleavedFormat  = errors.New("only non-interleaved formats are supported")
)
