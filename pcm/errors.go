// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	ErrInvalidFormat     = errors.New("invalid PCM format")
	ErrInterleavedFormat = errors.New("interleaved formats are not supported")
	ErrInvalidFrameCount = errors.New("frame count must be positive")
)
