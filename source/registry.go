// SPDX-License-Identifier: EPL-2.0

package source

import (
	"io"
	"sync"
)

// Opener constructs a Source from an input reader.
type Opener func(r io.Reader) (Source, error)

// Registry maps format keys (e.g., "wav", "mp3", "ogg vorbis") to
// openers.
type Registry struct {
	openers map[string]Opener

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		openers: make(map[string]Opener),
		mtx:     &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, open Opener) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.openers[format] = open
}

func (r *Registry) Get(format string) (Opener, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	open, ok := r.openers[format]
	return open, ok
}
