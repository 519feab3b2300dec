// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// ErrUnknownScheme is returned when no backend serves a location.
var ErrUnknownScheme = errors.Base("no backend registered for scheme")

// 🗄️ Backend is a storage system entries can live on
type Backend interface {
	// Scheme returns the URI scheme served by the backend
	Scheme() string
	// Fs returns the filesystem used for stat and rename
	Fs() afero.Fs
	// IsNative reports whether the backend is the local OS filesystem
	IsNative() bool
	// Writable probes whether entries can be created or renamed inside path
	Writable(ctx context.Context, path string) (bool, error)
}

// 📚 Registry maps schemes to backends
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// 🏭 NewRegistry creates a registry serving the given backends
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[string]Backend)}
	for _, b := range backends {
		r.Register(b)
	}
	return r
}

// Default returns a registry serving the local filesystem.
func Default() *Registry {
	return NewRegistry(NewOS())
}

// Register adds or replaces the backend for its scheme.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[strings.ToLower(b.Scheme())] = b
}

// 🎯 For returns the backend serving loc
func (r *Registry) For(loc Location) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[loc.Scheme]
	if !ok {
		return nil, errors.Errorf("%w: %q, options: %s", ErrUnknownScheme, loc.Scheme, strings.Join(r.schemesLocked(), ", "))
	}
	return b, nil
}

// Schemes lists the registered schemes in sorted order.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemesLocked()
}

func (r *Registry) schemesLocked() []string {
	out := make([]string, 0, len(r.backends))
	for k := range r.backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// 💾 Afero serves any afero filesystem under a scheme
type Afero struct {
	scheme string
	fs     afero.Fs
	native bool
}

// NewAfero creates a backend for fs. Non-native backends report every
// directory as writable and leave the final word to the rename itself.
func NewAfero(scheme string, fs afero.Fs, native bool) *Afero {
	return &Afero{scheme: scheme, fs: fs, native: native}
}

// NewMem creates a non-native backend on a fresh in-memory filesystem.
func NewMem(scheme string) *Afero {
	return NewAfero(scheme, afero.NewMemMapFs(), false)
}

func (a *Afero) Scheme() string { return a.scheme }
func (a *Afero) Fs() afero.Fs   { return a.fs }
func (a *Afero) IsNative() bool { return a.native }

func (a *Afero) Writable(ctx context.Context, path string) (bool, error) {
	if !a.native {
		return true, nil
	}
	info, err := a.fs.Stat(path)
	if err != nil {
		return false, errors.Errorf("stat %s: %w", path, err)
	}
	return info.Mode().Perm()&0o200 != 0, nil
}

// 🖥️ OS is the local filesystem backend
type OS struct {
	fs afero.Fs
}

// NewOS creates the local filesystem backend.
func NewOS() *OS {
	return &OS{fs: afero.NewOsFs()}
}

func (o *OS) Scheme() string { return SchemeFile }
func (o *OS) Fs() afero.Fs   { return o.fs }
func (o *OS) IsNative() bool { return true }

func (o *OS) Writable(ctx context.Context, path string) (bool, error) {
	return accessWritable(path)
}
