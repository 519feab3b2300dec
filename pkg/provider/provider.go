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

package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var ErrUnknownProvider = errors.Base("unknown provider")

// 🔌 Provider proposes new names for a list of entries
type Provider interface {
	// 🏷️ Name returns the registered name of the provider
	Name() string

	// 📝 Propose returns new names keyed by entry URI. Entries without a
	// proposal are absent from the map.
	Propose(ctx context.Context, backends *backend.Registry, entries []*entry.Entry) (map[string]string, error)
}

// ⚙️ Options configures a provider. Each provider reads only the fields it
// needs.
type Options struct {
	Prefix      string // exif: prepended to every name
	Algorithm   string // hash: sha256, sha1, md5, blake3 or xxhash
	Length      int    // hash: hex digits kept, 8 to 64
	Concurrency int    // hash: files read at once
}

// 🏭 Factory creates a new provider
type Factory func(opts Options) (Provider, error)

var (
	// 🗺️ providers is a map of provider names to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	providers[name] = factory
}

// 🎯 New creates the provider registered as name
func New(name string, opts Options) (Provider, error) {
	factory, ok := providers[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("%w: %q (have %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
	return factory(opts)
}

// Names returns the registered provider names, sorted.
func Names() []string {
	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// open opens an entry for reading through its backend.
func open(backends *backend.Registry, e *entry.Entry) (afero.File, error) {
	be, err := backends.For(e.Location)
	if err != nil {
		return nil, err
	}
	f, err := be.Fs().Open(e.Location.Path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", e.URI(), err)
	}
	return f, nil
}

// dotExt returns the extension of name including its dot, or "".
func dotExt(name string) string {
	_, ext, dotted := text.SplitName(name)
	if !dotted {
		return ""
	}
	return "." + ext
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(dotExt(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
