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

package entry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

// 📄 Entry is a file or directory selected for renaming
type Entry struct {
	Location backend.Location
	Name     string
	IsDir    bool
	Writable bool
}

// 🔍 Stat resolves pathOrURI through reg and builds an Entry for it
func Stat(ctx context.Context, reg *backend.Registry, pathOrURI string) (*Entry, error) {
	loc, err := backend.ParseLocation(pathOrURI)
	if err != nil {
		return nil, err
	}
	return StatLocation(ctx, reg, loc)
}

// StatLocation builds an Entry for an already parsed location.
func StatLocation(ctx context.Context, reg *backend.Registry, loc backend.Location) (*Entry, error) {
	b, err := reg.For(loc)
	if err != nil {
		return nil, err
	}

	info, err := b.Fs().Stat(loc.Path)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", loc.URI(), err)
	}

	writable, err := b.Writable(ctx, loc.Path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("uri", loc.URI()).Msg("writability probe failed")
		writable = false
	}

	return &Entry{
		Location: loc,
		Name:     loc.Base(),
		IsDir:    info.IsDir(),
		Writable: writable,
	}, nil
}

// URI returns the identity of the entry.
func (e *Entry) URI() string {
	return e.Location.URI()
}

// Parent returns the location of the containing directory.
func (e *Entry) Parent() backend.Location {
	return e.Location.Parent()
}

// Target returns where the entry ends up when renamed to name.
func (e *Entry) Target(name string) backend.Location {
	return e.Parent().Child(name)
}

// DisplayPath is the path shown to users, with the home directory
// abbreviated for local entries.
func (e *Entry) DisplayPath() string {
	return DisplayLocation(e.Location)
}

// ParentDisplayPath is DisplayPath for the parent directory.
func (e *Entry) ParentDisplayPath() string {
	return DisplayLocation(e.Parent())
}

// DisplayLocation formats loc for messages. Local paths abbreviate the home
// directory; entries on other backends show their name only.
func DisplayLocation(loc backend.Location) string {
	if loc.Scheme != backend.SchemeFile {
		if loc.IsRoot() {
			return loc.URI()
		}
		return loc.Base()
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return loc.Path
	}
	if loc.Path == home {
		return "~"
	}
	if strings.HasPrefix(loc.Path, home+string(filepath.Separator)) {
		return "~" + loc.Path[len(home):]
	}
	return loc.Path
}
