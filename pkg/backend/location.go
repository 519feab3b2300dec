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
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// SchemeFile is the scheme of the local filesystem.
const SchemeFile = "file"

// 📍 Location identifies an entry on a backend. For the file scheme Path is
// a native absolute path, for every other scheme it is a slash path.
type Location struct {
	Scheme string
	Host   string
	Path   string
}

// 🔍 ParseLocation accepts either a URI (anything containing "://") or a
// local path, which is made absolute.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.Errorf("empty location")
	}

	if !strings.Contains(s, "://") {
		abs, err := filepath.Abs(s)
		if err != nil {
			return Location{}, errors.Errorf("resolving %q: %w", s, err)
		}
		return Location{Scheme: SchemeFile, Path: abs}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, errors.Errorf("parsing uri %q: %w", s, err)
	}
	if u.Scheme == "" {
		return Location{}, errors.Errorf("uri %q has no scheme", s)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == SchemeFile {
		if u.Host != "" && u.Host != "localhost" {
			return Location{}, errors.Errorf("file uri %q names a remote host", s)
		}
		return Location{Scheme: SchemeFile, Path: filepath.Clean(filepath.FromSlash(u.Path))}, nil
	}

	p := u.Path
	if p == "" {
		p = "/"
	}
	return Location{Scheme: scheme, Host: u.Host, Path: path.Clean(p)}, nil
}

// URI returns the escaped URI form, used as the identity of an entry.
func (l Location) URI() string {
	u := url.URL{Scheme: l.Scheme, Host: l.Host, Path: l.slashPath()}
	if l.Scheme == SchemeFile && l.Host == "" {
		// url.URL drops the empty authority otherwise
		return "file://" + u.EscapedPath()
	}
	return u.String()
}

func (l Location) String() string {
	return l.URI()
}

func (l Location) native() bool {
	return l.Scheme == SchemeFile
}

func (l Location) slashPath() string {
	if l.native() {
		return filepath.ToSlash(l.Path)
	}
	return l.Path
}

// Base returns the last path element.
func (l Location) Base() string {
	if l.native() {
		return filepath.Base(l.Path)
	}
	return path.Base(l.Path)
}

// Parent returns the containing location. The parent of a root is itself.
func (l Location) Parent() Location {
	p := l
	if l.native() {
		p.Path = filepath.Dir(l.Path)
	} else {
		p.Path = path.Dir(l.Path)
	}
	return p
}

// IsRoot reports whether l has no parent.
func (l Location) IsRoot() bool {
	return l.Parent() == l
}

// Child returns the location of name inside l.
func (l Location) Child(name string) Location {
	c := l
	if l.native() {
		c.Path = filepath.Join(l.Path, name)
	} else {
		c.Path = path.Join(l.Path, name)
	}
	return c
}

// Components splits the path into its elements, root excluded.
func (l Location) Components() []string {
	trimmed := strings.Trim(l.slashPath(), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// SameVolume reports whether both locations live on the same backend host.
func (l Location) SameVolume(o Location) bool {
	return l.Scheme == o.Scheme && l.Host == o.Host
}

// IsWithin reports whether l is a strict descendant of ancestor.
func (l Location) IsWithin(ancestor Location) bool {
	if !l.SameVolume(ancestor) {
		return false
	}
	lc, ac := l.Components(), ancestor.Components()
	if len(lc) <= len(ac) {
		return false
	}
	for i := range ac {
		if lc[i] != ac[i] {
			return false
		}
	}
	return true
}

// Rebase moves l from under oldRoot to under newRoot. Locations outside
// oldRoot are returned unchanged.
func (l Location) Rebase(oldRoot, newRoot Location) Location {
	if l == oldRoot {
		return newRoot
	}
	if !l.IsWithin(oldRoot) {
		return l
	}
	rest := l.Components()[len(oldRoot.Components()):]
	out := newRoot
	for _, c := range rest {
		out = out.Child(c)
	}
	return out
}
