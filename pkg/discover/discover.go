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

// Package discover expands directories into the entries they contain.
package discover

import (
	"context"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bulky/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

// DefaultInclude matches the direct children of a directory.
var DefaultInclude = []string{"*"}

var ErrNotDirectory = errors.Base("not a directory")

// 🔍 Expand returns the URIs of everything under dir matching any include
// glob and no exclude glob. Globs use doublestar syntax relative to dir, so
// "**/*.jpg" recurses. Results are sorted and unique.
func Expand(ctx context.Context, backends *backend.Registry, dir string, include, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	root, err := backend.ParseLocation(dir)
	if err != nil {
		return nil, err
	}
	be, err := backends.For(root)
	if err != nil {
		return nil, err
	}

	st, err := be.Fs().Stat(root.Path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", root.URI(), err)
	}
	if !st.IsDir() {
		return nil, errors.Errorf("%w: %s", ErrNotDirectory, root.URI())
	}

	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid glob pattern %q", p)
		}
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(be.Fs(), root.Path))

	seen := make(map[string]struct{})
	var matches []string
	for _, pattern := range include {
		found, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		for _, rel := range found {
			if _, ok := seen[rel]; ok || rel == "." {
				continue
			}
			seen[rel] = struct{}{}
			if excluded(rel, exclude) {
				logger.Debug().Str("path", rel).Msg("excluded")
				continue
			}
			matches = append(matches, rel)
		}
	}
	sort.Strings(matches)

	out := make([]string, 0, len(matches))
	for _, rel := range matches {
		loc := root
		for _, part := range strings.Split(rel, "/") {
			loc = loc.Child(part)
		}
		out = append(out, loc.URI())
	}

	logger.Debug().Str("dir", root.URI()).Int("matches", len(out)).Msg("expanded directory")
	return out, nil
}

// excluded matches rel and its base name against every exclude pattern.
func excluded(rel string, exclude []string) bool {
	base := rel[strings.LastIndexByte(rel, '/')+1:]
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
