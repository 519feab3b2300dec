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
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/text"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9._-]`)
	underscores = regexp.MustCompile(`__+`)
)

func init() {
	Register("normalize", func(opts Options) (Provider, error) {
		return &Normalize{}, nil
	})
}

// 🧹 Normalize rewrites names to lower-case ASCII with underscores
type Normalize struct{}

func (p *Normalize) Name() string { return "normalize" }

// Propose normalizes every name whose stem changes. The extension is only
// lower-cased.
func (p *Normalize) Propose(ctx context.Context, _ *backend.Registry, entries []*entry.Entry) (map[string]string, error) {
	names := make(map[string]string)
	for _, e := range entries {
		stem, _, _ := text.SplitName(e.Name)
		normal := NormalizeStem(stem)
		if normal == "" || normal == stem {
			continue
		}
		names[e.URI()] = normal + strings.ToLower(dotExt(e.Name))
	}
	zerolog.Ctx(ctx).Debug().Int("named", len(names)).Msg("normalize proposals")
	return names, nil
}

// NormalizeStem transliterates s to ASCII, lower-cases it, turns spaces into
// underscores and drops everything outside [a-z0-9._-].
func NormalizeStem(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")
	return underscores.ReplaceAllString(s, "_")
}
