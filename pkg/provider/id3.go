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
	"strings"

	"github.com/dhowden/tag"
	"github.com/mozillazg/go-unidecode"
	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("id3", func(opts Options) (Provider, error) {
		return &ID3{}, nil
	})
}

// 🎵 ID3 names MP3 files Artist_-_Title.mp3 from their tags
type ID3 struct{}

func (p *ID3) Name() string { return "id3" }

// Propose names every MP3 that has both an artist and a title.
func (p *ID3) Propose(ctx context.Context, backends *backend.Registry, entries []*entry.Entry) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)
	names := make(map[string]string)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir || !hasExt(e.Name, ".mp3") {
			continue
		}

		artist, title, err := readTags(backends, e)
		if err != nil {
			logger.Debug().Err(err).Str("uri", e.URI()).Msg("no id3 tags")
			continue
		}
		if artist == "" || title == "" {
			continue
		}
		names[e.URI()] = tagPart(artist) + "_-_" + tagPart(title) + ".mp3"
	}

	logger.Debug().Int("named", len(names)).Msg("id3 proposals")
	return names, nil
}

func readTags(backends *backend.Registry, e *entry.Entry) (artist, title string, err error) {
	f, err := open(backends, e)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", errors.Errorf("reading tags: %w", err)
	}
	return strings.TrimSpace(m.Artist()), strings.TrimSpace(m.Title()), nil
}

func tagPart(s string) string {
	return strings.ReplaceAll(unidecode.Unidecode(s), " ", "_")
}
