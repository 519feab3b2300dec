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
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register("exif", func(opts Options) (Provider, error) {
		return &EXIF{Prefix: opts.Prefix}, nil
	})
}

// 📷 EXIF names JPEG photos after the time they were taken:
// <prefix>YYYYMMDD_HHMMSS_NNN.<ext>
type EXIF struct {
	Prefix string
}

func (p *EXIF) Name() string { return "exif" }

// Propose names every JPEG with a readable capture time. The sequence number
// advances for every JPEG, named or not.
func (p *EXIF) Propose(ctx context.Context, backends *backend.Registry, entries []*entry.Entry) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)
	names := make(map[string]string)

	counter := 1
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir || !hasExt(e.Name, ".jpg", ".jpeg") {
			continue
		}

		taken, err := captureTime(backends, e)
		if err != nil {
			logger.Debug().Err(err).Str("uri", e.URI()).Msg("no exif date")
		} else {
			names[e.URI()] = fmt.Sprintf("%s%s_%03d%s", p.Prefix, taken.Format("20060102_150405"), counter, strings.ToLower(dotExt(e.Name)))
		}
		counter++
	}

	logger.Debug().Int("named", len(names)).Msg("exif proposals")
	return names, nil
}

func captureTime(backends *backend.Registry, e *entry.Entry) (time.Time, error) {
	f, err := open(backends, e)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, errors.Errorf("decoding exif: %w", err)
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, errors.Errorf("reading exif date: %w", err)
	}
	return t, nil
}
