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
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"
)

// 🔐 Hash defaults and limits
const (
	DefaultAlgorithm   = "sha256"
	DefaultLength      = 16
	MinLength          = 8
	MaxLength          = 64
	DefaultConcurrency = 4
)

var algorithms = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha1":   sha1.New,
	"md5":    md5.New,
	"blake3": func() hash.Hash { return blake3.New(32, nil) },
	"xxhash": func() hash.Hash { return xxhash.New() },
}

func init() {
	Register("hash", func(opts Options) (Provider, error) {
		return NewHash(opts)
	})
}

// 🔐 Hash names files after a prefix of their content digest: <digest><ext>
type Hash struct {
	algorithm   string
	newHash     func() hash.Hash
	length      int
	concurrency int
}

// NewHash validates opts and builds a Hash provider. Length is clamped to
// the 8 to 64 range.
func NewHash(opts Options) (*Hash, error) {
	algo := strings.ToLower(opts.Algorithm)
	if algo == "" {
		algo = DefaultAlgorithm
	}
	newHash, ok := algorithms[algo]
	if !ok {
		return nil, errors.Errorf("unsupported hash algorithm %q", opts.Algorithm)
	}

	length := opts.Length
	if length == 0 {
		length = DefaultLength
	}
	length = min(max(length, MinLength), MaxLength)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &Hash{algorithm: algo, newHash: newHash, length: length, concurrency: concurrency}, nil
}

func (p *Hash) Name() string { return "hash" }

// Propose hashes every file. A digest already taken by an earlier entry is
// skipped so duplicates keep their names.
func (p *Hash) Propose(ctx context.Context, backends *backend.Registry, entries []*entry.Entry) (map[string]string, error) {
	logger := zerolog.Ctx(ctx)

	digests := make([]string, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, e := range entries {
		if e.IsDir {
			continue
		}
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := p.digest(backends, e)
			if err != nil {
				logger.Debug().Err(err).Str("uri", e.URI()).Msg("hash failed")
				return nil
			}
			digests[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("hashing files: %w", err)
	}

	names := make(map[string]string)
	seen := make(map[string]string)
	for i, e := range entries {
		sum := digests[i]
		if sum == "" {
			continue
		}
		if first, dup := seen[sum]; dup {
			logger.Warn().Str("hash", sum).Str("name", e.Name).Str("duplicate_of", first).Msg("duplicate hash")
			continue
		}
		seen[sum] = e.Name
		names[e.URI()] = sum + dotExt(e.Name)
	}

	logger.Debug().Str("algorithm", p.algorithm).Int("named", len(names)).Msg("hash proposals")
	return names, nil
}

func (p *Hash) digest(backends *backend.Registry, e *entry.Entry) (string, error) {
	f, err := open(backends, e)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := p.newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("reading %s: %w", e.URI(), err)
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return sum[:min(p.length, len(sum))], nil
}
