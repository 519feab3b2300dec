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

package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/operation"
	"github.com/walteh/bulky/pkg/plan"
	"github.com/walteh/bulky/pkg/preview"
	"github.com/walteh/bulky/pkg/regexcache"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNotExecutable is returned when the current preview cannot be executed.
var ErrNotExecutable = errors.Base("nothing to rename")

// ProgressFunc is called with processed/total after every rename.
type ProgressFunc func(processed, total int)

// Options configures a Session.
type Options struct {
	Backends  *backend.Registry
	CacheSize int
	Async     bool
}

// 🧭 Session owns the entry set and drives preview, execution and rollback
type Session struct {
	backends  *backend.Registry
	cache     *regexcache.Cache
	validator *preview.Validator
	runner    *operation.Runner

	mu      sync.Mutex
	entries *entry.Set
	config  text.Config
	names   map[string]string
	batch   *operation.Batch
}

// 🏭 New creates a session
func New(opts Options) *Session {
	backends := opts.Backends
	if backends == nil {
		backends = backend.Default()
	}
	cache := regexcache.New(opts.CacheSize)
	return &Session{
		backends:  backends,
		cache:     cache,
		validator: preview.New(text.NewEngine(cache), backends),
		runner:    operation.NewRunner(opts.Async),
		entries:   entry.NewSet(),
		config:    text.DefaultConfig(),
	}
}

// Backends returns the backend registry.
func (s *Session) Backends() *backend.Registry {
	return s.backends
}

// ➕ Add stats and appends each path or URI. Duplicates are skipped; other
// failures are collected and returned together.
func (s *Session) Add(ctx context.Context, pathsOrURIs ...string) ([]*entry.Entry, error) {
	logger := zerolog.Ctx(ctx)

	added := make([]*entry.Entry, 0, len(pathsOrURIs))
	var errs []error
	for _, p := range pathsOrURIs {
		e, err := entry.Stat(ctx, s.backends, p)
		if err != nil {
			errs = append(errs, errors.Errorf("adding %s: %w", p, err))
			continue
		}
		if err := s.entries.Add(e); err != nil {
			if errors.Is(err, entry.ErrDuplicate) {
				logger.Debug().Str("uri", e.URI()).Msg("already loaded, ignoring")
				continue
			}
			errs = append(errs, err)
			continue
		}
		added = append(added, e)
	}
	return added, errors.Join(errs...)
}

// Remove drops entries by URI.
func (s *Session) Remove(uris ...string) int {
	n := 0
	for _, u := range uris {
		if s.entries.Remove(u) {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (s *Session) Clear() {
	s.entries.Clear()
}

// Entries returns the live entries in order.
func (s *Session) Entries() []*entry.Entry {
	return s.entries.Entries()
}

// SetConfig selects the transformation used by Preview and Execute.
func (s *Session) SetConfig(cfg text.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.names = nil
}

// Config returns the current transformation.
func (s *Session) Config() text.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetNames replaces the transformation with externally produced names
// keyed by URI, until the next SetConfig.
func (s *Session) SetNames(names map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = names
}

// 🔎 Preview runs a validation pass over the current entries
func (s *Session) Preview(ctx context.Context) *preview.Result {
	s.mu.Lock()
	cfg, names := s.config, s.names
	s.mu.Unlock()

	entries := s.entries.Entries()
	if names != nil {
		return s.validator.RunNames(ctx, entries, names)
	}
	return s.validator.Run(ctx, entries, cfg)
}

// CacheStats returns the pattern cache counters.
func (s *Session) CacheStats() regexcache.Stats {
	return s.cache.Stats()
}

// LastBatch returns the most recent batch, if any.
func (s *Session) LastBatch() *operation.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch
}

// 🚀 Execute previews again and, when the pass is executable, renames the
// entries. The batch is returned even when it fails so callers can offer a
// rollback.
func (s *Session) Execute(ctx context.Context, progress ProgressFunc) (*operation.Batch, error) {
	res := s.Preview(ctx)
	if !res.Executable() {
		if p, ok := res.Problem(); ok && p.Kind.Blocking() {
			return nil, errors.Errorf("%w: %s", ErrNotExecutable, p.Message)
		}
		return nil, ErrNotExecutable
	}

	batch := operation.NewBatch(s.backends, plan.FromResult(res))

	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()

	err := s.runner.Run(ctx, batch, s.apply(progress))
	return batch, err
}

// ↩️ Rollback undoes the renames of the last batch
func (s *Session) Rollback(ctx context.Context, progress ProgressFunc) (*operation.RollbackReport, error) {
	batch := s.LastBatch()
	if batch == nil {
		return nil, operation.ErrNothingToRollBack
	}
	return s.RollbackBatch(ctx, batch, progress)
}

// RollbackBatch undoes the renames of batch, which may come from a journal.
func (s *Session) RollbackBatch(ctx context.Context, batch *operation.Batch, progress ProgressFunc) (*operation.RollbackReport, error) {
	op := &operation.RollbackOp{Batch: batch}
	err := s.runner.Run(ctx, op, s.apply(progress))
	return op.Report, err
}

// apply is the single writer of entry state while a batch runs.
func (s *Session) apply(progress ProgressFunc) operation.Emitter {
	return func(ev operation.Event) {
		switch ev.Kind {
		case operation.EventRenamed, operation.EventReverted:
			s.entries.Relocate(ev.From, ev.To)
		case operation.EventProgress:
			if progress != nil {
				progress(ev.Processed, ev.Total)
			}
		}
	}
}
