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

package operation

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// 💾 Backup is the name an entry had before the batch started
type Backup struct {
	URI     string `json:"uri"`
	OldName string `json:"old_name"`
}

// ✅ Success is one committed rename
type Success struct {
	NewURI  string `json:"new_uri"`
	OldURI  string `json:"old_uri"`
	OldName string `json:"old_name"`
}

// 📒 Log records what a batch did
type Log struct {
	Backups   []Backup  `json:"backups"`
	Successes []Success `json:"successes"`
}

// 📦 Batch executes one validated plan
type Batch struct {
	backends *backend.Registry
	items    []plan.Item

	mu      sync.Mutex
	state   State
	log     Log
	failure *RenameError
}

// 🏭 NewBatch creates a batch for items, which are put in depth order
func NewBatch(backends *backend.Registry, items []plan.Item) *Batch {
	return &Batch{
		backends: backends,
		items:    plan.Sort(items),
	}
}

// Restore rebuilds a finished batch from a persisted log so it can be
// rolled back.
func Restore(backends *backend.Registry, log Log) *Batch {
	return &Batch{
		backends: backends,
		state:    StateCompleted,
		log:      log,
	}
}

// Items returns the items in execution order.
func (b *Batch) Items() []plan.Item {
	out := make([]plan.Item, len(b.items))
	copy(out, b.items)
	return out
}

// State returns the current state.
func (b *Batch) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Log returns a copy of the rename log.
func (b *Batch) Log() Log {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Log{
		Backups:   append([]Backup(nil), b.log.Backups...),
		Successes: append([]Success(nil), b.log.Successes...),
	}
}

// Failure returns the error that stopped the batch, if any.
func (b *Batch) Failure() *RenameError {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failure
}

// CanRollback reports whether at least one rename can be undone.
func (b *Batch) CanRollback() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return (b.state == StateCompleted || b.state == StateFailed) && len(b.log.Successes) > 0
}

// Total returns the number of items that change a name.
func (b *Batch) Total() int {
	n := 0
	for _, it := range b.items {
		if it.Changed() {
			n++
		}
	}
	return n
}

// 🏃 Execute renames every changed item in order and stops at the first
// failure. Completed renames are left in place.
func (b *Batch) Execute(ctx context.Context, emit Emitter) error {
	logger := zerolog.Ctx(ctx)

	b.mu.Lock()
	if b.state != StateIdle {
		b.mu.Unlock()
		return errors.Errorf("%w: state is %s", ErrNotIdle, b.state)
	}
	b.state = StateRunning
	b.log.Backups = make([]Backup, 0, len(b.items))
	for _, it := range b.items {
		b.log.Backups = append(b.log.Backups, Backup{URI: it.From.URI(), OldName: it.OldName})
	}
	b.mu.Unlock()

	total := b.Total()
	processed := 0

	logger.Info().Int("total", total).Msg("starting rename batch")

	for _, it := range b.items {
		if !it.Changed() {
			continue
		}

		to, err := b.rename(ctx, it.From, it.NewName)
		if err != nil {
			rerr := b.renameError(it, err)
			b.mu.Lock()
			b.state = StateFailed
			b.failure = rerr
			b.mu.Unlock()

			logger.Error().Err(err).Str("uri", it.From.URI()).Str("new_name", it.NewName).Msg("rename failed")
			emitTo(emit, Event{Kind: EventFinished, State: StateFailed, Processed: processed, Total: total, Err: rerr})
			return rerr
		}

		b.mu.Lock()
		b.log.Successes = append(b.log.Successes, Success{
			NewURI:  to.URI(),
			OldURI:  it.From.URI(),
			OldName: it.OldName,
		})
		b.mu.Unlock()

		processed++
		logger.Debug().Str("from", it.From.URI()).Str("to", to.URI()).Msg("renamed")
		emitTo(emit, Event{Kind: EventRenamed, Entry: it.Entry, From: it.From, To: to})
		emitTo(emit, Event{Kind: EventProgress, Processed: processed, Total: total})
	}

	b.mu.Lock()
	b.state = StateCompleted
	b.mu.Unlock()

	logger.Info().Int("renamed", processed).Msg("rename batch complete")
	emitTo(emit, Event{Kind: EventFinished, State: StateCompleted, Processed: processed, Total: total})
	return nil
}

// rename moves from to a sibling called name. An existing target is never
// replaced, unless only the letter case differs.
func (b *Batch) rename(ctx context.Context, from backend.Location, name string) (backend.Location, error) {
	be, err := b.backends.For(from)
	if err != nil {
		return from, err
	}
	to := from.Parent().Child(name)

	if !caseOnly(from.Base(), name) {
		_, err := be.Fs().Stat(to.Path)
		switch {
		case err == nil:
			return from, &os.LinkError{Op: "rename", Old: from.Path, New: to.Path, Err: fs.ErrExist}
		case !errors.Is(err, fs.ErrNotExist):
			return from, err
		}
	}

	if err := be.Fs().Rename(from.Path, to.Path); err != nil {
		return from, err
	}
	return to, nil
}

func (b *Batch) renameError(it plan.Item, err error) *RenameError {
	kind := KindGeneric
	if be, berr := b.backends.For(it.From); berr == nil {
		kind = classify(be, err)
	}
	return &RenameError{
		Kind:    kind,
		URI:     it.From.URI(),
		Display: entry.DisplayLocation(it.From),
		NewName: it.NewName,
		Err:     err,
	}
}

func caseOnly(oldName, newName string) bool {
	return oldName != newName && strings.EqualFold(oldName, newName)
}
