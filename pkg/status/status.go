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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// 📊 EntryStatus is the outcome of one entry
type EntryStatus int

const (
	StatusPending EntryStatus = iota
	StatusRenamed
	StatusUnchanged
	StatusFailed
	StatusRolledBack
)

func (s EntryStatus) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	case StatusRolledBack:
		return "rolled back"
	default:
		return "pending"
	}
}

// 📄 EntryInfo describes one tracked entry
type EntryInfo struct {
	URI     string
	OldName string
	NewName string
	Status  EntryStatus
	Error   error
}

// 📈 Reporter tracks entry outcomes and reports progress
type Reporter interface {
	TrackEntry(ctx context.Context, info EntryInfo)
	GetEntryInfo(ctx context.Context, uri string) (EntryInfo, error)
	ListEntries(ctx context.Context) []EntryInfo

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// Summary counts entries per status.
type Summary struct {
	Renamed    int
	Unchanged  int
	Failed     int
	RolledBack int
	Pending    int
}

// 🔧 Manager implements Reporter
type Manager struct {
	logger    *zerolog.Logger
	formatter Formatter

	mu      sync.RWMutex
	entries map[string]EntryInfo
	order   []string

	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(logger *zerolog.Logger, formatter Formatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFormatter()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		logger:    logger,
		formatter: formatter,
		entries:   make(map[string]EntryInfo),
	}
}

func (m *Manager) TrackEntry(ctx context.Context, info EntryInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[info.URI]; !ok {
		m.order = append(m.order, info.URI)
	}
	m.entries[info.URI] = info

	msg := m.formatter.FormatRename(info.OldName, info.NewName, info.Status)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().Str("uri", info.URI).Str("status", info.Status.String()).Msg(msg)
}

func (m *Manager) GetEntryInfo(ctx context.Context, uri string) (EntryInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.entries[uri]
	if !ok {
		return EntryInfo{}, errors.Errorf("entry not tracked: %s", uri)
	}
	return info, nil
}

// ListEntries returns tracked entries in the order they were first seen.
func (m *Manager) ListEntries(ctx context.Context) []EntryInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EntryInfo, 0, len(m.order))
	for _, uri := range m.order {
		out = append(out, m.entries[uri])
	}
	return out
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	m.logger.Info().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Progress returns processed and total.
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

// 🧾 TrackBatch records the outcome of every item of batch
func (m *Manager) TrackBatch(ctx context.Context, batch *operation.Batch) {
	done := make(map[string]bool)
	for _, s := range batch.Log().Successes {
		done[s.OldURI] = true
	}

	failure := batch.Failure()
	rolledBack := batch.State() == operation.StateRolledBack

	for _, it := range batch.Items() {
		uri := it.From.URI()
		info := EntryInfo{URI: uri, OldName: it.OldName, NewName: it.NewName}
		switch {
		case !it.Changed():
			info.Status = StatusUnchanged
		case failure != nil && failure.URI == uri:
			info.Status = StatusFailed
			info.Error = failure
		case done[uri] && rolledBack:
			info.Status = StatusRolledBack
		case done[uri]:
			info.Status = StatusRenamed
		default:
			info.Status = StatusPending
		}
		m.TrackEntry(ctx, info)
	}
}

// Summary counts tracked entries per status.
func (m *Manager) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var s Summary
	for _, info := range m.entries {
		switch info.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
		case StatusRolledBack:
			s.RolledBack++
		default:
			s.Pending++
		}
	}
	return s
}
