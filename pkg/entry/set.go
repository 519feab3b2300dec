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
	"sync"

	"github.com/walteh/bulky/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

// ErrDuplicate is returned when an entry with the same URI is already in the set.
var ErrDuplicate = errors.Base("entry already added")

// 🗂️ Set is an ordered collection of entries with unique URIs
type Set struct {
	mu      sync.RWMutex
	entries []*Entry
	index   map[string]*Entry
}

// 🏭 NewSet creates an empty set
func NewSet() *Set {
	return &Set{index: make(map[string]*Entry)}
}

// Add appends e unless its URI is already present.
func (s *Set) Add(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := e.URI()
	if _, ok := s.index[uri]; ok {
		return errors.Errorf("%w: %s", ErrDuplicate, uri)
	}
	s.entries = append(s.entries, e)
	s.index[uri] = e
	return nil
}

// Remove drops the entry with the given URI and reports whether it existed.
func (s *Set) Remove(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.index[uri]
	if !ok {
		return false
	}
	delete(s.index, uri)
	for i, cur := range s.entries {
		if cur == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every entry.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.index = make(map[string]*Entry)
}

// Get returns the entry with the given URI.
func (s *Set) Get(uri string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.index[uri]
	return e, ok
}

// Len returns the number of entries.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns the entries in insertion order.
func (s *Set) Entries() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// HasDirectories reports whether any entry is a directory.
func (s *Set) HasDirectories() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.IsDir {
			return true
		}
	}
	return false
}

// 🔄 Relocate records that the entry at from now lives at to. Entries
// inside a moved directory are re-keyed as well.
func (s *Set) Relocate(from, to backend.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Location != from && !e.Location.IsWithin(from) {
			continue
		}
		delete(s.index, e.URI())
		moved := e.Location == from
		e.Location = e.Location.Rebase(from, to)
		if moved {
			e.Name = to.Base()
		}
		s.index[e.URI()] = e
	}
}
