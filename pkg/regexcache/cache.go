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

package regexcache

import (
	"regexp"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"gitlab.com/tozd/go/errors"
)

// DefaultSize is the number of compiled patterns kept per cache.
const DefaultSize = 32

// ErrInvalidPattern is returned when a pattern does not compile.
var ErrInvalidPattern = errors.Base("invalid regular expression")

// 🚩 Flags modify how a pattern is compiled
type Flags uint8

const (
	FlagNone       Flags = 0
	FlagIgnoreCase Flags = 1 << 0
)

type key struct {
	pattern string
	flags   Flags
}

// 📊 Stats is a snapshot of cache counters
type Stats struct {
	Hits    uint64
	Misses  uint64
	Size    int
	MaxSize int
}

// HitRate returns hits/(hits+misses), or 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// 🗃️ Cache memoizes compiled patterns keyed by (pattern, flags)
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[key, *regexp.Regexp]
	size    int
	hits    uint64
	misses  uint64
}

// 🏭 New creates a cache holding at most size patterns
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[key, *regexp.Regexp](size)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Cache{entries: entries, size: size}
}

// 🔍 Compile returns the compiled pattern, compiling and storing it on a miss.
// Failed compilations are not cached.
func (c *Cache) Compile(pattern string, flags Flags) (*regexp.Regexp, error) {
	k := key{pattern: pattern, flags: flags}

	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.entries.Get(k); ok {
		c.hits++
		return re, nil
	}
	c.misses++

	source := pattern
	if flags&FlagIgnoreCase != 0 {
		source = "(?i)" + pattern
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, errors.Errorf("%w: %s", ErrInvalidPattern, err.Error())
	}

	c.entries.Add(k, re)
	return re, nil
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    c.entries.Len(),
		MaxSize: c.size,
	}
}

// Purge drops every cached pattern and resets the counters.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
	c.hits, c.misses = 0, 0
}
