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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   Flags
		input   string
		match   bool
		wantErr bool
	}{
		{name: "literal_match", pattern: "abc", input: "xabcx", match: true},
		{name: "case_sensitive_miss", pattern: "abc", input: "ABC", match: false},
		{name: "ignore_case_hit", pattern: "abc", flags: FlagIgnoreCase, input: "ABC", match: true},
		{name: "invalid_pattern", pattern: "a(b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(DefaultSize)
			re, err := c.Compile(tt.pattern, tt.flags)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPattern), "error should be ErrInvalidPattern")
				assert.Equal(t, 0, c.Stats().Size, "failed pattern must not be cached")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.input))
		})
	}
}

func TestHitsAndMisses(t *testing.T) {
	c := New(DefaultSize)

	first, err := c.Compile("file_\\d+", FlagNone)
	require.NoError(t, err)
	second, err := c.Compile("file_\\d+", FlagNone)
	require.NoError(t, err)

	assert.Same(t, first, second, "hit should return the cached object")

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, DefaultSize, stats.MaxSize)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.0001)
}

func TestFlagsArePartOfTheKey(t *testing.T) {
	c := New(DefaultSize)

	_, err := c.Compile("x", FlagNone)
	require.NoError(t, err)
	_, err = c.Compile("x", FlagIgnoreCase)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Misses)
	assert.Equal(t, 2, stats.Size)
}

func TestEviction(t *testing.T) {
	c := New(DefaultSize)

	for i := 0; i < DefaultSize; i++ {
		_, err := c.Compile(fmt.Sprintf("p%d", i), FlagNone)
		require.NoError(t, err)
	}

	// touch p0 so p1 becomes least recently used
	_, err := c.Compile("p0", FlagNone)
	require.NoError(t, err)

	_, err = c.Compile("p32", FlagNone)
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, c.Stats().Size, "size stays bounded")

	before := c.Stats()
	_, err = c.Compile("p0", FlagNone)
	require.NoError(t, err)
	assert.Equal(t, before.Hits+1, c.Stats().Hits, "p0 should still be cached")

	before = c.Stats()
	_, err = c.Compile("p1", FlagNone)
	require.NoError(t, err)
	assert.Equal(t, before.Misses+1, c.Stats().Misses, "p1 should have been evicted")
}

func TestHitRateEmpty(t *testing.T) {
	assert.Zero(t, Stats{}.HitRate())
}

func TestPurge(t *testing.T) {
	c := New(4)
	_, err := c.Compile("a", FlagNone)
	require.NoError(t, err)
	c.Purge()
	assert.Equal(t, Stats{MaxSize: 4}, c.Stats())
}
