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

package preview

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/regexcache"
	"github.com/walteh/bulky/pkg/text"
)

type fixture struct {
	fs        afero.Fs
	reg       *backend.Registry
	validator *Validator
}

func newFixture(t *testing.T, native bool) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	reg := backend.NewRegistry(backend.NewAfero("mem", fs, native))
	return &fixture{
		fs:        fs,
		reg:       reg,
		validator: New(text.NewEngine(regexcache.New(regexcache.DefaultSize)), reg),
	}
}

func (f *fixture) file(t *testing.T, path string) *entry.Entry {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(path), 0o644))
	return f.stat(t, path)
}

func (f *fixture) dir(t *testing.T, path string) *entry.Entry {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(path, 0o755))
	return f.stat(t, path)
}

func (f *fixture) stat(t *testing.T, path string) *entry.Entry {
	t.Helper()
	e, err := entry.StatLocation(testContext(t), f.reg, backend.Location{Scheme: "mem", Path: path})
	require.NoError(t, err)
	return e
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func replaceConfig(find, with string, regex bool) text.Config {
	cfg := text.DefaultConfig()
	cfg.Replace.Find = find
	cfg.Replace.With = with
	cfg.Replace.Regex = regex
	return cfg
}

func newNames(res *Result) []string {
	out := make([]string, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		out = append(out, p.NewName)
	}
	return out
}

func TestCollisionBlocksExecution(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{
		f.file(t, "/data/file_1.txt"),
		f.file(t, "/data/file_2.txt"),
	}

	res := f.validator.Run(testContext(t), entries, replaceConfig(`_\d+`, "", true))

	assert.Equal(t, []string{"file.txt", "file.txt"}, newNames(res))
	assert.False(t, res.Valid)
	assert.False(t, res.Executable())
	assert.True(t, res.AnyChanges)

	p, ok := res.Problem()
	require.True(t, ok)
	assert.Equal(t, ProblemCollision, p.Kind)
	assert.Equal(t, entries[1].URI(), p.URI, "second occurrence is flagged")
	assert.Equal(t, "Name collision on 'file_2.txt'.", p.Message)
}

func TestCollisionFirstSeenWins(t *testing.T) {
	f := newFixture(t, false)
	a := f.file(t, "/data/a1.txt")
	b := f.file(t, "/data/a2.txt")
	c := f.file(t, "/data/a3.txt")
	cfg := replaceConfig(`\d`, "", true)

	for _, order := range [][]*entry.Entry{{a, b, c}, {c, b, a}, {b, a, c}} {
		res := f.validator.Run(testContext(t), order, cfg)
		require.Len(t, res.Problems, 2)
		for _, p := range res.Problems {
			assert.Equal(t, ProblemCollision, p.Kind)
			assert.NotEqual(t, order[0].URI(), p.URI, "first occurrence is never flagged")
		}
	}
}

func TestCollisionWithUnchangedEntry(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{
		f.file(t, "/data/b.txt"),
		f.file(t, "/data/a.txt"),
	}

	res := f.validator.Run(testContext(t), entries, replaceConfig("a", "b", false))
	assert.False(t, res.Valid, "renaming onto a name held by another entry collides")
}

func TestValidPass(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{
		f.file(t, "/data/IMG_1.jpg"),
		f.file(t, "/data/IMG_2.jpg"),
		f.file(t, "/data/notes.txt"),
	}

	res := f.validator.Run(testContext(t), entries, replaceConfig("IMG", "photo_%0n", false))

	assert.Equal(t, []string{"photo_01_1.jpg", "photo_02_2.jpg", "notes.txt"}, newNames(res))
	assert.True(t, res.Valid)
	assert.True(t, res.Executable())
	assert.Len(t, res.Renames(), 2)
	assert.Equal(t, text.ScopeName, res.Scope)
	assert.False(t, res.ScopeLocked)

	_, ok := res.Problem()
	assert.False(t, ok)
}

func TestNoChangesIsNotExecutable(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{f.file(t, "/data/a.txt")}

	res := f.validator.Run(testContext(t), entries, replaceConfig("", "x", false))
	assert.True(t, res.Valid)
	assert.False(t, res.AnyChanges)
	assert.False(t, res.Executable())
}

func TestDirectoriesForceScopeAll(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{
		f.file(t, "/data/d.v1/a.v1"),
		f.dir(t, "/data/d.v1"),
	}

	cfg := replaceConfig("v1", "v2", false)
	cfg.Scope = text.ScopeName

	res := f.validator.Run(testContext(t), entries, cfg)
	assert.Equal(t, text.ScopeAll, res.Scope)
	assert.True(t, res.ScopeLocked)
	assert.Equal(t, []string{"a.v2", "d.v2"}, newNames(res))
	assert.True(t, res.Valid)
}

func TestInvalidPatternIsTransient(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{
		f.file(t, "/data/a.txt"),
		f.file(t, "/data/b.txt"),
	}

	res := f.validator.Run(testContext(t), entries, replaceConfig("(", "x", true))

	assert.Equal(t, []string{"a.txt", "b.txt"}, newNames(res), "names fall back to the original")
	assert.True(t, res.Valid)
	assert.False(t, res.Executable())
	require.Len(t, res.Problems, 1, "reported once per pass")
	assert.Equal(t, ProblemInvalidPattern, res.Problems[0].Kind)
	assert.Contains(t, res.Problems[0].Message, "Invalid regular expression")
}

func TestNotWritable(t *testing.T) {
	f := newFixture(t, true)
	ro := f.file(t, "/ro/a.txt")
	require.NoError(t, f.fs.Chmod("/ro", 0o555))

	res := f.validator.Run(testContext(t), []*entry.Entry{ro}, replaceConfig("a", "b", false))
	require.False(t, res.Valid)
	p, _ := res.Problem()
	assert.Equal(t, ProblemParentNotWritable, p.Kind)
	assert.Equal(t, "'ro' is not writeable.", p.Message)

	f2 := newFixture(t, true)
	locked := f2.file(t, "/rw/a.txt")
	require.NoError(t, f2.fs.Chmod("/rw/a.txt", 0o444))
	locked = f2.stat(t, locked.Location.Path)

	res = f2.validator.Run(testContext(t), []*entry.Entry{locked}, replaceConfig("a", "b", false))
	require.False(t, res.Valid)
	p, _ = res.Problem()
	assert.Equal(t, ProblemNotWritable, p.Kind)
}

func TestInvalidName(t *testing.T) {
	f := newFixture(t, false)
	entries := []*entry.Entry{f.file(t, "/data/a.txt")}

	res := f.validator.Run(testContext(t), entries, replaceConfig("a", "x/y", false))
	require.False(t, res.Valid)
	p, _ := res.Problem()
	assert.Equal(t, ProblemInvalidName, p.Kind)

	cfg := replaceConfig("a.txt", "", false)
	cfg.Scope = text.ScopeAll
	res = f.validator.Run(testContext(t), entries, cfg)
	require.False(t, res.Valid)
	p, _ = res.Problem()
	assert.Equal(t, ProblemInvalidName, p.Kind)
}

func TestRunNames(t *testing.T) {
	f := newFixture(t, false)
	a := f.file(t, "/data/a.jpg")
	b := f.file(t, "/data/b.jpg")

	res := f.validator.RunNames(testContext(t), []*entry.Entry{a, b}, map[string]string{
		a.URI(): "20240101_120000_001.jpg",
	})

	assert.Equal(t, []string{"20240101_120000_001.jpg", "b.jpg"}, newNames(res))
	assert.True(t, res.Executable())
	assert.Equal(t, "20240101_120000_001.jpg", res.Names()[a.URI()])
}

func TestTransformPanicIsRecovered(t *testing.T) {
	f := newFixture(t, false)
	a := f.file(t, "/data/a.txt")

	res := f.validator.validate(testContext(t), []*entry.Entry{a}, func(int, *entry.Entry) (string, error) {
		panic("boom")
	})

	require.Len(t, res.Proposals, 1)
	assert.Equal(t, "a.txt", res.Proposals[0].NewName)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, ProblemTransformFailed, res.Problems[0].Kind)
	assert.True(t, res.Valid)
}
