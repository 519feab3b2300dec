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

package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Location
		wantURI string
		wantErr bool
	}{
		{
			name:    "absolute_path",
			input:   "/tmp/photos/a b.jpg",
			want:    Location{Scheme: SchemeFile, Path: "/tmp/photos/a b.jpg"},
			wantURI: "file:///tmp/photos/a%20b.jpg",
		},
		{
			name:    "file_uri",
			input:   "file:///tmp/photos/a%20b.jpg",
			want:    Location{Scheme: SchemeFile, Path: "/tmp/photos/a b.jpg"},
			wantURI: "file:///tmp/photos/a%20b.jpg",
		},
		{
			name:    "remote_uri",
			input:   "sftp://host/srv/data/",
			want:    Location{Scheme: "sftp", Host: "host", Path: "/srv/data"},
			wantURI: "sftp://host/srv/data",
		},
		{
			name:    "mem_uri",
			input:   "mem:///a/b.txt",
			want:    Location{Scheme: "mem", Path: "/a/b.txt"},
			wantURI: "mem:///a/b.txt",
		},
		{name: "empty", input: "", wantErr: true},
		{name: "file_uri_with_host", input: "file://server/share/x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantURI, got.URI())
		})
	}
}

func TestParseLocationRelative(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ParseLocation("some/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "some", "file.txt"), got.Path)
}

func TestLocationNavigation(t *testing.T) {
	loc := Location{Scheme: "mem", Path: "/a/b/c.txt"}

	assert.Equal(t, "c.txt", loc.Base())
	assert.Equal(t, Location{Scheme: "mem", Path: "/a/b"}, loc.Parent())
	assert.Equal(t, Location{Scheme: "mem", Path: "/a/b/d.txt"}, loc.Parent().Child("d.txt"))
	assert.Equal(t, []string{"a", "b", "c.txt"}, loc.Components())

	root := Location{Scheme: "mem", Path: "/"}
	assert.True(t, root.IsRoot())
	assert.False(t, loc.IsRoot())
	assert.Empty(t, root.Components())
}

func TestIsWithin(t *testing.T) {
	dir := Location{Scheme: "mem", Path: "/a/b"}

	assert.True(t, Location{Scheme: "mem", Path: "/a/b/c"}.IsWithin(dir))
	assert.False(t, dir.IsWithin(dir), "a location is not within itself")
	assert.False(t, Location{Scheme: "mem", Path: "/a/bc"}.IsWithin(dir), "string prefix is not a path prefix")
	assert.False(t, Location{Scheme: SchemeFile, Path: "/a/b/c"}.IsWithin(dir), "different scheme")
}

func TestRebase(t *testing.T) {
	oldRoot := Location{Scheme: "mem", Path: "/a/old"}
	newRoot := Location{Scheme: "mem", Path: "/a/new"}

	assert.Equal(t, newRoot, oldRoot.Rebase(oldRoot, newRoot))
	assert.Equal(t, Location{Scheme: "mem", Path: "/a/new/x/y.txt"},
		Location{Scheme: "mem", Path: "/a/old/x/y.txt"}.Rebase(oldRoot, newRoot))

	outside := Location{Scheme: "mem", Path: "/a/other"}
	assert.Equal(t, outside, outside.Rebase(oldRoot, newRoot))
}

func TestRegistry(t *testing.T) {
	mem := NewMem("mem")
	reg := NewRegistry(NewOS(), mem)

	b, err := reg.For(Location{Scheme: "mem", Path: "/"})
	require.NoError(t, err)
	assert.Same(t, mem, b)

	_, err = reg.For(Location{Scheme: "smb", Path: "/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownScheme))
	assert.Equal(t, []string{"file", "mem"}, reg.Schemes())
}

func TestAferoWritable(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/rw", 0o755))
	require.NoError(t, fs.MkdirAll("/ro", 0o755))
	require.NoError(t, fs.Chmod("/ro", 0o555))

	native := NewAfero("mem", fs, true)
	ok, err := native.Writable(ctx, "/rw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = native.Writable(ctx, "/ro")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = native.Writable(ctx, "/missing")
	require.Error(t, err)

	remote := NewAfero("mem", fs, false)
	ok, err = remote.Writable(ctx, "/ro")
	require.NoError(t, err)
	assert.True(t, ok, "non-native backends are optimistic")
}

func TestOSWritable(t *testing.T) {
	dir := t.TempDir()
	ok, err := NewOS().Writable(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, ok)
}
