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

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/config"
	"github.com/walteh/bulky/pkg/session"
	"github.com/walteh/bulky/pkg/text"
)

type harness struct {
	dir  string
	opts *opts.RootOpts
}

func newHarness(t *testing.T, files ...string) *harness {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}
	return &harness{
		dir:  dir,
		opts: &opts.RootOpts{PrefsFile: filepath.Join(dir, ".prefs", "prefs.yaml")},
	}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "bulky", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(NewPreviewCmd(h.opts), NewRenameCmd(h.opts), NewUndoCmd(h.opts), NewToolCmd(h.opts))

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRenameAndUndo(t *testing.T) {
	h := newHarness(t, "IMG_001.jpg", "IMG_002.jpg")
	journal := h.path("journal.json")
	h.opts.MetricsTextfile = h.path("bulky.prom")

	out, err := h.run(t, "rename", "--yes",
		"--find", "IMG_", "--with", "holiday_",
		"--journal", journal,
		h.path("IMG_001.jpg"), h.path("IMG_002.jpg"))
	require.NoError(t, err)
	assert.Contains(t, out, "Journal written to "+journal)

	assert.FileExists(t, h.path("holiday_001.jpg"))
	assert.FileExists(t, h.path("holiday_002.jpg"))
	assert.NoFileExists(t, h.path("IMG_001.jpg"))
	assert.FileExists(t, journal)

	prom, err := os.ReadFile(h.opts.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `bulky_renames_total{result="ok"} 2`)

	prefs, err := config.LoadPrefs(context.Background(), afero.NewOsFs(), h.opts.PrefsFile)
	require.NoError(t, err)
	assert.Equal(t, "replace", prefs.Operation)
	assert.Equal(t, "name", prefs.Scope)

	out, err = h.run(t, "undo", "--journal", journal)
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back 2 renames")

	assert.FileExists(t, h.path("IMG_001.jpg"))
	assert.FileExists(t, h.path("IMG_002.jpg"))
	assert.NoFileExists(t, h.path("holiday_001.jpg"))
	assert.NoFileExists(t, journal)
}

func TestPreviewDoesNotRename(t *testing.T) {
	h := newHarness(t, "a.txt")

	out, err := h.run(t, "preview", "--op", "case", "--case", "upper", h.path("a.txt"))
	require.NoError(t, err)

	assert.Contains(t, out, "A.txt")
	assert.FileExists(t, h.path("a.txt"))
}

func TestRenameCollision(t *testing.T) {
	h := newHarness(t, "a.txt", "b.txt")

	_, err := h.run(t, "rename", "--yes", "--find", "?", "--with", "x", h.path("a.txt"), h.path("b.txt"))
	require.ErrorIs(t, err, session.ErrNotExecutable)
	assert.Contains(t, err.Error(), "Name collision on")

	assert.FileExists(t, h.path("a.txt"))
	assert.FileExists(t, h.path("b.txt"))
}

func TestRenameDirectoryWithContents(t *testing.T) {
	h := newHarness(t, "photos/trip.jpg")

	_, err := h.run(t, "rename", "--yes", "--find", "p", "--with", "P",
		h.path("photos"), h.path("photos/trip.jpg"))
	require.NoError(t, err)

	// directories lock the scope to the whole name
	assert.FileExists(t, h.path("Photos/triP.jPg"))
}

func TestRenameGlob(t *testing.T) {
	h := newHarness(t, "pics/a.jpg", "pics/b.jpg", "pics/notes.txt", "pics/skip.jpg")
	h.opts.Glob = []string{"*.jpg"}
	h.opts.Exclude = []string{"skip.*"}

	_, err := h.run(t, "rename", "--yes", "--op", "insert", "--text", "%00n_", h.path("pics"))
	require.NoError(t, err)

	assert.FileExists(t, h.path("pics/001_a.jpg"))
	assert.FileExists(t, h.path("pics/002_b.jpg"))
	assert.FileExists(t, h.path("pics/notes.txt"))
	assert.FileExists(t, h.path("pics/skip.jpg"))
}

func TestToolNormalize(t *testing.T) {
	h := newHarness(t, "Relatório Final.PDF", "ok.txt")

	_, err := h.run(t, "tool", "normalize", h.path("Relatório Final.PDF"), h.path("ok.txt"))
	require.NoError(t, err)
	assert.FileExists(t, h.path("Relatório Final.PDF"), "without --apply nothing is renamed")

	_, err = h.run(t, "tool", "normalize", "--apply", h.path("Relatório Final.PDF"), h.path("ok.txt"))
	require.NoError(t, err)
	assert.FileExists(t, h.path("relatorio_final.pdf"))
	assert.FileExists(t, h.path("ok.txt"))
}

func TestToolUnknown(t *testing.T) {
	h := newHarness(t, "a.txt")
	_, err := h.run(t, "tool", "sparkle", h.path("a.txt"))
	require.Error(t, err)
}

func TestBuildConfig(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	dir := t.TempDir()

	preset := filepath.Join(dir, "preset.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("operation: insert\ninsert:\n  text: \"x\"\n  position: 3\n"), 0o644))

	tests := []struct {
		name   string
		preset string
		prefs  *config.Prefs
		args   []string
		check  func(t *testing.T, cfg text.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.DefaultConfig(), cfg)
			},
		},
		{
			name:  "prefs_pick_operation",
			prefs: &config.Prefs{Operation: "remove", Scope: "extension"},
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindRemove, cfg.Kind)
				assert.Equal(t, text.ScopeExtension, cfg.Scope)
			},
		},
		{
			name:   "flags_override_preset",
			preset: preset,
			prefs:  &config.Prefs{Operation: "remove"},
			args:   []string{"--at", "5", "--start", "7"},
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindInsert, cfg.Kind)
				assert.Equal(t, "x", cfg.Insert.Text)
				assert.Equal(t, 5, cfg.Insert.Position)
				assert.Equal(t, 7, cfg.Insert.Enum.Start)
				assert.Equal(t, 7, cfg.Replace.Enum.Start)
			},
		},
		{
			name: "replace_flags",
			args: []string{"--find", `(\d+)`, "--with", `n\1`, "--regex", "--case-sensitive", "--scope", "all"},
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.ReplaceParams{
					Find:          `(\d+)`,
					With:          `n\1`,
					Regex:         true,
					CaseSensitive: true,
					Enum:          text.Enumerator{Start: 1, Increment: 1},
				}, cfg.Replace)
				assert.Equal(t, text.ScopeAll, cfg.Scope)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &opts.RootOpts{ConfigFile: tt.preset}
			cmd := &cobra.Command{}
			addTransformFlags(cmd, &o.Transform)
			require.NoError(t, cmd.ParseFlags(tt.args))

			cfg, err := buildConfig(ctx, cmd, o, tt.prefs)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestBuildConfigErrors(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	for _, args := range [][]string{
		{"--op", "explode"},
		{"--scope", "middle"},
		{"--op", "case", "--case", "wavy"},
		{"--op", "remove", "--from=-1"},
	} {
		o := &opts.RootOpts{}
		cmd := &cobra.Command{}
		addTransformFlags(cmd, &o.Transform)
		require.NoError(t, cmd.ParseFlags(args))

		_, err := buildConfig(ctx, cmd, o, nil)
		assert.Error(t, err, "args %v", args)
	}
}
