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
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/config"
	"github.com/walteh/bulky/pkg/discover"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/log"
	"github.com/walteh/bulky/pkg/metrics"
	"github.com/walteh/bulky/pkg/preview"
	"github.com/walteh/bulky/pkg/session"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// env bundles what one command run needs.
type env struct {
	opts    *opts.RootOpts
	cmd     *cobra.Command
	user    *UserLogger
	console *log.Logger
	fs      afero.Fs

	prefsPath string
	prefs     *config.Prefs

	sess    *session.Session
	metrics *metrics.Metrics
}

// 🏭 newEnv wires a session, its metrics and the loggers for cmd
func newEnv(cmd *cobra.Command, o *opts.RootOpts) *env {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sess := session.New(session.Options{
		Backends: backend.Default(),
		Async:    o.Async,
	})

	e := &env{
		opts:    o,
		cmd:     cmd,
		user:    NewUserLogger(ctx, out),
		console: log.New(out, zerolog.GlobalLevel()),
		fs:      afero.NewOsFs(),
		sess:    sess,
		metrics: metrics.New(sess.CacheStats),
	}
	e.loadPrefs(ctx)
	return e
}

func (e *env) loadPrefs(ctx context.Context) {
	logger := zerolog.Ctx(ctx)

	e.prefsPath = e.opts.PrefsFile
	if e.prefsPath == "" {
		p, err := config.DefaultPrefsPath()
		if err != nil {
			logger.Debug().Err(err).Msg("prefs disabled")
			return
		}
		e.prefsPath = p
	}

	prefs, err := config.LoadPrefs(ctx, e.fs, e.prefsPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", e.prefsPath).Msg("ignoring unreadable prefs")
		return
	}
	e.prefs = prefs
}

// savePrefs remembers the operation, scope and first loaded directory.
func (e *env) savePrefs(ctx context.Context, cfg text.Config) {
	if e.prefsPath == "" {
		return
	}
	if e.prefs == nil {
		e.prefs = &config.Prefs{}
	}
	e.prefs.Operation = cfg.Kind.String()
	e.prefs.Scope = cfg.Scope.String()
	if entries := e.sess.Entries(); len(entries) > 0 {
		e.prefs.Remember(entries[0].ParentDisplayPath())
	}
	if err := config.SavePrefs(ctx, e.fs, e.prefsPath, e.prefs); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("saving prefs")
	}
}

// 📂 load adds every argument to the session. With --glob or --exclude,
// directory arguments are expanded to their matching contents.
func (e *env) load(ctx context.Context, args []string) error {
	expand := len(e.opts.Glob) > 0 || len(e.opts.Exclude) > 0

	var targets []string
	for _, arg := range args {
		if !expand {
			targets = append(targets, arg)
			continue
		}
		found, err := discover.Expand(ctx, e.sess.Backends(), arg, e.opts.Glob, e.opts.Exclude)
		if errors.Is(err, discover.ErrNotDirectory) {
			targets = append(targets, arg)
			continue
		}
		if err != nil {
			return err
		}
		targets = append(targets, found...)
	}

	added, err := e.sess.Add(ctx, targets...)
	if err != nil {
		return err
	}
	if len(e.sess.Entries()) == 0 {
		return errors.Errorf("no entries to rename")
	}
	e.user.LogStateChange(fmt.Sprintf("Loaded %s", english.Plural(len(added), "entry", "entries")))
	return nil
}

// 🖨️ renderPreview prints the proposals as a table, then the problem to show
func (e *env) renderPreview(res *preview.Result) error {
	data := pterm.TableData{{"Name", "New name", "Location"}}
	for _, p := range res.Proposals {
		newName := ""
		if p.Changed() {
			newName = log.HighlightChange(p.OldName, p.NewName)
		}
		data = append(data, []string{displayName(p.Entry, p.OldName), newName, p.Entry.ParentDisplayPath()})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(e.cmd.OutOrStdout()).Render(); err != nil {
		return errors.Errorf("rendering preview: %w", err)
	}

	if res.ScopeLocked && e.hasDirectories() {
		e.user.LogValidation(false, fmt.Sprintf("Scope locked to %q", res.Scope.String()), nil)
	}

	if p, ok := res.Problem(); ok {
		e.user.LogValidation(false, p.Message, nil)
	} else if res.AnyChanges {
		e.user.LogValidation(true, fmt.Sprintf("%s ready to rename", english.Plural(len(res.Renames()), "entry", "entries")), nil)
	} else {
		e.user.LogStateChange("Nothing to rename")
	}
	return nil
}

// logCacheStats prints the pattern cache counters at debug level.
func (e *env) logCacheStats(ctx context.Context) {
	st := e.sess.CacheStats()
	zerolog.Ctx(ctx).Debug().
		Str("hits", humanize.Comma(int64(st.Hits))).
		Str("misses", humanize.Comma(int64(st.Misses))).
		Float64("hit_rate", st.HitRate()).
		Int("size", st.Size).
		Msg("pattern cache")
}

// finish writes the metrics textfile when one was requested.
func (e *env) finish(ctx context.Context) error {
	e.logCacheStats(ctx)
	if e.opts.MetricsTextfile == "" {
		return nil
	}
	return e.metrics.WriteTextfile(e.opts.MetricsTextfile)
}

func (e *env) hasDirectories() bool {
	for _, en := range e.sess.Entries() {
		if en.IsDir {
			return true
		}
	}
	return false
}

func displayName(en *entry.Entry, name string) string {
	if en.IsDir {
		return name + "/"
	}
	return name
}
