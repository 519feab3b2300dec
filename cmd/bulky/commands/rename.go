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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/log"
	"github.com/walteh/bulky/pkg/operation"
	"github.com/walteh/bulky/pkg/preview"
	"github.com/walteh/bulky/pkg/session"
	"github.com/walteh/bulky/pkg/state"
	"github.com/walteh/bulky/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Rollback policies for a failed batch.
const (
	RollbackAsk    = "ask"
	RollbackAlways = "always"
	RollbackNever  = "never"
)

// executeOpts controls how a previewed pass is executed.
type executeOpts struct {
	title    string
	yes      bool
	rollback string
	journal  string
}

// 🚀 NewRenameCmd creates the rename command
func NewRenameCmd(o *opts.RootOpts) *cobra.Command {
	var eo executeOpts

	cmd := &cobra.Command{
		Use:   "rename [paths...]",
		Short: "Rename files and directories",
		Long: `Rename previews the transformation, asks for confirmation and renames
every entry. Entries are renamed deepest first so directories can be renamed
together with their contents. When a rename fails, the completed renames can be
rolled back.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e := newEnv(cmd, o)

			cfg, err := buildConfig(ctx, cmd, o, e.prefs)
			if err != nil {
				return err
			}
			if err := e.load(ctx, args); err != nil {
				return err
			}

			e.sess.SetConfig(cfg)
			res := e.sess.Preview(ctx)
			if err := e.renderPreview(res); err != nil {
				return err
			}

			eo.title = cfg.Kind.String()
			if err := e.execute(ctx, res, eo); err != nil {
				return err
			}
			e.savePrefs(ctx, cfg)
			return e.finish(ctx)
		},
	}

	addTransformFlags(cmd, &o.Transform)
	addExecuteFlags(cmd, &eo)
	return cmd
}

func addExecuteFlags(cmd *cobra.Command, eo *executeOpts) {
	cmd.Flags().BoolVarP(&eo.yes, "yes", "y", false, "rename without asking")
	cmd.Flags().StringVar(&eo.rollback, "rollback", RollbackAsk, "after a failure: ask, always or never roll back")
	cmd.Flags().StringVar(&eo.journal, "journal", "", "write a journal that 'bulky undo' can revert")
}

// execute runs an executable pass, reports each entry and handles failure.
func (e *env) execute(ctx context.Context, res *preview.Result, eo executeOpts) error {
	switch eo.rollback {
	case RollbackAsk, RollbackAlways, RollbackNever:
	default:
		return errors.Errorf("invalid --rollback %q, options: ask, always, never", eo.rollback)
	}

	if !res.Executable() {
		if p, ok := res.Problem(); ok && p.Kind.Blocking() {
			return errors.Errorf("%w: %s", session.ErrNotExecutable, p.Message)
		}
		return nil
	}

	renames := len(res.Renames())
	if !eo.yes {
		ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(fmt.Sprintf("Rename %d entries?", renames))
		if err != nil {
			return errors.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			e.user.LogStateChange("Cancelled")
			return nil
		}
	}

	bar, err := pterm.DefaultProgressbar.WithTotal(renames).WithTitle("Renaming").WithWriter(e.cmd.OutOrStdout()).Start()
	if err != nil {
		return errors.Errorf("starting progress bar: %w", err)
	}
	batch, runErr := e.sess.Execute(ctx, progressTo(bar))
	_, _ = bar.Stop()

	if batch == nil {
		return runErr
	}
	e.metrics.ObserveBatch(batch)

	if runErr != nil {
		var rerr *operation.RenameError
		if errors.As(runErr, &rerr) {
			e.user.LogValidation(false, rerr.Message(), nil)
		} else {
			e.user.LogValidation(false, "Rename failed", runErr)
		}
		if err := e.afterFailure(ctx, batch, eo); err != nil {
			return err
		}
	}

	e.report(ctx, batch, eo.title)

	if eo.journal != "" && batch.State() != operation.StateRolledBack && batch.CanRollback() {
		if err := state.Save(ctx, e.fs, eo.journal, state.FromBatch(batch)); err != nil {
			return err
		}
		e.console.Infof("Journal written to %s, revert with 'bulky undo --journal %s'", eo.journal, eo.journal)
	}

	if runErr != nil {
		return errors.Errorf("renaming: %w", runErr)
	}
	e.user.LogSuccess(fmt.Sprintf("Renamed %d entries", len(batch.Log().Successes)))
	return nil
}

// afterFailure applies the rollback policy to a failed batch.
func (e *env) afterFailure(ctx context.Context, batch *operation.Batch, eo executeOpts) error {
	if !batch.CanRollback() {
		return nil
	}

	undo := eo.rollback == RollbackAlways
	if eo.rollback == RollbackAsk {
		n := len(batch.Log().Successes)
		ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(true).Show(fmt.Sprintf("Roll back the %d completed renames?", n))
		if err != nil {
			return errors.Errorf("reading confirmation: %w", err)
		}
		undo = ok
	}
	if !undo {
		return nil
	}

	report, err := e.sess.RollbackBatch(ctx, batch, nil)
	e.metrics.ObserveRollback(report)
	e.reportRollback(report, err)
	return nil
}

// reportRollback prints the outcome of a rollback or undo.
func (e *env) reportRollback(report *operation.RollbackReport, err error) {
	if err == nil {
		e.console.Successf("Rolled back %d renames", report.RolledBack)
		return
	}
	if report == nil {
		e.console.Errorf("Rollback failed: %v", err)
		return
	}
	for _, f := range report.Failures {
		e.console.Warningf("Could not restore %q: %v", f.OldName, f.Err)
	}
	e.console.Errorf("Rollback incomplete: %d rolled back, %d failed", report.RolledBack, report.Failed)
}

// report prints one line per entry of the batch.
func (e *env) report(ctx context.Context, batch *operation.Batch, title string) {
	mgr := status.New(nil, nil)
	mgr.TrackBatch(ctx, batch)

	entries := mgr.ListEntries(ctx)
	e.console.StartBatch(ctx, log.BatchOperation{Title: title, Scope: e.sess.Config().Scope.String(), Entries: len(entries)})
	for _, info := range entries {
		e.console.LogRename(ctx, log.RenameOperation{
			OldName:    info.OldName,
			NewName:    info.NewName,
			Status:     info.Status.String(),
			Failed:     info.Status == status.StatusFailed,
			RolledBack: info.Status == status.StatusRolledBack,
		})
	}
	e.console.EndBatch(ctx)
}

func progressTo(bar *pterm.ProgressbarPrinter) func(processed, total int) {
	last := 0
	return func(processed, total int) {
		if processed > last {
			bar.Add(processed - last)
			last = processed
		}
	}
}
