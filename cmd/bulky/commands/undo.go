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
	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// ↩️ NewUndoCmd creates the undo command
func NewUndoCmd(o *opts.RootOpts) *cobra.Command {
	var journal string

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Revert the renames recorded in a journal",
		Long: `Undo reads a journal written by 'bulky rename --journal' and renames
every entry back, most recent first. The journal is removed once every rename
was reverted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if journal == "" {
				return errors.Errorf("--journal is required")
			}
			e := newEnv(cmd, o)

			report, err := state.Undo(ctx, e.fs, journal, e.sess.Backends(), nil)
			e.metrics.ObserveRollback(report)
			e.reportRollback(report, err)
			if err != nil {
				return err
			}
			return e.finish(ctx)
		},
	}

	cmd.Flags().StringVar(&journal, "journal", "", "journal file to revert")
	return cmd
}
