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
)

// 🔎 NewPreviewCmd creates the preview command
func NewPreviewCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [paths...]",
		Short: "Show what a transformation would rename",
		Long: `Preview computes the new name of every entry and checks that the
renames can be done, without touching anything. It reports the first name
collision or permission problem found.`,
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
			if err := e.renderPreview(e.sess.Preview(ctx)); err != nil {
				return err
			}

			e.savePrefs(ctx, cfg)
			return e.finish(ctx)
		},
	}

	addTransformFlags(cmd, &o.Transform)
	return cmd
}
