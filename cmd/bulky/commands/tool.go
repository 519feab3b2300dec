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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/provider"
)

// 🧰 NewToolCmd creates the tool command, which names entries with a
// provider instead of a text transformation
func NewToolCmd(o *opts.RootOpts) *cobra.Command {
	var (
		popts provider.Options
		apply bool
		eo    executeOpts
	)

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("tool {%s} [paths...]", strings.Join(provider.Names(), "|")),
		Short: "Rename by photo date, music tags, content hash or normalized name",
		Long: `Tool proposes names computed by a provider:

  exif       <prefix>YYYYMMDD_HHMMSS_NNN.jpg from the photo capture time
  id3        Artist_-_Title.mp3 from the music tags
  hash       <digest>.<ext> from the file content
  normalize  lower-case ASCII names with underscores

Without --apply the names are only previewed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := provider.New(args[0], popts)
			if err != nil {
				return err
			}

			e := newEnv(cmd, o)
			if err := e.load(ctx, args[1:]); err != nil {
				return err
			}

			names, err := p.Propose(ctx, e.sess.Backends(), e.sess.Entries())
			if err != nil {
				return err
			}
			e.user.LogStateChange(fmt.Sprintf("%s named %d of %d entries", p.Name(), len(names), len(e.sess.Entries())))

			e.sess.SetNames(names)
			res := e.sess.Preview(ctx)
			if err := e.renderPreview(res); err != nil {
				return err
			}

			if apply {
				eo.yes = true
				eo.title = p.Name()
				if err := e.execute(ctx, res, eo); err != nil {
					return err
				}
			}
			return e.finish(ctx)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&apply, "apply", false, "rename instead of only previewing")
	f.StringVar(&popts.Prefix, "prefix", "", "exif: prefix for every name")
	f.StringVar(&popts.Algorithm, "algorithm", provider.DefaultAlgorithm, "hash: sha256, sha1, md5, blake3 or xxhash")
	f.IntVar(&popts.Length, "length", provider.DefaultLength, "hash: digest characters to keep, 8 to 64")
	f.IntVar(&popts.Concurrency, "concurrency", provider.DefaultConcurrency, "hash: files read at once")
	f.StringVar(&eo.rollback, "rollback", RollbackAsk, "after a failure: ask, always or never roll back")
	f.StringVar(&eo.journal, "journal", "", "write a journal that 'bulky undo' can revert")
	return cmd
}
