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

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/commands"
	"github.com/walteh/bulky/cmd/bulky/opts"
)

// newRootCmd builds the command tree around one RootOpts
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "bulky",
		Short: "Rename many files and directories at once",
		Long: `bulky renames files and directories in bulk: find and replace with
wildcards or regular expressions, remove or insert characters, change case, or
name files after their photo date, music tags or content hash. Every batch is
previewed first and can be rolled back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(o.Debug)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewPreviewCmd(o),
		commands.NewRenameCmd(o),
		commands.NewUndoCmd(o),
		commands.NewToolCmd(o),
		newVersionCmd(),
	)
	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.ConfigFile, "config", "c", "", "transformation preset (.yaml, .hcl or .json)")
	f.StringVar(&o.PrefsFile, "prefs", "", "preferences file (default: user config dir)")
	f.StringVar(&o.MetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	f.StringSliceVar(&o.Glob, "glob", nil, "expand directory arguments with these globs, e.g. '**/*.jpg'")
	f.StringSliceVar(&o.Exclude, "exclude", nil, "skip expanded entries matching these globs")
	f.BoolVar(&o.Async, "async", false, "rename on a background worker")
	f.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
