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

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/bulky/cmd/bulky/opts"
	"github.com/walteh/bulky/pkg/config"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// addTransformFlags registers the transformation flags on cmd
func addTransformFlags(cmd *cobra.Command, tf *opts.TransformFlags) {
	f := cmd.Flags()
	f.StringVar(&tf.Operation, "op", "replace", "operation: replace, remove, insert or case")
	f.StringVar(&tf.Scope, "scope", "name", "part of the name to change: name, extension or all")

	f.StringVar(&tf.Find, "find", "", "replace: text or pattern to find (* and ? are wildcards)")
	f.StringVar(&tf.With, "with", "", "replace: replacement, %n injects a counter")
	f.BoolVar(&tf.Regex, "regex", false, "replace: treat --find as a regular expression")
	f.BoolVar(&tf.CaseSensitive, "case-sensitive", false, "replace: match case")
	f.IntVar(&tf.Start, "start", 1, "first value of the %n counter")
	f.IntVar(&tf.Increment, "increment", 1, "step of the %n counter")

	f.IntVar(&tf.From, "from", 1, "remove: first position, 1-based")
	f.IntVar(&tf.To, "to", 1, "remove: last position, 1-based")
	f.BoolVar(&tf.FromEnd, "from-end", false, "remove: count --from from the end")
	f.BoolVar(&tf.ToEnd, "to-end", false, "remove: count --to from the end")

	f.StringVar(&tf.Text, "text", "", "insert: text to insert, %n injects a counter")
	f.IntVar(&tf.At, "at", 1, "insert: position, 1-based")
	f.BoolVar(&tf.Reverse, "reverse", false, "insert: count --at from the end")
	f.BoolVar(&tf.Overwrite, "overwrite", false, "insert: overwrite instead of shifting")

	f.StringVar(&tf.Case, "case", "title", "case: title, lower, upper, first or accents")
}

// 🔄 buildConfig resolves the transformation: remembered prefs first, then
// the preset file, then every flag the user set
func buildConfig(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts, prefs *config.Prefs) (text.Config, error) {
	logger := zerolog.Ctx(ctx)
	cfg := text.DefaultConfig()

	if prefs != nil {
		if k, err := text.ParseKind(prefs.Operation); err == nil {
			cfg.Kind = k
		}
		if s, err := text.ParseScope(prefs.Scope); err == nil {
			cfg.Scope = s
		}
	}

	if o.ConfigFile != "" {
		preset, err := config.LoadFs(ctx, afero.NewOsFs(), o.ConfigFile)
		if err != nil {
			return cfg, err
		}
		if cfg, err = preset.ToTransform(); err != nil {
			return cfg, err
		}
		logger.Debug().Str("preset", preset.String()).Msg("loaded preset")
	}

	f := cmd.Flags()
	tf := o.Transform
	var err error

	if f.Changed("op") {
		if cfg.Kind, err = text.ParseKind(tf.Operation); err != nil {
			return cfg, err
		}
	}
	if f.Changed("scope") {
		if cfg.Scope, err = text.ParseScope(tf.Scope); err != nil {
			return cfg, err
		}
	}
	if f.Changed("case") {
		if cfg.Case, err = text.ParseCaseMode(tf.Case); err != nil {
			return cfg, err
		}
	}

	setString(f.Changed("find"), &cfg.Replace.Find, tf.Find)
	setString(f.Changed("with"), &cfg.Replace.With, tf.With)
	setBool(f.Changed("regex"), &cfg.Replace.Regex, tf.Regex)
	setBool(f.Changed("case-sensitive"), &cfg.Replace.CaseSensitive, tf.CaseSensitive)

	if f.Changed("start") {
		cfg.Replace.Enum.Start = tf.Start
		cfg.Insert.Enum.Start = tf.Start
	}
	if f.Changed("increment") {
		cfg.Replace.Enum.Increment = tf.Increment
		cfg.Insert.Enum.Increment = tf.Increment
	}

	setInt(f.Changed("from"), &cfg.Remove.From, tf.From)
	setInt(f.Changed("to"), &cfg.Remove.To, tf.To)
	setBool(f.Changed("from-end"), &cfg.Remove.FromEnd, tf.FromEnd)
	setBool(f.Changed("to-end"), &cfg.Remove.ToEnd, tf.ToEnd)

	setString(f.Changed("text"), &cfg.Insert.Text, tf.Text)
	setInt(f.Changed("at"), &cfg.Insert.Position, tf.At)
	setBool(f.Changed("reverse"), &cfg.Insert.Reverse, tf.Reverse)
	setBool(f.Changed("overwrite"), &cfg.Insert.Overwrite, tf.Overwrite)

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Errorf("invalid transformation: %w", err)
	}
	return cfg, nil
}

func setString(changed bool, dst *string, v string) {
	if changed {
		*dst = v
	}
}

func setBool(changed bool, dst *bool, v bool) {
	if changed {
		*dst = v
	}
}

func setInt(changed bool, dst *int, v int) {
	if changed {
		*dst = v
	}
}
