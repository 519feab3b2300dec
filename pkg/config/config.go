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

package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for preset parsers
type Parser interface {
	// 📝 Parse parses the preset from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 ReplaceArgs configures the replace operation
type ReplaceArgs struct {
	Find          string `json:"find" yaml:"find" hcl:"find,optional"`
	With          string `json:"with" yaml:"with" hcl:"with,optional"`
	Regex         bool   `json:"regex,omitempty" yaml:"regex,omitempty" hcl:"regex,optional"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty" hcl:"case_sensitive,optional"`
	Start         *int   `json:"start,omitempty" yaml:"start,omitempty" hcl:"start,optional"`
	Increment     *int   `json:"increment,omitempty" yaml:"increment,omitempty" hcl:"increment,optional"`
}

// ✂️ RemoveArgs configures the remove operation. Positions are 1-based.
type RemoveArgs struct {
	From    *int `json:"from,omitempty" yaml:"from,omitempty" hcl:"from,optional"`
	To      *int `json:"to,omitempty" yaml:"to,omitempty" hcl:"to,optional"`
	FromEnd bool `json:"from_end,omitempty" yaml:"from_end,omitempty" hcl:"from_end,optional"`
	ToEnd   bool `json:"to_end,omitempty" yaml:"to_end,omitempty" hcl:"to_end,optional"`
}

// ➕ InsertArgs configures the insert operation
type InsertArgs struct {
	Text      string `json:"text" yaml:"text" hcl:"text,optional"`
	Position  *int   `json:"position,omitempty" yaml:"position,omitempty" hcl:"position,optional"`
	Reverse   bool   `json:"reverse,omitempty" yaml:"reverse,omitempty" hcl:"reverse,optional"`
	Overwrite bool   `json:"overwrite,omitempty" yaml:"overwrite,omitempty" hcl:"overwrite,optional"`
	Start     *int   `json:"start,omitempty" yaml:"start,omitempty" hcl:"start,optional"`
	Increment *int   `json:"increment,omitempty" yaml:"increment,omitempty" hcl:"increment,optional"`
}

// 📚 Config is a saved transformation preset
type Config struct {
	Operation string       `json:"operation" yaml:"operation" hcl:"operation"`
	Scope     string       `json:"scope,omitempty" yaml:"scope,omitempty" hcl:"scope,optional"`
	Replace   *ReplaceArgs `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,block"`
	Remove    *RemoveArgs  `json:"remove,omitempty" yaml:"remove,omitempty" hcl:"remove,block"`
	Insert    *InsertArgs  `json:"insert,omitempty" yaml:"insert,omitempty" hcl:"insert,block"`
	Case      string       `json:"case,omitempty" yaml:"case,omitempty" hcl:"case,optional"`
}

// 🎯 Load loads a preset from a file on the local filesystem
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadFs(ctx, afero.NewOsFs(), path)
}

// 🎯 LoadFs loads a preset from fs
func LoadFs(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading preset")

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading preset file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing preset: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks that the preset describes a usable transformation
func (cfg *Config) Validate() error {
	if cfg.Operation == "" {
		return errors.Errorf("operation is required")
	}
	if _, err := cfg.ToTransform(); err != nil {
		return err
	}
	return nil
}

// 🔄 ToTransform converts the preset to a text.Config. Values the preset
// leaves unset keep the defaults of text.DefaultConfig.
func (cfg *Config) ToTransform() (text.Config, error) {
	out := text.DefaultConfig()

	kind, err := text.ParseKind(cfg.Operation)
	if err != nil {
		return out, err
	}
	out.Kind = kind

	if out.Scope, err = text.ParseScope(cfg.Scope); err != nil {
		return out, err
	}

	if r := cfg.Replace; r != nil {
		out.Replace.Find = r.Find
		out.Replace.With = r.With
		out.Replace.Regex = r.Regex
		out.Replace.CaseSensitive = r.CaseSensitive
		setInt(&out.Replace.Enum.Start, r.Start)
		setInt(&out.Replace.Enum.Increment, r.Increment)
	}

	if r := cfg.Remove; r != nil {
		setInt(&out.Remove.From, r.From)
		setInt(&out.Remove.To, r.To)
		out.Remove.FromEnd = r.FromEnd
		out.Remove.ToEnd = r.ToEnd
	}

	if in := cfg.Insert; in != nil {
		out.Insert.Text = in.Text
		setInt(&out.Insert.Position, in.Position)
		out.Insert.Reverse = in.Reverse
		out.Insert.Overwrite = in.Overwrite
		setInt(&out.Insert.Enum.Start, in.Start)
		setInt(&out.Insert.Enum.Increment, in.Increment)
	}

	if out.Case, err = text.ParseCaseMode(cfg.Case); err != nil {
		return out, err
	}

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

// 📝 String returns a short description of the preset
func (cfg *Config) String() string {
	scope := cfg.Scope
	if scope == "" {
		scope = "name"
	}
	return fmt.Sprintf("%s (%s)", cfg.Operation, scope)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
