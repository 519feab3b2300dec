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
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bulky/pkg/text"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg text.Config)
	}{
		{
			name: "yaml_replace",
			file: "preset.yaml",
			config: `
operation: replace
scope: all
replace:
  find: "IMG_*"
  with: "holiday_%n_"
  case_sensitive: true
  start: 10
  increment: 5
`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindReplace, cfg.Kind)
				assert.Equal(t, text.ScopeAll, cfg.Scope)
				assert.Equal(t, "IMG_*", cfg.Replace.Find)
				assert.Equal(t, "holiday_%n_", cfg.Replace.With)
				assert.True(t, cfg.Replace.CaseSensitive)
				assert.False(t, cfg.Replace.Regex)
				assert.Equal(t, text.Enumerator{Start: 10, Increment: 5}, cfg.Replace.Enum)
			},
		},
		{
			name: "yaml_defaults_kept",
			file: "preset.yml",
			config: `
operation: insert
insert:
  text: "x"
`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindInsert, cfg.Kind)
				assert.Equal(t, text.ScopeName, cfg.Scope)
				assert.Equal(t, 1, cfg.Insert.Position)
				assert.Equal(t, text.Enumerator{Start: 1, Increment: 1}, cfg.Insert.Enum)
			},
		},
		{
			name: "yaml_zero_start",
			file: "preset.yaml",
			config: `
operation: replace
replace:
  find: a
  with: "%n"
  start: 0
`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, 0, cfg.Replace.Enum.Start)
				assert.Equal(t, 1, cfg.Replace.Enum.Increment)
			},
		},
		{
			name: "yaml_unknown_field",
			file: "preset.yaml",
			config: `
operation: replace
bogus: true
`,
			wantErr:     true,
			errContains: "bogus",
		},
		{
			name:        "yaml_missing_operation",
			file:        "preset.yaml",
			config:      "scope: name\n",
			wantErr:     true,
			errContains: "operation is required",
		},
		{
			name:        "yaml_unknown_case",
			file:        "preset.yaml",
			config:      "operation: case\ncase: sideways\n",
			wantErr:     true,
			errContains: "unknown case mode",
		},
		{
			name: "hcl_remove",
			file: "preset.hcl",
			config: `
operation = "remove"
scope     = extension

remove {
  from     = 2
  to       = 4
  from_end = true
}
`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindRemove, cfg.Kind)
				assert.Equal(t, text.ScopeExtension, cfg.Scope)
				assert.Equal(t, text.RemoveParams{From: 2, To: 4, FromEnd: true}, cfg.Remove)
			},
		},
		{
			name: "hcl_case",
			file: "preset.hcl",
			config: `
operation = "case"
case      = "upper"
`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindCase, cfg.Kind)
				assert.Equal(t, text.CaseUpper, cfg.Case)
			},
		},
		{
			name:        "hcl_invalid",
			file:        "preset.hcl",
			config:      `operation = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:   "json_insert",
			file:   "preset.json",
			config: `{"operation": "insert", "insert": {"text": "_%00n", "position": 3, "reverse": true, "overwrite": true}}`,
			check: func(t *testing.T, cfg text.Config) {
				assert.Equal(t, text.KindInsert, cfg.Kind)
				assert.Equal(t, "_%00n", cfg.Insert.Text)
				assert.Equal(t, 3, cfg.Insert.Position)
				assert.True(t, cfg.Insert.Reverse)
				assert.True(t, cfg.Insert.Overwrite)
			},
		},
		{
			name:        "json_unknown_field",
			file:        "preset.json",
			config:      `{"operation": "insert", "nope": 1}`,
			wantErr:     true,
			errContains: `unknown preset field "nope"`,
		},
		{
			name:        "json_wrong_type_names_field",
			file:        "preset.json",
			config:      `{"operation": "insert", "insert": {"text": "x", "position": "three"}}`,
			wantErr:     true,
			errContains: `preset field "insert.position" must be a number, not string`,
		},
		{
			name:        "json_not_an_object",
			file:        "preset.json",
			config:      `["replace"]`,
			wantErr:     true,
			errContains: "preset must be an object",
		},
		{
			name:        "json_syntax_position",
			file:        "preset.json",
			config:      "{\n  \"operation\": \"insert\",\n  oops\n}",
			wantErr:     true,
			errContains: "line 3, column",
		},
		{
			name:        "json_trailing_object",
			file:        "preset.json",
			config:      `{"operation": "case"} {"operation": "insert"}`,
			wantErr:     true,
			errContains: "exactly one object",
		},
		{
			name:        "json_empty",
			file:        "preset.json",
			config:      ``,
			wantErr:     true,
			errContains: "preset is empty",
		},
		{
			name:        "unsupported_extension",
			file:        "preset.toml",
			config:      `operation = "replace"`,
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/presets/"+tt.file, []byte(tt.config), 0o644))

			cfg, err := LoadFs(ctx, fs, "/presets/"+tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			tc, err := cfg.ToTransform()
			require.NoError(t, err)
			tt.check(t, tc)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	_, err := LoadFs(ctx, afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading preset file")
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{file: "a.yaml", want: &YAMLParser{}},
		{file: "a.yml", want: &YAMLParser{}},
		{file: "a.hcl", want: &HCLParser{}},
		{file: "A.JSON", want: &JSONParser{}},
		{file: "a.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "replace (name)", (&Config{Operation: "replace"}).String())
	assert.Equal(t, "case (all)", (&Config{Operation: "case", Scope: "all"}).String())
}
