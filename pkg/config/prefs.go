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
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// maxRecent bounds the number of remembered directories.
const maxRecent = 10

// 💾 Prefs holds the most recently used settings between runs
type Prefs struct {
	Operation string   `yaml:"operation,omitempty"`
	Scope     string   `yaml:"scope,omitempty"`
	Recent    []string `yaml:"recent,omitempty"`
}

// DefaultPrefsPath returns the prefs file in the user config directory.
func DefaultPrefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("finding user config dir: %w", err)
	}
	return filepath.Join(dir, "bulky", "prefs.yaml"), nil
}

// 📖 LoadPrefs reads prefs from path. A missing file yields empty prefs.
func LoadPrefs(ctx context.Context, fs afero.Fs, path string) (*Prefs, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no prefs file")
			return &Prefs{}, nil
		}
		return nil, errors.Errorf("reading prefs: %w", err)
	}

	var p Prefs
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, errors.Errorf("parsing prefs: %w", err)
	}
	return &p, nil
}

// 💾 SavePrefs writes prefs to path, creating the parent directory
func SavePrefs(ctx context.Context, fs afero.Fs, path string, p *Prefs) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating prefs dir: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Errorf("encoding prefs: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Errorf("writing prefs: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("operation", p.Operation).Str("scope", p.Scope).Msg("saved prefs")
	return nil
}

// Remember moves dir to the front of the recent list.
func (p *Prefs) Remember(dir string) {
	out := []string{dir}
	for _, d := range p.Recent {
		if d != dir && len(out) < maxRecent {
			out = append(out, d)
		}
	}
	p.Recent = out
}
