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

package text

import "strings"

// 📎 SplitName splits name at its last dot. Leading dots do not start an
// extension, so ".bashrc" has none. dotted reports whether a separator was
// consumed, which matters for names ending in a dot.
func SplitName(name string) (stem, ext string, dotted bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, "", false
	}
	if strings.Trim(name[:i], ".") == "" {
		return name, "", false
	}
	return name[:i], name[i+1:], true
}

// JoinName reassembles a stem and extension. The dot is only written when
// the extension is not empty.
func JoinName(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// 🎯 ApplyScoped transforms the part of name selected by cfg.Scope and
// reassembles the result. On error the original name is returned.
func (e *Engine) ApplyScoped(cfg Config, index int, name string) (string, error) {
	if cfg.Scope == ScopeAll {
		out, err := e.Apply(cfg, index, name)
		if err != nil {
			return name, err
		}
		return out, nil
	}

	stem, ext, dotted := SplitName(name)

	switch cfg.Scope {
	case ScopeExtension:
		out, err := e.Apply(cfg, index, ext)
		if err != nil {
			return name, err
		}
		return JoinName(stem, out), nil
	default:
		out, err := e.Apply(cfg, index, stem)
		if err != nil {
			return name, err
		}
		if dotted {
			return out + "." + ext, nil
		}
		return out, nil
	}
}

// EffectiveScope returns ScopeAll whenever directories are involved, since a
// directory name has no extension to separate.
func EffectiveScope(requested Scope, hasDirectories bool) (scope Scope, locked bool) {
	if hasDirectories {
		return ScopeAll, true
	}
	return requested, false
}
