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

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Kind selects which transformation a Config applies
type Kind int

const (
	KindReplace Kind = iota
	KindRemove
	KindInsert
	KindCase
)

func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindRemove:
		return "remove"
	case KindInsert:
		return "insert"
	case KindCase:
		return "case"
	default:
		return "unknown"
	}
}

// ParseKind parses the string form of a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "":
		return KindReplace, nil
	case "remove":
		return KindRemove, nil
	case "insert":
		return KindInsert, nil
	case "case", "change-case":
		return KindCase, nil
	}
	return 0, errors.Errorf("unknown operation %q", s)
}

// 🎯 Scope selects which part of a name is transformed
type Scope int

const (
	ScopeName Scope = iota
	ScopeExtension
	ScopeAll
)

func (s Scope) String() string {
	switch s {
	case ScopeName:
		return "name"
	case ScopeExtension:
		return "extension"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParseScope parses the string form of a Scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "":
		return ScopeName, nil
	case "extension", "ext":
		return ScopeExtension, nil
	case "all", "full":
		return ScopeAll, nil
	}
	return 0, errors.Errorf("unknown scope %q", s)
}

// 🔠 CaseMode selects the ChangeCase transformation
type CaseMode int

const (
	CaseTitle CaseMode = iota
	CaseLower
	CaseUpper
	CaseFirstUpper
	CaseStripAccents
)

func (m CaseMode) String() string {
	switch m {
	case CaseTitle:
		return "title"
	case CaseLower:
		return "lower"
	case CaseUpper:
		return "upper"
	case CaseFirstUpper:
		return "first"
	case CaseStripAccents:
		return "accents"
	default:
		return "unknown"
	}
}

// ParseCaseMode parses the string form of a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "":
		return CaseTitle, nil
	case "lower":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	case "first", "capitalize":
		return CaseFirstUpper, nil
	case "accents", "strip-accents":
		return CaseStripAccents, nil
	}
	return 0, errors.Errorf("unknown case mode %q", s)
}

// 🔢 Enumerator maps a 1-based sequence index to the number injected for %n
type Enumerator struct {
	Start     int
	Increment int
}

// Value returns (index-1)*Increment + Start.
func (e Enumerator) Value(index int) int {
	return (index-1)*e.Increment + e.Start
}

// ReplaceParams configures KindReplace.
type ReplaceParams struct {
	Find          string
	With          string
	Regex         bool
	CaseSensitive bool
	Enum          Enumerator
}

// RemoveParams configures KindRemove. Positions are 1-based.
type RemoveParams struct {
	From    int
	To      int
	FromEnd bool
	ToEnd   bool
}

// InsertParams configures KindInsert. Position is 1-based.
type InsertParams struct {
	Text      string
	Position  int
	Reverse   bool
	Overwrite bool
	Enum      Enumerator
}

// ⚙️ Config is an immutable snapshot of one transformation
type Config struct {
	Kind    Kind
	Scope   Scope
	Replace ReplaceParams
	Remove  RemoveParams
	Insert  InsertParams
	Case    CaseMode
}

// DefaultConfig returns a replace config with enumeration starting at 1.
func DefaultConfig() Config {
	return Config{
		Kind:    KindReplace,
		Scope:   ScopeName,
		Replace: ReplaceParams{Enum: Enumerator{Start: 1, Increment: 1}},
		Remove:  RemoveParams{From: 1, To: 1},
		Insert:  InsertParams{Position: 1, Enum: Enumerator{Start: 1, Increment: 1}},
	}
}

// WithScope returns a copy of the config using scope.
func (c Config) WithScope(scope Scope) Config {
	c.Scope = scope
	return c
}

// ✅ Validate checks the parameters used by the selected kind
func (c Config) Validate() error {
	switch c.Kind {
	case KindReplace, KindRemove, KindInsert:
	case KindCase:
		if c.Case < CaseTitle || c.Case > CaseStripAccents {
			return errors.Errorf("invalid case mode %d", c.Case)
		}
	default:
		return errors.Errorf("invalid operation %d", c.Kind)
	}
	if c.Scope < ScopeName || c.Scope > ScopeAll {
		return errors.Errorf("invalid scope %d", c.Scope)
	}
	if c.Kind == KindRemove && (c.Remove.From < 0 || c.Remove.To < 0) {
		return errors.Errorf("remove positions must not be negative")
	}
	if c.Kind == KindInsert && c.Insert.Position < 0 {
		return errors.Errorf("insert position must not be negative")
	}
	return nil
}
