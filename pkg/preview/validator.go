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

package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/regexcache"
	"github.com/walteh/bulky/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔎 Validator runs preview passes
type Validator struct {
	engine   *text.Engine
	backends *backend.Registry
}

// 🏭 New creates a validator
func New(engine *text.Engine, backends *backend.Registry) *Validator {
	return &Validator{engine: engine, backends: backends}
}

type proposeFunc func(index int, e *entry.Entry) (string, error)

// 🏃 Run computes a pass for cfg. Directories in the set force ScopeAll.
func (v *Validator) Run(ctx context.Context, entries []*entry.Entry, cfg text.Config) *Result {
	hasDirs := false
	for _, e := range entries {
		if e.IsDir {
			hasDirs = true
			break
		}
	}

	scope, locked := text.EffectiveScope(cfg.Scope, hasDirs)
	effective := cfg.WithScope(scope)

	res := v.validate(ctx, entries, func(index int, e *entry.Entry) (string, error) {
		return v.engine.ApplyScoped(effective, index, e.Name)
	})
	res.Scope = scope
	res.ScopeLocked = locked
	return res
}

// RunNames computes a pass from names produced elsewhere, keyed by URI.
// Entries without a name keep their current one.
func (v *Validator) RunNames(ctx context.Context, entries []*entry.Entry, names map[string]string) *Result {
	res := v.validate(ctx, entries, func(_ int, e *entry.Entry) (string, error) {
		if name, ok := names[e.URI()]; ok {
			return name, nil
		}
		return e.Name, nil
	})
	res.Scope = text.ScopeAll
	res.ScopeLocked = true
	return res
}

func (v *Validator) validate(ctx context.Context, entries []*entry.Entry, propose proposeFunc) *Result {
	logger := zerolog.Ctx(ctx)

	res := &Result{
		Proposals: make([]Proposal, 0, len(entries)),
		Valid:     true,
	}
	seen := make(map[string]struct{}, len(entries))
	reported := make(map[string]struct{})

	for i, e := range entries {
		index := i + 1

		name, err := safePropose(propose, index, e)
		if err != nil {
			p := transformProblem(e, err)
			// a bad pattern fails for every entry, report it once
			key := p.Kind.String() + "\x00" + p.Message
			if _, dup := reported[key]; !dup || p.Kind != ProblemInvalidPattern {
				reported[key] = struct{}{}
				res.Problems = append(res.Problems, p)
			}
			name = e.Name
		}

		target := e.Target(name)
		if name == e.Name {
			target = e.Location
		}

		res.Proposals = append(res.Proposals, Proposal{
			Entry:   e,
			Index:   index,
			OldName: e.Name,
			NewName: name,
			Target:  target,
		})

		if problem, ok := v.check(ctx, e, name, target, seen); ok {
			logger.Debug().Str("uri", e.URI()).Str("problem", problem.Kind.String()).Msg(problem.Message)
			res.Problems = append(res.Problems, problem)
			res.Valid = false
		}
		seen[target.URI()] = struct{}{}

		if name != e.Name {
			res.AnyChanges = true
		}
	}

	logger.Debug().
		Int("entries", len(entries)).
		Int("problems", len(res.Problems)).
		Bool("valid", res.Valid).
		Bool("changes", res.AnyChanges).
		Msg("preview pass complete")

	return res
}

func (v *Validator) check(ctx context.Context, e *entry.Entry, name string, target backend.Location, seen map[string]struct{}) (Problem, bool) {
	if _, dup := seen[target.URI()]; dup {
		return collisionProblem(e), true
	}
	if !v.parentWritable(ctx, e) {
		return parentProblem(e), true
	}
	if !e.Writable {
		return writableProblem(e), true
	}
	if name != e.Name && !validName(name) {
		return invalidNameProblem(e, name), true
	}
	return Problem{}, false
}

// parentWritable probes the parent on every call, remote state may change
// between entries.
func (v *Validator) parentWritable(ctx context.Context, e *entry.Entry) bool {
	if e.Location.IsRoot() {
		return false
	}
	b, err := v.backends.For(e.Location)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("uri", e.URI()).Msg("no backend for entry")
		return false
	}
	ok, err := b.Writable(ctx, e.Parent().Path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("uri", e.URI()).Msg("parent writability probe failed")
		return false
	}
	return ok
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\x00"+string(filepath.Separator))
}

func safePropose(propose proposeFunc, index int, e *entry.Entry) (name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("transform panicked: %v", r)
		}
	}()
	return propose(index, e)
}

func transformProblem(e *entry.Entry, err error) Problem {
	if errors.Is(err, regexcache.ErrInvalidPattern) {
		return Problem{
			Kind:    ProblemInvalidPattern,
			URI:     e.URI(),
			Message: fmt.Sprintf("Invalid regular expression: %s", strings.TrimPrefix(err.Error(), regexcache.ErrInvalidPattern.Error()+": ")),
			Err:     err,
		}
	}
	return Problem{
		Kind:    ProblemTransformFailed,
		URI:     e.URI(),
		Message: fmt.Sprintf("'%s' %s.", e.DisplayPath(), err.Error()),
		Err:     err,
	}
}
