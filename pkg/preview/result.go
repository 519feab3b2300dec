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
	"fmt"

	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
	"github.com/walteh/bulky/pkg/text"
)

// ⚠️ ProblemKind classifies a problem found during a pass
type ProblemKind int

const (
	ProblemInvalidPattern ProblemKind = iota
	ProblemTransformFailed
	ProblemCollision
	ProblemParentNotWritable
	ProblemNotWritable
	ProblemInvalidName
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemInvalidPattern:
		return "invalid-pattern"
	case ProblemTransformFailed:
		return "transform-failed"
	case ProblemCollision:
		return "collision"
	case ProblemParentNotWritable:
		return "parent-not-writable"
	case ProblemNotWritable:
		return "not-writable"
	case ProblemInvalidName:
		return "invalid-name"
	default:
		return "unknown"
	}
}

// Blocking reports whether the problem prevents execution.
func (k ProblemKind) Blocking() bool {
	switch k {
	case ProblemInvalidPattern, ProblemTransformFailed:
		return false
	}
	return true
}

// 🚫 Problem is one finding of a pass
type Problem struct {
	Kind    ProblemKind
	URI     string
	Message string
	Err     error
}

func (p Problem) Error() string {
	return p.Message
}

// 📝 Proposal is the computed new name for one entry
type Proposal struct {
	Entry   *entry.Entry
	Index   int
	OldName string
	NewName string
	Target  backend.Location
}

// Changed reports whether the entry would be renamed.
func (p Proposal) Changed() bool {
	return p.NewName != p.OldName
}

// 📋 Result is the outcome of one pass
type Result struct {
	Proposals   []Proposal
	Problems    []Problem
	Valid       bool
	AnyChanges  bool
	Scope       text.Scope
	ScopeLocked bool
}

// Problem returns the single message to surface: the first blocking
// problem, otherwise the first transient one.
func (r *Result) Problem() (Problem, bool) {
	for _, p := range r.Problems {
		if p.Kind.Blocking() {
			return p, true
		}
	}
	if len(r.Problems) > 0 {
		return r.Problems[0], true
	}
	return Problem{}, false
}

// Executable reports whether the pass may be handed to the executor.
func (r *Result) Executable() bool {
	return r.Valid && r.AnyChanges
}

// Renames returns the proposals that change a name.
func (r *Result) Renames() []Proposal {
	out := make([]Proposal, 0, len(r.Proposals))
	for _, p := range r.Proposals {
		if p.Changed() {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the proposed names keyed by entry URI.
func (r *Result) Names() map[string]string {
	out := make(map[string]string, len(r.Proposals))
	for _, p := range r.Proposals {
		out[p.Entry.URI()] = p.NewName
	}
	return out
}

func collisionProblem(e *entry.Entry) Problem {
	return Problem{
		Kind:    ProblemCollision,
		URI:     e.URI(),
		Message: fmt.Sprintf("Name collision on '%s'.", e.DisplayPath()),
	}
}

func parentProblem(e *entry.Entry) Problem {
	return Problem{
		Kind:    ProblemParentNotWritable,
		URI:     e.URI(),
		Message: fmt.Sprintf("'%s' is not writeable.", e.ParentDisplayPath()),
	}
}

func writableProblem(e *entry.Entry) Problem {
	return Problem{
		Kind:    ProblemNotWritable,
		URI:     e.URI(),
		Message: fmt.Sprintf("'%s' is not writeable.", e.DisplayPath()),
	}
}

func invalidNameProblem(e *entry.Entry, name string) Problem {
	return Problem{
		Kind:    ProblemInvalidName,
		URI:     e.URI(),
		Message: fmt.Sprintf("'%s' cannot be renamed to '%s'.", e.DisplayPath(), name),
	}
}
