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

package operation

import (
	"context"

	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/entry"
)

// 🏃 Operation is a unit of work executed by a Runner
type Operation interface {
	Execute(ctx context.Context, emit Emitter) error
}

// Emitter receives events produced by an operation.
type Emitter func(Event)

// 🚦 State is the lifecycle state of a batch
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// EventKind identifies an Event.
type EventKind int

const (
	// EventRenamed is sent after an entry was renamed
	EventRenamed EventKind = iota
	// EventProgress carries processed/total after each rename
	EventProgress
	// EventReverted is sent after a rename was undone
	EventReverted
	// EventFinished carries the terminal state
	EventFinished
)

// 📨 Event is a message from a running operation
type Event struct {
	Kind      EventKind
	Entry     *entry.Entry
	From      backend.Location
	To        backend.Location
	Processed int
	Total     int
	State     State
	Err       error
}

func emitTo(emit Emitter, ev Event) {
	if emit != nil {
		emit(ev)
	}
}
