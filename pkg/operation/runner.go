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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Runner executes operations
type Runner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(async bool) *Runner {
	return &Runner{async: async}
}

// 🏃 Run executes op. Events always reach sink on the calling goroutine.
func (r *Runner) Run(ctx context.Context, op Operation, sink Emitter) error {
	if r.async {
		return r.runAsync(ctx, op, sink)
	}
	return r.runSync(ctx, op, sink)
}

// 🔄 runSync runs an operation synchronously
func (r *Runner) runSync(ctx context.Context, op Operation, sink Emitter) error {
	return op.Execute(ctx, sink)
}

// ⚡ runAsync runs the operation on a worker goroutine and forwards its
// events. A batch is never interrupted half way, so the context is not
// used for cancellation.
func (r *Runner) runAsync(ctx context.Context, op Operation, sink Emitter) error {
	events := make(chan Event, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(events)
		defer func() {
			if p := recover(); p != nil {
				errCh <- errors.Errorf("operation panicked: %v", p)
			}
		}()
		errCh <- op.Execute(ctx, func(ev Event) { events <- ev })
	}()

	delivered := 0
	for ev := range events {
		delivered++
		emitTo(sink, ev)
	}

	zerolog.Ctx(ctx).Debug().Int("events", delivered).Msg("operation finished")
	return <-errCh
}
