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
	"github.com/walteh/bulky/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

// RollbackFailure is one rename that could not be undone.
type RollbackFailure struct {
	URI     string
	OldName string
	Err     error
}

// 📊 RollbackReport counts the outcome of a rollback
type RollbackReport struct {
	RolledBack int
	Failed     int
	Failures   []RollbackFailure
}

// ↩️ Rollback undoes the successful renames in reverse completion order. It
// keeps going past failures and reports them in the returned report.
func (b *Batch) Rollback(ctx context.Context, emit Emitter) (*RollbackReport, error) {
	logger := zerolog.Ctx(ctx)

	b.mu.Lock()
	if b.state != StateCompleted && b.state != StateFailed {
		state := b.state
		b.mu.Unlock()
		return nil, errors.Errorf("%w: state is %s", ErrNotFinished, state)
	}
	successes := append([]Success(nil), b.log.Successes...)
	b.mu.Unlock()

	if len(successes) == 0 {
		return nil, ErrNothingToRollBack
	}

	report := &RollbackReport{}
	for i := len(successes) - 1; i >= 0; i-- {
		s := successes[i]

		to, from, err := b.revert(ctx, s)
		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, RollbackFailure{URI: s.NewURI, OldName: s.OldName, Err: err})
			logger.Error().Err(err).Str("uri", s.NewURI).Msg("rollback failed")
			continue
		}

		report.RolledBack++
		logger.Debug().Str("from", from.URI()).Str("to", to.URI()).Msg("rolled back")
		emitTo(emit, Event{Kind: EventReverted, From: from, To: to})
		emitTo(emit, Event{Kind: EventProgress, Processed: report.RolledBack + report.Failed, Total: len(successes)})
	}

	b.mu.Lock()
	b.state = StateRolledBack
	b.mu.Unlock()

	emitTo(emit, Event{Kind: EventFinished, State: StateRolledBack, Processed: report.RolledBack, Total: len(successes)})

	if report.Failed > 0 {
		return report, errors.Errorf("%w: %d of %d renames could not be undone", ErrRollbackPartialFailure, report.Failed, len(successes))
	}
	return report, nil
}

func (b *Batch) revert(ctx context.Context, s Success) (to, from backend.Location, err error) {
	from, err = backend.ParseLocation(s.NewURI)
	if err != nil {
		return to, from, err
	}
	to, err = b.rename(ctx, from, s.OldName)
	if err != nil {
		return to, from, err
	}
	return to, from, nil
}

// 🔙 RollbackOp runs Batch.Rollback through a Runner
type RollbackOp struct {
	Batch  *Batch
	Report *RollbackReport
}

func (op *RollbackOp) Execute(ctx context.Context, emit Emitter) error {
	report, err := op.Batch.Rollback(ctx, emit)
	op.Report = report
	return err
}
