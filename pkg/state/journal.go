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

package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/bulky/pkg/backend"
	"github.com/walteh/bulky/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// Version is the journal format version written by Save.
const Version = 1

var ErrUnsupportedVersion = errors.Base("unsupported journal version")

// 📒 Journal is a persisted record of one executed batch, enough to undo it
// later from another process
type Journal struct {
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	State     string        `json:"state"`
	Log       operation.Log `json:"log"`
	Failure   string        `json:"failure,omitempty"`
}

// FromBatch snapshots a finished batch.
func FromBatch(batch *operation.Batch) *Journal {
	j := &Journal{
		Version:   Version,
		CreatedAt: time.Now().UTC(),
		State:     batch.State().String(),
		Log:       batch.Log(),
	}
	if f := batch.Failure(); f != nil {
		j.Failure = f.Message()
	}
	return j
}

// Batch rebuilds a batch that can roll back the journaled renames.
func (j *Journal) Batch(backends *backend.Registry) *operation.Batch {
	return operation.Restore(backends, j.Log)
}

// 💾 Save writes the journal to path through a temp file and a rename
func Save(ctx context.Context, fs afero.Fs, path string, j *Journal) error {
	logger := zerolog.Ctx(ctx)

	content, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return errors.Errorf("encoding journal: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating journal dir: %w", err)
	}

	tempPath := path + ".tmp"
	if err := afero.WriteFile(fs, tempPath, content, 0o644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		_ = fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	logger.Debug().Str("path", path).Int("successes", len(j.Log.Successes)).Msg("wrote journal")
	return nil
}

// 📖 Load reads a journal written by Save
func Load(ctx context.Context, fs afero.Fs, path string) (*Journal, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading journal")

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(content, &j); err != nil {
		return nil, errors.Errorf("parsing journal: %w", err)
	}
	if j.Version != Version {
		return nil, errors.Errorf("%w: %d", ErrUnsupportedVersion, j.Version)
	}
	return &j, nil
}

// Remove deletes the journal. A missing journal is not an error.
func Remove(ctx context.Context, fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing journal: %w", err)
	}
	return nil
}

// ↩️ Undo loads the journal at path, rolls its renames back and removes the
// journal when every rename was undone
func Undo(ctx context.Context, fs afero.Fs, path string, backends *backend.Registry, emit operation.Emitter) (*operation.RollbackReport, error) {
	j, err := Load(ctx, fs, path)
	if err != nil {
		return nil, err
	}

	report, err := j.Batch(backends).Rollback(ctx, emit)
	if err != nil {
		return report, errors.Errorf("undoing journal: %w", err)
	}

	if err := Remove(ctx, fs, path); err != nil {
		return report, err
	}
	return report, nil
}
