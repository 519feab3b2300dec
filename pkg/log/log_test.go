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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_rename",
			op: func(t *testing.T, logger *Logger) {
				logger.LogRename(context.Background(), RenameOperation{
					OldName: "a.txt",
					NewName: "b.txt",
					Status:  "renamed",
				})
			},
			wantLogs: []string{
				"✓ a.txt                               renamed      → b.txt",
			},
		},
		{
			name: "log_batch",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.StartBatch(ctx, BatchOperation{Title: "replace", Scope: "name", Entries: 2})
				logger.LogRename(ctx, RenameOperation{OldName: "a.txt", NewName: "b.txt", Status: "renamed"})
				logger.LogRename(ctx, RenameOperation{OldName: "c.txt", NewName: "d.txt", Status: "failed", Failed: true})
				logger.EndBatch(ctx)
			},
			wantLogs: []string{
				"◆ replace • 2 entries",
				"✓ a.txt                               renamed      → b.txt",
				"✗ c.txt                               failed       → d.txt",
				"• 1 changed, 1 failed, 2 total",
			},
		},
		{
			name: "end_without_start",
			op: func(t *testing.T, logger *Logger) {
				logger.EndBatch(context.Background())
				logger.Info("done")
			},
			wantLogs: []string{
				"ℹ️  done",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("renamed %d files", 3)
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ renamed 3 files",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("preview")
			},
			wantLogs: []string{
				"bulky • preview",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestRenameFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   RenameOperation
		want string
	}{
		{
			name: "unchanged",
			op:   RenameOperation{OldName: "same.txt", NewName: "same.txt", Status: "unchanged"},
			want: "- same.txt                            unchanged",
		},
		{
			name: "rolled_back_directory",
			op:   RenameOperation{OldName: "photos", NewName: "pics", Status: "restored", IsDir: true, RolledBack: true},
			want: "↺ photos/                             restored     → pics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			logger.LogRename(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
		})
	}
}

func TestHighlightChange(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name    string
		oldName string
		newName string
	}{
		{name: "insert", oldName: "photo.jpg", newName: "photo_001.jpg"},
		{name: "replace", oldName: "IMG_1234.JPG", newName: "holiday_1234.jpg"},
		{name: "remove", oldName: "draft-report.txt", newName: "report.txt"},
		{name: "identical", oldName: "a", newName: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.newName, HighlightChange(tt.oldName, tt.newName))
		})
	}
}
