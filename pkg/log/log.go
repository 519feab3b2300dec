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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // base width for the old name
	statusWidth = 12 // width for status text
)

// 🎯 RenameOperation represents one entry of a batch for logging
type RenameOperation struct {
	OldName    string // name before the batch
	NewName    string // proposed or applied name
	Status     string // free-form status text
	IsDir      bool   // whether the entry is a directory
	Failed     bool   // whether the rename failed
	RolledBack bool   // whether the rename was undone
}

// Changed reports whether the name differs.
func (op RenameOperation) Changed() bool {
	return op.OldName != op.NewName
}

// 📦 BatchOperation represents a batch for logging
type BatchOperation struct {
	Title   string // short description, e.g. "replace"
	Scope   string // name, extension or all
	Entries int    // number of entries in the batch
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []RenameOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 🖍️ HighlightChange renders newName with the parts that differ from
// oldName emphasized. Without color it returns newName unchanged.
func HighlightChange(oldName, newName string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldName, newName, false))

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			sb.WriteString(color.New(color.FgGreen, color.Bold).Sprint(d.Text))
		}
	}
	return sb.String()
}

// 📝 formatRenameOperation formats a rename for display
func (l *Logger) formatRenameOperation(op RenameOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.RolledBack:
		symbol = '↺'
		symbolColor = color.FgYellow
	case op.Changed():
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '-'
		symbolColor = color.FgHiBlack
	}

	oldName := op.OldName
	if op.IsDir {
		oldName += "/"
	}

	target := ""
	if op.Changed() {
		target = "→ " + HighlightChange(op.OldName, op.NewName)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", entryIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, oldName),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", statusWidth, op.Status)),
		target)
}

// 📝 LogRename logs one entry of the current batch
func (l *Logger) LogRename(ctx context.Context, op RenameOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatRenameOperation(op))

	l.zlog.Info().
		Str("old_name", op.OldName).
		Str("new_name", op.NewName).
		Str("status", op.Status).
		Bool("is_dir", op.IsDir).
		Bool("failed", op.Failed).
		Bool("rolled_back", op.RolledBack).
		Msg("rename")
}

// 📝 StartBatch starts a new batch
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Title),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(english.Plural(op.Entries, "entry", "entries")))

	l.zlog.Info().
		Str("title", op.Title).
		Str("scope", op.Scope).
		Int("entries", op.Entries).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and prints a one-line summary
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	var changed, failed int
	for _, op := range l.operations {
		switch {
		case op.Failed:
			failed++
		case op.Changed():
			changed++
		}
	}

	fmt.Fprintf(l.console, "%s %s changed, %s failed, %s total\n",
		color.New(color.Faint).Sprint("•"),
		humanize.Comma(int64(changed)),
		humanize.Comma(int64(failed)),
		humanize.Comma(int64(len(l.operations))))

	l.zlog.Info().
		Str("title", l.currentOp.Title).
		Int("changed", changed).
		Int("failed", failed).
		Int("entries", len(l.operations)).
		Msg("batch complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("bulky")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
