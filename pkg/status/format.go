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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // width of the old name column
)

// Formatter defines how renames and progress are rendered
type Formatter interface {
	// FormatRename formats the outcome of one entry
	FormatRename(oldName, newName string, status EntryStatus) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter renders plain text with emojis
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

func (f *DefaultFormatter) FormatRename(oldName, newName string, status EntryStatus) string {
	switch status {
	case StatusRenamed:
		return fmt.Sprintf("✨ Renamed %s → %s", oldName, newName)
	case StatusRolledBack:
		return fmt.Sprintf("↩️  Restored %s", oldName)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s → %s", oldName, newName)
	case StatusPending:
		return fmt.Sprintf("⏸️  Skipped %s", oldName)
	default:
		return fmt.Sprintf("👍 Unchanged %s", oldName)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message with emoji
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}

// 🎯 FormatEntryLine formats one entry as an aligned, colored console line
func FormatEntryLine(oldName, newName string, status EntryStatus) string {
	var prefix string
	switch status {
	case StatusRenamed:
		prefix = color.GreenString("✓")
	case StatusRolledBack:
		prefix = color.YellowString("↺")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	line := fmt.Sprintf("%s%s %-*s", strings.Repeat(" ", entryIndent), prefix, nameWidth, oldName)
	if newName != "" && newName != oldName {
		line += " → " + newName
	}
	return strings.TrimRight(line, " ")
}
