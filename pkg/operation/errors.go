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
	"fmt"
	"io/fs"
	"syscall"

	"github.com/walteh/bulky/pkg/backend"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotIdle is returned when a batch is executed twice.
	ErrNotIdle = errors.Base("batch already executed")
	// ErrNothingToRollBack is returned when no rename succeeded.
	ErrNothingToRollBack = errors.Base("nothing to roll back")
	// ErrNotFinished is returned when rolling back a batch that has not ended.
	ErrNotFinished = errors.Base("batch has not finished")
	// ErrRollbackPartialFailure is returned when some renames could not be undone.
	ErrRollbackPartialFailure = errors.Base("rollback partially failed")
)

// ErrorKind classifies a failed rename.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindNameTooLong
	KindRemoteOperationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNameTooLong:
		return "name-too-long"
	case KindRemoteOperationFailed:
		return "remote-operation-failed"
	default:
		return "generic"
	}
}

// ❌ RenameError describes the rename that stopped a batch
type RenameError struct {
	Kind    ErrorKind
	URI     string
	Display string
	NewName string
	Err     error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("renaming %s to %q: %v", e.Display, e.NewName, e.Err)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to users.
func (e *RenameError) Message() string {
	switch e.Kind {
	case KindNameTooLong:
		return fmt.Sprintf("Unable to rename '%s': File name too long", e.Display)
	case KindRemoteOperationFailed:
		return fmt.Sprintf("Unable to rename '%s': Remote operation failed. "+
			"This may be due to insufficient permissions or a server error.", e.Display)
	default:
		return fmt.Sprintf("Unable to rename '%s': %s", e.Display, rootCause(e.Err))
	}
}

// classify maps a rename failure to its kind. Only opaque failures from a
// non-native backend are reported as remote; known causes keep their detail.
func classify(b backend.Backend, err error) ErrorKind {
	if errors.Is(err, syscall.ENAMETOOLONG) {
		return KindNameTooLong
	}
	if errors.Is(err, fs.ErrExist) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return KindGeneric
	}
	var errno syscall.Errno
	if !b.IsNative() && !errors.As(err, &errno) {
		return KindRemoteOperationFailed
	}
	return KindGeneric
}

func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
