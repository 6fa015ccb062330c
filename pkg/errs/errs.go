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

// Package errs defines the closed set of errors a conversion run can fail
// with. Each variant carries a major category and a minor cause, which
// together form the two-digit process exit status (major*10 + minor).
package errs

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Major categories.
const (
	MajorUsage    uint8 = 0
	MajorFSIO     uint8 = 2
	MajorParse    uint8 = 3
	MajorInternal uint8 = 9
)

// Minor causes of file system errors.
const (
	MinorInput        uint8 = 2
	MinorOutput       uint8 = 3
	MinorOutputBackup uint8 = 4
	MinorConfigRead   uint8 = 5
)

// Minor causes of usage errors.
const (
	MinorUsageGeneral      uint8 = 1
	MinorMissingOutputName uint8 = 4
	MinorMissingOutput     uint8 = 5
	MinorInputNotAFile     uint8 = 6
	MinorNoConfigFile      uint8 = 7
	MinorInvalidConfigFile uint8 = 8
)

// MinorInternalMisc is the only internal cause.
const MinorInternalMisc uint8 = 8

const unclassifiedExitCode = 90

// Error is implemented by every error variant of this package and nothing
// else.
type Error interface {
	error
	Major() uint8
	Minor() uint8
	sealed()
}

// ExitCode derives the process exit status for err. A nil error is 0, an
// Error found anywhere in the chain is major*10+minor, and any other error
// counts as an unclassified internal failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e Error
	if errors.As(err, &e) {
		return int(e.Major())*10 + int(e.Minor())
	}
	return unclassifiedExitCode
}

// UsageError reports malformed or missing command line or configuration
// input.
type UsageError struct {
	minor   uint8
	Message string
}

// Usage creates a usage error with the given minor cause.
func Usage(minor uint8, format string, args ...any) *UsageError {
	return &UsageError{minor: minor, Message: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string { return "Usage error. " + e.Message }
func (e *UsageError) Major() uint8  { return MajorUsage }
func (e *UsageError) Minor() uint8  { return e.minor }
func (e *UsageError) sealed()       {}

// InputError reports a failure opening or reading a source, either the
// conversion input or a configuration file.
type InputError struct {
	minor uint8
	Path  string
	Err   error
}

// Input creates an error for the conversion source at path.
func Input(path string, cause error) *InputError {
	return &InputError{minor: MinorInput, Path: path, Err: cause}
}

// ConfigRead creates an error for a configuration file that exists but could
// not be read.
func ConfigRead(path string, cause error) *InputError {
	return &InputError{minor: MinorConfigRead, Path: path, Err: cause}
}

func (e *InputError) Error() string { return fsMessage(e.Err, e.Path) }
func (e *InputError) Unwrap() error { return e.Err }
func (e *InputError) Major() uint8  { return MajorFSIO }
func (e *InputError) Minor() uint8  { return e.minor }
func (e *InputError) sealed()       {}

// OutputError reports a failure opening, writing or finalizing the sink,
// including backup creation.
type OutputError struct {
	minor uint8
	Path  string
	Err   error
}

// Output creates an error for the sink at path.
func Output(path string, cause error) *OutputError {
	return &OutputError{minor: MinorOutput, Path: path, Err: cause}
}

// Backup creates an error for a failed backup of the original at path.
func Backup(path string, cause error) *OutputError {
	return &OutputError{minor: MinorOutputBackup, Path: path, Err: cause}
}

func (e *OutputError) Error() string { return fsMessage(e.Err, e.Path) }
func (e *OutputError) Unwrap() error { return e.Err }
func (e *OutputError) Major() uint8  { return MajorFSIO }
func (e *OutputError) Minor() uint8  { return e.minor }
func (e *OutputError) sealed()       {}

// ParseError reports a configuration document that is not valid structured
// data.
type ParseError struct {
	Path string
	Err  error
}

// Parse creates a parse error for the configuration file at path.
func Parse(path string, cause error) *ParseError {
	return &ParseError{Path: path, Err: cause}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Configuration parsing error. %v Path: %s", e.Err, e.Path)
}
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Major() uint8  { return MajorParse }
func (e *ParseError) Minor() uint8  { return 0 }
func (e *ParseError) sealed()       {}

// InternalError reports a broken invariant that user input cannot cause.
type InternalError struct {
	Message string
}

// Internal creates an internal error.
func Internal(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

func (e *InternalError) Error() string { return "Internal error. " + e.Message }
func (e *InternalError) Major() uint8  { return MajorInternal }
func (e *InternalError) Minor() uint8  { return MinorInternalMisc }
func (e *InternalError) sealed()       {}

func fsMessage(err error, path string) string {
	return fmt.Sprintf("File system IO error. %v Path: %s", err, path)
}
