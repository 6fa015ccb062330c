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

// Package fsio opens conversion sources and sinks. File sinks are written to
// a temporary file and moved over the destination only once the conversion
// has succeeded.
package fsio

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/touni/pkg/errs"
	"golang.org/x/term"
)

// StdinName is how standard input is reported in diagnostics.
const StdinName = "<stdin>"

// 📥 Input is a conversion source: a file or a stream such as stdin
type Input struct {
	path string
	name string
	r    io.Reader
}

// FromReader reads r, reported as name. Configuration is searched from the
// working directory, as for stdin.
func FromReader(name string, r io.Reader) Input {
	return Input{name: name, r: r}
}

// FromFile reads the file at path.
func FromFile(path string) Input {
	return Input{path: path, name: path}
}

// IsFile reports whether the input is backed by a named file.
func (in Input) IsFile() bool { return in.path != "" }

// Path returns the file path, empty for streams.
func (in Input) Path() string { return in.path }

// Name is used in diagnostics.
func (in Input) Name() string { return in.name }

// IsTerminal reports whether the input is an interactive terminal.
func (in Input) IsTerminal() bool {
	f, ok := in.r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// 📂 Dir returns the directory configuration lookup starts from: the file's
// directory, or the working directory for streams.
func (in Input) Dir() (string, error) {
	if !in.IsFile() {
		wd, err := os.Getwd()
		if err != nil {
			return "", errs.Internal("getting working directory: %v", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(in.path)
	if err != nil {
		return "", errs.Internal("file %s does not have a parent directory: %v", in.path, err)
	}
	return filepath.Dir(abs), nil
}

// Open opens the source. Closing a stream input does not close the
// underlying reader.
func (in Input) Open() (io.ReadCloser, error) {
	if !in.IsFile() {
		return io.NopCloser(in.r), nil
	}
	f, err := os.Open(in.path)
	if err != nil {
		return nil, errs.Input(in.path, err)
	}
	return f, nil
}

// VerifyFile checks that path names a regular file.
func VerifyFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errs.Input(path, err)
	}
	if !fi.Mode().IsRegular() {
		return errs.Usage(errs.MinorInputNotAFile, "Input path must be file: %s", path)
	}
	return nil
}

// 🔍 ExpandInputs resolves a raw input argument to file paths. A path that
// exists is returned as is. A path that does not exist but is a glob
// pattern (doublestar syntax, "**" included) expands to the sorted regular
// files it matches. Anything else is returned unchanged so that opening it
// reports the real error.
func ExpandInputs(raw string) ([]string, error) {
	if _, err := os.Lstat(raw); err == nil {
		return []string{raw}, nil
	}
	if !strings.ContainsAny(raw, "*?[{") || !doublestar.ValidatePathPattern(raw) {
		return []string{raw}, nil
	}

	matches, err := doublestar.FilepathGlob(raw, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errs.Usage(errs.MinorUsageGeneral, "invalid input pattern %q: %v", raw, err)
	}
	if len(matches) == 0 {
		return nil, errs.Usage(errs.MinorInputNotAFile, "no input files match %q", raw)
	}
	sort.Strings(matches)
	return matches, nil
}
