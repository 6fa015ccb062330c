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

package fsio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/touni/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// OutputRequest holds the command line choices that decide the sink.
type OutputRequest struct {
	Raw      string // output argument, may be empty
	Stdout   bool
	NoBackup bool
	Writer   io.Writer // stream output, os.Stdout when nil
}

// 🎯 ResolveOutput picks the sink for in:
//   - Stdout set: standard output
//   - Raw names a directory: a file in it named after the input
//   - Raw names a file, or a new file in an existing directory: that file
//   - no Raw and a file input: the input, converted in place
//   - otherwise: a usage error
func ResolveOutput(in Input, req OutputRequest) (Output, error) {
	switch {
	case req.Stdout && req.Writer != nil:
		return ToWriter("<stdout>", req.Writer), nil
	case req.Stdout:
		return ToStdout(), nil
	case req.Raw != "":
		return checkOutputPath(in, req.Raw)
	case in.IsFile():
		if err := VerifyFile(in.Path()); err != nil {
			return Output{}, err
		}
		return ToInPlace(in.Path(), !req.NoBackup), nil
	default:
		return Output{}, errs.Usage(errs.MinorMissingOutput,
			"Input file needs to be specified at the very least (for an in-place conversion).")
	}
}

// stat is replaced in tests to reach states a POSIX file system does not
// produce.
var stat = os.Stat

func checkOutputPath(in Input, raw string) (Output, error) {
	fi, err := stat(raw)
	switch {
	case err == nil && fi.IsDir():
		if !in.IsFile() {
			return Output{}, errs.Usage(errs.MinorMissingOutputName,
				"Input file name needs to be known when no output file name is given.")
		}
		return ToFile(filepath.Join(raw, filepath.Base(in.Path()))), nil
	case err == nil && fi.Mode().IsRegular():
		return ToFile(raw), nil
	case err == nil:
		return Output{}, errs.Internal("Output path is neither a file nor a directory: %s", raw)
	case !errors.Is(err, os.ErrNotExist):
		return Output{}, errs.Output(raw, err)
	}

	// a new file is fine as long as its directory exists
	dir := filepath.Dir(raw)
	dfi, err := stat(dir)
	if err != nil {
		return Output{}, errs.Output(raw, err)
	}
	if !dfi.IsDir() {
		return Output{}, errs.Usage(errs.MinorInternalMisc, "Illegal output path: %s", raw)
	}
	return ToFile(raw), nil
}
