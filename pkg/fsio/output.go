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
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/touni/pkg/errs"
)

const (
	backupSuffix = ".bak"
	tmpPrefix    = ".~"
	tmpSuffix    = ".tmp"
)

// Mode is how the converted stream reaches its destination.
type Mode int

const (
	ModeStream Mode = iota
	ModeFile
	ModeInPlace
)

func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeFile:
		return "file"
	case ModeInPlace:
		return "in-place"
	default:
		return "unknown"
	}
}

// 📤 Output is a conversion sink
type Output struct {
	mode   Mode
	path   string
	name   string
	backup bool
	w      io.Writer
}

// ToStdout writes to the process's standard output.
func ToStdout() Output {
	return Output{mode: ModeStream, name: "<stdout>", w: os.Stdout}
}

// ToWriter writes to w, reported as name.
func ToWriter(name string, w io.Writer) Output {
	return Output{mode: ModeStream, name: name, w: w}
}

// ToFile writes to path, replacing any existing file once the conversion
// succeeds.
func ToFile(path string) Output {
	return Output{mode: ModeFile, path: path, name: path}
}

// ToInPlace replaces path with the converted stream. With backup set, the
// original is kept as path.bak, overwriting an older backup.
func ToInPlace(path string, backup bool) Output {
	return Output{mode: ModeInPlace, path: path, name: path, backup: backup}
}

// Mode returns the output mode.
func (o Output) Mode() Mode { return o.mode }

// Path returns the destination path, empty for streams.
func (o Output) Path() string { return o.path }

// Name is used in diagnostics.
func (o Output) Name() string { return o.name }

// Backup reports whether an in-place conversion keeps a backup.
func (o Output) Backup() bool { return o.backup }

// TempPath returns the temporary file a file output is written to.
func (o Output) TempPath() string {
	if o.path == "" {
		return ""
	}
	dir, base := filepath.Split(o.path)
	return filepath.Join(dir, tmpPrefix+base+tmpSuffix)
}

// BackupPath returns where the original is kept for in-place conversions.
func (o Output) BackupPath() string {
	if o.path == "" {
		return ""
	}
	return o.path + backupSuffix
}

// Sink is an opened output. Writes are buffered; Close flushes them.
type Sink struct {
	out Output
	f   *os.File
	bw  *bufio.Writer
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) { return s.bw.Write(p) }

// WriteString implements io.StringWriter.
func (s *Sink) WriteString(str string) (int, error) { return s.bw.WriteString(str) }

// Name is used in diagnostics.
func (s *Sink) Name() string { return s.out.name }

// Open opens the sink. File outputs create the temporary file, keeping the
// permissions of an existing destination.
func (o Output) Open() (*Sink, error) {
	if o.mode == ModeStream {
		return &Sink{out: o, bw: bufio.NewWriter(o.w)}, nil
	}

	perm := os.FileMode(0o644)
	if fi, err := os.Stat(o.path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp := o.TempPath()
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, errs.Output(tmp, err)
	}
	return &Sink{out: o, f: f, bw: bufio.NewWriter(f)}, nil
}

// Close flushes and closes the sink. For file outputs it then moves the
// original to its backup, if requested, and renames the temporary file over
// the destination. A failed Close removes the temporary file.
func (o Output) Close(s *Sink) error {
	if err := s.bw.Flush(); err != nil {
		o.Abort(s)
		return errs.Output(o.name, err)
	}
	if s.f == nil {
		return nil
	}

	tmp := s.f.Name()
	if err := s.f.Sync(); err != nil {
		o.Abort(s)
		return errs.Output(tmp, err)
	}
	if err := s.f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errs.Output(tmp, err)
	}

	if o.mode == ModeInPlace && o.backup {
		if err := os.Rename(o.path, o.BackupPath()); err != nil {
			_ = os.Remove(tmp)
			return errs.Backup(o.path, err)
		}
	}

	if err := os.Rename(tmp, o.path); err != nil {
		_ = os.Remove(tmp)
		return errs.Output(o.path, err)
	}
	return nil
}

// Abort releases the sink after a failed conversion without touching the
// destination.
func (o Output) Abort(s *Sink) {
	if s.f == nil {
		return
	}
	_ = s.f.Close()
	_ = os.Remove(s.f.Name())
}
