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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/touni/pkg/errs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInputOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.tex")
	writeFile(t, path, "hello")

	in := FromFile(path)
	rc, err := in.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	got, err := in.Dir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = FromFile(filepath.Join(dir, "missing.tex")).Open()
	require.Error(t, err)
	assert.Equal(t, 22, errs.ExitCode(err))

	stream := FromReader("<test>", strings.NewReader("abc"))
	assert.False(t, stream.IsFile())
	assert.False(t, stream.IsTerminal())
	assert.Equal(t, "<test>", stream.Name())
	wd, err := os.Getwd()
	require.NoError(t, err)
	got, err = stream.Dir()
	require.NoError(t, err)
	assert.Equal(t, wd, got)
}

func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.tex")
	writeFile(t, file, "")

	assert.NoError(t, VerifyFile(file))
	assert.Equal(t, 6, errs.ExitCode(VerifyFile(dir)))
	assert.Equal(t, 22, errs.ExitCode(VerifyFile(filepath.Join(dir, "nope"))))
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "src", "in.tex")
	writeFile(t, input, "x")
	existing := filepath.Join(dir, "out", "existing.tex")
	writeFile(t, existing, "old")
	notDir := filepath.Join(dir, "plain")
	writeFile(t, notDir, "")

	tests := []struct {
		name     string
		in       Input
		req      OutputRequest
		wantMode Mode
		wantPath string
		wantBak  bool
		wantCode int
	}{
		{name: "stdout_flag", in: FromFile(input), req: OutputRequest{Stdout: true}, wantMode: ModeStream},
		{name: "stdout_flag_wins_over_raw", in: FromFile(input), req: OutputRequest{Stdout: true, Raw: existing, Writer: io.Discard}, wantMode: ModeStream},
		{name: "in_place_with_backup", in: FromFile(input), wantMode: ModeInPlace, wantPath: input, wantBak: true},
		{name: "in_place_no_backup", in: FromFile(input), req: OutputRequest{NoBackup: true}, wantMode: ModeInPlace, wantPath: input},
		{name: "existing_file", in: FromFile(input), req: OutputRequest{Raw: existing}, wantMode: ModeFile, wantPath: existing},
		{name: "new_file", in: FromFile(input), req: OutputRequest{Raw: filepath.Join(dir, "out", "new.tex")}, wantMode: ModeFile, wantPath: filepath.Join(dir, "out", "new.tex")},
		{name: "directory_derives_name", in: FromFile(input), req: OutputRequest{Raw: filepath.Join(dir, "out")}, wantMode: ModeFile, wantPath: filepath.Join(dir, "out", "in.tex")},
		{name: "directory_with_stdin", in: FromReader(StdinName, strings.NewReader("")), req: OutputRequest{Raw: filepath.Join(dir, "out")}, wantCode: 4},
		{name: "stdin_without_output", in: FromReader(StdinName, strings.NewReader("")), wantCode: 5},
		{name: "missing_input_in_place", in: FromFile(filepath.Join(dir, "missing.tex")), wantCode: 22},
		{name: "missing_parent_dir", in: FromFile(input), req: OutputRequest{Raw: filepath.Join(dir, "nodir", "x.tex")}, wantCode: 23},
		{name: "parent_not_a_dir", in: FromFile(input), req: OutputRequest{Raw: filepath.Join(notDir, "x.tex")}, wantCode: 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ResolveOutput(tt.in, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errs.ExitCode(err), "error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, out.Mode())
			assert.Equal(t, tt.wantPath, out.Path())
			assert.Equal(t, tt.wantBak, out.Backup())
		})
	}
}

func TestResolveOutputIllegalPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.tex")
	writeFile(t, input, "")
	fileInfo, err := os.Stat(input)
	require.NoError(t, err)

	raw := filepath.Join(dir, "parent", "x.tex")
	stat = func(name string) (os.FileInfo, error) {
		if name == raw {
			return nil, os.ErrNotExist
		}
		return fileInfo, nil
	}
	t.Cleanup(func() { stat = os.Stat })

	_, err = ResolveOutput(FromFile(input), OutputRequest{Raw: raw})
	require.Error(t, err)
	assert.Equal(t, 8, errs.ExitCode(err))
	assert.Contains(t, err.Error(), "Illegal output path: "+raw)
}

func TestSinkInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tex")
	writeFile(t, path, "original")
	writeFile(t, path+".bak", "older backup")

	out := ToInPlace(path, true)
	sink, err := out.Open()
	require.NoError(t, err)
	_, err = sink.WriteString("converted")
	require.NoError(t, err)

	assert.Equal(t, "original", readFile(t, path), "destination untouched before close")
	assert.FileExists(t, out.TempPath())

	require.NoError(t, out.Close(sink))
	assert.Equal(t, "converted", readFile(t, path))
	assert.Equal(t, "original", readFile(t, path+".bak"), "backup silently overwritten")
	assert.NoFileExists(t, out.TempPath())
}

func TestSinkInPlaceNoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tex")
	writeFile(t, path, "original")

	out := ToInPlace(path, false)
	sink, err := out.Open()
	require.NoError(t, err)
	_, err = sink.Write([]byte("converted"))
	require.NoError(t, err)
	require.NoError(t, out.Close(sink))

	assert.Equal(t, "converted", readFile(t, path))
	assert.NoFileExists(t, path+".bak")
}

func TestSinkAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tex")
	writeFile(t, path, "original")

	out := ToFile(path)
	sink, err := out.Open()
	require.NoError(t, err)
	_, err = sink.WriteString("half")
	require.NoError(t, err)
	out.Abort(sink)

	assert.Equal(t, "original", readFile(t, path))
	assert.NoFileExists(t, out.TempPath())
}

func TestSinkStream(t *testing.T) {
	var buf bytes.Buffer
	out := ToWriter("<buffer>", &buf)
	sink, err := out.Open()
	require.NoError(t, err)
	_, err = sink.WriteString("abc")
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "writes are buffered until close")
	require.NoError(t, out.Close(sink))
	assert.Equal(t, "abc", buf.String())
	assert.Equal(t, "", out.TempPath())
}

func TestSinkOpenError(t *testing.T) {
	out := ToFile(filepath.Join(t.TempDir(), "missing", "out.tex"))
	_, err := out.Open()
	require.Error(t, err)
	assert.Equal(t, 23, errs.ExitCode(err))
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.tex"), "")
	writeFile(t, filepath.Join(dir, "ch", "b.tex"), "")
	writeFile(t, filepath.Join(dir, "ch", "deep", "c.tex"), "")
	writeFile(t, filepath.Join(dir, "ch", "notes.md"), "")

	got, err := ExpandInputs(filepath.Join(dir, "**", "*.tex"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.tex"),
		filepath.Join(dir, "ch", "b.tex"),
		filepath.Join(dir, "ch", "deep", "c.tex"),
	}, got)

	got, err = ExpandInputs(filepath.Join(dir, "a.tex"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.tex")}, got)

	missing := filepath.Join(dir, "missing.tex")
	got, err = ExpandInputs(missing)
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, got, "plain paths pass through")

	_, err = ExpandInputs(filepath.Join(dir, "*.bib"))
	require.Error(t, err)
	assert.Equal(t, 6, errs.ExitCode(err))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "in-place", ModeInPlace.String())
	assert.Equal(t, "file", ModeFile.String())
	assert.Equal(t, "stream", ModeStream.String())
}
