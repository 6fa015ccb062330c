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

package errs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "usage_general", err: Usage(MinorUsageGeneral, "bad flag"), want: 1},
		{name: "usage_no_config", err: Usage(MinorNoConfigFile, "nothing found"), want: 7},
		{name: "usage_invalid_config", err: Usage(MinorInvalidConfigFile, "not a map"), want: 8},
		{name: "input", err: Input("in.tex", fs.ErrNotExist), want: 22},
		{name: "config_read", err: ConfigRead("to-uni.yml", fs.ErrPermission), want: 25},
		{name: "output", err: Output("out.tex", fs.ErrPermission), want: 23},
		{name: "backup", err: Backup("out.tex", fs.ErrPermission), want: 24},
		{name: "parse", err: Parse("to-uni.yml", errors.New("bad indent")), want: 30},
		{name: "internal", err: Internal("missing file name"), want: 98},
		{name: "wrapped", err: errors.Errorf("running conversion: %w", Input("in.tex", fs.ErrNotExist)), want: 22},
		{name: "unclassified", err: errors.New("boom"), want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := Input("in.tex", fs.ErrNotExist)
	assert.Equal(t, "File system IO error. file does not exist Path: in.tex", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist, "cause should be reachable")

	usage := Usage(MinorMissingOutput, "input file needed for %s", "in-place")
	assert.Equal(t, "Usage error. input file needed for in-place", usage.Error())

	var e Error
	require.True(t, errors.As(errors.Errorf("outer: %w", Parse("a.yml", errors.New("x"))), &e))
	assert.Equal(t, MajorParse, e.Major())
	assert.Equal(t, uint8(0), e.Minor())
}
