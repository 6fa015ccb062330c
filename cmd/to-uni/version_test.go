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

package main

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfoString(t *testing.T) {
	base := buildInfo{version: "v0.3.1", goVersion: "go1.24.5", platform: "linux/amd64"}

	tests := []struct {
		name     string
		revision string
		modified bool
		want     string
	}{
		{name: "release", want: "to-uni v0.3.1 go1.24.5 linux/amd64"},
		{name: "with_revision", revision: "1f2e3d4c5b6a", want: "to-uni v0.3.1 (1f2e3d4c5b6a) go1.24.5 linux/amd64"},
		{name: "modified_revision", revision: "1f2e3d4c5b6a", modified: true, want: "to-uni v0.3.1 (1f2e3d4c5b6a, modified) go1.24.5 linux/amd64"},
		{name: "modified_only", modified: true, want: "to-uni v0.3.1 (modified) go1.24.5 linux/amd64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			b.revision, b.modified = tt.revision, tt.modified
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestVersionText(t *testing.T) {
	b := buildInfo{version: "dev", goVersion: "go1.24.5", platform: "linux/arm64"}
	assert.Equal(t, "to-uni dev go1.24.5 linux/arm64\ndefaults: config file to-uni.yml, block size 512 bytes\n", versionText(b))
}

func TestReadBuildInfo(t *testing.T) {
	b := readBuildInfo()
	assert.NotEmpty(t, b.version)
	assert.Equal(t, runtime.Version(), b.goVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, b.platform)
	assert.LessOrEqual(t, len(b.revision), shortRevision)
	assert.False(t, strings.Contains(b.version, "(devel)"))
}
