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
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/walteh/touni/pkg/config"
	"github.com/walteh/touni/pkg/stream"
)

const shortRevision = 12

// buildInfo is what --version reports about the binary.
type buildInfo struct {
	version   string
	revision  string
	modified  bool
	goVersion string
	platform  string
}

func readBuildInfo() buildInfo {
	b := buildInfo{
		version:   "dev",
		goVersion: runtime.Version(),
		platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		b.version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.revision = s.Value
			if len(b.revision) > shortRevision {
				b.revision = b.revision[:shortRevision]
			}
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

// String renders b on one line, e.g.
// "to-uni v0.3.1 (1f2e3d4c5b6a, modified) go1.24.5 linux/amd64".
func (b buildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("to-uni " + b.version)
	switch {
	case b.revision != "" && b.modified:
		fmt.Fprintf(&sb, " (%s, modified)", b.revision)
	case b.revision != "":
		fmt.Fprintf(&sb, " (%s)", b.revision)
	case b.modified:
		sb.WriteString(" (modified)")
	}
	fmt.Fprintf(&sb, " %s %s", b.goVersion, b.platform)
	return sb.String()
}

// versionText is the --version output: the build line and the built-in
// defaults that flags and TO_UNI_* variables override.
func versionText(b buildInfo) string {
	return fmt.Sprintf("%s\ndefaults: config file %s, block size %d bytes\n",
		b, config.DefaultName, stream.DefaultBlockSize)
}
