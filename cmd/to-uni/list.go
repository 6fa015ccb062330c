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

	"github.com/pterm/pterm"
	"github.com/walteh/touni/pkg/config"
	"github.com/walteh/touni/pkg/patterns"
	"gitlab.com/tozd/go/errors"
)

// renderPatterns draws the pattern table of cfg, one row per token in
// token order.
func renderPatterns(cfg *config.Config, table *patterns.Table) (string, error) {
	data := pterm.TableData{{"Token", "Replacement"}}
	for _, e := range table.Entries() {
		data = append(data, []string{e.Search, e.Replacement})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering pattern table: %w", err)
	}
	return fmt.Sprintf("%s\n%s\n", pterm.Sprintf("%d patterns from %s", table.Len(), cfg.Path), out), nil
}
