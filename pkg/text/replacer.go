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

// Package text converts whole in-memory buffers with a pattern table. It
// gives the same result as the streaming conversion.
package text

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/patterns"
	"go4.org/bytereplacer"
)

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Replacer applies a pattern table to byte slices.
// It is safe for concurrent use by multiple goroutines.
type Replacer struct {
	r     *bytereplacer.Replacer
	count int
}

// NewReplacer builds a replacer for table.
func NewReplacer(table *patterns.Table) *Replacer {
	entries := table.Entries()

	// earlier pairs win at the same position, so shorter tokens go first
	sort.SliceStable(entries, func(i, j int) bool {
		if len(entries[i].Search) != len(entries[j].Search) {
			return len(entries[i].Search) < len(entries[j].Search)
		}
		return entries[i].Search < entries[j].Search
	})

	oldnew := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		oldnew = append(oldnew, e.Search, e.Replacement)
	}
	return &Replacer{r: bytereplacer.New(oldnew...), count: len(entries)}
}

// Replace returns a converted copy of b. b is not modified.
func (r *Replacer) Replace(b []byte) []byte {
	out := bytes.Clone(b)
	if out == nil {
		out = []byte{}
	}
	if r.count == 0 {
		return out
	}
	return r.r.Replace(out)
}

// ReplaceString converts s.
func (r *Replacer) ReplaceString(s string) string {
	return string(r.Replace([]byte(s)))
}

// ReplaceText reads all of content and converts it.
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errs.Input("<text>", err)
	}

	modified := r.Replace(originalContent)
	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: modified,
		WasModified:     !bytes.Equal(originalContent, modified),
	}

	zerolog.Ctx(ctx).Trace().
		Int("bytes_in", len(originalContent)).
		Int("bytes_out", len(modified)).
		Bool("modified", result.WasModified).
		Msg("replaced text")
	return result, nil
}
