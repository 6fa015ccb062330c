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

package text

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/touni/pkg/automaton"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/patterns"
	"github.com/walteh/touni/pkg/stream"
	"gitlab.com/tozd/go/errors"
)

func table(t *testing.T, bare map[string]string) *patterns.Table {
	t.Helper()
	tb, err := patterns.New(bare)
	require.NoError(t, err)
	return tb
}

func TestReplacer_ReplaceText(t *testing.T) {
	greek := map[string]string{"alpha": "α", "beta": "β", "to": "→"}

	tests := []struct {
		name         string
		patterns     map[string]string
		content      string
		want         string
		wantModified bool
	}{
		{name: "simple_replacement", patterns: greek, content: `\alpha`, want: "α", wantModified: true},
		{name: "multiple_tokens", patterns: greek, content: `\alpha \to \beta`, want: "α → β", wantModified: true},
		{name: "no_tokens", patterns: greek, content: "plain", want: "plain"},
		{name: "empty_content", patterns: greek, content: "", want: ""},
		{name: "no_patterns", patterns: map[string]string{}, content: `\alpha`, want: `\alpha`},
		{name: "shortest_wins", patterns: map[string]string{"a": "1", "ab": "2"}, content: `\ab`, want: "1b", wantModified: true},
		{name: "longer_then_shorter", patterns: map[string]string{"ab": "2", "abc": "3"}, content: `\abc\ab`, want: "2c2", wantModified: true},
		{name: "replacement_equal_to_token", patterns: map[string]string{"x": `\x`}, content: `\x`, want: `\x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReplacer(table(t, tt.patterns))
			result, err := r.ReplaceText(context.Background(), strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestReplacer_ReplaceLeavesInput(t *testing.T) {
	r := NewReplacer(table(t, map[string]string{"longname": "x"}))
	in := []byte(`a \longname b`)
	out := r.Replace(in)
	assert.Equal(t, "a x b", string(out))
	assert.Equal(t, `a \longname b`, string(in))
	assert.Equal(t, "a x b", r.ReplaceString(`a \longname b`))
}

func TestReplacer_ReadError(t *testing.T) {
	r := NewReplacer(table(t, map[string]string{"a": "b"}))
	_, err := r.ReplaceText(context.Background(), iotest.ErrReader(errors.New("boom")))
	require.Error(t, err)
	assert.Equal(t, 22, errs.ExitCode(err))
}

// The in-memory replacer and the streaming scanner are independent
// implementations of the same matching rule.
func TestReplacer_AgreesWithStream(t *testing.T) {
	bare := map[string]string{
		"a": "1", "ab": "2", "abc": "3", "b": "4", "ba": "5",
		"bab": "6", "c": "7", "cab": "8", "aa": "9",
	}
	tb := table(t, bare)
	r := NewReplacer(tb)
	a, err := automaton.Compile(tb.Entries())
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	alphabet := []byte(`\\abc x`)
	for i := 0; i < 300; i++ {
		input := make([]byte, rng.Intn(80))
		for j := range input {
			input[j] = alphabet[rng.Intn(len(alphabet))]
		}

		var streamed bytes.Buffer
		sc := stream.NewScanner(a, bytes.NewReader(input), stream.WithBlockSize(1+rng.Intn(5)))
		for sc.Scan() {
			seg := sc.Segment()
			if seg.Kind == stream.Match {
				repl, ok := a.Replacement(seg.Pattern)
				require.True(t, ok)
				streamed.WriteString(repl)
				continue
			}
			streamed.Write(seg.Bytes)
		}
		require.NoError(t, sc.Err())

		require.Equal(t, streamed.String(), string(r.Replace(input)), "input %q", input)
	}
}
