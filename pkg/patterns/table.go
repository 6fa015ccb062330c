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

// Package patterns holds the validated mapping from escape tokens to their
// replacement text.
package patterns

import (
	"sort"

	"github.com/walteh/touni/pkg/errs"
)

// DefaultMarker introduces every recognized escape sequence.
const DefaultMarker byte = '\\'

// 🔄 Entry is one search pattern and its replacement
type Entry struct {
	Name        string // bare token name as configured
	Search      string // marker + name
	Replacement string
}

// 📚 Table is an immutable set of entries sorted by search pattern
type Table struct {
	marker  byte
	entries []Entry
	index   map[string]int
	maxLen  int
}

// Option configures table construction.
type Option func(*options)

type options struct {
	marker byte
}

// WithMarker overrides the escape marker prefixed to every bare name.
func WithMarker(m byte) Option {
	return func(o *options) { o.marker = m }
}

// 🏭 New builds a table from bare token names. The map's iteration order has
// no effect on the result.
func New(bare map[string]string, opts ...Option) (*Table, error) {
	entries := make([]Entry, 0, len(bare))
	for name, repl := range bare {
		entries = append(entries, Entry{Name: name, Replacement: repl})
	}
	return FromEntries(entries, opts...)
}

// 🏭 FromEntries builds a table from entries whose Search field is derived
// from Name and the marker. Empty names and duplicate search patterns are
// configuration errors.
func FromEntries(in []Entry, opts ...Option) (*Table, error) {
	o := options{marker: DefaultMarker}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{
		marker:  o.marker,
		entries: make([]Entry, 0, len(in)),
		index:   make(map[string]int, len(in)),
	}
	for _, e := range in {
		if e.Name == "" {
			return nil, errs.Usage(errs.MinorInvalidConfigFile, "pattern names must not be empty")
		}
		e.Search = string(o.marker) + e.Name
		t.entries = append(t.entries, e)
	}

	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Search < t.entries[j].Search
	})

	for i, e := range t.entries {
		if _, dup := t.index[e.Search]; dup {
			return nil, errs.Usage(errs.MinorInvalidConfigFile, "duplicate pattern %q", e.Search)
		}
		t.index[e.Search] = i
		if len(e.Search) > t.maxLen {
			t.maxLen = len(e.Search)
		}
	}

	return t, nil
}

// Len returns the number of patterns.
func (t *Table) Len() int { return len(t.entries) }

// Marker returns the escape marker.
func (t *Table) Marker() byte { return t.marker }

// MaxPatternLen returns the length in bytes of the longest search pattern.
func (t *Table) MaxPatternLen() int { return t.maxLen }

// Entries returns a copy of the entries sorted by search pattern.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// 🔍 Lookup returns the replacement for a search pattern (marker included).
func (t *Table) Lookup(search string) (string, bool) {
	i, ok := t.index[search]
	if !ok {
		return "", false
	}
	return t.entries[i].Replacement, true
}
