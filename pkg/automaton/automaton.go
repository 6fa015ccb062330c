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

// Package automaton compiles a pattern table into an Aho-Corasick matcher.
//
// The automaton only answers "which is the longest pattern ending here";
// picking the leftmost, then shortest, match out of those answers is the
// stream scanner's job.
package automaton

import (
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/patterns"
)

// State is a node of the automaton. The zero value is not the start state;
// use Start.
type State int32

const root State = 0

type node struct {
	next  map[byte]State
	fail  State
	depth int
	// out is the longest pattern that is a suffix of this node's string, or -1.
	out int
}

// Automaton is immutable after Compile and safe for concurrent reads.
type Automaton struct {
	nodes        []node
	patterns     [][]byte
	replacements []string
	maxLen       int
}

// Compile builds the automaton over entries. Pattern indices are positions in
// entries. Construction is linear in the total pattern length.
func Compile(entries []patterns.Entry) (*Automaton, error) {
	a := &Automaton{
		nodes:        []node{{next: map[byte]State{}, fail: root, out: -1}},
		patterns:     make([][]byte, len(entries)),
		replacements: make([]string, len(entries)),
	}

	for i, e := range entries {
		if e.Search == "" {
			return nil, errs.Internal("pattern %d is empty", i)
		}
		a.patterns[i] = []byte(e.Search)
		a.replacements[i] = e.Replacement
		if len(e.Search) > a.maxLen {
			a.maxLen = len(e.Search)
		}

		cur := root
		for j := 0; j < len(e.Search); j++ {
			b := e.Search[j]
			nxt, ok := a.nodes[cur].next[b]
			if !ok {
				nxt = State(len(a.nodes))
				a.nodes = append(a.nodes, node{next: map[byte]State{}, depth: a.nodes[cur].depth + 1, out: -1})
				a.nodes[cur].next[b] = nxt
			}
			cur = nxt
		}
		if a.nodes[cur].out != -1 {
			return nil, errs.Internal("pattern %q compiled twice", e.Search)
		}
		a.nodes[cur].out = i
	}

	a.link()
	return a, nil
}

// link sets failure links breadth first and propagates outputs of
// non-terminal nodes from their failure targets.
func (a *Automaton) link() {
	queue := make([]State, 0, len(a.nodes))
	for _, child := range a.nodes[root].next {
		a.nodes[child].fail = root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if a.nodes[u].out == -1 {
			a.nodes[u].out = a.nodes[a.nodes[u].fail].out
		}

		for b, child := range a.nodes[u].next {
			f := a.nodes[u].fail
			for {
				if t, ok := a.nodes[f].next[b]; ok {
					a.nodes[child].fail = t
					break
				}
				if f == root {
					a.nodes[child].fail = root
					break
				}
				f = a.nodes[f].fail
			}
			queue = append(queue, child)
		}
	}
}

// Start returns the start state.
func (a *Automaton) Start() State { return root }

// Next follows b from s, taking failure links as needed.
func (a *Automaton) Next(s State, b byte) State {
	for {
		if t, ok := a.nodes[s].next[b]; ok {
			return t
		}
		if s == root {
			return root
		}
		s = a.nodes[s].fail
	}
}

// Depth returns the length of the longest pattern prefix that is a suffix of
// the input consumed so far.
func (a *Automaton) Depth(s State) int { return a.nodes[s].depth }

// Output returns the longest pattern ending at s.
func (a *Automaton) Output(s State) (int, bool) {
	out := a.nodes[s].out
	return out, out >= 0
}

// Len returns the number of patterns.
func (a *Automaton) Len() int { return len(a.patterns) }

// MaxPatternLen returns the length of the longest pattern.
func (a *Automaton) MaxPatternLen() int { return a.maxLen }

// Pattern returns the bytes of pattern i. The slice must not be modified.
func (a *Automaton) Pattern(i int) []byte { return a.patterns[i] }

// Replacement returns the replacement text of pattern i.
func (a *Automaton) Replacement(i int) (string, bool) {
	if i < 0 || i >= len(a.replacements) {
		return "", false
	}
	return a.replacements[i], true
}
