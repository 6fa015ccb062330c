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

package stream

import (
	"io"

	"github.com/walteh/touni/pkg/automaton"
	"github.com/walteh/touni/pkg/errs"
)

// DefaultBlockSize is the number of bytes requested from the source per read.
const DefaultBlockSize = 512

const maxEmptyReads = 100

// Kind tells literal runs from matched patterns.
type Kind int

const (
	Literal Kind = iota
	Match
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Match:
		return "match"
	default:
		return "unknown"
	}
}

// Segment is one piece of the input. Bytes holds the literal run or the
// original bytes of the matched pattern and is only valid until the next call
// to Scan.
type Segment struct {
	Kind    Kind
	Bytes   []byte
	Pattern int   // pattern index for Match, -1 for Literal
	Offset  int64 // position of Bytes[0] in the input
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithBlockSize sets the read block size. Values below 1 are ignored.
func WithBlockSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.block = n
		}
	}
}

// WithSourceName sets the name read errors are reported under.
func WithSourceName(name string) Option {
	return func(s *Scanner) { s.name = name }
}

// candidate is a completed match that may still lose to one starting earlier.
// Offsets are relative to buf; end is exclusive.
type candidate struct {
	start, end, pattern int
}

// Scanner splits a byte stream into Literal and Match segments. Matches are
// chosen leftmost first, and among matches starting at the same byte the
// shortest wins. Matches never overlap.
//
// Memory use is bounded by the block size plus the longest pattern: bytes
// are held back only while they may still be part of a match.
type Scanner struct {
	a     *automaton.Automaton
	r     io.Reader
	name  string
	block int

	buf      []byte // buf[0] is the first byte not yet emitted
	pos      int    // buf[:pos] has been fed to the automaton
	consumed int    // buf[:consumed] was emitted and is dropped on the next Scan
	state    automaton.State
	best     candidate
	hasBest  bool

	seg       Segment
	queued    Segment
	hasQueued bool
	emitted   int64
	read      int64

	eof  bool
	done bool
	err  error
}

// NewScanner returns a scanner reading r.
func NewScanner(a *automaton.Automaton, r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		a:     a,
		r:     r,
		name:  "<input>",
		block: DefaultBlockSize,
		state: a.Start(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buf = make([]byte, 0, s.block+a.MaxPatternLen())
	return s
}

// Segment returns the segment produced by the last successful Scan.
func (s *Scanner) Segment() Segment { return s.seg }

// Err returns the first error met, or nil at a clean end of input.
func (s *Scanner) Err() error { return s.err }

// BytesRead returns the number of bytes read from the source so far.
func (s *Scanner) BytesRead() int64 { return s.read }

// Scan advances to the next segment. It returns false at the end of input or
// on error; Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.hasQueued {
		s.hasQueued = false
		s.setSegment(s.queued)
		return true
	}
	if s.done {
		return false
	}
	s.compact()

	for {
		for s.pos < len(s.buf) {
			s.state = s.a.Next(s.state, s.buf[s.pos])
			s.pos++
			if p, ok := s.a.Output(s.state); ok {
				start := s.pos - len(s.a.Pattern(p))
				if !s.hasBest || start < s.best.start {
					s.best = candidate{start: start, end: s.pos, pattern: p}
					s.hasBest = true
				}
			}
			// final once no live prefix starts before the candidate
			if s.hasBest && s.pos-s.a.Depth(s.state) >= s.best.start {
				s.emitBest()
				return true
			}
		}

		if s.eof {
			if s.hasBest {
				s.emitBest()
				return true
			}
			s.done = true
			if len(s.buf) == 0 {
				return false
			}
			s.consumed = len(s.buf)
			s.setSegment(Segment{Kind: Literal, Bytes: s.buf, Pattern: -1})
			return true
		}

		// bytes before the earliest live prefix can never be part of a match
		if lit := s.pos - s.a.Depth(s.state); lit > 0 {
			s.consumed = lit
			s.setSegment(Segment{Kind: Literal, Bytes: s.buf[:lit], Pattern: -1})
			return true
		}

		if err := s.fill(); err != nil {
			s.err = err
			s.done = true
			return false
		}
	}
}

// emitBest emits the pending candidate, preceded by the literal run before it,
// and restarts the automaton right after the match.
func (s *Scanner) emitBest() {
	b := s.best
	s.hasBest = false
	match := Segment{Kind: Match, Bytes: s.buf[b.start:b.end], Pattern: b.pattern}

	s.consumed = b.end
	s.pos = b.end
	s.state = s.a.Start()

	if b.start == 0 {
		s.setSegment(match)
		return
	}
	s.setSegment(Segment{Kind: Literal, Bytes: s.buf[:b.start], Pattern: -1})
	s.queued = match
	s.hasQueued = true
}

func (s *Scanner) setSegment(seg Segment) {
	seg.Offset = s.emitted
	s.emitted += int64(len(seg.Bytes))
	s.seg = seg
}

// compact drops emitted bytes from the front of buf.
func (s *Scanner) compact() {
	if s.consumed == 0 {
		return
	}
	n := copy(s.buf, s.buf[s.consumed:])
	s.buf = s.buf[:n]
	s.pos -= s.consumed
	if s.hasBest {
		s.best.start -= s.consumed
		s.best.end -= s.consumed
	}
	s.consumed = 0
}

// fill appends up to one block from the source.
func (s *Scanner) fill() error {
	if cap(s.buf)-len(s.buf) < s.block {
		grown := make([]byte, len(s.buf), len(s.buf)+s.block+s.a.MaxPatternLen())
		copy(grown, s.buf)
		s.buf = grown
	}

	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.r.Read(s.buf[len(s.buf) : len(s.buf)+s.block])
		if n < 0 {
			return errs.Input(s.name, io.ErrShortBuffer)
		}
		s.buf = s.buf[:len(s.buf)+n]
		s.read += int64(n)
		if err == io.EOF {
			s.eof = true
			return nil
		}
		if err != nil {
			return errs.Input(s.name, err)
		}
		if n > 0 {
			return nil
		}
	}
	return errs.Input(s.name, io.ErrNoProgress)
}
