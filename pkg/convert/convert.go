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

package convert

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/automaton"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/fsio"
	"github.com/walteh/touni/pkg/patterns"
	"github.com/walteh/touni/pkg/stream"
	"gitlab.com/tozd/go/errors"
)

// 📊 Stats summarizes one conversion
type Stats struct {
	Segments     int
	Matches      int
	BytesRead    int64
	BytesWritten int64
}

// 🔄 Substitute drains sc into w, writing literal segments unchanged and the
// replacement text for every match.
func Substitute(ctx context.Context, sc *stream.Scanner, a *automaton.Automaton, w io.Writer, sinkName string) (Stats, error) {
	logger := zerolog.Ctx(ctx)
	var st Stats

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return st, errors.Errorf("conversion cancelled: %w", err)
		}

		seg := sc.Segment()
		st.Segments++

		out := seg.Bytes
		if seg.Kind == stream.Match {
			repl, ok := a.Replacement(seg.Pattern)
			if !ok {
				return st, errs.Internal("no replacement for pattern index %d", seg.Pattern)
			}
			st.Matches++
			out = []byte(repl)
			logger.Trace().
				Int64("offset", seg.Offset).
				Bytes("token", seg.Bytes).
				Str("replacement", repl).
				Msg("substituting")
		}

		n, err := w.Write(out)
		st.BytesWritten += int64(n)
		if err != nil {
			return st, errs.Output(sinkName, err)
		}
	}
	st.BytesRead = sc.BytesRead()

	if err := sc.Err(); err != nil {
		return st, err
	}
	return st, nil
}

// Option configures a Converter.
type Option func(*Converter)

// WithBlockSize sets the read block size. Values below one are ignored.
func WithBlockSize(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.block = n
		}
	}
}

// 🏭 Converter applies one pattern table to any number of inputs. It is
// safe for concurrent use; every conversion gets its own scanner.
type Converter struct {
	a     *automaton.Automaton
	block int
}

// NewConverter compiles table once.
func NewConverter(table *patterns.Table, opts ...Option) (*Converter, error) {
	a, err := automaton.Compile(table.Entries())
	if err != nil {
		return nil, err
	}
	c := &Converter{a: a, block: stream.DefaultBlockSize}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Automaton returns the compiled patterns.
func (c *Converter) Automaton() *automaton.Automaton { return c.a }

// BlockSize returns the read block size.
func (c *Converter) BlockSize() int { return c.block }

// 🎯 Convert streams in through the substitution into out. The sink is
// opened first and committed only after the whole input has been converted;
// on any failure it is aborted and the destination is left as it was.
func (c *Converter) Convert(ctx context.Context, in fsio.Input, out fsio.Output) (Stats, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("input", in.Name()).
		Str("output", out.Name()).
		Stringer("mode", out.Mode()).
		Int("block_size", c.block).
		Msg("converting")

	sink, err := out.Open()
	if err != nil {
		return Stats{}, err
	}

	src, err := in.Open()
	if err != nil {
		out.Abort(sink)
		return Stats{}, err
	}

	sc := stream.NewScanner(c.a, src, stream.WithBlockSize(c.block), stream.WithSourceName(in.Name()))
	st, err := Substitute(ctx, sc, c.a, sink, sink.Name())
	if cerr := src.Close(); err == nil && cerr != nil {
		err = errs.Input(in.Name(), cerr)
	}
	if err != nil {
		out.Abort(sink)
		return st, err
	}

	if err := out.Close(sink); err != nil {
		return st, err
	}

	logger.Debug().
		Str("input", in.Name()).
		Int("matches", st.Matches).
		Int64("bytes_read", st.BytesRead).
		Int64("bytes_written", st.BytesWritten).
		Msg("converted")
	return st, nil
}
