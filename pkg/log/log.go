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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/errs"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	modeWidth   = 10 // Width for output mode
	statusWidth = 18 // Width for status text
)

// 🎯 Conversion describes a finished conversion for logging
type Conversion struct {
	Input        string // input name
	Output       string // output name
	Mode         string // stream, file or in-place
	Replacements int    // number of tokens replaced
	BytesRead    int64
	BytesWritten int64
}

// 🎯 Logger pairs human readable console lines with structured zerolog
// events. Console lines are shown when the logger's level allows them:
// conversions and successes at info, warnings at warn. Fatal always prints.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	total   int
}

// 🏭 New creates a new logger writing to console
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: console, NoColor: color.NoColor}).
		With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Zerolog returns the structured logger.
func (l *Logger) Zerolog() *zerolog.Logger { return &l.zlog }

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context, along with its zerolog logger
// so that zerolog.Ctx finds it
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

func (l *Logger) shows(level zerolog.Level) bool {
	lvl := l.zlog.GetLevel()
	return lvl != zerolog.Disabled && lvl <= level
}

// 📝 formatConversion formats a conversion for display
func (l *Logger) formatConversion(c Conversion) string {
	symbol, symbolColor := '•', color.FgCyan
	status := "unchanged"
	if c.Replacements > 0 {
		symbol, symbolColor = '⟳', color.FgBlue
		status = fmt.Sprintf("%d replaced", c.Replacements)
	}

	var modeColor color.Attribute
	switch c.Mode {
	case "in-place":
		modeColor = color.FgYellow
	case "file":
		modeColor = color.FgGreen
	default:
		modeColor = color.FgMagenta
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, c.Input),
		color.New(modeColor).Sprint(fmt.Sprintf("%-*s", modeWidth, c.Mode)),
		fmt.Sprintf("%-*s", statusWidth, status))
	if c.Mode == "file" {
		line += color.New(color.Faint).Sprint("→ " + c.Output)
	}
	return line
}

// 📝 LogConversion logs a finished conversion
func (l *Logger) LogConversion(ctx context.Context, c Conversion) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total += c.Replacements

	if l.shows(zerolog.InfoLevel) {
		fmt.Fprintln(l.console, l.formatConversion(c))
	}

	l.zlog.Debug().
		Str("input", c.Input).
		Str("output", c.Output).
		Str("mode", c.Mode).
		Int("replacements", c.Replacements).
		Int64("bytes_read", c.BytesRead).
		Int64("bytes_written", c.BytesWritten).
		Msg("conversion")
}

// Total returns the replacements logged so far.
func (l *Logger) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.shows(zerolog.InfoLevel) {
		name := color.New(color.Bold, color.FgCyan).Sprint("to-uni")
		fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	}
	l.zlog.Debug().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.shows(zerolog.InfoLevel) {
		fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	}
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.shows(zerolog.WarnLevel) {
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	}
	l.zlog.Debug().Msg(msg)
}

// 📝 Fatal prints err as a single line whatever the level, and returns the
// process exit code for it
func (l *Logger) Fatal(err error) int {
	code := errs.ExitCode(err)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(err.Error()))
	l.zlog.Debug().Int("exit_code", code).Msg("exiting")
	return code
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
