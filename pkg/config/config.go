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

package config

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/patterns"
	"gitlab.com/tozd/go/errors"
)

// DefaultName is the configuration file looked for when none is named.
const DefaultName = "to-uni.yml"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes. path is only used in messages.
	Parse(ctx context.Context, path string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser

	// fallback handles files no registered parser claims
	fallback Parser = &YAMLParser{}
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is a loaded pattern configuration
type Config struct {
	Path     string            // file the configuration was read from
	Patterns map[string]string // bare token name to replacement
}

// 🎯 Load reads and parses the configuration file at path. The parser is
// picked by extension; files with an unknown extension are read as YAML.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.ConfigRead(path, err)
	}

	p := GetParser(path)
	if p == nil {
		p = fallback
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if cfg.Patterns == nil {
		cfg.Patterns = map[string]string{}
	}

	logger.Info().Str("path", path).Int("patterns", len(cfg.Patterns)).Msg("loaded configuration")
	return cfg, nil
}

// Table builds the pattern table for the configuration.
func (cfg *Config) Table(opts ...patterns.Option) (*patterns.Table, error) {
	t, err := patterns.New(cfg.Patterns, opts...)
	if err != nil {
		var ue *errs.UsageError
		if errors.As(err, &ue) {
			return nil, errs.Usage(errs.MinorInvalidConfigFile, "Error in configuration file %s %s", cfg.Path, ue.Message)
		}
		return nil, err
	}
	return t, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%d patterns)", cfg.Path, len(cfg.Patterns))
}

func invalid(path, format string, args ...any) error {
	return errs.Usage(errs.MinorInvalidConfigFile, "Error in configuration file %s %s", path, fmt.Sprintf(format, args...))
}
