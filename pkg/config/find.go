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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/touni/pkg/errs"
	"github.com/walteh/touni/pkg/fsio"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Find looks for a file called name in origin and then in each of its
// ancestors, returning the first one found.
func Find(ctx context.Context, origin, name string) (string, error) {
	logger := zerolog.Ctx(ctx)

	start, err := filepath.Abs(origin)
	if err != nil {
		return "", errs.Internal("resolving search origin %s: %v", origin, err)
	}

	dir := start
	for {
		candidate := filepath.Join(dir, name)
		fi, err := os.Stat(candidate)
		switch {
		case err == nil && !fi.IsDir():
			logger.Info().Str("name", name).Str("path", candidate).Msg("found configuration file")
			return candidate, nil
		case err == nil, errors.Is(err, os.ErrNotExist):
			logger.Debug().Str("name", name).Str("path", candidate).Msg("configuration file not found")
		default:
			return "", errs.ConfigRead(candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errs.Usage(errs.MinorNoConfigFile,
				"No configuration file %s found searching from %s upwards.", name, start)
		}
		dir = parent
	}
}

// 🎯 Resolve returns the configuration file to use for in. explicit is the
// --config value: a file is used as is, a directory becomes the search
// origin. Without it the search starts at the input's directory.
func Resolve(ctx context.Context, in fsio.Input, explicit, name string) (string, error) {
	if name == "" {
		name = DefaultName
	}

	if explicit != "" {
		fi, err := os.Stat(explicit)
		if err != nil {
			return "", errs.ConfigRead(explicit, err)
		}
		if !fi.IsDir() {
			return explicit, nil
		}
		return Find(ctx, explicit, name)
	}

	origin, err := in.Dir()
	if err != nil {
		return "", err
	}
	return Find(ctx, origin, name)
}

// Discover resolves and loads the configuration for in.
func Discover(ctx context.Context, in fsio.Input, explicit, name string) (*Config, error) {
	path, err := Resolve(ctx, in, explicit, name)
	if err != nil {
		return nil, err
	}
	return Load(ctx, path)
}
