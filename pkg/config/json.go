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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/walteh/touni/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// 🔧 JSONParser implements the Parser interface for JSON files
//
//	{"patterns": {"alpha": "α", "to": "→"}}
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".json")
}

// 📝 Parse parses the config from JSON bytes
func (p *JSONParser) Parse(ctx context.Context, path string, data []byte) (*Config, error) {
	var raw struct {
		Patterns *map[string]string `json:"patterns"`
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		var syntax *json.SyntaxError
		switch {
		case errors.Is(err, io.EOF):
			return nil, errs.Usage(errs.MinorInvalidConfigFile,
				"Expected at least one document in config file %s", path)
		case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
			return nil, errs.Parse(path, err)
		default:
			return nil, invalid(path, "%v", err)
		}
	}

	if raw.Patterns == nil {
		return nil, errs.Usage(errs.MinorInvalidConfigFile,
			"Expected top-level dictionary of config file %s to contain a dictionary called 'patterns'.", path)
	}
	return &Config{Patterns: *raw.Patterns}, nil
}
