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
	"io"
	"strings"

	"github.com/walteh/touni/pkg/errs"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const patternsKey = "patterns"

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser implements the Parser interface for YAML files
//
//	patterns:
//	  alpha: α
//	  to: →
//
// Only the first document of the file is read.
type YAMLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *YAMLParser) CanParse(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// 📝 Parse parses the config from YAML
func (p *YAMLParser) Parse(ctx context.Context, path string, data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Usage(errs.MinorInvalidConfigFile,
				"Expected at least one document in config file %s", path)
		}
		return nil, errs.Parse(path, err)
	}

	root := resolveAlias(&doc)
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, errs.Usage(errs.MinorInvalidConfigFile,
				"Expected at least one document in config file %s", path)
		}
		root = resolveAlias(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return nil, errs.Usage(errs.MinorInvalidConfigFile,
			"Expected top-level of config file %s to be a dictionary.", path)
	}

	var table *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		k := root.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == patternsKey {
			table = resolveAlias(root.Content[i+1])
		}
	}
	if table == nil || table.Kind != yaml.MappingNode {
		return nil, errs.Usage(errs.MinorInvalidConfigFile,
			"Expected top-level dictionary of config file %s to contain a dictionary called 'patterns'.", path)
	}

	cfg := &Config{Patterns: make(map[string]string, len(table.Content)/2)}
	for i := 0; i+1 < len(table.Content); i += 2 {
		k, v := resolveAlias(table.Content[i]), resolveAlias(table.Content[i+1])
		if !isString(k) {
			return nil, invalid(path, "Expected string key, instead got: %s", describe(k))
		}
		if !isString(v) {
			return nil, invalid(path, "Expected value of key %s to be a string. Instead got: %s", k.Value, describe(v))
		}
		cfg.Patterns[k.Value] = v.Value
	}
	return cfg, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isString(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "dictionary"
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return n.ShortTag() + " " + n.Value
	default:
		return "node"
	}
}
