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
	"encoding/json"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔄 Rule configures a single pattern rewrite
type Rule struct {
	Replacement   string `json:"replacement" yaml:"replacement"`
	Inplace       bool   `json:"inplace,omitempty" yaml:"inplace,omitempty"`
	CaseSensitive *bool  `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
}

// IsCaseSensitive reports whether matching is case sensitive (default true).
func (r Rule) IsCaseSensitive() bool {
	return r.CaseSensitive == nil || *r.CaseSensitive
}

// 📚 RuleSet is an ordered mapping from regex pattern to Rule. Rules apply
// sequentially, so later rules see the output of earlier ones; iteration
// order is the order patterns appeared in the config document.
type RuleSet struct {
	patterns []string
	rules    map[string]Rule
}

// Add appends a rule, replacing any existing rule for the same pattern
// without changing its position.
func (rs *RuleSet) Add(pattern string, rule Rule) {
	if rs.rules == nil {
		rs.rules = make(map[string]Rule)
	}
	if _, ok := rs.rules[pattern]; !ok {
		rs.patterns = append(rs.patterns, pattern)
	}
	rs.rules[pattern] = rule
}

// Patterns returns the pattern strings in configuration order.
func (rs *RuleSet) Patterns() []string {
	return rs.patterns
}

// Get returns the rule for a pattern.
func (rs *RuleSet) Get(pattern string) (Rule, bool) {
	rule, ok := rs.rules[pattern]
	return rule, ok
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.patterns)
}

// UnmarshalJSON decodes a JSON object while preserving key order. The
// stock map decoding would randomize rule order, which breaks sequential
// rule composition.
func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	tok, err := dec.Token()
	if err != nil {
		return errors.Errorf("reading patterns object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("patterns must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return errors.Errorf("reading pattern key: %w", err)
		}
		pattern, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("pattern key must be a string, got %v", keyTok)
		}

		var rule Rule
		if err := dec.Decode(&rule); err != nil {
			return errors.Errorf("decoding rule for pattern %q: %w", pattern, err)
		}
		rs.Add(pattern, rule)
	}

	if _, err := dec.Token(); err != nil {
		return errors.Errorf("reading patterns object close: %w", err)
	}
	return nil
}

// MarshalJSON encodes the rules in configuration order.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pattern := range rs.patterns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pattern)
		if err != nil {
			return nil, errors.Errorf("encoding pattern %q: %w", pattern, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(rs.rules[pattern])
		if err != nil {
			return nil, errors.Errorf("encoding rule for pattern %q: %w", pattern, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping while preserving key order.
func (rs *RuleSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New("patterns must be a YAML mapping")
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var rule Rule
		if err := valNode.Decode(&rule); err != nil {
			return errors.Errorf("decoding rule for pattern %q: %w", keyNode.Value, err)
		}
		rs.Add(keyNode.Value, rule)
	}
	return nil
}
