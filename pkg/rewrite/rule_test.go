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

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/config"
)

func boolPtr(b bool) *bool { return &b }

func TestCompiledRule_Apply(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		rule    config.Rule
		content string
		want    string
	}{
		{
			name:    "assignment_replaces_value",
			pattern: "timeout",
			rule:    config.Rule{Replacement: "60"},
			content: "timeout = 30",
			want:    "timeout = 60",
		},
		{
			name:    "assignment_normalizes_spacing",
			pattern: "timeout",
			rule:    config.Rule{Replacement: "60"},
			content: "timeout=30\nretries = 5",
			want:    "timeout = 60\nretries = 5",
		},
		{
			name:    "assignment_value_stops_at_newline",
			pattern: "timeout",
			rule:    config.Rule{Replacement: "60"},
			content: "timeout = 30 # seconds\nnext = 1",
			want:    "timeout = 60\nnext = 1",
		},
		{
			name:    "assignment_keeps_matched_key_text",
			pattern: "time(out)?",
			rule:    config.Rule{Replacement: "60"},
			content: "time = 1\ntimeout = 2",
			want:    "time = 60\ntimeout = 60",
		},
		{
			name:    "assignment_literal_dollar_in_replacement",
			pattern: "prompt",
			rule:    config.Rule{Replacement: "$PS1"},
			content: "prompt = old",
			want:    "prompt = $PS1",
		},
		{
			name:    "inplace_preserves_filename",
			pattern: "/var/log/old",
			rule:    config.Rule{Replacement: "/var/log/new", Inplace: true},
			content: "logfile = /var/log/old/app.log",
			want:    "logfile = /var/log/new/app.log",
		},
		{
			name:    "inplace_rewrites_nested_path",
			pattern: "/var/log/old",
			rule:    config.Rule{Replacement: "/srv/logs", Inplace: true},
			content: "path: /var/log/old/2024/app.log done",
			want:    "path: /srv/logs/app.log done",
		},
		{
			name:    "inplace_stops_at_whitespace",
			pattern: "/var/log/old",
			rule:    config.Rule{Replacement: "/var/log/new", Inplace: true},
			content: "/var/log/old/a.log /other/path",
			want:    "/var/log/new/a.log /other/path",
		},
		{
			name:    "case_insensitive_assignment",
			pattern: "host",
			rule:    config.Rule{Replacement: "localhost", CaseSensitive: boolPtr(false)},
			content: "Host = a\nHOST = b\nhost = c",
			want:    "Host = localhost\nHOST = localhost\nhost = localhost",
		},
		{
			name:    "case_sensitive_by_default",
			pattern: "host",
			rule:    config.Rule{Replacement: "localhost"},
			content: "Host = a\nhost = c",
			want:    "Host = a\nhost = localhost",
		},
		{
			name:    "no_match_is_noop",
			pattern: "timeout",
			rule:    config.Rule{Replacement: "60"},
			content: "retries = 5",
			want:    "retries = 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := compileRule(tt.pattern, tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, compiled.Apply(tt.content))
		})
	}
}

func TestCompileRules(t *testing.T) {
	t.Run("preserves_order", func(t *testing.T) {
		var rs config.RuleSet
		rs.Add("b", config.Rule{Replacement: "1"})
		rs.Add("a", config.Rule{Replacement: "2"})

		rules, err := CompileRules(&rs)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "b", rules[0].Pattern)
		assert.Equal(t, "a", rules[1].Pattern)
	})

	t.Run("invalid_pattern_fails_fast", func(t *testing.T) {
		var rs config.RuleSet
		rs.Add("timeout", config.Rule{Replacement: "60"})
		rs.Add("[unclosed", config.Rule{Replacement: "x"})

		_, err := CompileRules(&rs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[unclosed")
	})
}

func TestCompiledRule_SequentialComposition(t *testing.T) {
	// later rules see the output of earlier rules
	var rs config.RuleSet
	rs.Add("stage", config.Rule{Replacement: "prod"})
	rs.Add("env", config.Rule{Replacement: "final"})

	rules, err := CompileRules(&rs)
	require.NoError(t, err)

	content := "stage = dev\nenv = stage"
	for _, rule := range rules {
		content = rule.Apply(content)
	}
	assert.Equal(t, "stage = prod\nenv = final", content)
}
