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
	"path"
	"regexp"
	"strings"

	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔄 CompiledRule is a single pattern rule with its matcher built
type CompiledRule struct {
	Pattern     string // configured regex source
	Replacement string
	Inplace     bool
	re          *regexp.Regexp
}

// CompileRules compiles every rule in the set eagerly, in configuration
// order. A malformed pattern fails the whole run here, before any file is
// touched, rather than surfacing as a silent "no changes" later.
func CompileRules(rs *config.RuleSet) ([]CompiledRule, error) {
	rules := make([]CompiledRule, 0, rs.Len())
	for _, pattern := range rs.Patterns() {
		rule, _ := rs.Get(pattern)
		compiled, err := compileRule(pattern, rule)
		if err != nil {
			return nil, err
		}
		rules = append(rules, compiled)
	}
	return rules, nil
}

func compileRule(pattern string, rule config.Rule) (CompiledRule, error) {
	var expr strings.Builder
	if !rule.IsCaseSensitive() {
		expr.WriteString("(?i)")
	}

	if rule.Inplace {
		// Match the pattern plus any non-whitespace continuation, so a
		// configured directory prefix captures the full path token
		// including its trailing filename.
		expr.WriteString("(?:")
		expr.WriteString(pattern)
		expr.WriteString(`)\S*`)
	} else {
		// Match a `key = value` assignment: the pattern is the key, the
		// value is the remainder of the line.
		expr.WriteString("((?:")
		expr.WriteString(pattern)
		expr.WriteString(`))\s*=\s*[^\n]*`)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return CompiledRule{}, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return CompiledRule{
		Pattern:     pattern,
		Replacement: rule.Replacement,
		Inplace:     rule.Inplace,
		re:          re,
	}, nil
}

// Apply runs the rule over content and returns the result. Inplace rules
// swap the directory component of each matched path token and keep the
// trailing filename segment; assignment rules keep the matched key text and
// replace the value. Matching is plain text-substring matching, not
// filesystem-path matching.
func (r CompiledRule) Apply(content string) string {
	if r.Inplace {
		return r.re.ReplaceAllStringFunc(content, func(match string) string {
			filename := match
			if idx := strings.LastIndexAny(match, `/\`); idx >= 0 {
				filename = match[idx+1:]
			}
			if filename == "" {
				// match ended in a separator; there is no filename to keep
				return r.Replacement
			}
			return path.Join(r.Replacement, filename)
		})
	}

	// $ in the configured replacement must stay literal
	replacement := strings.ReplaceAll(r.Replacement, "$", "$$")
	return r.re.ReplaceAllString(content, "${1} = "+replacement)
}
