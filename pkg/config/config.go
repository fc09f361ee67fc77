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
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultExclude is the exclusion list applied when the config does not
// set one: structured-data files that other hooks own.
var DefaultExclude = []string{".json", ".yaml", ".yml"}

// 📚 Config is the complete rewriterc configuration
type Config struct {
	// Patterns is the ordered rule table applied to every candidate file.
	Patterns RuleSet `json:"patterns" yaml:"patterns"`
	// Directories is a list of glob expressions; their expansion becomes
	// the include-directory set. The key is required; an explicitly empty
	// array means no directory restriction.
	Directories []string `json:"directories" yaml:"directories"`
	// Exclude lists file suffixes or exact base names that are never
	// rewritten. Defaults to DefaultExclude.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// Async processes candidate files concurrently. Off by default.
	Async bool `json:"async,omitempty" yaml:"async,omitempty"`
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Patterns.Len() == 0 {
		return errors.New("patterns is required and must not be empty")
	}

	for _, pattern := range cfg.Patterns.Patterns() {
		rule, _ := cfg.Patterns.Get(pattern)
		if rule.Replacement == "" {
			return errors.Errorf("pattern %q: replacement is required", pattern)
		}
	}

	if cfg.Directories == nil {
		return errors.New("directories is required (use an empty array for no restriction)")
	}

	if cfg.Exclude == nil {
		cfg.Exclude = append([]string(nil), DefaultExclude...)
	}

	return nil
}

// 🎯 ExpandDirectories expands the configured directory globs against the
// filesystem rooted at root and returns the union of matching directories
// as absolute paths. A glob that matches nothing contributes nothing; only
// directories survive the expansion.
func (cfg *Config) ExpandDirectories(ctx context.Context, root string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]struct{})
	var dirs []string
	for _, pattern := range cfg.Directories {
		search := pattern
		if !filepath.IsAbs(search) {
			search = filepath.Join(root, search)
		}

		matches, err := doublestar.FilepathGlob(search)
		if err != nil {
			return nil, errors.Errorf("expanding directory glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				continue
			}
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, errors.Errorf("resolving directory %q: %w", match, err)
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			dirs = append(dirs, abs)
		}
	}

	sort.Strings(dirs)
	logger.Debug().Strs("directories", dirs).Msg("expanded include directories")
	return dirs, nil
}
