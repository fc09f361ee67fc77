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

// Package rewrite applies configured pattern rules to individual files,
// rewriting them in place only when the content actually changed.
package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Outcome classifies what happened to a single file
type Outcome int

const (
	// OutcomeUnchanged means no rule matched; the file was not touched.
	OutcomeUnchanged Outcome = iota
	// OutcomeRewritten means the file was modified in place.
	OutcomeRewritten
	// OutcomeSkipped means the file was never read for rewriting
	// (excluded name or binary content).
	OutcomeSkipped
	// OutcomeFailed means the file could not be processed; the run
	// continues with the next file.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRewritten:
		return "rewritten"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unchanged"
	}
}

// 📄 Result is the typed per-file outcome, so callers can tell "nothing to
// do" apart from "could not process"
type Result struct {
	Path         string
	Outcome      Outcome
	Reason       string // set for skips
	Err          error  // set for failures
	Replacements int    // number of rules whose application changed content
}

// 🔧 Rewriter applies a compiled rule table to files
type Rewriter struct {
	rules   []CompiledRule
	exclude []string
}

// New creates a Rewriter. exclude entries are matched against the file's
// base name, either as a suffix (".yml") or exactly ("package-lock.json").
func New(rules []CompiledRule, exclude []string) *Rewriter {
	return &Rewriter{rules: rules, exclude: exclude}
}

// ProcessFile runs every rule over the file at path and rewrites it in
// place if the content changed, preserving the file's permission bits.
// Per-file errors are captured in the Result, never propagated: one bad
// file must not stop the batch.
func (rw *Rewriter) ProcessFile(ctx context.Context, path string) Result {
	logger := zerolog.Ctx(ctx)

	if reason, ok := rw.excluded(path); ok {
		logger.Debug().Str("file", path).Str("reason", reason).Msg("skipping file")
		return Result{Path: path, Outcome: OutcomeSkipped, Reason: reason}
	}

	if IsBinary(path) {
		logger.Debug().Str("file", path).Msg("skipping binary file")
		return Result{Path: path, Outcome: OutcomeSkipped, Reason: "binary content"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{Path: path, Outcome: OutcomeFailed, Err: errors.Errorf("stat file: %w", err)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Outcome: OutcomeFailed, Err: errors.Errorf("reading file: %w", err)}
	}
	if !utf8.Valid(data) {
		return Result{Path: path, Outcome: OutcomeFailed, Err: errors.Errorf("file %s is not valid UTF-8", path)}
	}

	content := string(data)
	cleaned := content
	replacements := 0
	for _, rule := range rw.rules {
		next := rule.Apply(cleaned)
		if next != cleaned {
			replacements++
		}
		cleaned = next
	}

	if cleaned == content {
		return Result{Path: path, Outcome: OutcomeUnchanged}
	}

	if err := os.WriteFile(path, []byte(cleaned), info.Mode().Perm()); err != nil {
		return Result{Path: path, Outcome: OutcomeFailed, Err: errors.Errorf("writing file: %w", err)}
	}

	logger.Debug().Str("file", path).Int("rules_applied", replacements).Msg("rewrote file")
	return Result{Path: path, Outcome: OutcomeRewritten, Replacements: replacements}
}

func (rw *Rewriter) excluded(path string) (string, bool) {
	base := filepath.Base(path)
	for _, entry := range rw.exclude {
		if base == entry || strings.HasSuffix(base, entry) {
			return "excluded name " + entry, true
		}
	}
	return "", false
}
