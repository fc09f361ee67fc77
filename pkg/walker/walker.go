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

// Package walker enumerates candidate files and aggregates per-file
// rewrite results into a run summary.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/vcs"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 Options configures a Walker
type Options struct {
	// Root is the working tree root to scan. Defaults to ".".
	Root string
	// IncludeDirs restricts candidates to files inside one of these
	// absolute directories. Empty means no restriction.
	IncludeDirs []string
	// EnforceAll scans every file under Root instead of only staged ones.
	EnforceAll bool
	// Staged supplies the staged-file list. Required unless EnforceAll.
	Staged vcs.StagedFiles
	// Async processes candidates concurrently with a CPU-bound limit.
	Async bool
	// Rewriter processes each candidate file.
	Rewriter *rewrite.Rewriter
}

// 📊 Summary aggregates the per-file results of a run
type Summary struct {
	// Results holds one entry per processed candidate, in candidate order.
	Results []rewrite.Result
	// Rewritten lists the files that were modified and must be re-staged.
	Rewritten []string
	// Failed lists the files that could not be processed.
	Failed []string
}

// ExitCode maps the summary onto the pre-commit hook contract:
// 0 = clean, 1 = at least one file was rewritten and must be re-staged.
func (s *Summary) ExitCode() int {
	if len(s.Rewritten) > 0 {
		return 1
	}
	return 0
}

// 🚶 Walker runs the rewriter over the candidate file set
type Walker struct {
	opts Options
}

// New creates a Walker. The staged-file source is mandatory in staged mode:
// degrading silently to a full-tree scan would break pre-commit semantics.
func New(opts Options) (*Walker, error) {
	if opts.Rewriter == nil {
		return nil, errors.New("rewriter is required")
	}
	if !opts.EnforceAll && opts.Staged == nil {
		return nil, errors.New("staged-file source is required unless enforce-all is set")
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	return &Walker{opts: opts}, nil
}

// Walk enumerates candidates, processes each one, and returns the summary.
// Only enumeration errors abort the run; per-file failures are collected.
func (w *Walker) Walk(ctx context.Context) (*Summary, error) {
	candidates, err := w.candidates(ctx)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(candidates)).Msg("processing candidate files")

	results := make([]rewrite.Result, len(candidates))
	if w.opts.Async {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for i, path := range candidates {
			i, path := i, path
			g.Go(func() error {
				results[i] = w.process(gctx, path)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.Errorf("processing files: %w", err)
		}
	} else {
		for i, path := range candidates {
			results[i] = w.process(ctx, path)
		}
	}

	summary := &Summary{Results: results}
	for _, res := range results {
		switch res.Outcome {
		case rewrite.OutcomeRewritten:
			summary.Rewritten = append(summary.Rewritten, res.Path)
		case rewrite.OutcomeFailed:
			summary.Failed = append(summary.Failed, res.Path)
		}
	}
	return summary, nil
}

// process tolerates files deleted between enumeration and processing.
func (w *Walker) process(ctx context.Context, path string) rewrite.Result {
	if _, err := os.Stat(path); err != nil {
		return rewrite.Result{Path: path, Outcome: rewrite.OutcomeSkipped, Reason: "file no longer exists"}
	}
	return w.opts.Rewriter.ProcessFile(ctx, path)
}

func (w *Walker) candidates(ctx context.Context) ([]string, error) {
	var files []string
	if w.opts.EnforceAll {
		err := filepath.WalkDir(w.opts.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// an unreadable subtree must not kill the batch, but a
				// bad scan root is a usage error
				if path == w.opts.Root {
					return err
				}
				zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walking %s: %w", w.opts.Root, err)
		}
	} else {
		staged, err := w.opts.Staged.Staged(ctx)
		if err != nil {
			return nil, errors.Errorf("getting staged files: %w", err)
		}
		for _, path := range staged {
			if !filepath.IsAbs(path) {
				path = filepath.Join(w.opts.Root, path)
			}
			files = append(files, path)
		}
	}

	if len(w.opts.IncludeDirs) == 0 {
		return files, nil
	}

	var kept []string
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", path, err)
		}
		if w.included(abs) {
			kept = append(kept, path)
		}
	}
	return kept, nil
}

// included reports whether abs sits inside one of the include directories.
// The prefix must end at a path-component boundary so "/src" does not
// capture "/srcfoo/x".
func (w *Walker) included(abs string) bool {
	for _, dir := range w.opts.IncludeDirs {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
