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

// Package vcs provides the staged-file lookup that scopes a default run to
// the files a commit would actually include.
package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 StagedFiles produces the paths currently staged for commit, relative
// to the working tree root
type StagedFiles interface {
	Staged(ctx context.Context) ([]string, error)
}

// 🗂️ GitIndex lists staged files by diffing against the git index
type GitIndex struct {
	// Dir is the working tree to query.
	Dir string
}

// NewGitIndex creates a GitIndex for the given working tree.
func NewGitIndex(dir string) *GitIndex {
	return &GitIndex{Dir: dir}
}

// Staged runs `git diff --cached --name-only -z` and parses the
// NUL-separated output. Errors are propagated: a pre-commit hook that
// cannot see the index must fail loudly, not fall back to scanning
// everything.
func (g *GitIndex) Staged(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "-C", g.Dir, "diff", "--cached", "--name-only", "-z")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Errorf("listing staged files: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var files []string
	for _, path := range strings.Split(stdout.String(), "\x00") {
		if path == "" {
			continue
		}
		files = append(files, path)
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(files)).Msg("listed staged files")
	return files, nil
}

// 📋 StaticList is a fixed staged-file list for tests
type StaticList []string

// Staged returns a copy of the list.
func (s StaticList) Staged(ctx context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}
