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

package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticList(t *testing.T) {
	src := StaticList{"a.txt", "b/c.txt"}
	files, err := src.Staged(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b/c.txt"}, files)

	// mutating the result must not affect the source
	files[0] = "mutated"
	again, err := src.Staged(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b/c.txt"}, again)
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func TestGitIndex_Staged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.txt"), []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unstaged.txt"), []byte("b\n"), 0o644))
	gitRun(t, dir, "add", "staged.txt")

	files, err := NewGitIndex(dir).Staged(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"staged.txt"}, files)
}

func TestGitIndex_EmptyIndex(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")

	files, err := NewGitIndex(dir).Staged(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitIndex_OutsideRepositoryFails(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	// the ceiling stops discovery from walking up into a checkout that
	// may contain the temp dir
	dir := t.TempDir()
	require.NoError(t, os.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir)))
	t.Cleanup(func() { _ = os.Unsetenv("GIT_CEILING_DIRECTORIES") })

	_, err := NewGitIndex(dir).Staged(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing staged files")
}
