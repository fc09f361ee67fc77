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

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/vcs"
	"github.com/walteh/rewriterc/pkg/walker"
	"gitlab.com/tozd/go/errors"
)

// ErrFilesRewritten signals the pre-commit contract: files were modified
// and must be re-staged before the commit can proceed.
var ErrFilesRewritten = errors.Base("files were rewritten and must be re-staged")

var (
	// Flags
	configFile string
	enforceAll bool
	debug      bool
	rootDir    string
)

// NewRootCmd builds the rewriterc command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rewriterc",
		Short:         "rewrite path and assignment strings in files before commit",
		Long:          "rewriterc applies a configured table of regex rules to staged files (or every file under the configured directories), rewriting matching path and key=value strings in place.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to config file (json, yaml, or hcl)")
	cmd.Flags().BoolVar(&enforceAll, "enforce-all", false, "scan every file under the configured directories, not just staged files")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().StringVar(&rootDir, "root", ".", "working tree root to scan")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := zerolog.InfoLevel
	if debug {
		logLevel = zerolog.DebugLevel
	}
	zlog := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	ctx := zlog.WithContext(cmd.Context())

	console := log.New(os.Stdout, logLevel)

	cfg, err := config.LoadConfig(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	rules, err := rewrite.CompileRules(&cfg.Patterns)
	if err != nil {
		return errors.Errorf("compiling patterns: %w", err)
	}

	includeDirs, err := cfg.ExpandDirectories(ctx, rootDir)
	if err != nil {
		return errors.Errorf("expanding directories: %w", err)
	}

	w, err := walker.New(walker.Options{
		Root:        rootDir,
		IncludeDirs: includeDirs,
		EnforceAll:  enforceAll,
		Staged:      vcs.NewGitIndex(rootDir),
		Async:       cfg.Async,
		Rewriter:    rewrite.New(rules, cfg.Exclude),
	})
	if err != nil {
		return err
	}

	console.Header(fmt.Sprintf("%d rule(s) loaded from %s", cfg.Patterns.Len(), configFile))

	summary, err := w.Walk(ctx)
	if err != nil {
		return errors.Errorf("scanning files: %w", err)
	}

	for _, res := range summary.Results {
		if res.Outcome == rewrite.OutcomeUnchanged {
			continue
		}
		console.LogResult(ctx, res)
	}

	if len(summary.Failed) > 0 {
		console.Error(fmt.Sprintf("%d file(s) could not be processed", len(summary.Failed)))
	}
	if len(summary.Rewritten) > 0 {
		console.Warning(fmt.Sprintf("%d file(s) rewritten, re-stage them and retry the commit", len(summary.Rewritten)))
		return ErrFilesRewritten
	}

	console.Success("no files needed rewriting")
	return nil
}
