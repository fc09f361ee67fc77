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

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_rewritten_result",
			op: func(t *testing.T, logger *Logger) {
				logger.LogResult(context.Background(), rewrite.Result{
					Path:         "app.conf",
					Outcome:      rewrite.OutcomeRewritten,
					Replacements: 2,
				})
			},
			wantLogs: []string{
				"⟳ app.conf                                      rewritten",
			},
		},
		{
			name: "log_skipped_result_with_reason",
			op: func(t *testing.T, logger *Logger) {
				logger.LogResult(context.Background(), rewrite.Result{
					Path:    "config.json",
					Outcome: rewrite.OutcomeSkipped,
					Reason:  "excluded name .json",
				})
			},
			wantLogs: []string{
				"- config.json                                   skipped      excluded name .json",
			},
		},
		{
			name: "log_failed_result_with_error",
			op: func(t *testing.T, logger *Logger) {
				logger.LogResult(context.Background(), rewrite.Result{
					Path:    "broken.txt",
					Outcome: rewrite.OutcomeFailed,
					Err:     errors.New("permission denied"),
				})
			},
			wantLogs: []string{
				"✗ broken.txt                                    failed       permission denied",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("3 rule(s) loaded")
			},
			wantLogs: []string{
				"rewriterc • 3 rule(s) loaded",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}
