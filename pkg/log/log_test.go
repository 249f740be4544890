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
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textpipe/pkg/status"
)

func fileLine(symbol, path, kind, st string) string {
	return fmt.Sprintf("%s %-*s %-*s %s", symbol, nameWidth, path, kindWidth, kind, st)
}

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
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:   "build/package.json",
					Source: "package.json",
					Kind:   "copy",
					Status: status.StatusNew,
				})
			},
			wantLogs: []string{
				fileLine("✓", "build/package.json", "copy", "new"),
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("copying files")
			},
			wantLogs: []string{
				"textpipe • copying files",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.New(zerolog.NewTestWriter(t)))

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

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a discarding logger")
	assert.NotPanics(t, func() { fallback.Info("dropped") })
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "new_file",
			op:   FileOperation{Path: "out.json", Kind: "json", Status: status.StatusNew},
			want: fileLine("✓", "out.json", "json", "new"),
		},
		{
			name: "modified_file",
			op:   FileOperation{Path: "out.txt", Kind: "text", Status: status.StatusModified},
			want: fileLine("⟳", "out.txt", "text", "modified"),
		},
		{
			name: "unchanged_file",
			op:   FileOperation{Path: "build/a", Kind: "copy", Status: status.StatusUnchanged},
			want: fileLine("•", "build/a", "copy", "unchanged"),
		},
		{
			name: "skipped_file",
			op:   FileOperation{Path: "build/b", Kind: "copy", Status: status.StatusSkipped},
			want: fileLine("-", "build/b", "copy", "skipped"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewWithZerolog(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestLogPaths(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	logger := NewWithZerolog(buf, zerolog.Nop())

	logger.LogPaths(context.Background(), []PathEntry{
		{BaseDir: "/work", Source: "/work/package.json", Target: "/work/build/package.json"},
	})

	output := buf.String()
	assert.Contains(t, output, "dirname")
	assert.Contains(t, output, "/work/package.json")
	assert.Contains(t, output, "/work/build/package.json")
	assert.Equal(t, 0, logger.Operations(), "path listing is not a file operation")
}
