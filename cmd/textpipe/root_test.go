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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	out := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// writeProject creates a base directory with a manifest, a tutorial file
// and a config file named name holding content
func writeProject(t *testing.T, name, content string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"demo"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tutorial.txt"), []byte("https://a\nhttps://b"), 0644))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir, path
}

const projectConfig = `
copy:
  - source: package.json
    target_dir: build
pipeline:
  input: tutorial.txt
  output: tutorial.out.txt
  format: text
`

func TestRootCmd(t *testing.T) {
	tests := []struct {
		name        string
		args        func(dir, cfg string) []string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, dir, out string)
	}{
		{
			name: "copy",
			args: func(dir, cfg string) []string { return []string{"copy", "--config", cfg} },
			validate: func(t *testing.T, dir, out string) {
				assert.FileExists(t, filepath.Join(dir, "build", "package.json"))
				assert.Contains(t, out, "1 files processed, 1 written")
			},
		},
		{
			name: "copy_async",
			args: func(dir, cfg string) []string { return []string{"copy", "--config", cfg, "--async"} },
			validate: func(t *testing.T, dir, out string) {
				assert.FileExists(t, filepath.Join(dir, "build", "package.json"))
			},
		},
		{
			name: "copy_dry_run",
			args: func(dir, cfg string) []string { return []string{"copy", "--config", cfg, "--dry-run"} },
			validate: func(t *testing.T, dir, out string) {
				assert.NoFileExists(t, filepath.Join(dir, "build", "package.json"))
				assert.Contains(t, out, "dry run: 1 files planned, nothing copied")
				assert.Contains(t, out, filepath.Join(dir, "build", "package.json"), "resolved paths should be printed")
			},
		},
		{
			name: "run_from_config",
			args: func(dir, cfg string) []string { return []string{"run", "--config", cfg} },
			validate: func(t *testing.T, dir, out string) {
				got, err := os.ReadFile(filepath.Join(dir, "tutorial.out.txt"))
				require.NoError(t, err)
				assert.Equal(t, "[t](https://a)\n[t](https://b)", string(got))
			},
		},
		{
			name: "run_flags_override_config",
			args: func(dir, cfg string) []string {
				return []string{"run", "--config", cfg, "--transform", "raw", "--output", filepath.Join(dir, "raw.txt")}
			},
			validate: func(t *testing.T, dir, out string) {
				got, err := os.ReadFile(filepath.Join(dir, "raw.txt"))
				require.NoError(t, err)
				assert.Equal(t, "https://a\nhttps://b", string(got))
			},
		},
		{
			name: "run_json_validated",
			args: func(dir, cfg string) []string {
				return []string{"run", "--config", cfg, "--format", "json", "--validate", "--output", filepath.Join(dir, "out.json")}
			},
			validate: func(t *testing.T, dir, out string) {
				got, err := os.ReadFile(filepath.Join(dir, "out.json"))
				require.NoError(t, err)
				assert.Contains(t, string(got), `"answer": "[t](https://a)"`)
			},
		},
		{
			name:        "run_unknown_transform",
			args:        func(dir, cfg string) []string { return []string{"run", "--config", cfg, "--transform", "shout"} },
			wantErr:     true,
			errContains: "unknown transform",
		},
		{
			name: "config_dump",
			args: func(dir, cfg string) []string { return []string{"config", "--config", cfg} },
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "1 copies from "+dir)
				assert.Contains(t, out, "tutorial.txt")
			},
		},
		{
			name:        "missing_explicit_config",
			args:        func(dir, cfg string) []string { return []string{"copy", "--config", filepath.Join(dir, "nope.yaml")} },
			wantErr:     true,
			errContains: "reading config file",
		},
		{
			name: "version",
			args: func(dir, cfg string) []string { return []string{"version", "--config", filepath.Join(dir, "nope.yaml")} },
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "🚀 textpipe ")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, cfg := writeProject(t, ".textpipe.yaml", projectConfig)

			out, err := execute(t, tt.args(dir, cfg)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, dir, out)
			}
		})
	}
}

func TestRootCmd_ConfigFromEnv(t *testing.T) {
	dir, cfg := writeProject(t, "textpipe.json", `{"copy":[{"source":"package.json","target_dir":"dist"}]}`)
	t.Setenv("TEXTPIPE_CONFIG", cfg)

	_, err := execute(t, "copy")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "dist", "package.json"))
}

func TestRootCmd_RunWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(input, []byte("https://a"), 0644))

	_, err := execute(t, "run", "--input", input, "--output", output, "--format", "text", "--transform", "link-text")
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[t](https://a)", string(got))

	_, err = execute(t, "run")
	assert.ErrorContains(t, err, "--input and --output are required")

	_, err = execute(t, "copy")
	assert.ErrorContains(t, err, "not found")
}

func TestRootCmd_ReportsFailures(t *testing.T) {
	dir, cfg := writeProject(t, ".textpipe.yaml", `
copy:
  - source: missing.json
    target_dir: build
pipeline:
  input: tutorial.txt
  output: no/such/dir/out.json
`)

	out, err := execute(t, "copy", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source not found")
	assert.Contains(t, out, "copy stopped after 0 files")
	assert.NoDirExists(t, filepath.Join(dir, "build"))

	out, err = execute(t, "run", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write failed")
	assert.Contains(t, out, "pipeline failed for "+filepath.Join(dir, "tutorial.txt"))
}
