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

package copier

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/textpipe/pkg/log"
	"github.com/walteh/textpipe/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧪 createTestEnv creates a base directory holding a package manifest and
// a context carrying loggers
func createTestEnv(t *testing.T) (context.Context, string, *bytes.Buffer) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "package.json"), []byte(`{"name":"demo"}`), 0640))

	console := &bytes.Buffer{}
	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := zlog.WithContext(context.Background())
	ctx = log.NewContext(ctx, log.NewWithZerolog(console, zlog))

	return ctx, base, console
}

func TestCopyFile(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx, base, console := createTestEnv(t)

	paths, err := ResolvePaths(base, "package.json", "deep/nested/build")
	require.NoError(t, err)

	st, err := CopyFile(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, status.StatusNew, st)

	src, err := os.ReadFile(paths.SourcePath)
	require.NoError(t, err)
	dst, err := os.ReadFile(paths.TargetPath)
	require.NoError(t, err, "missing intermediate directories should be created")
	assert.Equal(t, src, dst, "target should be byte-identical to source")

	info, err := os.Stat(paths.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm(), "source mode should be kept")

	assert.Contains(t, console.String(), paths.TargetPath, "copy should be reported")
}

func TestCopyFile_Idempotent(t *testing.T) {
	ctx, base, _ := createTestEnv(t)

	paths, err := ResolvePaths(base, "package.json", "build")
	require.NoError(t, err)

	_, err = CopyFile(ctx, paths)
	require.NoError(t, err)

	st, err := CopyFile(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, status.StatusUnchanged, st, "re-running should leave identical content")

	require.NoError(t, os.WriteFile(paths.SourcePath, []byte(`{"name":"changed"}`), 0640))
	st, err = CopyFile(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, status.StatusModified, st, "changed source should overwrite target")

	dst, err := os.ReadFile(paths.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"changed"}`, string(dst))
}

func TestCopyFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, base string) PathTriple
		wantErr error
		skip    bool
	}{
		{
			name: "missing_source",
			setup: func(t *testing.T, base string) PathTriple {
				p, err := ResolvePaths(base, "nope.json", "build")
				require.NoError(t, err)
				return p
			},
			wantErr: ErrSourceNotFound,
		},
		{
			name: "directory_source",
			setup: func(t *testing.T, base string) PathTriple {
				require.NoError(t, os.Mkdir(filepath.Join(base, "dir"), 0755))
				p, err := ResolvePaths(base, "dir", "build")
				require.NoError(t, err)
				return p
			},
			wantErr: ErrInvalidPath,
		},
		{
			name: "unwritable_target",
			setup: func(t *testing.T, base string) PathTriple {
				ro := filepath.Join(base, "ro")
				require.NoError(t, os.Mkdir(ro, 0555))
				p, err := ResolvePaths(base, "package.json", "ro/build")
				require.NoError(t, err)
				return p
			},
			wantErr: ErrPermission,
			skip:    os.Geteuid() == 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.skip {
				t.Skip("permission checks do not apply to root")
			}
			ctx, base, _ := createTestEnv(t)

			_, err := CopyFile(ctx, tt.setup(t, base))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "error should be %v, got %v", tt.wantErr, err)
		})
	}
}
