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
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/textpipe/pkg/log"
	"github.com/walteh/textpipe/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📋 CopyFile copies p.SourcePath to p.TargetPath, creating the target
// directory and any missing parents. An existing target is overwritten. The
// source's permission bits are kept.
func CopyFile(ctx context.Context, p PathTriple) (status.FileStatus, error) {
	info, err := os.Stat(p.SourcePath)
	if err != nil {
		return status.StatusUnknown, classify(err, "reading source "+p.SourcePath, true)
	}
	if info.IsDir() {
		return status.StatusUnknown, errors.Errorf("%w: source %s is a directory", ErrInvalidPath, p.SourcePath)
	}

	content, err := os.ReadFile(p.SourcePath)
	if err != nil {
		return status.StatusUnknown, classify(err, "reading source "+p.SourcePath, true)
	}

	targetDir := filepath.Dir(p.TargetPath)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return status.StatusUnknown, classify(err, "creating target directory "+targetDir, false)
	}

	st, err := status.Write(p.TargetPath, content, info.Mode().Perm())
	if err != nil {
		return status.StatusUnknown, classify(err, "writing target "+p.TargetPath, false)
	}

	zerolog.Ctx(ctx).Info().
		Str("source", p.SourcePath).
		Str("target", p.TargetPath).
		Str("status", st.String()).
		Msgf("Copied %s to %s", p.SourcePath, p.TargetPath)

	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:   p.TargetPath,
		Source: p.SourcePath,
		Kind:   "copy",
		Status: st,
		Count:  len(content),
	})

	return st, nil
}

// classify maps filesystem errors onto the copier's error kinds
func classify(err error, doing string, source bool) error {
	switch {
	case source && errors.Is(err, fs.ErrNotExist):
		return errors.Errorf("%w: %s: %s", ErrSourceNotFound, doing, err.Error())
	case errors.Is(err, fs.ErrPermission):
		return errors.Errorf("%w: %s: %s", ErrPermission, doing, err.Error())
	default:
		return errors.Errorf("%s: %w", doing, err)
	}
}
