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

// Package copier copies files into build directories. Paths are resolved
// against an explicit base directory rather than the caller's location.
package copier

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrInvalidPath    = errors.Base("invalid path")
	ErrSourceNotFound = errors.Base("source not found")
	ErrPermission     = errors.Base("permission denied")
)

// 📦 PathTriple holds the absolute paths for one copy
type PathTriple struct {
	BaseDir    string
	SourcePath string
	TargetPath string
}

// 🔍 ResolvePaths joins baseDir with the relative source and target directory.
// The target file name is the base name of the source. Absolute source or
// target paths are used as given. Nothing is checked on disk.
func ResolvePaths(baseDir, source, targetDir string) (PathTriple, error) {
	switch {
	case baseDir == "":
		return PathTriple{}, errors.Errorf("%w: base dir is empty", ErrInvalidPath)
	case source == "":
		return PathTriple{}, errors.Errorf("%w: source is empty", ErrInvalidPath)
	case targetDir == "":
		return PathTriple{}, errors.Errorf("%w: target dir is empty", ErrInvalidPath)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return PathTriple{}, errors.Errorf("%w: %s: %s", ErrInvalidPath, baseDir, err.Error())
	}

	return PathTriple{
		BaseDir:    base,
		SourcePath: anchor(base, source),
		TargetPath: filepath.Join(anchor(base, targetDir), filepath.Base(source)),
	}, nil
}

func anchor(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// hasMeta reports whether pattern uses doublestar glob syntax
func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// 🔍 Expand resolves source into one PathTriple per matching file when it is
// a glob pattern (doublestar syntax, e.g. "configs/**/*.json"), or a single
// triple otherwise. A pattern with no file matches is ErrSourceNotFound.
func Expand(baseDir, source, targetDir string) ([]PathTriple, error) {
	if !hasMeta(source) {
		p, err := ResolvePaths(baseDir, source, targetDir)
		if err != nil {
			return nil, err
		}
		return []PathTriple{p}, nil
	}

	if baseDir == "" || targetDir == "" {
		// let ResolvePaths produce the error
		_, err := ResolvePaths(baseDir, source, targetDir)
		return nil, err
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Errorf("%w: %s: %s", ErrInvalidPath, baseDir, err.Error())
	}

	// only the pattern part is matched; the static prefix and base dir are
	// taken literally even when they contain meta characters
	prefix, pattern := doublestar.SplitPattern(filepath.ToSlash(source))
	root := anchor(base, filepath.FromSlash(prefix))

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, errors.Errorf("%w: bad pattern %q: %s", ErrInvalidPath, source, err.Error())
	}
	sort.Strings(matches)

	var triples []PathTriple
	for _, rel := range matches {
		m := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		triples = append(triples, PathTriple{
			BaseDir:    base,
			SourcePath: m,
			TargetPath: filepath.Join(anchor(base, targetDir), filepath.Base(m)),
		})
	}

	if len(triples) == 0 {
		return nil, errors.Errorf("%w: no files match %q", ErrSourceNotFound, source)
	}

	return triples, nil
}
