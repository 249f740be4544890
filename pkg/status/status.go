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

// Package status detects how a write changes a file on disk and performs the
// write atomically.
package status

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the effect a write has on a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File doesn't exist in destination
	StatusModified             // File exists but content differs
	StatusUnchanged            // File exists and content matches
	StatusSkipped              // Write was not performed (dry run)
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 🔍 Detect reports what writing content to path would do
func Detect(path string, content []byte) (FileStatus, error) {
	current, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNew, nil
		}
		return StatusUnknown, errors.Errorf("reading current file: %w", err)
	}

	if Checksum(current) == Checksum(content) {
		return StatusUnchanged, nil
	}
	return StatusModified, nil
}

// 💾 WriteFileAtomic writes content to a temp file next to path and renames it
// into place. The parent directory must exist. On failure the original file,
// if any, is left untouched.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".textpipe-*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// 💾 Write detects the status of path, then writes content atomically. An
// unchanged file is still rewritten so the write is a plain overwrite.
func Write(path string, content []byte, perm os.FileMode) (FileStatus, error) {
	st, err := Detect(path, content)
	if err != nil {
		return StatusUnknown, err
	}

	if err := WriteFileAtomic(path, content, perm); err != nil {
		return StatusUnknown, err
	}

	return st, nil
}
