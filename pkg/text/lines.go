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

// Package text loads line-oriented text files, maps each line through a
// transform and serializes the result as text or JSON.
package text

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrInvalidEncoding = errors.Base("invalid utf-8")
	ErrWrite           = errors.Base("write failed")
)

// SplitLines splits s on "\n" and "\r\n" boundaries. A trailing terminator
// produces a final empty line, so joining the result with "\n" gives back s
// with "\r\n" normalized.
func SplitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ReadLines reads the whole file at path as UTF-8 text and splits it into lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	if !utf8.Valid(data) {
		return nil, errors.Errorf("%w: %s", ErrInvalidEncoding, path)
	}

	return SplitLines(string(data)), nil
}

// LoadLines is the fail-soft form of ReadLines. Any read error is logged to the
// context logger and an empty sequence is returned; callers that need to tell
// an unreadable file from an empty result should use TryLoadLines.
func LoadLines(ctx context.Context, path string) []string {
	lines, _ := TryLoadLines(ctx, path)
	return lines
}

// TryLoadLines behaves like LoadLines but also returns the error it swallowed.
// The returned lines are never nil.
func TryLoadLines(ctx context.Context, path string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	lines, err := ReadLines(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("error reading file")
		return []string{}, err
	}

	if e := logger.Debug(); e.Enabled() {
		e.Str("path", path).Int("lines", len(lines)).Msg("lines from file")
		for i, line := range lines {
			logger.Debug().Msgf("Line %d: %s", i+1, line)
		}
	}

	return lines, nil
}

// ApplyTransform maps fn over lines, keeping order. The result always has the
// same length as lines.
func ApplyTransform[T any](lines []string, fn func(string) T) []T {
	out := make([]T, len(lines))
	for i, line := range lines {
		out[i] = fn(line)
	}
	return out
}
