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

package text

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/walteh/textpipe/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// EncodeLines joins lines with "\n". No trailing newline is added.
func EncodeLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

// EncodeJSON renders records as a JSON array indented with two spaces. HTML
// characters are left unescaped and no trailing newline is written. A nil
// slice encodes as an empty array.
func EncodeJSON[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, errors.Errorf("encoding json: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// SaveLines overwrites path with lines joined by "\n".
func SaveLines(path string, lines []string) error {
	_, err := WriteOutput(path, EncodeLines(lines))
	return err
}

// SaveJSON overwrites path with records as a pretty-printed JSON array.
func SaveJSON[T any](path string, records []T) error {
	data, err := EncodeJSON(records)
	if err != nil {
		return err
	}
	_, err = WriteOutput(path, data)
	return err
}

// WriteOutput atomically overwrites path and reports how the file changed.
// Failures wrap ErrWrite.
func WriteOutput(path string, data []byte) (status.FileStatus, error) {
	st, err := status.Write(path, data, 0644)
	if err != nil {
		return status.StatusUnknown, errors.Errorf("%w: %s: %s", ErrWrite, path, err.Error())
	}
	return st, nil
}
