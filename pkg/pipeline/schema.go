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

package pipeline

import (
	_ "embed"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gitlab.com/tozd/go/errors"
)

//go:embed schema.json
var outputSchema []byte

var ErrInvalidOutput = errors.Base("invalid output")

// ValidateDocument checks that data is a JSON array of strings or records
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(outputSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errors.Errorf("%w: %s", ErrInvalidOutput, err.Error())
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.Errorf("%w: %s", ErrInvalidOutput, strings.Join(msgs, "; "))
	}

	return nil
}

// ValidateOutput reads a written JSON output file and validates it
func ValidateOutput(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading output: %w", err)
	}
	return ValidateDocument(data)
}
