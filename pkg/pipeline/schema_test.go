package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "empty_array", doc: `[]`},
		{name: "strings", doc: `["[t](https://a)", "b"]`},
		{
			name: "records",
			doc:  `[{"indexTitle":"","question":"","answer":"[t](https://a)","dateTime":"2025-01-02T03:04:05.006Z"}]`,
		},
		{name: "not_an_array", doc: `{"answer":"x"}`, wantErr: true},
		{name: "missing_field", doc: `[{"answer":"x","dateTime":"2025-01-02T03:04:05.006Z"}]`, wantErr: true},
		{
			name:    "extra_field",
			doc:     `[{"indexTitle":"","question":"","answer":"x","dateTime":"2025-01-02T03:04:05.006Z","extra":1}]`,
			wantErr: true,
		},
		{
			name:    "bad_date",
			doc:     `[{"indexTitle":"","question":"","answer":"x","dateTime":"yesterday"}]`,
			wantErr: true,
		},
		{name: "numbers", doc: `[1, 2]`, wantErr: true},
		{name: "malformed_json", doc: `[`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidOutput))
				return
			}
			assert.NoError(t, err)
		})
	}
}
