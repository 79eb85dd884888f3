// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/risda/pkg/types"
)

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      types.NewRecord
		wantErr []string
	}{
		{
			name: "valid record",
			in:   types.NewRecord{Title: "T", Synopsis: "S", Year: 2024, Email: "a@b.id", Link: "https://brin.go.id/x"},
		},
		{
			name:    "missing title and synopsis",
			in:      types.NewRecord{Year: 2024},
			wantErr: []string{"title is required", "synopsis is required"},
		},
		{
			name:    "year out of range",
			in:      types.NewRecord{Title: "T", Synopsis: "S", Year: 1999},
			wantErr: []string{"year must be at least 2000"},
		},
		{
			name:    "bad email and link",
			in:      types.NewRecord{Title: "T", Synopsis: "S", Year: 2024, Email: "nope", Link: "not a url"},
			wantErr: []string{"email must be a valid email address", "link must be a valid URL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *Error
			require.True(t, errors.As(err, &verr))
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
