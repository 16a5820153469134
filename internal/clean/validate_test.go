// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagia/pkg/types"
)

func nWords(n int, word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		bounds    types.ValidationConfig
		wantBound Bound
		wantMsg   []string
	}{
		{
			name:   "within bounds",
			text:   nWords(60, "palavra"),
			bounds: types.ValidationConfig{MinChars: 300, MinWords: 50, MaxChars: 1000, MaxWords: 100},
		},
		{
			name:      "empty",
			text:      "  ",
			bounds:    types.ValidationConfig{},
			wantBound: BoundEmpty,
			wantMsg:   []string{"empty"},
		},
		{
			name:      "fifty words below minimum of one hundred",
			text:      nWords(50, "palavra"),
			bounds:    types.ValidationConfig{MinChars: 10, MinWords: 100},
			wantBound: BoundMinWords,
			wantMsg:   []string{"50", "100"},
		},
		{
			name:      "too few characters",
			text:      nWords(5, "ab"),
			bounds:    types.ValidationConfig{MinChars: 300, MinWords: 1},
			wantBound: BoundMinChars,
			wantMsg:   []string{"14", "300"},
		},
		{
			name:      "too many characters",
			text:      nWords(10, "abcdefghij"),
			bounds:    types.ValidationConfig{MaxChars: 50},
			wantBound: BoundMaxChars,
			wantMsg:   []string{"109", "50"},
		},
		{
			name:      "too many words",
			text:      nWords(30, "a"),
			bounds:    types.ValidationConfig{MaxWords: 20},
			wantBound: BoundMaxWords,
			wantMsg:   []string{"30", "20"},
		},
		{
			name:   "zero maxima disable upper bounds",
			text:   nWords(5000, "palavra"),
			bounds: types.ValidationConfig{MinWords: 1},
		},
		{
			name:   "multibyte characters counted as runes",
			text:   "ação ação",
			bounds: types.ValidationConfig{MinChars: 9, MaxChars: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text, tt.bounds)
			if tt.wantBound == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
			assert.Equal(t, tt.wantBound, ve.Bound)
			for _, s := range tt.wantMsg {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestValidateReportsMeasuredAndLimit(t *testing.T) {
	err := Validate(nWords(50, "palavra"), types.ValidationConfig{MinWords: 100})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 50, ve.Measured)
	assert.Equal(t, 100, ve.Limit)
	assert.Equal(t, "cleaned text too short: 50 words, minimum is 100", err.Error())
}

func TestStats(t *testing.T) {
	chars, words := Stats("ação e reação")
	assert.Equal(t, 13, chars)
	assert.Equal(t, 3, words)
}
