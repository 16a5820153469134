// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/plagia/pkg/types"
)

// Bound names a validation limit.
type Bound string

const (
	BoundEmpty    Bound = "empty"
	BoundMinWords Bound = "min_words"
	BoundMinChars Bound = "min_chars"
	BoundMaxChars Bound = "max_chars"
	BoundMaxWords Bound = "max_words"
)

// ValidationError reports the first bound a cleaned text violated along
// with the measured value and the configured limit.
type ValidationError struct {
	Bound    Bound
	Measured int
	Limit    int
}

func (e *ValidationError) Error() string {
	switch e.Bound {
	case BoundEmpty:
		return "cleaned text is empty: no abstract or body text could be isolated"
	case BoundMinWords:
		return fmt.Sprintf("cleaned text too short: %d words, minimum is %d", e.Measured, e.Limit)
	case BoundMinChars:
		return fmt.Sprintf("cleaned text too short: %d characters, minimum is %d", e.Measured, e.Limit)
	case BoundMaxChars:
		return fmt.Sprintf("cleaned text too long: %d characters, maximum is %d", e.Measured, e.Limit)
	case BoundMaxWords:
		return fmt.Sprintf("cleaned text too long: %d words, maximum is %d", e.Measured, e.Limit)
	default:
		return fmt.Sprintf("cleaned text violates %s: measured %d, limit %d", e.Bound, e.Measured, e.Limit)
	}
}

// Validate checks text against the configured bounds. Minimum bounds are
// checked before maximum bounds and word counts before character counts.
// Empty text always fails. A zero maximum disables that check.
func Validate(text string, bounds types.ValidationConfig) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Bound: BoundEmpty, Measured: 0, Limit: 1}
	}

	words := len(strings.Fields(text))
	chars := utf8.RuneCountInString(text)

	switch {
	case words < bounds.MinWords:
		return &ValidationError{Bound: BoundMinWords, Measured: words, Limit: bounds.MinWords}
	case chars < bounds.MinChars:
		return &ValidationError{Bound: BoundMinChars, Measured: chars, Limit: bounds.MinChars}
	case bounds.MaxChars > 0 && chars > bounds.MaxChars:
		return &ValidationError{Bound: BoundMaxChars, Measured: chars, Limit: bounds.MaxChars}
	case bounds.MaxWords > 0 && words > bounds.MaxWords:
		return &ValidationError{Bound: BoundMaxWords, Measured: words, Limit: bounds.MaxWords}
	}
	return nil
}

// Stats returns the character (rune) and word counts used by Validate.
func Stats(text string) (chars, words int) {
	return utf8.RuneCountInString(text), len(strings.Fields(text))
}
