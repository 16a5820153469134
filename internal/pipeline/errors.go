// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal pipeline error.
type Kind string

const (
	KindExtraction    Kind = "extraction_failure"
	KindValidation    Kind = "validation_failure"
	KindInvalidInput  Kind = "invalid_input"
	KindQuotaExceeded Kind = "quota_exceeded"
)

// Sentinels for errors.Is against a *Error of the matching kind.
var (
	ErrExtraction    = errors.New("text extraction failed")
	ErrValidation    = errors.New("cleaned text failed validation")
	ErrInvalidInput  = errors.New("invalid submission")
	ErrQuotaExceeded = errors.New("analysis quota exceeded")
)

var sentinels = map[Kind]error{
	KindExtraction:    ErrExtraction,
	KindValidation:    ErrValidation,
	KindInvalidInput:  ErrInvalidInput,
	KindQuotaExceeded: ErrQuotaExceeded,
}

// Error is a terminal failure of one pipeline stage.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, sentinels[e.Kind])
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, sentinels[e.Kind], e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the kind of a pipeline error, or "" for any other error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
