// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry records issued verification codes and answers whether
// a code was issued. Two stores are provided: a remote spreadsheet
// endpoint spoken to over HTTP and a local SQLite database.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/plagia/pkg/types"
)

// ErrRegistration wraps every failure to record or look up a code.
var ErrRegistration = errors.New("registration failed")

// Registrar records verification codes and checks their existence.
type Registrar interface {
	Register(ctx context.Context, rec types.VerificationRecord) error
	Lookup(ctx context.Context, code string) (bool, error)
}

// New returns the registrar selected by cfg.Backend. RegistrationNone
// returns a nil Registrar and no error; callers skip registration.
func New(cfg types.RegistrationConfig) (Registrar, error) {
	switch cfg.Backend {
	case types.RegistrationNone, "":
		return nil, nil
	case types.RegistrationHTTP:
		return NewHTTPRegistrar(cfg)
	case types.RegistrationSQLite:
		return OpenSQLite(cfg)
	default:
		return nil, fmt.Errorf("unknown registration backend %q: use none, http, or sqlite", cfg.Backend)
	}
}

// Sanitize trims the requester fields and caps them at max runes.
func Sanitize(rec types.VerificationRecord, max int) types.VerificationRecord {
	rec.Name = capRunes(strings.TrimSpace(rec.Name), max)
	rec.Email = capRunes(strings.TrimSpace(rec.Email), max)
	rec.Code = strings.TrimSpace(rec.Code)
	rec.Date = strings.TrimSpace(rec.Date)
	return rec
}

func capRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRegistration, op, err)
}
