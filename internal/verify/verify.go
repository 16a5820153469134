// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify derives the short verification code that labels a report
// and is later used to confirm its authenticity.
package verify

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/plagia/pkg/types"
)

const defaultLength = 10

// Generate hashes the first PrefixChars runes of core, followed by nonce
// when non-empty, and returns the first Length hex digits upper-cased.
// The result depends only on (core, nonce, cfg).
func Generate(core, nonce string, cfg types.VerificationConfig) (string, error) {
	h, err := newHash(cfg.Algorithm)
	if err != nil {
		return "", err
	}
	h.Write([]byte(prefix(core, cfg.PrefixChars)))
	if nonce != "" {
		h.Write([]byte(nonce))
	}

	sum := hex.EncodeToString(h.Sum(nil))
	n := cfg.Length
	if n <= 0 {
		n = defaultLength
	}
	if n > len(sum) {
		n = len(sum)
	}
	return strings.ToUpper(sum[:n]), nil
}

// Check reports whether cfg names a supported algorithm.
func Check(cfg types.VerificationConfig) error {
	_, err := newHash(cfg.Algorithm)
	return err
}

// Nonce returns the time salt used when codes are time-salted.
func Nonce(t time.Time) string {
	return strconv.FormatInt(t.UTC().UnixNano(), 10)
}

// Normalize trims and upper-cases a code typed by a user.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the shape produced by Generate for cfg.
func Valid(code string, cfg types.VerificationConfig) bool {
	n := cfg.Length
	if n <= 0 {
		n = defaultLength
	}
	if len(code) != n {
		return false
	}
	for _, r := range code {
		if !('0' <= r && r <= '9' || 'A' <= r && r <= 'F') {
			return false
		}
	}
	return true
}

func newHash(alg types.HashAlgorithm) (hash.Hash, error) {
	switch alg {
	case "", types.HashSHA256:
		return sha256.New(), nil
	case types.HashMD5:
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q: use sha256 or md5", alg)
	}
}

func prefix(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
