// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagia/pkg/types"
)

func TestGenerateKnownDigests(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.VerificationConfig
		want string
	}{
		{"sha256", types.VerificationConfig{Algorithm: types.HashSHA256, Length: 10}, "2CF24DBA5F"},
		{"md5", types.VerificationConfig{Algorithm: types.HashMD5, Length: 10}, "5D41402ABC"},
		{"default algorithm", types.VerificationConfig{}, "2CF24DBA5F"},
		{"custom length", types.VerificationConfig{Algorithm: types.HashMD5, Length: 4}, "5D41"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate("hello", "", tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := types.DefaultConfig().Verification
	a, err := Generate("the same core text", "n1", cfg)
	require.NoError(t, err)
	b, err := Generate("the same core text", "n1", cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, Valid(a, cfg))
}

func TestGenerateDistinguishesInputs(t *testing.T) {
	cfg := types.DefaultConfig().Verification
	base, _ := Generate("core text one", "", cfg)
	other, _ := Generate("core text two", "", cfg)
	salted, _ := Generate("core text one", "1700000000", cfg)
	assert.NotEqual(t, base, other)
	assert.NotEqual(t, base, salted)
}

func TestGenerateHashesBoundedPrefix(t *testing.T) {
	cfg := types.VerificationConfig{Algorithm: types.HashSHA256, Length: 10, PrefixChars: 5}
	a, _ := Generate("hello world", "", cfg)
	b, _ := Generate("hello there", "", cfg)
	assert.Equal(t, "2CF24DBA5F", a)
	assert.Equal(t, a, b)

	cfg.PrefixChars = 0
	c, _ := Generate("hello world", "", cfg)
	assert.NotEqual(t, a, c)
}

func TestGenerateUnknownAlgorithm(t *testing.T) {
	_, err := Generate("x", "", types.VerificationConfig{Algorithm: "crc32"})
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(types.VerificationConfig{}))
	assert.NoError(t, Check(types.VerificationConfig{Algorithm: types.HashMD5}))
	err := Check(types.VerificationConfig{Algorithm: "crc32"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crc32")
}

func TestGenerateLengthCappedAtDigest(t *testing.T) {
	got, err := Generate("hello", "", types.VerificationConfig{Algorithm: types.HashMD5, Length: 100})
	require.NoError(t, err)
	assert.Len(t, got, 32)
	assert.Equal(t, strings.ToUpper(got), got)
}

func TestNonce(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 5, time.UTC)
	assert.Equal(t, "1772366400000000005", Nonce(ts))
}

func TestNormalizeAndValid(t *testing.T) {
	cfg := types.DefaultConfig().Verification
	assert.Equal(t, "5D41402ABC", Normalize("  5d41402abc\n"))
	assert.True(t, Valid("5D41402ABC", cfg))
	assert.False(t, Valid("5d41402abc", cfg))
	assert.False(t, Valid("5D41402AB", cfg))
	assert.False(t, Valid("5D41402ABZ", cfg))
	assert.False(t, Valid("", cfg))
}
