// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagia/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, SemanticScholarAPIKey, "  sk_xyz789  \n")
				writeFile(t, dir, CrossRefMailto, "lab@example.org\n")
				return dir
			},
			want: map[string]string{
				SemanticScholarAPIKey: "sk_xyz789",
				CrossRefMailto:        "lab@example.org",
			},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, RegistrationURL, "https://script.example/exec")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				writeFile(t, dir, ".hidden-key", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				RegistrationURL: "https://script.example/exec",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, filepath.Dir(path), "file", "x")
	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Retrieval.CrossRefMailto = "configured@example.org"

	applied := Apply(&cfg, map[string]string{
		SemanticScholarAPIKey: "sk",
		CrossRefMailto:        "secret@example.org",
		RegistrationURL:       "https://script.example/exec",
		"unrelated":           "x",
	})

	assert.ElementsMatch(t, []string{SemanticScholarAPIKey, RegistrationURL}, applied)
	assert.Equal(t, "sk", cfg.Retrieval.SemanticScholarAPIKey)
	assert.Equal(t, "configured@example.org", cfg.Retrieval.CrossRefMailto, "config wins over secret files")
	assert.Equal(t, "https://script.example/exec", cfg.Registration.URL)
	assert.Empty(t, cfg.Cache.RedisURL)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
