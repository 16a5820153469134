// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value. Apply copies recognized keys into a Config so
// credentials never have to live in plagia.yaml.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/plagia/pkg/types"
)

// Recognized key files.
const (
	SemanticScholarAPIKey = "semantic-scholar-api-key"
	CrossRefMailto        = "crossref-mailto"
	OpenAlexEmail         = "openalex-email"
	RegistrationURL       = "registration-url"
	RedisURL              = "redis-url"
)

// Load reads all files in dir. A missing directory yields an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply fills empty credential fields of cfg from s. Values already set
// in cfg take precedence. It returns the keys that were applied.
func Apply(cfg *types.Config, s map[string]string) []string {
	targets := []struct {
		key   string
		field *string
	}{
		{SemanticScholarAPIKey, &cfg.Retrieval.SemanticScholarAPIKey},
		{CrossRefMailto, &cfg.Retrieval.CrossRefMailto},
		{OpenAlexEmail, &cfg.Retrieval.OpenAlexEmail},
		{RegistrationURL, &cfg.Registration.URL},
		{RedisURL, &cfg.Cache.RedisURL},
	}
	var applied []string
	for _, t := range targets {
		v, ok := s[t.key]
		if !ok || *t.field != "" {
			continue
		}
		*t.field = v
		applied = append(applied, t.key)
	}
	return applied
}
