// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/plagia/internal/httputil"
	"github.com/pdiddy/plagia/pkg/types"
)

// maxBody bounds how much of a store response is read; sentinels are
// single words.
const maxBody = 4096

// HTTPRegistrar talks to a spreadsheet-backed web endpoint. Registration
// POSTs the record as JSON and succeeds iff the body is the success
// sentinel; lookup GETs ?codigo= and reports valid iff the body is the
// valid sentinel.
type HTTPRegistrar struct {
	Client          *http.Client
	URL             string
	UserAgent       string
	SuccessSentinel string
	ValidSentinel   string
	MaxFieldLength  int
}

// NewHTTPRegistrar builds an HTTPRegistrar with an explicit client timeout.
func NewHTTPRegistrar(cfg types.RegistrationConfig) (*HTTPRegistrar, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("registration URL is required for the http backend")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("parsing registration URL: %w", err)
	}
	def := types.DefaultConfig().Registration
	r := &HTTPRegistrar{
		Client:          &http.Client{Timeout: cfg.Timeout},
		URL:             cfg.URL,
		UserAgent:       cfg.UserAgent,
		SuccessSentinel: cfg.SuccessSentinel,
		ValidSentinel:   cfg.ValidSentinel,
		MaxFieldLength:  cfg.MaxFieldLength,
	}
	if r.Client.Timeout <= 0 {
		r.Client.Timeout = def.Timeout
	}
	if r.SuccessSentinel == "" {
		r.SuccessSentinel = def.SuccessSentinel
	}
	if r.ValidSentinel == "" {
		r.ValidSentinel = def.ValidSentinel
	}
	return r, nil
}

// Register posts {nome, email, codigo, data} to the store.
func (r *HTTPRegistrar) Register(ctx context.Context, rec types.VerificationRecord) error {
	rec = Sanitize(rec, r.MaxFieldLength)
	payload, err := json.Marshal(rec)
	if err != nil {
		return wrap("encoding record", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(payload))
	if err != nil {
		return wrap("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	r.setUserAgent(req)

	body, err := r.do(ctx, req)
	if err != nil {
		return wrap("posting record", err)
	}
	if body != r.SuccessSentinel {
		return wrap("posting record", fmt.Errorf("unexpected response %q", truncate(body, 80)))
	}
	return nil
}

// Lookup asks the store whether code was issued.
func (r *HTTPRegistrar) Lookup(ctx context.Context, code string) (bool, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return false, wrap("parsing URL", err)
	}
	q := u.Query()
	q.Set("codigo", strings.TrimSpace(code))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, wrap("creating request", err)
	}
	r.setUserAgent(req)

	body, err := r.do(ctx, req)
	if err != nil {
		return false, wrap("looking up code", err)
	}
	return body == r.ValidSentinel, nil
}

func (r *HTTPRegistrar) setUserAgent(req *http.Request) {
	ua := r.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
}

// do sends req and returns the trimmed response body of a 200 response.
func (r *HTTPRegistrar) do(ctx context.Context, req *http.Request) (string, error) {
	resp, err := httputil.DoWithRetry(ctx, r.Client, req, httputil.DefaultRetries)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return strings.TrimSpace(string(data)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
