// Package backend talks to the REST API that owns company records.
package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// ErrNotConfigured is returned when no backend base URL is set.
var ErrNotConfigured = errors.New("backend: base url not configured")

// NewHTTPClient creates an HTTP client with optional TLS verification
// skipping, for backends behind self-signed certificates.
func NewHTTPClient(timeout time.Duration, skipTLSVerify bool) *http.Client {
	transport := &http.Transport{}
	if skipTLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func New(cfg config.BackendConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    NewHTTPClient(timeout, cfg.InsecureSkipTLS),
		log:     log,
	}
}

// Companies fetches GET {base}/companies. The body may be a bare array or
// an object wrapping the array under "data".
func (c *Client) Companies(ctx context.Context) ([]tariff.Company, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/companies", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: get companies: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("backend: read companies: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend: get companies: unexpected status %d", resp.StatusCode)
	}
	return decodeCompanies(body)
}

func decodeCompanies(body []byte) ([]tariff.Company, error) {
	body = bytes.TrimSpace(body)
	var out []tariff.Company
	if len(body) > 0 && body[0] == '{' {
		var wrapped struct {
			Data []tariff.Company `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("backend: decode companies: %w", err)
		}
		out = wrapped.Data
	} else if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("backend: decode companies: %w", err)
	}

	// drop records without a name; they cannot become presets
	kept := out[:0]
	for _, co := range out {
		if strings.TrimSpace(co.Name) == "" {
			continue
		}
		kept = append(kept, co)
	}
	return kept, nil
}

// CompaniesOrDefault returns the backend's companies, or the configured
// default list when the backend is unset or fails.
func (c *Client) CompaniesOrDefault(ctx context.Context) []tariff.Company {
	list, err := c.Companies(ctx)
	if err == nil {
		return list
	}
	if !errors.Is(err, ErrNotConfigured) {
		c.log.Warn("backend unavailable, using default companies", zap.Error(err))
	}
	return tariff.DefaultCompanies()
}
