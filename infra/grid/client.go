// Package grid implements the HTTP client for the grid status provider.
// The provider returns the current outage stage as a plain-text integer;
// anything else is treated as a transient failure and the caller falls back
// to demo data.
package grid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gridmate/gridmate/core/model"
	"github.com/gridmate/gridmate/infra/logger"
)

// Config defines the grid status provider connection.
type Config struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("grid endpoint is required")
	}
	return nil
}

// StageFetcher fetches the current outage stage.
type StageFetcher interface {
	FetchStage(ctx context.Context) (model.Stage, error)
}

// Client fetches the outage stage over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
	log      logger.Logger
}

// NewClient creates a Client from the configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:      logger.New("grid-client"),
	}
}

// FetchStage performs a GET against the status endpoint and parses the
// plain-text integer body. Non-2xx responses and non-numeric bodies are
// returned as errors; the caller decides whether to fall back.
func (c *Client) FetchStage(ctx context.Context) (model.Stage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("grid: build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("grid: fetch stage: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("grid: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, fmt.Errorf("grid: read body: %w", err)
	}
	raw := strings.TrimSpace(string(body))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("grid: non-numeric stage %q: %w", raw, err)
	}
	stage := model.Stage(n)
	if err := stage.Validate(); err != nil {
		return 0, fmt.Errorf("grid: %w", err)
	}
	c.log.Debugf("fetched stage %d", stage)
	return stage, nil
}
