package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/outgoing/internal/domain/types"
	"github.com/okian/outgoing/pkg/logger"
)

// Client is a typed HTTP client for the outgoing API.
type Client struct {
	baseURL string
	http    *http.Client
	verbose bool
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		verbose: cfg.Verbose,
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK)
}

// Challenge returns the current challenge.
func (c *Client) Challenge(ctx context.Context) (types.Challenge, error) {
	var out types.Challenge
	err := c.do(ctx, http.MethodGet, "/challenge", nil, &out, http.StatusOK)
	return out, err
}

// Complete completes today's challenge.
func (c *Client) Complete(ctx context.Context) (types.Completion, error) {
	var out types.Completion
	err := c.do(ctx, http.MethodPost, "/challenge/complete", nil, &out, http.StatusOK)
	return out, err
}

// Rollover starts the next day.
func (c *Client) Rollover(ctx context.Context) (types.Rollover, error) {
	var out types.Rollover
	err := c.do(ctx, http.MethodPost, "/day/rollover", nil, &out, http.StatusOK)
	return out, err
}

// Totals returns the running sums.
func (c *Client) Totals(ctx context.Context) (types.Totals, error) {
	var out types.Totals
	err := c.do(ctx, http.MethodGet, "/totals", nil, &out, http.StatusOK)
	return out, err
}

// Actions returns the action catalog.
func (c *Client) Actions(ctx context.Context) ([]types.ActionCategory, error) {
	var out []types.ActionCategory
	err := c.do(ctx, http.MethodGet, "/actions", nil, &out, http.StatusOK)
	return out, err
}

// LogAction logs actionID under requestID.
func (c *Client) LogAction(ctx context.Context, actionID, requestID string) (types.LogResult, error) {
	var out types.LogResult
	err := c.do(ctx, http.MethodPost, "/actions/"+url.PathEscape(actionID)+"/log",
		types.LogRequest{RequestID: requestID}, &out, http.StatusCreated, http.StatusOK)
	return out, err
}

// Log returns up to limit entries, most recent first.
func (c *Client) Log(ctx context.Context, limit int) ([]types.LogEntry, error) {
	var out []types.LogEntry
	err := c.do(ctx, http.MethodGet, "/log?limit="+strconv.Itoa(limit), nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, want ...int) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if c.verbose {
		logger.Get().Debug(ctx, "request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
		)
	}

	if !slices.Contains(want, resp.StatusCode) {
		return fmt.Errorf("%w: %s %s: %d %s", ErrUnexpectedStatus, method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
