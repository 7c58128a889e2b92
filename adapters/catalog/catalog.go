// Package catalog provides the HTTP client for a channel information
// service: a remote catalog resolving name patterns to channel metadata
// records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/isunspot/chankit/adapters/metrics"
	"github.com/isunspot/chankit/domain/channel"
	"github.com/isunspot/chankit/ports"
)

// Config configures the catalog client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Collector // optional
}

// Client queries a channel information service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
	metrics    *metrics.Collector
}

// New creates a catalog client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Record is the catalog's wire representation of one channel.
type Record struct {
	Name       string   `json:"name"`
	SampleRate *float64 `json:"sample_rate,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	DType      string   `json:"dtype,omitempty"`
	Model      string   `json:"model,omitempty"`
}

type queryResponse struct {
	Channels []Record `json:"channels"`
}

// Query returns the channels whose names match the given pattern, in
// catalog order. Records that fail domain validation are skipped with a
// warning rather than failing the whole query. The debug flag raises the
// transport log verbosity for this request only.
func (c *Client) Query(ctx context.Context, pattern string, debug bool) (channel.List, error) {
	logger := c.logger.With().
		Str("request_id", uuid.NewString()).
		Str("pattern", pattern).
		Logger()
	if debug {
		logger = logger.Level(zerolog.TraceLevel)
	}

	reqURL := c.baseURL + "/channels?match=" + url.QueryEscape(pattern)
	logger.Debug().Str("url", reqURL).Msg("catalog request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("error", start)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("catalog response")

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		c.observe("error", start)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		c.observe("error", start)
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.observe("ok", start)

	out := make(channel.List, 0, len(qr.Channels))
	for _, rec := range qr.Channels {
		ch, err := toChannel(rec)
		if err != nil {
			logger.Warn().Err(err).Str("name", rec.Name).Msg("skipping invalid catalog record")
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func (c *Client) observe(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.CatalogQueries.WithLabelValues(status).Inc()
	c.metrics.CatalogQueryDuration.Observe(time.Since(start).Seconds())
}

func toChannel(rec Record) (channel.Channel, error) {
	opts := make([]channel.Option, 0, 4)
	if rec.SampleRate != nil {
		opts = append(opts, channel.WithSampleRate(*rec.SampleRate))
	}
	if rec.Unit != "" {
		opts = append(opts, channel.WithUnit(rec.Unit))
	}
	if rec.DType != "" {
		opts = append(opts, channel.WithDTypeName(rec.DType))
	}
	if rec.Model != "" {
		opts = append(opts, channel.WithModel(rec.Model))
	}
	return channel.New(rec.Name, opts...)
}

// StatusError represents a non-2xx response from the catalog service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 from the catalog.
func IsNotFound(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return se.StatusCode == http.StatusNotFound
	}
	return false
}

// Ensure interface compliance.
var _ ports.CatalogClient = (*Client)(nil)
