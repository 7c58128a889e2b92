// Package dataserver provides the HTTP client used to fetch sampled data
// for a channel from a remote data server. Each observatory has a default
// server; connections are scoped to one fetch-session and must be closed by
// the caller.
package dataserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/isunspot/chankit/adapters/metrics"
	"github.com/isunspot/chankit/ports"
)

// HostPort is one data-server endpoint.
type HostPort struct {
	Host string
	Port int
}

// Config configures the data-server client.
type Config struct {
	// Hosts maps observatory prefixes (e.g. "H1") to their default data
	// server. The key "*" acts as a catch-all for unknown or absent
	// prefixes.
	Hosts   map[string]HostPort
	Timeout time.Duration
	Logger  zerolog.Logger
	Metrics *metrics.Collector // optional
}

// Client opens connections to data servers.
type Client struct {
	hosts   map[string]HostPort
	timeout time.Duration
	logger  zerolog.Logger
	metrics *metrics.Collector
}

// New creates a data-server client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	hosts := make(map[string]HostPort, len(cfg.Hosts))
	for k, v := range cfg.Hosts {
		hosts[k] = v
	}

	return &Client{
		hosts:   hosts,
		timeout: timeout,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// DefaultHost resolves the default host and port for an observatory prefix,
// falling back to the "*" entry when the prefix has no dedicated server.
func (c *Client) DefaultHost(observatory string) (string, int, error) {
	if hp, ok := c.hosts[observatory]; ok {
		return hp.Host, hp.Port, nil
	}
	if hp, ok := c.hosts["*"]; ok {
		return hp.Host, hp.Port, nil
	}
	return "", 0, fmt.Errorf("dataserver: no default host for observatory %q", observatory)
}

// Connect opens a connection to the given data server. The server is
// probed immediately so unreachable hosts fail here rather than on the
// first fetch.
func (c *Client) Connect(ctx context.Context, host string, port int) (ports.DataConn, error) {
	conn := &Conn{
		base:       "http://" + host + ":" + strconv.Itoa(port),
		httpClient: &http.Client{Timeout: c.timeout},
		logger:     c.logger.With().Str("host", host).Int("port", port).Logger(),
		metrics:    c.metrics,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.base+"/ping", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := conn.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect %s:%d: %w", host, port, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("connect %s:%d: status %d", host, port, resp.StatusCode)
	}

	if c.metrics != nil {
		c.metrics.OpenConnections.Inc()
	}
	conn.logger.Debug().Msg("data server connected")
	return conn, nil
}

// Conn is a scoped connection to one data server.
type Conn struct {
	base       string
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *metrics.Collector

	closeOnce sync.Once
}

type fetchResponse struct {
	Name    string    `json:"name"`
	Start   time.Time `json:"start"`
	Rate    float64   `json:"rate"`
	Samples []float64 `json:"samples"`
}

// Fetch returns the samples for the named channel over the half-open
// interval [start, end). Server errors propagate unchanged; there are no
// retries.
func (conn *Conn) Fetch(ctx context.Context, start, end time.Time, name string) (*ports.TimeSeries, error) {
	q := url.Values{}
	q.Set("channel", name)
	q.Set("start", start.UTC().Format(time.RFC3339Nano))
	q.Set("end", end.UTC().Format(time.RFC3339Nano))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, conn.base+"/data?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	began := time.Now()
	resp, err := conn.httpClient.Do(req)
	if err != nil {
		conn.observe("error", began)
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		conn.observe("error", began)
		return nil, fmt.Errorf("fetch %s: status %d: %s", name, resp.StatusCode, string(body))
	}

	var fr fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		conn.observe("error", began)
		return nil, fmt.Errorf("decode response: %w", err)
	}
	conn.observe("ok", began)

	conn.logger.Debug().
		Str("channel", name).
		Int("samples", len(fr.Samples)).
		Dur("elapsed", time.Since(began)).
		Msg("fetched time series")

	return &ports.TimeSeries{
		Name:    fr.Name,
		Start:   fr.Start,
		Rate:    fr.Rate,
		Samples: fr.Samples,
	}, nil
}

func (conn *Conn) observe(status string, began time.Time) {
	if conn.metrics == nil {
		return
	}
	conn.metrics.Fetches.WithLabelValues(status).Inc()
	conn.metrics.FetchDuration.Observe(time.Since(began).Seconds())
}

// Close releases the connection. It is safe to call more than once.
func (conn *Conn) Close() error {
	conn.closeOnce.Do(func() {
		conn.httpClient.CloseIdleConnections()
		if conn.metrics != nil {
			conn.metrics.OpenConnections.Dec()
		}
		conn.logger.Debug().Msg("data server connection closed")
	})
	return nil
}

// Ensure interface compliance.
var (
	_ ports.DataClient = (*Client)(nil)
	_ ports.DataConn   = (*Conn)(nil)
)
