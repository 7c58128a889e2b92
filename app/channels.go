// Package app provides application services that orchestrate domain logic
// across the collaborator ports.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/isunspot/chankit/domain/channel"
	"github.com/isunspot/chankit/ports"
)

// ChannelService answers channel metadata queries through the catalog
// collaborator and fetches sampled data through the data-server
// collaborator. All calls are synchronous; errors from the collaborators
// propagate unchanged.
type ChannelService struct {
	mu      sync.RWMutex
	catalog ports.CatalogClient
	data    ports.DataClient

	logger zerolog.Logger
}

// NewChannelService creates a channel service.
func NewChannelService(catalog ports.CatalogClient, data ports.DataClient, logger zerolog.Logger) *ChannelService {
	return &ChannelService{
		catalog: catalog,
		data:    data,
		logger:  logger,
	}
}

// Reconfigure swaps the collaborator clients, e.g. after a config reload.
// In-flight calls keep the clients they started with.
func (s *ChannelService) Reconfigure(catalog ports.CatalogClient, data ports.DataClient) {
	s.mu.Lock()
	s.catalog = catalog
	s.data = data
	s.mu.Unlock()
	s.logger.Info().Msg("channel service reconfigured")
}

func (s *ChannelService) clients() (ports.CatalogClient, ports.DataClient) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, s.data
}

// Query resolves a name pattern to exactly one channel. Zero matches return
// an error wrapping channel.ErrNoMatch; more than one match returns an
// error wrapping channel.ErrAmbiguous, in which case the caller should use
// QueryAll and disambiguate. The debug flag raises transport log verbosity
// only.
func (s *ChannelService) Query(ctx context.Context, name string, debug bool) (channel.Channel, error) {
	matches, err := s.QueryAll(ctx, name, debug)
	if err != nil {
		return channel.Channel{}, err
	}
	switch len(matches) {
	case 0:
		return channel.Channel{}, fmt.Errorf("%w: %q", channel.ErrNoMatch, name)
	case 1:
		return matches[0], nil
	default:
		return channel.Channel{}, fmt.Errorf("%w: %d channels match %q, refine the pattern or use QueryAll",
			channel.ErrAmbiguous, len(matches), name)
	}
}

// QueryAll returns every channel matching the name pattern, unfiltered by
// count.
func (s *ChannelService) QueryAll(ctx context.Context, name string, debug bool) (channel.List, error) {
	catalog, _ := s.clients()
	matches, err := catalog.Query(ctx, name, debug)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("pattern", name).Int("matches", len(matches)).Msg("catalog query")
	return matches, nil
}

// FetchOption overrides fetch behavior.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	host string
	port int
}

// WithHost overrides the default data-server host and port for one fetch.
func WithHost(host string, port int) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.host = host
		cfg.port = port
	}
}

// Fetch retrieves the samples for ch over the half-open interval
// [start, end). When no host override is given, the default host for the
// channel's observatory is used. The connection is opened immediately
// before the request and released on every exit path. No retries.
func (s *ChannelService) Fetch(ctx context.Context, ch channel.Channel, start, end time.Time, opts ...FetchOption) (*ports.TimeSeries, error) {
	var cfg fetchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	_, data := s.clients()

	host, port := cfg.host, cfg.port
	if host == "" {
		var err error
		host, port, err = data.DefaultHost(ch.Observatory())
		if err != nil {
			return nil, err
		}
	}

	conn, err := data.Connect(ctx, host, port)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	s.logger.Debug().
		Str("channel", ch.Name()).
		Str("host", host).
		Int("port", port).
		Time("start", start).
		Time("end", end).
		Msg("fetching time series")

	return conn.Fetch(ctx, start, end, ch.Name())
}
