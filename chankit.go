// Package chankit models the identity of instrumentation data channels and
// provides a query layer over collections of them.
//
// A channel is a named, typed, physically quantified signal produced by a
// recording system. Its name follows the convention
//
//	[<PREFIX>:]<SYSTEM>[-_<SUBSYSTEM>[-_<SIGNAL>]]
//
// e.g. "H1:PSL-ISS_FIXME", where the prefix identifies the observatory that
// produced it. The domain/channel package decomposes names, validates
// channel attributes (sampling rate, unit, numeric type), and filters
// channel lists by name pattern or rate. Remote lookups go through two
// collaborators: a channel information catalog and a time-series data
// server, reached via the clients in adapters/.
//
// # Basic Usage
//
//	cfg, _ := config.Load("chankit.yaml")
//	svc := chankit.New(cfg, chankit.SetupLogger(cfg.Logging))
//
//	ch, err := svc.Query(ctx, "H1:PSL-ISS_FIXME", false)
//	if err != nil { ... }
//
//	ts, err := svc.Fetch(ctx, ch, start, end)
//
// Purely local work needs no service at all:
//
//	name := channel.ParseName("H1:PSL-ISS_FIXME")
//	subset, _ := list.Sieve(channel.WithRate(16384))
package chankit

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/isunspot/chankit/adapters/catalog"
	"github.com/isunspot/chankit/adapters/dataserver"
	"github.com/isunspot/chankit/adapters/metrics"
	"github.com/isunspot/chankit/app"
	"github.com/isunspot/chankit/config"
)

// New wires a ChannelService from configuration: catalog client, data
// client, and (when enabled) a Prometheus collector shared by both.
func New(cfg *config.Config, logger zerolog.Logger) *app.ChannelService {
	catalogClient, dataClient := buildClients(cfg, newCollector(cfg), logger)
	return app.NewChannelService(catalogClient, dataClient, logger)
}

// NewWithHotReload wires a ChannelService backed by a config Holder: when
// the file changes (or SIGHUP arrives) the service is re-pointed at clients
// built from the new configuration. The caller should Stop the holder on
// shutdown.
func NewWithHotReload(path string, logger zerolog.Logger) (*app.ChannelService, *config.Holder, error) {
	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, nil, err
	}

	// The collector registers on the default registry, so it is created
	// once and survives reloads.
	collector := newCollector(holder.Get())

	catalogClient, dataClient := buildClients(holder.Get(), collector, logger)
	svc := app.NewChannelService(catalogClient, dataClient, logger)
	holder.OnChange(func(cfg *config.Config) {
		svc.Reconfigure(buildClients(cfg, collector, logger))
	})

	if err := holder.WatchFile(); err != nil {
		holder.Stop()
		return nil, nil, err
	}
	holder.WatchSignals()

	return svc, holder, nil
}

func newCollector(cfg *config.Config) *metrics.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

func buildClients(cfg *config.Config, collector *metrics.Collector, logger zerolog.Logger) (*catalog.Client, *dataserver.Client) {
	catalogClient := catalog.New(catalog.Config{
		BaseURL: cfg.Catalog.URL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
		Logger:  logger.With().Str("component", "catalog").Logger(),
		Metrics: collector,
	})

	hosts := make(map[string]dataserver.HostPort, len(cfg.Data.Hosts))
	for obs, hp := range cfg.Data.Hosts {
		hosts[obs] = dataserver.HostPort{Host: hp.Host, Port: hp.Port}
	}
	dataClient := dataserver.New(dataserver.Config{
		Hosts:   hosts,
		Timeout: cfg.Data.Timeout,
		Logger:  logger.With().Str("component", "dataserver").Logger(),
		Metrics: collector,
	})

	return catalogClient, dataClient
}

// SetupLogger builds a zerolog logger from logging configuration.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
