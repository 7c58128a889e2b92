// Package ports defines interfaces (contracts) between the channel domain
// and its external collaborators. Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/isunspot/chankit/domain/channel"
)

// CatalogClient resolves channel name patterns against a channel
// information service. Records come back in catalog order. The debug flag
// raises transport log verbosity and has no effect on results.
type CatalogClient interface {
	Query(ctx context.Context, pattern string, debug bool) (channel.List, error)
}

// DataClient opens connections to a time-series data server.
type DataClient interface {
	// Connect opens a connection to the given host and port. The caller
	// owns the connection and must close it.
	Connect(ctx context.Context, host string, port int) (DataConn, error)

	// DefaultHost resolves the default host and port for an observatory
	// prefix such as "H1".
	DefaultHost(observatory string) (string, int, error)
}

// DataConn is a scoped connection to a data server. Close is idempotent.
type DataConn interface {
	// Fetch returns the samples for the named channel over the half-open
	// interval [start, end).
	Fetch(ctx context.Context, start, end time.Time, name string) (*TimeSeries, error)

	Close() error
}

// TimeSeries is the wire record a data server returns for one fetch. It
// carries raw samples only; richer time-series handling is the caller's
// concern.
type TimeSeries struct {
	Name    string
	Start   time.Time
	Rate    float64 // samples per second
	Samples []float64
}
