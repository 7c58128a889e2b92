// Package memory provides in-memory adapter implementations, used in tests
// and for embedded channel directories that need no remote catalog.
package memory

import (
	"context"
	"sync"

	"github.com/isunspot/chankit/domain/channel"
	"github.com/isunspot/chankit/ports"
)

// Catalog is an in-memory CatalogClient over a static channel directory.
// Safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	channels channel.List
}

// NewCatalog creates an in-memory catalog seeded with the given channels.
func NewCatalog(channels channel.List) *Catalog {
	c := &Catalog{channels: make(channel.List, len(channels))}
	copy(c.channels, channels)
	return c
}

// Add appends a channel to the directory.
func (c *Catalog) Add(ch channel.Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = append(c.channels, ch)
}

// Len returns the number of channels in the directory.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.channels)
}

// Query returns the channels whose names match the given pattern, in
// directory order. The debug flag is accepted for interface parity and has
// no effect here.
func (c *Catalog) Query(_ context.Context, pattern string, _ bool) (channel.List, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels.Sieve(channel.WithNamePattern(pattern))
}

// Ensure interface compliance.
var _ ports.CatalogClient = (*Catalog)(nil)
