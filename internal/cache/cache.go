// Package cache persists listing snapshots keyed by normalized post URL
// and decides whether a cached snapshot can be trusted without re-fetching
// the detail page.
package cache

import (
	"context"

	"marketmonitor/internal/model"
)

// Store is the interface for the listing cache. Keys are normalized with
// model.NormalizeURL by the implementations, so callers may pass the
// canonical post URL as-is. Implementations must keep concurrent Get/Put
// on the same key linearizable: the store is the only resource shared by
// pipelines running in parallel.
type Store interface {
	// Get returns the last-known snapshot for url, or nil when absent.
	Get(ctx context.Context, url string) (*model.Listing, error)

	// Put creates or overwrites the snapshot for url.
	Put(ctx context.Context, url string, listing *model.Listing) error

	// Evict removes every entry recorded for the given marketplace.
	Evict(ctx context.Context, marketplace string) error

	Close() error
}
