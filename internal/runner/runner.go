// Package runner executes one monitoring pass over the configured items
// and marketplaces.
package runner

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"marketmonitor/internal/cache"
	"marketmonitor/internal/config"
	"marketmonitor/internal/model"
	"marketmonitor/internal/pipeline"
)

// Runner drives one pipeline per item/marketplace pair. Items and
// marketplaces are processed sequentially; the cache store is the only
// shared resource.
type Runner struct {
	store    cache.Store
	adapters map[string]pipeline.Adapter
	log      *slog.Logger
	delay    time.Duration
	stats    *pipeline.Stats
}

// New creates a Runner over the registered adapters.
func New(store cache.Store, adapters map[string]pipeline.Adapter, log *slog.Logger, delay time.Duration) *Runner {
	return &Runner{
		store:    store,
		adapters: adapters,
		log:      log,
		delay:    delay,
		stats:    &pipeline.Stats{},
	}
}

// Run searches every configured item on its marketplaces and returns the
// accepted listings. Failures are phrase- or item-local: one item's fetch
// trouble never aborts the others.
func (r *Runner) Run(ctx context.Context, cfg *config.SearchConfig) []model.Listing {
	var accepted []model.Listing

	for _, itemName := range sortedKeys(cfg.Items) {
		if ctx.Err() != nil {
			break
		}
		item := cfg.Items[itemName]

		markets := item.Marketplaces
		if len(markets) == 0 {
			markets = sortedKeys(cfg.Marketplaces)
		}

		found := 0
		for _, marketName := range markets {
			if ctx.Err() != nil {
				break
			}
			a, ok := r.adapters[marketName]
			if !ok {
				r.log.Warn("no adapter registered for marketplace", "marketplace", marketName)
				continue
			}

			eff := config.Effective(item, cfg.Marketplaces[marketName])
			p := pipeline.New(a, r.store, r.log, r.stats, r.delay)

			for listing, err := range p.Search(ctx, &eff) {
				if err != nil {
					r.log.Error("search degraded",
						"item", itemName, "marketplace", marketName, "error", err)
					continue
				}
				r.log.Info("accepted listing",
					"item", itemName, "marketplace", marketName,
					"title", listing.Title, "price", listing.Price, "url", listing.PostURL)
				accepted = append(accepted, listing)
				found++
			}
		}

		r.log.Info("item done", "item", itemName, "accepted", found)
	}

	r.log.Info("run finished",
		"pages_fetched", r.stats.PagesFetched.Load(),
		"detail_fetches", r.stats.DetailFetches.Load(),
		"cache_hits", r.stats.CacheHits.Load(),
		"stale_fallbacks", r.stats.StaleFallbacks.Load(),
		"rejected", r.stats.Rejected.Load(),
		"yielded", r.stats.Yielded.Load(),
	)
	return accepted
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
