// Package pipeline implements the generic search-fetch-cache-filter
// pipeline shared by every marketplace adapter: pagination, per-run
// deduplication, cache staleness decisions and the two-pass filter chain.
package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"marketmonitor/internal/cache"
	"marketmonitor/internal/config"
	"marketmonitor/internal/filter"
	"marketmonitor/internal/model"
)

// ResultsPage is one parsed page of search results.
type ResultsPage struct {
	Candidates []model.Candidate
	// HasNext is the adapter's "more pages" signal. Offset pagers that
	// have no such signal leave it false; their pager ignores it.
	HasNext bool
}

// Adapter is the per-marketplace contract the pipeline drives. Adapters
// own URL construction and field extraction; the pipeline owns everything
// else. ParseResults must skip individual malformed candidates and keep
// going; ParseDetail must fail when a required field (the title) cannot be
// extracted.
type Adapter interface {
	Name() string
	NewPager() Pager
	BuildSearchURL(item *config.ItemConfig, phrase string, cur Cursor) string
	Fetch(ctx context.Context, url string) (string, error)
	ParseResults(content string) (*ResultsPage, error)
	ParseDetail(content string, cand model.Candidate) (*model.Listing, error)
}

// Pipeline turns an adapter's raw candidate stream into a lazy sequence of
// accepted, enriched listings while minimizing live fetches.
type Pipeline struct {
	adapter Adapter
	store   cache.Store
	log     *slog.Logger
	stats   *Stats
	delay   time.Duration
}

// New creates a pipeline around one adapter. delay is slept after every
// live network fetch (never after cache hits) to reduce rate-limiting and
// bot-detection risk. A nil stats sink gets a private one.
func New(a Adapter, store cache.Store, log *slog.Logger, stats *Stats, delay time.Duration) *Pipeline {
	if stats == nil {
		stats = &Stats{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{adapter: a, store: store, log: log, stats: stats, delay: delay}
}

// Stats returns the pipeline's stats sink.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// Search runs the item's search phrases against the marketplace and
// returns a finite lazy sequence of accepted listings. The sequence holds
// no cross-call state; iterating it again re-runs the search. A fetch or
// parse failure on a results page terminates that phrase only. A detail
// fetch failure falls back to a stale cache entry when one exists;
// otherwise the error is yielded to the caller and the phrase's remaining
// pagination is abandoned. Cancellation of ctx is honored between pages
// and between candidates, never mid-fetch.
func (p *Pipeline) Search(ctx context.Context, item *config.ItemConfig) iter.Seq2[model.Listing, error] {
	return func(yield func(model.Listing, error) bool) {
		seen := newSeenSet()
		for _, phrase := range item.SearchPhrases {
			if ctx.Err() != nil {
				return
			}
			p.log.Info("searching",
				"marketplace", p.adapter.Name(), "item", item.Name, "phrase", phrase)
			if !p.searchPhrase(ctx, item, phrase, seen, yield) {
				return
			}
		}
	}
}

// searchPhrase drives pagination for one phrase. It reports false when
// iteration must stop entirely (consumer break or cancellation); phrase-
// local failures return true so the next phrase still runs.
func (p *Pipeline) searchPhrase(
	ctx context.Context,
	item *config.ItemConfig,
	phrase string,
	seen seenSet,
	yield func(model.Listing, error) bool,
) bool {
	pager := p.adapter.NewPager()

	for {
		if ctx.Err() != nil {
			return false
		}

		url := p.adapter.BuildSearchURL(item, phrase, pager.Cursor())
		p.log.Debug("fetching results page", "url", url)

		content, err := p.adapter.Fetch(ctx, url)
		p.stats.PagesFetched.Add(1)
		if !p.pause(ctx) {
			return false
		}
		if err != nil {
			p.log.Error("fetch results page",
				"marketplace", p.adapter.Name(), "phrase", phrase, "url", url, "error", err)
			return true
		}

		page, err := p.adapter.ParseResults(content)
		if err != nil {
			p.log.Error("parse results page",
				"marketplace", p.adapter.Name(), "phrase", phrase, "url", url, "error", err)
			return true
		}
		if len(page.Candidates) == 0 {
			p.log.Debug("no candidates on page", "phrase", phrase)
			return true
		}

		for _, cand := range page.Candidates {
			if ctx.Err() != nil {
				return false
			}
			phraseAborted, keepGoing := p.processCandidate(ctx, item, cand, seen, yield)
			if !keepGoing {
				return false
			}
			if phraseAborted {
				return true
			}
		}

		if !pager.Advance(len(page.Candidates), page.HasNext) {
			return true
		}
	}
}

// processCandidate handles one raw candidate: dedup, cheap filter, cache
// consultation, optional detail fetch, cache write, full filter, yield.
func (p *Pipeline) processCandidate(
	ctx context.Context,
	item *config.ItemConfig,
	cand model.Candidate,
	seen seenSet,
	yield func(model.Listing, error) bool,
) (phraseAborted, keepGoing bool) {
	if cand.URL == "" || cand.ID == "" {
		p.log.Debug("skipping candidate without id or url", "title", cand.Title)
		return false, true
	}

	key := model.NormalizeURL(cand.URL)
	if seen.Seen(key) {
		return false, true
	}
	seen.Mark(key)

	if v := filter.Cheap(cand.Title, item); !v.Accepted {
		p.stats.Rejected.Add(1)
		p.log.Debug("rejected before detail fetch",
			"title", cand.Title, "stage", string(v.Stage), "reason", v.Reason)
		return false, true
	}

	cached, err := p.store.Get(ctx, key)
	if err != nil {
		// A broken cache read must not abort the run; treat it as a miss.
		p.log.Warn("cache read failed", "url", key, "error", err)
		cached = nil
	}

	var listing *model.Listing
	switch cache.Resolve(cached, cand.Price, cand.Title, item.IgnorePriceChanges()) {
	case cache.Fresh:
		p.stats.CacheHits.Add(1)
		p.log.Debug("cache hit", "url", key)
		listing = cached
	default:
		listing, keepGoing = p.fetchDetail(ctx, item, cand, key, cached, yield)
		if listing == nil {
			return true, keepGoing
		}
	}

	if v := filter.Full(listing, item); !v.Accepted {
		p.stats.Rejected.Add(1)
		p.log.Info("rejected",
			"title", listing.Title, "stage", string(v.Stage), "reason", v.Reason)
		return false, true
	}

	p.stats.Yielded.Add(1)
	return false, yield(*listing, nil)
}

// fetchDetail retrieves and parses a candidate's detail page, writing the
// result to the cache. On failure it falls back to a stale cache entry
// when one exists; otherwise it yields the error to the caller and returns
// a nil listing so the phrase aborts.
func (p *Pipeline) fetchDetail(
	ctx context.Context,
	item *config.ItemConfig,
	cand model.Candidate,
	key string,
	stale *model.Listing,
	yield func(model.Listing, error) bool,
) (*model.Listing, bool) {
	content, err := p.adapter.Fetch(ctx, cand.URL)
	p.stats.DetailFetches.Add(1)
	if !p.pause(ctx) {
		return nil, false
	}

	var listing *model.Listing
	if err == nil {
		listing, err = p.adapter.ParseDetail(content, cand)
	}
	if err != nil {
		if stale != nil {
			// Recoverable degradation: serve the last-known snapshot.
			p.stats.StaleFallbacks.Add(1)
			p.log.Warn("detail fetch failed, returning stale cache entry",
				"url", cand.URL, "error", err)
			return stale, true
		}
		err = fmt.Errorf("detail page %s: %w", cand.URL, err)
		p.log.Error("detail fetch failed with no cache fallback", "error", err)
		return nil, yield(model.Listing{}, err)
	}

	listing.Marketplace = p.adapter.Name()
	listing.ItemName = item.Name
	if listing.PostURL == "" {
		listing.PostURL = cand.URL
	}
	if listing.ID == "" {
		listing.ID = cand.ID
	}

	if err := p.store.Put(ctx, key, listing); err != nil {
		// A broken cache write costs a future fetch, nothing more.
		p.log.Warn("cache write failed", "url", key, "error", err)
	}
	return listing, true
}

// pause sleeps for the configured inter-request delay, honoring
// cancellation. It reports false when ctx was cancelled.
func (p *Pipeline) pause(ctx context.Context) bool {
	if p.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
