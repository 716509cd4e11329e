package pipeline

import "sync/atomic"

// Stats counts what a pipeline did. A sink is injected into every
// pipeline instead of package-level counters so that concurrent pipelines
// can share one (the fields are atomic) or own one each.
type Stats struct {
	PagesFetched   atomic.Int64
	DetailFetches  atomic.Int64
	CacheHits      atomic.Int64
	StaleFallbacks atomic.Int64
	Rejected       atomic.Int64
	Yielded        atomic.Int64
}
