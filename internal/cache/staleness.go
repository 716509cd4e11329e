package cache

import "marketmonitor/internal/model"

// Freshness is the outcome of validating a cache entry against the price
// and title observed on a search-results page.
type Freshness int

const (
	// Miss: no cached entry exists, the detail page must be fetched.
	Miss Freshness = iota
	// Fresh: the cached listing can be used as-is, no fetch needed.
	Fresh
	// Stale: the observed fields differ, the detail page must be
	// re-fetched and the entry overwritten.
	Stale
)

// Resolve decides whether a cached listing is still valid given the price
// and title observed on the results page. An absent observed price (empty
// or the no-price sentinel) is not compared; an absent observed title is
// not compared; ignorePrice disables the price comparison entirely. When
// every compared field equals the cached value the entry is fresh:
// matching price and title is taken as evidence that the rest of the
// listing is unchanged too, an accepted trade-off given the cost of a
// detail fetch against rate-limited sites.
func Resolve(cached *model.Listing, observedPrice, observedTitle string, ignorePrice bool) Freshness {
	if cached == nil {
		return Miss
	}

	priceMatches := ignorePrice ||
		observedPrice == "" ||
		observedPrice == model.NoPrice ||
		cached.Price == observedPrice

	titleMatches := observedTitle == "" || cached.Title == observedTitle

	if priceMatches && titleMatches {
		return Fresh
	}
	return Stale
}
