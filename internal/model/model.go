// Package model defines the domain types used across the application.
package model

import (
	"errors"
	"net/url"
	"strings"
)

// Sentinels for optional fields that a marketplace page did not provide.
const (
	// NoPrice marks a listing without a usable price (free items,
	// contact-for-price, auction without bids). Marketplaces that render
	// such listings with a literal "$0" are normalized to this value.
	NoPrice = "$0"

	// Unspecified substitutes optional text fields absent from a page.
	Unspecified = "unspecified"
)

// Listing is the canonical record for one marketplace item. It is built by
// a site adapter from search-result data plus detail-page enrichment,
// persisted to the cache keyed by its normalized PostURL, and never mutated
// in place: a changed listing becomes a new value that replaces the cache
// entry.
type Listing struct {
	Marketplace string
	ItemName    string
	ID          string
	Title       string
	// Price is an opaque display string ("$1,200", "USD 450", "$0").
	// Numeric extraction, where a marketplace supports price-range
	// filtering, happens inside that marketplace's adapter.
	Price       string
	PostURL     string
	Image       string
	Location    string
	Seller      string
	Condition   string
	Description string

	// Auction-specific fields, empty/nil for classified-ad marketplaces.
	AuctionEndTime string
	TimeRemaining  string
	BidCount       *int
	LotNumber      string
	AuctionID      string
}

// ErrIncomplete reports a listing that misses a required identity field.
var ErrIncomplete = errors.New("listing is missing id or post url")

// Validate enforces the publication invariant: ID and PostURL are never
// empty for a listing surfaced to the caller or written to the cache.
func (l *Listing) Validate() error {
	if l.ID == "" || l.PostURL == "" {
		return ErrIncomplete
	}
	return nil
}

// Candidate is a raw entry extracted from one search-results page, before
// enrichment from its detail page.
type Candidate struct {
	ID       string
	Title    string
	URL      string
	Image    string
	Price    string
	Location string

	// Some auction sites expose these already on the results page.
	TimeRemaining string
	AuctionID     string
}

// NormalizeURL strips the volatile query and fragment components of a
// listing URL. The result is the key used for per-run deduplication and
// for cache lookups; the unnormalized URL stays on the Listing.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		raw, _, _ = strings.Cut(raw, "?")
		raw, _, _ = strings.Cut(raw, "#")
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
