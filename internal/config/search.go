package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// CommonConfig holds the filter options that may be set on a marketplace
// section, an item section, or both. An option set on the item wins; an
// unset item option falls back to the marketplace value; both unset means
// no constraint.
type CommonConfig struct {
	Keywords        []string `json:"keywords"`
	Antikeywords    []string `json:"antikeywords"`
	MinPrice        string   `json:"min_price"`
	MaxPrice        string   `json:"max_price"`
	SellerLocations []string `json:"seller_locations"`
	ExcludeSellers  []string `json:"exclude_sellers"`

	// Adapter-specific search options.
	SearchCity     []string `json:"search_city"`
	Category       string   `json:"category"`
	Condition      []string `json:"condition"`
	SearchDistance *int     `json:"search_distance"`
	PostedToday    *bool    `json:"posted_today"`
	HasImage       *bool    `json:"has_image"`

	// CacheIgnorePriceChanges treats a cached listing as fresh even when
	// the observed price differs, trading accuracy for fewer detail
	// fetches against aggressively rate-limited sites.
	CacheIgnorePriceChanges *bool `json:"cache_ignore_price_changes"`
}

// IgnorePriceChanges reports whether price differences should be ignored
// when validating a cache entry.
func (c *CommonConfig) IgnorePriceChanges() bool {
	return c.CacheIgnorePriceChanges != nil && *c.CacheIgnorePriceChanges
}

// MarketplaceConfig configures one marketplace adapter and supplies
// defaults for items searched on it.
type MarketplaceConfig struct {
	Name string `json:"-"`
	CommonConfig
}

// ItemConfig is one user search spec.
type ItemConfig struct {
	Name          string   `json:"-"`
	SearchPhrases []string `json:"search_phrases"`
	// Marketplaces restricts the item to a subset of the configured
	// marketplaces. Empty means all of them.
	Marketplaces []string `json:"marketplaces"`
	CommonConfig
}

// SearchConfig is the parsed search configuration file.
type SearchConfig struct {
	Marketplaces map[string]MarketplaceConfig `json:"marketplaces"`
	Items        map[string]ItemConfig        `json:"items"`
}

// Effective resolves the item-overriding-marketplace precedence: every
// CommonConfig field left unset on the item is filled from the marketplace
// defaults. The returned value is what the pipeline and filters consume.
func Effective(item ItemConfig, m MarketplaceConfig) ItemConfig {
	out := item
	// mergo only fills zero-valued destination fields, which is exactly
	// the fallback rule. Merging plain structs cannot fail.
	_ = mergo.Merge(&out.CommonConfig, m.CommonConfig)
	return out
}

// ReadSearchFile loads the search configuration from a json5 file. A
// sibling <name>.local.<ext> file, when present, is merged on top of it
// with its set fields taking priority.
func ReadSearchFile(path string) (*SearchConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg SearchConfig
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	local := localPath(path)
	if data, err := os.ReadFile(local); err == nil { //nolint:gosec // derived from operator config
		var override SearchConfig
		if err := json5.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", local, err)
		}
		if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge local config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read local config: %w", err)
	}

	for name, m := range cfg.Marketplaces {
		m.Name = name
		cfg.Marketplaces[name] = m
	}
	for name, item := range cfg.Items {
		item.Name = name
		cfg.Items[name] = item
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func localPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, prefix+".local"+ext)
}

// Validate rejects malformed configuration eagerly, before any network
// activity happens.
func (c *SearchConfig) Validate() error {
	if len(c.Marketplaces) == 0 {
		return fmt.Errorf("no marketplaces configured")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("no items configured")
	}

	for name, m := range c.Marketplaces {
		if err := m.CommonConfig.validate(); err != nil {
			return fmt.Errorf("marketplace %q: %w", name, err)
		}
	}

	for name, item := range c.Items {
		if len(item.SearchPhrases) == 0 {
			return fmt.Errorf("item %q: search_phrases must not be empty", name)
		}
		for _, phrase := range item.SearchPhrases {
			if strings.TrimSpace(phrase) == "" {
				return fmt.Errorf("item %q: search_phrases must not contain blank phrases", name)
			}
		}
		for _, m := range item.Marketplaces {
			if _, ok := c.Marketplaces[m]; !ok {
				return fmt.Errorf("item %q: unknown marketplace %q", name, m)
			}
		}
		if err := item.CommonConfig.validate(); err != nil {
			return fmt.Errorf("item %q: %w", name, err)
		}
	}
	return nil
}

func (c *CommonConfig) validate() error {
	if c.SearchDistance != nil && *c.SearchDistance < 0 {
		return fmt.Errorf("search_distance must not be negative")
	}
	for _, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("keywords must not contain blank entries")
		}
	}
	for _, kw := range c.Antikeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("antikeywords must not contain blank entries")
		}
	}
	return nil
}
