package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEffective(t *testing.T) {
	dist := 50
	tests := []struct {
		name   string
		item   ItemConfig
		market MarketplaceConfig
		want   CommonConfig
	}{
		{
			name:   "item overrides marketplace",
			item:   ItemConfig{CommonConfig: CommonConfig{Keywords: []string{"deere"}}},
			market: MarketplaceConfig{CommonConfig: CommonConfig{Keywords: []string{"kubota"}}},
			want:   CommonConfig{Keywords: []string{"deere"}},
		},
		{
			name:   "unset item field falls back to marketplace",
			item:   ItemConfig{},
			market: MarketplaceConfig{CommonConfig: CommonConfig{SellerLocations: []string{"portland"}}},
			want:   CommonConfig{SellerLocations: []string{"portland"}},
		},
		{
			name:   "both unset means no constraint",
			item:   ItemConfig{},
			market: MarketplaceConfig{},
			want:   CommonConfig{},
		},
		{
			name: "mixed: each field resolved independently",
			item: ItemConfig{CommonConfig: CommonConfig{
				Antikeywords: []string{"toy"},
				MaxPrice:     "2000",
			}},
			market: MarketplaceConfig{CommonConfig: CommonConfig{
				Antikeywords:   []string{"parts"},
				MinPrice:       "100",
				SearchDistance: &dist,
			}},
			want: CommonConfig{
				Antikeywords:   []string{"toy"},
				MinPrice:       "100",
				MaxPrice:       "2000",
				SearchDistance: &dist,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Effective(tt.item, tt.market)
			if diff := cmp.Diff(tt.want, got.CommonConfig); diff != "" {
				t.Errorf("Effective() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIgnorePriceChanges(t *testing.T) {
	var c CommonConfig
	if c.IgnorePriceChanges() {
		t.Error("unset flag must default to false")
	}
	v := true
	c.CacheIgnorePriceChanges = &v
	if !c.IgnorePriceChanges() {
		t.Error("set flag must report true")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadSearchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{
		// marketplaces to watch
		marketplaces: {
			craigslist: {
				seller_locations: ["portland", "salem"],
			},
		},
		items: {
			tractor: {
				search_phrases: ["compact tractor", "john deere"],
				antikeywords: ["toy"],
			},
		},
	}`)

	cfg, err := ReadSearchFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	m, ok := cfg.Marketplaces["craigslist"]
	if !ok {
		t.Fatal("craigslist marketplace missing")
	}
	if m.Name != "craigslist" {
		t.Errorf("marketplace name = %q, want craigslist", m.Name)
	}

	item, ok := cfg.Items["tractor"]
	if !ok {
		t.Fatal("tractor item missing")
	}
	if item.Name != "tractor" {
		t.Errorf("item name = %q, want tractor", item.Name)
	}
	if diff := cmp.Diff([]string{"compact tractor", "john deere"}, item.SearchPhrases); diff != "" {
		t.Errorf("search phrases mismatch (-want +got):\n%s", diff)
	}

	eff := Effective(item, m)
	if diff := cmp.Diff([]string{"portland", "salem"}, eff.SellerLocations); diff != "" {
		t.Errorf("effective locations mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSearchFileLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{
		marketplaces: {craigslist: {}},
		items: {bike: {search_phrases: ["road bike"], max_price: "500"}},
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		items: {bike: {search_phrases: ["road bike"], max_price: "750"}},
	}`)

	cfg, err := ReadSearchFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := cfg.Items["bike"].MaxPrice; got != "750" {
		t.Errorf("max_price = %q, want local override 750", got)
	}
}

func TestValidate(t *testing.T) {
	neg := -5
	tests := []struct {
		name    string
		cfg     SearchConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg: SearchConfig{
				Marketplaces: map[string]MarketplaceConfig{"craigslist": {}},
				Items: map[string]ItemConfig{
					"tractor": {SearchPhrases: []string{"tractor"}},
				},
			},
		},
		{
			name: "no marketplaces",
			cfg: SearchConfig{
				Items: map[string]ItemConfig{"x": {SearchPhrases: []string{"x"}}},
			},
			wantErr: true,
		},
		{
			name: "item without search phrases",
			cfg: SearchConfig{
				Marketplaces: map[string]MarketplaceConfig{"craigslist": {}},
				Items:        map[string]ItemConfig{"x": {}},
			},
			wantErr: true,
		},
		{
			name: "blank search phrase",
			cfg: SearchConfig{
				Marketplaces: map[string]MarketplaceConfig{"craigslist": {}},
				Items:        map[string]ItemConfig{"x": {SearchPhrases: []string{"  "}}},
			},
			wantErr: true,
		},
		{
			name: "unknown marketplace reference",
			cfg: SearchConfig{
				Marketplaces: map[string]MarketplaceConfig{"craigslist": {}},
				Items: map[string]ItemConfig{
					"x": {SearchPhrases: []string{"x"}, Marketplaces: []string{"ebay"}},
				},
			},
			wantErr: true,
		},
		{
			name: "negative search distance",
			cfg: SearchConfig{
				Marketplaces: map[string]MarketplaceConfig{"craigslist": {}},
				Items: map[string]ItemConfig{
					"x": {
						SearchPhrases: []string{"x"},
						CommonConfig:  CommonConfig{SearchDistance: &neg},
					},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
