package cache

import (
	"testing"

	"marketmonitor/internal/model"
)

func TestResolve(t *testing.T) {
	cached := &model.Listing{
		ID:      "123",
		Title:   "Bike",
		Price:   "$500",
		PostURL: "https://example.com/123.html",
	}

	tests := []struct {
		name          string
		cached        *model.Listing
		observedPrice string
		observedTitle string
		ignorePrice   bool
		want          Freshness
	}{
		{
			name:          "no entry is a miss",
			cached:        nil,
			observedPrice: "$500",
			observedTitle: "Bike",
			want:          Miss,
		},
		{
			name:          "identical price and title is fresh",
			cached:        cached,
			observedPrice: "$500",
			observedTitle: "Bike",
			want:          Fresh,
		},
		{
			name:          "changed price is stale",
			cached:        cached,
			observedPrice: "$450",
			observedTitle: "Bike",
			want:          Stale,
		},
		{
			name:          "changed title is stale",
			cached:        cached,
			observedPrice: "$500",
			observedTitle: "Bike (reduced!)",
			want:          Stale,
		},
		{
			name:          "absent price compares title only",
			cached:        cached,
			observedPrice: "",
			observedTitle: "Bike",
			want:          Fresh,
		},
		{
			name:          "no-price sentinel compares title only",
			cached:        cached,
			observedPrice: model.NoPrice,
			observedTitle: "Bike",
			want:          Fresh,
		},
		{
			name:          "absent title compares price only",
			cached:        cached,
			observedPrice: "$500",
			observedTitle: "",
			want:          Fresh,
		},
		{
			name:          "both absent is fresh",
			cached:        cached,
			observedPrice: "",
			observedTitle: "",
			want:          Fresh,
		},
		{
			name:          "ignore-price flag masks a price change",
			cached:        cached,
			observedPrice: "$450",
			observedTitle: "Bike",
			ignorePrice:   true,
			want:          Fresh,
		},
		{
			name:          "ignore-price flag does not mask a title change",
			cached:        cached,
			observedPrice: "$450",
			observedTitle: "Scooter",
			ignorePrice:   true,
			want:          Stale,
		},
		{
			name:          "absent price does not mask a title change",
			cached:        cached,
			observedPrice: "",
			observedTitle: "Scooter",
			want:          Stale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.cached, tt.observedPrice, tt.observedTitle, tt.ignorePrice)
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}
