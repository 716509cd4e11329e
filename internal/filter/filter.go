// Package filter implements the listing accept/reject chain.
package filter

import (
	"fmt"

	"marketmonitor/internal/config"
	"marketmonitor/internal/model"
)

// Stage names the chain stage that rejected a listing.
type Stage string

// Chain stages, in evaluation order.
const (
	StageSpam        Stage = "spam"
	StageAntikeyword Stage = "antikeyword"
	StageKeyword     Stage = "keyword"
	StageLocation    Stage = "location"
	StageSeller      Stage = "seller"
)

// Verdict is the outcome of running a listing through the chain. The chain
// short-circuits, so Stage and Reason describe the first failing stage.
type Verdict struct {
	Accepted bool
	Stage    Stage
	Reason   string
}

func accept() Verdict {
	return Verdict{Accepted: true}
}

func reject(stage Stage, format string, args ...any) Verdict {
	return Verdict{Stage: stage, Reason: fmt.Sprintf(format, args...)}
}

// Cheap runs the reduced chain (antikeyword, keyword) against the title
// alone. It is applied to raw candidates before the detail fetch so that
// listings rejectable by title never cost a network request. A candidate
// that passes may still fail the full chain once the description is known;
// that second network-spent check is deliberate.
func Cheap(title string, cfg *config.ItemConfig) Verdict {
	if v := checkAntikeywords(title, cfg); !v.Accepted {
		return v
	}
	return checkKeywords(title, cfg)
}

// Full runs the complete chain against an enriched listing: spam detection
// on the description, antikeyword and keyword matching on title plus
// description, then the location allow-list and the seller block-list.
func Full(l *model.Listing, cfg *config.ItemConfig) Verdict {
	if l.Description != "" && DetectKeywordSpam(l.Description) {
		return reject(StageSpam, "keyword spam detected in description")
	}

	text := l.Title + " " + l.Description
	if v := checkAntikeywords(text, cfg); !v.Accepted {
		return v
	}
	if v := checkKeywords(text, cfg); !v.Accepted {
		return v
	}

	if len(cfg.SellerLocations) > 0 && !MatchAny(cfg.SellerLocations, l.Location) {
		return reject(StageLocation, "location %q not in allowed seller locations", l.Location)
	}

	if l.Seller != "" && len(cfg.ExcludeSellers) > 0 && MatchAny(cfg.ExcludeSellers, l.Seller) {
		return reject(StageSeller, "seller %q is excluded", l.Seller)
	}

	return accept()
}

func checkAntikeywords(text string, cfg *config.ItemConfig) Verdict {
	if len(cfg.Antikeywords) == 0 {
		return accept()
	}
	if MatchAny(cfg.Antikeywords, text) {
		return reject(StageAntikeyword, "matched an excluded keyword")
	}
	return accept()
}

func checkKeywords(text string, cfg *config.ItemConfig) Verdict {
	if len(cfg.Keywords) == 0 {
		return accept()
	}
	if !MatchAny(cfg.Keywords, text) {
		return reject(StageKeyword, "no required keyword matched")
	}
	return accept()
}
