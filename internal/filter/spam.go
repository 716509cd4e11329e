package filter

import "strings"

// Keyword-stuffing thresholds. A description is treated as spam when one
// sufficiently long token dominates a sufficiently long description.
const (
	spamMinWords  = 40
	spamMinTokLen = 4
	spamMinCount  = 10
	spamMinShare  = 0.18
)

// DetectKeywordSpam reports whether a description exhibits the
// repeated-keyword stuffing pattern characteristic of scam listings:
// long blocks of search terms pasted to hit as many queries as possible.
func DetectKeywordSpam(description string) bool {
	words := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		switch r {
		case ',', ';', '.', '!', '?', '(', ')', '[', ']', '/', '\\', '"', '\'':
			return true
		}
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(words) < spamMinWords {
		return false
	}

	counts := make(map[string]int)
	top := 0
	for _, w := range words {
		if len(w) < spamMinTokLen {
			continue
		}
		counts[w]++
		if counts[w] > top {
			top = counts[w]
		}
	}

	return top >= spamMinCount && float64(top) >= spamMinShare*float64(len(words))
}
