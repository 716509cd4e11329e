package filter

import "strings"

// MatchAny reports whether any of the configured expressions matches the
// text. Expressions are OR-combined. Each expression is itself a small
// grammar: bare or quoted terms separated by the word OR, for example
// `john deere OR 'ford 8n'`. A term matches by case-insensitive substring
// containment.
func MatchAny(exprs []string, text string) bool {
	lower := strings.ToLower(text)
	for _, expr := range exprs {
		for _, term := range parseTerms(expr) {
			if strings.Contains(lower, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// parseTerms splits an expression into its OR-ed terms. Tokens are bare
// words or single/double-quoted phrases; a bare OR (any case) separates
// terms and consecutive non-OR tokens form one phrase.
func parseTerms(expr string) []string {
	tokens := tokenize(expr)

	var terms []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			terms = append(terms, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, tok := range tokens {
		if !tok.quoted && strings.EqualFold(tok.text, "or") {
			flush()
			continue
		}
		current = append(current, tok.text)
	}
	flush()
	return terms
}

type token struct {
	text   string
	quoted bool
}

func tokenize(expr string) []token {
	var tokens []token
	i := 0
	for i < len(expr) {
		switch c := expr[i]; {
		case c == ' ' || c == '\t':
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				// Unterminated quote: treat the rest as one phrase.
				tokens = append(tokens, token{text: expr[i+1:], quoted: true})
				return tokens
			}
			tokens = append(tokens, token{text: expr[i+1 : i+1+end], quoted: true})
			i += end + 2
		default:
			end := strings.IndexAny(expr[i:], " \t")
			if end < 0 {
				tokens = append(tokens, token{text: expr[i:]})
				return tokens
			}
			tokens = append(tokens, token{text: expr[i : i+end]})
			i += end
		}
	}
	return tokens
}
