package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "single bare word", expr: "tractor", want: []string{"tractor"}},
		{name: "bare words form one phrase", expr: "john deere", want: []string{"john deere"}},
		{name: "or splits terms", expr: "john deere OR kubota", want: []string{"john deere", "kubota"}},
		{name: "lowercase or splits too", expr: "a or b", want: []string{"a", "b"}},
		{name: "single quoted phrase", expr: "'ford 8n'", want: []string{"ford 8n"}},
		{name: "double quoted phrase", expr: `"ford 8n" OR kubota`, want: []string{"ford 8n", "kubota"}},
		{name: "quoted phrase keeps OR literal", expr: `'this OR that'`, want: []string{"this OR that"}},
		{name: "unterminated quote takes rest", expr: "'ford 8n", want: []string{"ford 8n"}},
		{name: "extra whitespace ignored", expr: "  a   OR   b  ", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTerms(tt.expr)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseTerms(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestMatchAny(t *testing.T) {
	tests := []struct {
		name  string
		exprs []string
		text  string
		want  bool
	}{
		{
			name:  "plain substring",
			exprs: []string{"tractor"},
			text:  "Used farm tractor for sale",
			want:  true,
		},
		{
			name:  "case insensitive both ways",
			exprs: []string{"TRACTOR"},
			text:  "used farm Tractor",
			want:  true,
		},
		{
			name:  "no match",
			exprs: []string{"excavator"},
			text:  "used farm tractor",
			want:  false,
		},
		{
			name:  "expressions are or-combined",
			exprs: []string{"excavator", "tractor"},
			text:  "used farm tractor",
			want:  true,
		},
		{
			name:  "or inside one expression",
			exprs: []string{"excavator OR tractor"},
			text:  "used farm tractor",
			want:  true,
		},
		{
			name:  "quoted phrase must match contiguously",
			exprs: []string{"'red tractor'"},
			text:  "tractor, red paint",
			want:  false,
		},
		{
			name:  "empty expressions never match",
			exprs: nil,
			text:  "anything",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchAny(tt.exprs, tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MatchAny() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
