package parser

import "strings"

// KeywordFilter applies the positive/negative allow and deny lists used by
// the news-derived sources. A text passes when it mentions at least one
// positive keyword and no negative keyword.
type KeywordFilter struct {
	positive []string
	negative []string
}

// NewKeywordFilter lowercases both lists once up front.
func NewKeywordFilter(positive, negative []string) *KeywordFilter {
	return &KeywordFilter{
		positive: lowerAll(positive),
		negative: lowerAll(negative),
	}
}

// Match reports whether the text is worth surfacing.
func (f *KeywordFilter) Match(text string) bool {
	lowered := strings.ToLower(text)

	hasPositive := false
	for _, kw := range f.positive {
		if strings.Contains(lowered, kw) {
			hasPositive = true
			break
		}
	}
	if !hasPositive {
		return false
	}

	for _, kw := range f.negative {
		if strings.Contains(lowered, kw) {
			return false
		}
	}
	return true
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
