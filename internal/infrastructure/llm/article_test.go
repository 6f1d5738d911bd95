package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClipRunesKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		in    string
		limit int
	}{
		{"ascii under limit", "plain body text", 100},
		{"ascii at limit", strings.Repeat("a", 50), 50},
		{"korean mid-rune cut", strings.Repeat("수주 계약 ", 10), 25},
		{"emoji mid-rune cut", strings.Repeat("📰", 8), 13},
	}

	for _, tc := range cases {
		got := clipRunes(tc.in, tc.limit)
		if len(got) > tc.limit {
			t.Fatalf("%s: clipRunes produced %d bytes, limit %d", tc.name, len(got), tc.limit)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("%s: clipRunes split a rune: %q", tc.name, got)
		}
		if !strings.HasPrefix(tc.in, got) {
			t.Fatalf("%s: %q is not a prefix of %q", tc.name, got, tc.in)
		}
	}
}
