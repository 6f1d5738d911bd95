package config

import (
	"strings"
	"testing"
)

func TestDefaultKeywordsCoverBothMarkets(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	headlines := []struct {
		text     string
		positive bool
	}{
		{"Acme receives FDA approval for flagship drug", true},
		{"삼성전자, 대규모 수주 계약 체결", true},
		{"바이오기업 신약 승인 획득", true},
		{"3분기 적자 지속 전망", false},
	}

	matches := func(text string, keywords []string) bool {
		lowered := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	}

	for _, h := range headlines {
		if got := matches(h.text, cfg.Keywords.Positive); got != h.positive {
			t.Fatalf("positive keywords match %q = %v, want %v", h.text, got, h.positive)
		}
	}

	if !matches("실적 부진은 루머로 추정", cfg.Keywords.Negative) {
		t.Fatal("negative keywords must cover Korean terms")
	}
}
