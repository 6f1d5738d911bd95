package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockRadar/internal/dedup"
	"StockRadar/internal/domain"
)

func TestParseKoreanCap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"1조 2,345", 12345},
		{"3조", 30000},
		{"8,500", 8500},
		{"  450  ", 450},
		{"", 0},
	}

	for _, tc := range cases {
		if got := parseKoreanCap(tc.in); got != tc.want {
			t.Fatalf("parseKoreanCap(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNaverNewsScan(t *testing.T) {
	t.Parallel()

	page := `<html><body><dl class="articleList">
<dd class="articleSubject"><a href="/news/news_read.naver?article_id=1" title="바이오주 상한가 임박">headline</a></dd>
<dd class="articleSubject"><a href="/news/news_read.naver?article_id=2" title="시장 전반 보합세">headline</a></dd>
</dl></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	filter := NewKeywordFilter([]string{"상한가"}, nil)
	src := NewNaverNewsSource(filter, dedup.NewStore(0), server.Client(), nil)
	src.url = server.URL

	candidates, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(candidates), candidates)
	}

	c := candidates[0]
	if c.Symbol != "KR_NEWS" {
		t.Fatalf("expected KR_NEWS placeholder symbol, got %s", c.Symbol)
	}
	if c.Market != domain.MarketKR {
		t.Fatalf("expected KR market, got %s", c.Market)
	}
	if c.Trigger != domain.TriggerNewsSentiment {
		t.Fatalf("expected news sentiment trigger, got %s", c.Trigger)
	}
	if c.HasPrice() {
		t.Fatal("headline candidates must not carry a price")
	}

	// Already-seen links are skipped on the next poll.
	again, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan returned error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected repeat scan to dedupe, got %d candidates", len(again))
	}
}

func TestNaverScanDecodesEUCKR(t *testing.T) {
	t.Parallel()

	// finance.naver.com fixtures as served on the wire: EUC-KR bytes,
	// announced via the Content-Type header.
	newsPage := []byte("<html><body><dl class=\"articleList\">" +
		"<dd class=\"articleSubject\"><a href=\"/news/news_read.naver?article_id=9\" " +
		"title=\"\xbb\xef\xbc\xba\xc0\xfc\xc0\xda \xb4\xeb\xb1\xd4\xb8\xf0 \xbc\xf6\xc1\xd6 \xb0\xe8\xbe\xe0 \xc3\xbc\xb0\xe1\">headline</a></dd>" +
		"</dl></body></html>")
	capPage := []byte("<html><body><em id=\"_market_sum\">1\xc1\xb6 2,345</em></body></html>")

	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		w.Write(newsPage)
	})
	mux.HandleFunc("/item/main.naver", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		w.Write(capPage)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	filter := NewKeywordFilter([]string{"수주"}, nil)
	src := NewNaverNewsSource(filter, dedup.NewStore(0), server.Client(), nil)
	src.url = server.URL + "/news"

	candidates, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate from EUC-KR page, got %d: %+v", len(candidates), candidates)
	}
	if want := "삼성전자 대규모 수주 계약 체결"; candidates[0].Title != want {
		t.Fatalf("expected decoded headline %q, got %q", want, candidates[0].Title)
	}

	doc, err := fetchNaverDocument(context.Background(), server.Client(), server.URL+"/item/main.naver?code=005930")
	if err != nil {
		t.Fatalf("fetchNaverDocument returned error: %v", err)
	}
	capText := doc.Find("#_market_sum").First().Text()
	if got := parseKoreanCap(capText); got != 12345 {
		t.Fatalf("expected cap 12345 from %q, got %v", capText, got)
	}
}

func quantRow(code, name, price, change, volume string) string {
	return fmt.Sprintf(`<tr>
  <td>1</td>
  <td><a href="/item/main.naver?code=%s">%s</a></td>
  <td>%s</td><td>up</td><td>%s</td><td>n/a</td><td>%s</td>
  <td>n/a</td><td>n/a</td><td>n/a</td><td>n/a</td><td>n/a</td>
</tr>`, code, name, price, change, volume)
}

func TestNaverSurgeScan(t *testing.T) {
	t.Parallel()

	table := `<html><body><table class="type_2">
<tr><th>header</th></tr>
<tr><td colspan="12">spacer</td></tr>` +
		quantRow("005930", "테스트전자", "15,000", "+5.2%", "2,000,000") +
		quantRow("111111", "무거운중공업", "50,000", "+6.0%", "1,000,000") +
		quantRow("222222", "느린상사", "9,000", "+1.5%", "3,000,000") +
		`</table></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/quant", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, table)
	})
	mux.HandleFunc("/item/main.naver", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Query().Get("code") {
		case "005930":
			fmt.Fprint(w, `<html><body><em id="_market_sum">5,000</em></body></html>`)
		default:
			fmt.Fprint(w, `<html><body><em id="_market_sum">2조 500</em></body></html>`)
		}
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	src := NewNaverSurgeSource(time.Hour, server.Client(), nil)
	src.url = server.URL + "/quant"
	src.itemURL = server.URL + "/item/main.naver?code="

	candidates, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	// 111111 is a 2-trillion-won heavyweight without exceptional flow,
	// 222222 barely moved.
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(candidates), candidates)
	}

	c := candidates[0]
	if c.Symbol != "005930" {
		t.Fatalf("expected code 005930, got %s", c.Symbol)
	}
	if c.Name != "테스트전자" {
		t.Fatalf("expected company name, got %q", c.Name)
	}
	if c.Market != domain.MarketKR {
		t.Fatalf("expected KR market, got %s", c.Market)
	}
	if c.Trigger != domain.TriggerPriceSurge {
		t.Fatalf("expected price surge trigger, got %s", c.Trigger)
	}
	if c.Price != 15000 {
		t.Fatalf("expected price 15000, got %v", c.Price)
	}
	if c.TradeValue != 300 {
		t.Fatalf("expected 300 (100M KRW units) traded, got %v", c.TradeValue)
	}

	// The per-code cooldown suppresses the same symbol within the hour.
	again, err := src.Scan(context.Background())
	if err != nil {
		t.Fatalf("second Scan returned error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected cooldown to suppress the repeat, got %d candidates", len(again))
	}
}
