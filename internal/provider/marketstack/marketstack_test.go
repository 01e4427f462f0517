package marketstack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/provider"
)

func TestFetchOneComputesChangeFromOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eod/latest" || r.URL.Query().Get("symbols") != "MC.XPAR" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"data":[{"symbol":"MC.XPAR","open":800,"high":812,"low":798,"close":808,"volume":410000,"date":"2026-01-13T00:00:00+0000"}]}`))
	}))
	defer server.Close()

	adapter := New(provider.Config{Enabled: true, APIKey: "key", BaseURL: server.URL, RateLimit: -1}, provider.Deps{}, zerolog.Nop())
	q, err := adapter.FetchOne(context.Background(), "MC.PA")
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if q.Change.Decimal.String() != "8" || q.ChangePercent.Decimal.String() != "1" {
		t.Fatalf("expected change 8 (1%%), got %s (%s%%)", q.Change.Decimal, q.ChangePercent.Decimal)
	}
	if q.Timestamp.Format("2006-01-02") != "2026-01-13" {
		t.Fatalf("unexpected timestamp %s", q.Timestamp)
	}
}

func TestFetchOneUsageLimitIsQuota(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"usage_limit_reached","message":"Your monthly usage limit has been reached."}}`))
	}))
	defer server.Close()

	adapter := New(provider.Config{Enabled: true, APIKey: "key", BaseURL: server.URL, RateLimit: -1}, provider.Deps{}, zerolog.Nop())
	if _, err := adapter.FetchOne(context.Background(), "MC.PA"); fault.KindOf(err) != fault.KindQuota {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestFetchOneEmptyDataIsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	adapter := New(provider.Config{Enabled: true, APIKey: "key", BaseURL: server.URL, RateLimit: -1}, provider.Deps{}, zerolog.Nop())
	if _, err := adapter.FetchOne(context.Background(), "MC.PA"); fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestSymbol(t *testing.T) {
	if Symbol("MC.PA") != "MC.XPAR" || Symbol("STLAM.MI") != "STLAM.MI" {
		t.Fatalf("unexpected symbol mapping")
	}
}
