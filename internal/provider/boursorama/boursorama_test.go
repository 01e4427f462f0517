package boursorama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/fault"
	"bondfeed/internal/provider"
)

func serve(t *testing.T, html string) (*Adapter, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/2xERB3MOIS/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return New(provider.Config{Enabled: true, BaseURL: server.URL, RateLimit: -1}, provider.Deps{}, zerolog.Nop()), calls
}

func TestFetchOneParsesCommaDecimal(t *testing.T) {
	adapter, _ := serve(t, `<html><body><div class="c-faceplate__price"><span class="c-instrument--last">3,65</span> %</div></body></html>`)

	rate, err := adapter.FetchOne(context.Background(), "euribor3m")
	if err != nil {
		t.Fatalf("FetchOne returned error: %v", err)
	}
	if rate.Value.String() != "3.65" {
		t.Fatalf("expected 3.65, got %s", rate.Value)
	}
}

func TestParseFallsBackToSecondarySelector(t *testing.T) {
	rate, err := parse("oat10y", []byte(`<div class="c-faceplate__price"> 2,91% </div>`), time.Now())
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if rate.Value.String() != "2.91" {
		t.Fatalf("expected 2.91, got %s", rate.Value)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	_, err := parse("bund10y", []byte(`<span class="c-instrument--last">42,0</span>`), time.Now())
	if fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestParseMissingElement(t *testing.T) {
	_, err := parse("bund10y", []byte(`<html><body>maintenance</body></html>`), time.Now())
	if fault.KindOf(err) != fault.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestSwapsAreNotScraped(t *testing.T) {
	adapter, calls := serve(t, "")
	_, err := adapter.FetchOne(context.Background(), "swap5y")
	if fault.KindOf(err) != fault.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
	if fb, ok := adapter.Fallback("swap5y"); !ok || fb.Value.String() != "2.88" {
		t.Fatalf("unexpected swap fallback %+v", fb)
	}
}
