package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bondfeed/internal/provider"
)

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	note := Notification{
		Provider: "etherscan",
		From:     provider.StateConnected,
		To:       provider.StateError,
		Kind:     "quota",
		Error:    "rate limit reached",
		At:       time.Date(2026, 1, 15, 13, 30, 0, 0, time.UTC),
	}

	if err := notifier.Notify(context.Background(), note); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("chat_id = %#v", received)
	}
	text := received["text"]
	for _, want := range []string{"provider failing", "etherscan", "connected -> error", "quota", "2026-01-15T13:30:00Z"} {
		if !strings.Contains(text, want) {
			t.Fatalf("message %q lacks %q", text, want)
		}
	}
}

func TestTelegramNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), Notification{Provider: "ecb"}); err == nil {
		t.Fatal("ok=false should fail")
	}
}

func TestTelegramNotifierStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := notifier.Notify(context.Background(), Notification{Provider: "ecb"}); err == nil {
		t.Fatal("non-2xx should fail")
	}
}

func TestWorth(t *testing.T) {
	cases := []struct {
		from, to provider.State
		want     bool
	}{
		{provider.StateConnected, provider.StateError, true},
		{provider.StateDisconnected, provider.StateError, true},
		{provider.StateError, provider.StateConnected, true},
		{provider.StateError, provider.StateError, false},
		{provider.StateDisconnected, provider.StateConnected, false},
		{provider.StateConnected, provider.StateDisconnected, false},
	}
	for _, tc := range cases {
		if got := Worth(tc.from, tc.to); got != tc.want {
			t.Fatalf("Worth(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
