package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegram_SendsToBotEndpoint(t *testing.T) {
	var path string
	var payload telegramPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	tg := NewTelegram("123:abc", "-100555")
	tg.APIBase = ts.URL
	if err := tg.Send(context.Background(), "Down", "example.com"); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if path != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path %q", path)
	}
	if payload.ChatID != "-100555" || !strings.HasPrefix(payload.Text, "Down\n") {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestTelegram_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", 401)
	}))
	defer ts.Close()

	tg := NewTelegram("bad", "1")
	tg.APIBase = ts.URL
	if err := tg.Send(context.Background(), "X", "Y"); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}

func TestTelegram_DisabledWithoutConfig(t *testing.T) {
	if tg := NewTelegram("", "1"); tg != nil {
		t.Fatal("expected nil without token")
	}
	if tg := NewTelegram("tok", ""); tg != nil {
		t.Fatal("expected nil without chat id")
	}
}
