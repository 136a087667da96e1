package targets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Example.COM", "example.com"},
		{"  example.com  ", "example.com"},
		{"https://example.com/path", "example.com"},
		{"http://EXAMPLE.com", "example.com"},
		{"example.com/health", "example.com"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"a.com", "https://A.com", "b.com", "", "b.com/"}
	want := []string{"a.com", "b.com"}
	if got := Dedupe(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("Dedupe=%v want %v", got, want)
	}
}

func TestHTTPSource_FetchesAndNormalizes(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["Example.com", "https://other.org/x", "example.com"]`))
	}))
	defer s.Close()

	src := NewHTTPSource(s.URL, 2*time.Second)
	got, err := src.Targets(context.Background())
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	want := []string{"example.com", "other.org"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestHTTPSource_Non200IsError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", 503)
	}))
	defer s.Close()

	src := NewHTTPSource(s.URL, 2*time.Second)
	if _, err := src.Targets(context.Background()); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestHTTPSource_BadBodyIsError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer s.Close()

	src := NewHTTPSource(s.URL, 2*time.Second)
	if _, err := src.Targets(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{"A.com", "a.com", "b.com"}
	got, err := src.Targets(context.Background())
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 deduped targets, got %v", got)
	}
}
