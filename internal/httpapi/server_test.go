package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/webmonhq/webmon/internal/httpapi/middleware"
	"github.com/webmonhq/webmon/internal/monitor"
	"github.com/webmonhq/webmon/internal/repo/memory"
)

type fakeCtl struct {
	statuses []monitor.DomainStatus
	restarts int
}

func (f *fakeCtl) Status() []monitor.DomainStatus { return f.statuses }
func (f *fakeCtl) Restart()                       { f.restarts++ }

func newTestServer(keys middleware.Keys) (*Server, *fakeCtl, *memory.Store) {
	ctl := &fakeCtl{
		statuses: []monitor.DomainStatus{
			{Domain: "a.com", Unreachable: true, Failures: 3},
		},
	}
	store := memory.New()
	s := NewServer(zap.NewNop(), ctl, store, keys, Limits{})
	return s, ctl, store
}

func TestServer_Status(t *testing.T) {
	s, _, _ := newTestServer(middleware.Keys{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/status", nil))
	if rr.Code != 200 {
		t.Fatalf("want 200, got %d", rr.Code)
	}
	var body struct {
		Domains []monitor.DomainStatus `json:"domains"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Domains) != 1 || !body.Domains[0].Unreachable {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestServer_RestartNeedsAdminKey(t *testing.T) {
	keys := middleware.Keys{Admin: []string{"adm"}}
	s, ctl, _ := newTestServer(keys)
	router := s.Router()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/restart", nil))
	if rr.Code != http.StatusForbidden || ctl.restarts != 0 {
		t.Fatalf("unauthenticated restart: code=%d restarts=%d", rr.Code, ctl.restarts)
	}

	req := httptest.NewRequest("POST", "/api/restart", nil)
	req.Header.Set("X-API-Key", "adm")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != 200 || ctl.restarts != 1 {
		t.Fatalf("admin restart: code=%d restarts=%d", rr.Code, ctl.restarts)
	}
}

func TestServer_IgnoresCRUD(t *testing.T) {
	s, _, store := newTestServer(middleware.Keys{})
	router := s.Router()

	req := httptest.NewRequest("POST", "/api/ignores", strings.NewReader(`{"domain":"https://B.com/path"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != 200 {
		t.Fatalf("add: want 200, got %d %s", rr.Code, rr.Body.String())
	}

	list, _ := store.List(req.Context())
	if len(list) != 1 || list[0] != "b.com" {
		t.Fatalf("stored un-normalized domain: %v", list)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/ignores", nil))
	if rr.Code != 200 || !strings.Contains(rr.Body.String(), "b.com") {
		t.Fatalf("list: code=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/ignores/b.com", nil))
	if rr.Code != 200 {
		t.Fatalf("delete: want 200, got %d", rr.Code)
	}
	list, _ = store.List(req.Context())
	if len(list) != 0 {
		t.Fatalf("delete did not stick: %v", list)
	}
}

func TestServer_AddIgnoreRejectsGarbage(t *testing.T) {
	s, _, _ := newTestServer(middleware.Keys{})
	router := s.Router()

	for _, payload := range []string{`{}`, `{"domain":""}`, `{"domain":"not a domain"}`, `not json`} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/ignores", strings.NewReader(payload)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: want 400, got %d", payload, rr.Code)
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"example.com", true},
		{"sub.example.com", true},
		{"", false},
		{"nodots", false},
		{"has space.com", false},
		{"https://example.com", false},
	}
	for _, c := range cases {
		if got := isValidDomain(c.in); got != c.want {
			t.Fatalf("isValidDomain(%q)=%v want %v", c.in, got, c.want)
		}
	}
}
