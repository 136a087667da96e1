package targets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Source supplies the current fleet of monitored domains. It is consumed
// once per check cycle; a fetch error aborts that cycle without touching
// tracked state.
type Source interface {
	Targets(ctx context.Context) ([]string, error)
}

// HTTPSource fetches the fleet from an endpoint returning a JSON array of
// domain names.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(rawURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Targets(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build target request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch targets: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch targets: unexpected status %s", resp.Status)
	}
	var raw []string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode targets: %w", err)
	}
	return Dedupe(raw), nil
}

// StaticSource serves a fixed fleet; handy for small deployments and tests.
type StaticSource []string

func (s StaticSource) Targets(ctx context.Context) ([]string, error) {
	return Dedupe(s), nil
}

// Normalize reduces a raw entry to a bare lowercase hostname: no scheme,
// no path, no leading/trailing junk. Ports survive (test fixtures need them).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// Dedupe normalizes a list and drops empties and duplicates, keeping order.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		d := Normalize(raw)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
