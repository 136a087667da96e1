package probe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	healthPath    = "/api/health"
	maxHealthBody = 64 << 10
)

// SiteChecker probes a domain in two layers. Layer 1 is a cheap existence
// check against the site root (HEAD, falling back to GET when the server
// rejects the method). Layer 2 hits the application health endpoint and
// expects a JSON body with status "ok". Layer 2 is only attempted when
// layer 1 passes.
type SiteChecker struct {
	Client       *http.Client
	HealthAPIKey string
	// Scheme is "https" unless overridden (tests use plain http).
	Scheme string
}

func NewSiteChecker(timeout time.Duration, verifyTLS bool, healthAPIKey string) *SiteChecker {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !verifyTLS},
	}
	return &SiteChecker{
		Client:       &http.Client{Timeout: timeout, Transport: tr},
		HealthAPIKey: healthAPIKey,
		Scheme:       "https",
	}
}

type healthPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *SiteChecker) Check(ctx context.Context, domain string) Outcome {
	start := time.Now()
	root := url.URL{Scheme: s.scheme(), Host: domain, Path: "/"}

	resp, err := s.do(ctx, http.MethodHead, root.String())
	if err != nil {
		return s.transportOutcome(ctx, domain, err, sinceMS(start))
	}
	resp.Body.Close()

	// Some servers refuse HEAD outright; one GET settles it.
	if resp.StatusCode == http.StatusMethodNotAllowed {
		resp, err = s.do(ctx, http.MethodGet, root.String())
		if err != nil {
			return s.transportOutcome(ctx, domain, err, sinceMS(start))
		}
		resp.Body.Close()
	}
	if resp.StatusCode >= 400 {
		return Outcome{
			Status:     StatusUnhealthy,
			Reason:     ReasonStatus,
			Message:    "root returned " + resp.Status,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  sinceMS(start),
		}
	}

	hu := url.URL{Scheme: s.scheme(), Host: domain, Path: healthPath}
	if s.HealthAPIKey != "" {
		q := url.Values{}
		q.Set("api_key", s.HealthAPIKey)
		hu.RawQuery = q.Encode()
	}
	resp, err = s.do(ctx, http.MethodGet, hu.String())
	if err != nil {
		return s.transportOutcome(ctx, domain, err, sinceMS(start))
	}
	defer resp.Body.Close()
	latency := sinceMS(start)

	if resp.StatusCode == http.StatusUnauthorized {
		return Outcome{
			Status:     StatusUnhealthy,
			Reason:     ReasonAuth,
			Message:    "health endpoint rejected API key",
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latency,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	if err != nil {
		return s.transportOutcome(ctx, domain, err, latency)
	}
	var hp healthPayload
	if err := json.Unmarshal(body, &hp); err != nil {
		return Outcome{
			Status:     StatusUnhealthy,
			Reason:     ReasonPayload,
			Message:    "unparsable health payload: " + err.Error(),
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latency,
		}
	}
	if resp.StatusCode >= 400 {
		return Outcome{
			Status:     StatusUnhealthy,
			Reason:     ReasonStatus,
			Message:    "health endpoint returned " + resp.Status,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latency,
		}
	}
	if hp.Status != "ok" {
		msg := fmt.Sprintf("health status %q", hp.Status)
		if hp.Message != "" {
			msg += ": " + hp.Message
		}
		return Outcome{
			Status:     StatusUnhealthy,
			Reason:     ReasonNotOK,
			Message:    msg,
			HTTPStatus: resp.StatusCode,
			LatencyMS:  latency,
		}
	}

	return Outcome{
		Status:     StatusHealthy,
		Message:    "ok",
		HTTPStatus: resp.StatusCode,
		LatencyMS:  latency,
	}
}

func (s *SiteChecker) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	return s.Client.Do(req)
}

func (s *SiteChecker) scheme() string {
	if s.Scheme == "" {
		return "https"
	}
	return s.Scheme
}

// transportOutcome maps a transport-level error to an Outcome. Connection
// failures get a DNS classification appended so the log can tell a dead
// server from a dead name.
func (s *SiteChecker) transportOutcome(ctx context.Context, domain string, err error, latency float64) Outcome {
	reason := ReasonConnect
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		reason = ReasonTimeout
	}
	msg := err.Error()
	if reason == ReasonConnect {
		if class := classifyDNS(ctx, hostOnly(domain)); class != "" && class != dnsResolves {
			msg = msg + " dns=" + class
		}
	}
	return Outcome{
		Status:    StatusError,
		Reason:    reason,
		Message:   msg,
		LatencyMS: latency,
	}
}

func hostOnly(domain string) string {
	if host, _, err := net.SplitHostPort(domain); err == nil {
		return host
	}
	return domain
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
