package probe

import "context"

// Status classifies a single probe attempt.
type Status int

const (
	// StatusHealthy means both layers passed: the site answered and the
	// application reported ok.
	StatusHealthy Status = iota
	// StatusUnhealthy means the server answered but the answer was wrong
	// (bad status code, bad payload, rejected key, non-ok health status).
	StatusUnhealthy
	// StatusError means no usable answer at all (timeout, connect failure).
	StatusError
)

// Reason narrows a non-healthy outcome for logging. Retry and threshold
// policy treat every non-healthy outcome the same; the reason is diagnostics.
type Reason string

const (
	ReasonNone    Reason = ""
	ReasonTimeout Reason = "timeout"
	ReasonConnect Reason = "connect"
	ReasonStatus  Reason = "bad_status"
	ReasonPayload Reason = "bad_payload"
	ReasonAuth    Reason = "auth"
	ReasonNotOK   Reason = "status_not_ok"
)

// Outcome is the result of one dual-layer probe.
type Outcome struct {
	Status     Status
	Reason     Reason
	Message    string
	HTTPStatus int // 0 for transport-level failures
	LatencyMS  float64
}

// Healthy reports whether the probe passed both layers.
func (o Outcome) Healthy() bool { return o.Status == StatusHealthy }

// Checker performs a single check for a given domain.
type Checker interface {
	Check(ctx context.Context, domain string) Outcome
}
