package probe

import (
	"context"
	"testing"
	"time"
)

// fake checker you can script
type fakeChecker struct {
	results []Outcome
	i       int
}

func (f *fakeChecker) Check(ctx context.Context, domain string) Outcome {
	if f.i >= len(f.results) {
		return Outcome{Status: StatusError, Reason: ReasonConnect, Message: "no more"}
	}
	r := f.results[f.i]
	f.i++
	return r
}

func TestRetryChecker_SucceedsAfterRetry(t *testing.T) {
	f := &fakeChecker{
		results: []Outcome{
			{Status: StatusUnhealthy, Reason: ReasonStatus},
			{Status: StatusUnhealthy, Reason: ReasonStatus},
			{Status: StatusHealthy},
		},
	}
	rc := &RetryChecker{Inner: f, Attempts: 3, Delay: time.Millisecond}
	res, err := rc.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected cancel: %v", err)
	}
	if !res.Final.Healthy() {
		t.Fatalf("expected success after retries, got %+v", res.Final)
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", res.Attempts)
	}
}

func TestRetryChecker_SuccessShortCircuits(t *testing.T) {
	f := &fakeChecker{results: []Outcome{{Status: StatusHealthy}}}
	rc := &RetryChecker{Inner: f, Attempts: 5, Delay: time.Hour}
	res, err := rc.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected cancel: %v", err)
	}
	if res.Attempts != 1 {
		t.Fatalf("success must stop the series, got %d attempts", res.Attempts)
	}
}

func TestRetryChecker_AllFail(t *testing.T) {
	f := &fakeChecker{
		results: []Outcome{
			{Status: StatusError, Reason: ReasonTimeout},
			{Status: StatusUnhealthy, Reason: ReasonAuth},
			{Status: StatusUnhealthy, Reason: ReasonPayload},
		},
	}
	rc := &RetryChecker{Inner: f, Attempts: 3, Delay: 0}
	res, err := rc.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected cancel: %v", err)
	}
	if res.Final.Healthy() || res.Attempts != 3 {
		t.Fatalf("expected 3 failed attempts, got %+v", res)
	}
	// the last outcome is the one reported
	if res.Final.Reason != ReasonPayload {
		t.Fatalf("expected final reason, got %q", res.Final.Reason)
	}
}

func TestRetryChecker_CancelDuringDelay(t *testing.T) {
	f := &fakeChecker{results: []Outcome{{Status: StatusUnhealthy, Reason: ReasonStatus}}}
	rc := &RetryChecker{Inner: f, Attempts: 3, Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var res Resolution
	var err error
	go func() {
		res, err = rc.Resolve(ctx, "example.com")
		close(done)
	}()

	time.Sleep(20 * time.Millisecond) // let the first attempt land
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Resolve did not observe cancellation promptly")
	}
	if err == nil {
		t.Fatalf("expected cancellation error, got %+v", res)
	}
	if res.Attempts != 1 {
		t.Fatalf("expected 1 attempt before cancel, got %d", res.Attempts)
	}
}

func TestRetryChecker_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeChecker{results: []Outcome{{Status: StatusHealthy}}}
	rc := &RetryChecker{Inner: f, Attempts: 3, Delay: time.Millisecond}
	res, err := rc.Resolve(ctx, "example.com")
	if err == nil {
		t.Fatal("expected error from pre-cancelled context")
	}
	if res.Attempts != 0 {
		t.Fatalf("no probe should run after cancellation, got %d", res.Attempts)
	}
}
