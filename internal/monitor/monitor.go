package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/webmonhq/webmon/internal/audit"
	"github.com/webmonhq/webmon/internal/notify"
	"github.com/webmonhq/webmon/internal/probe"
	"github.com/webmonhq/webmon/internal/targets"
)

// IgnoreSource yields the live set of domains to skip, queried fresh at the
// start of every cycle. A read error is treated as the empty set; edits only
// ever affect the next cycle's snapshot.
type IgnoreSource interface {
	List(ctx context.Context) ([]string, error)
}

// Config carries the orchestrator knobs.
type Config struct {
	// Interval between cycle starts (not cycle completions).
	Interval time.Duration
	// MaxFailures is the consecutive-failure threshold; it is also the
	// per-cycle retry budget, so one fully failed cycle confirms an outage.
	MaxFailures int
	RetryDelay  time.Duration
	Concurrency int
}

// Monitor drives the periodic check cycle: fetch targets, subtract the
// ignore set, resolve each remaining domain through the retry series, apply
// the outcome to the tracker and fan out any transition.
type Monitor struct {
	logger   *zap.Logger
	source   targets.Source
	ignores  IgnoreSource
	resolver *probe.RetryChecker
	tracker  *Tracker
	notifier notify.Notifier
	audit    *audit.Log
	metrics  *Metrics

	interval    time.Duration
	concurrency int

	mu          sync.Mutex
	cancelCycle context.CancelFunc
	resetCh     chan struct{}
}

func New(
	logger *zap.Logger,
	source targets.Source,
	ignores IgnoreSource,
	checker probe.Checker,
	notifier notify.Notifier,
	auditLog *audit.Log,
	metrics *Metrics,
	cfg Config,
) *Monitor {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxFailures < 1 {
		cfg.MaxFailures = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Monitor{
		logger:  logger,
		source:  source,
		ignores: ignores,
		resolver: &probe.RetryChecker{
			Inner:    checker,
			Attempts: cfg.MaxFailures,
			Delay:    cfg.RetryDelay,
		},
		tracker:     NewTracker(cfg.MaxFailures),
		notifier:    notifier,
		audit:       auditLog,
		metrics:     metrics,
		interval:    cfg.Interval,
		concurrency: cfg.Concurrency,
		resetCh:     make(chan struct{}, 1),
	}
}

// Run executes cycles until ctx is cancelled. The first cycle starts
// immediately; each next one is scheduled interval from the previous cycle's
// start, or right away after a Restart.
func (m *Monitor) Run(ctx context.Context) {
	for {
		start := time.Now()

		cctx, cancel := context.WithCancel(ctx)
		m.setCancel(cancel)
		m.runCycle(cctx)
		m.setCancel(nil)
		cancel()

		select {
		case <-ctx.Done():
			m.logger.Info("monitor_stopped")
			return
		case <-m.resetCh:
			m.applyReset()
			continue
		default:
		}

		wait := m.interval - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			m.logger.Info("monitor_stopped")
			return
		case <-m.resetCh:
			t.Stop()
			m.applyReset()
		case <-t.C:
		}
	}
}

// Restart aborts any in-flight cycle, discards its unapplied results, clears
// all tracked state and schedules a fresh cycle immediately. The reset
// itself emits no transition events.
func (m *Monitor) Restart() {
	m.mu.Lock()
	if m.cancelCycle != nil {
		m.cancelCycle()
	}
	m.mu.Unlock()

	select {
	case m.resetCh <- struct{}{}:
	default: // a reset is already pending
	}
}

// Status returns the tracked fleet for reporting.
func (m *Monitor) Status() []DomainStatus {
	return m.tracker.Snapshot()
}

func (m *Monitor) applyReset() {
	m.tracker.Reset()
	m.metrics.Unreachable.Set(0)
	m.logger.Info("monitor_reset")
}

func (m *Monitor) setCancel(c context.CancelFunc) {
	m.mu.Lock()
	m.cancelCycle = c
	m.mu.Unlock()
}

func (m *Monitor) runCycle(ctx context.Context) {
	doms, err := m.source.Targets(ctx)
	if err != nil {
		// a failed fleet fetch never marks anything unreachable
		m.logger.Warn("target_fetch_error", zap.Error(err))
		m.metrics.CycleErrors.Inc()
		return
	}

	ignored := make(map[string]struct{})
	if igns, err := m.ignores.List(ctx); err != nil {
		m.logger.Warn("ignore_fetch_error", zap.Error(err))
	} else {
		for _, d := range igns {
			ignored[targets.Normalize(d)] = struct{}{}
		}
	}

	keep := make(map[string]struct{}, len(doms))
	work := make([]string, 0, len(doms))
	for _, raw := range doms {
		d := targets.Normalize(raw)
		if d == "" {
			continue
		}
		keep[d] = struct{}{}
		if _, skip := ignored[d]; skip {
			continue
		}
		work = append(work, d)
	}

	sem := make(chan struct{}, m.concurrency)
	var wg sync.WaitGroup
	for _, d := range work {
		d := d
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			m.checkOne(ctx, d)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		// aborted mid-cycle; leave state as the last completed cycle saw it
		return
	}
	m.tracker.Prune(keep)
	m.metrics.Cycles.Inc()
	m.metrics.Unreachable.Set(float64(m.tracker.UnreachableCount()))
}

func (m *Monitor) checkOne(ctx context.Context, domain string) {
	res, err := m.resolver.Resolve(ctx, domain)
	if err != nil {
		// cancelled mid-series; partial attempt counts never reach the tracker
		m.logger.Debug("probe_cancelled", zap.String("domain", domain))
		return
	}

	ok := res.Final.Healthy()
	outcome := "healthy"
	if !ok {
		outcome = "unhealthy"
	}
	m.metrics.Probes.WithLabelValues(outcome).Inc()
	m.logger.Debug("probe_resolved",
		zap.String("domain", domain),
		zap.Bool("healthy", ok),
		zap.Int("attempts", res.Attempts),
		zap.String("reason", string(res.Final.Reason)),
		zap.Int("status", res.Final.HTTPStatus),
		zap.Float64("latency_ms", res.Final.LatencyMS),
		zap.String("message", res.Final.Message),
	)

	if ctx.Err() != nil {
		// restart raised after the series completed but before apply
		return
	}

	failed := 0
	if !ok {
		failed = res.Attempts
	}
	ev, fired := m.tracker.Update(domain, ok, failed)
	if !fired {
		return
	}
	m.dispatch(ctx, ev)
}

func (m *Monitor) dispatch(ctx context.Context, ev Event) {
	m.metrics.Transitions.WithLabelValues(ev.Type.String()).Inc()

	if err := m.audit.Record(ev.At, ev.Domain, ev.Type == WentDown); err != nil {
		m.logger.Warn("audit_write_error", zap.Error(err))
	}

	title := "🔴 Domain UNREACHABLE"
	if ev.Type == Recovered {
		title = "🟢 Domain RECOVERED"
	}
	text := ev.Domain + "\nAt: " + ev.At.UTC().Format(time.RFC3339)
	if err := m.notifier.Send(ctx, title, text); err != nil {
		m.logger.Warn("notify_error",
			zap.String("domain", ev.Domain),
			zap.Error(err),
		)
	}

	m.logger.Info("domain_transition",
		zap.String("domain", ev.Domain),
		zap.String("type", ev.Type.String()),
	)
}
