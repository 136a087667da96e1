package monitor

import (
	"sort"
	"sync"
	"time"
)

// EventType is a published classification change.
type EventType int

const (
	WentDown EventType = iota
	Recovered
)

func (e EventType) String() string {
	if e == Recovered {
		return "recovered"
	}
	return "went_down"
}

// Event is emitted at most once per domain per cycle, on the edge of a
// classification change.
type Event struct {
	Domain string
	Type   EventType
	At     time.Time
}

// DomainStatus is a point-in-time view of one tracked domain.
type DomainStatus struct {
	Domain      string `json:"domain"`
	Unreachable bool   `json:"unreachable"`
	Failures    int    `json:"consecutive_failures"`
}

type domainState struct {
	failures    int
	unreachable bool
}

// Tracker owns per-domain consecutive-failure counts and the published
// up/down classification. The orchestrator is the only writer; everyone
// else reads through Snapshot.
type Tracker struct {
	mu          sync.Mutex
	maxFailures int
	states      map[string]*domainState
}

func NewTracker(maxFailures int) *Tracker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &Tracker{
		maxFailures: maxFailures,
		states:      make(map[string]*domainState),
	}
}

// Update applies one cycle's final outcome for domain. failedAttempts is the
// number of non-healthy probes the cycle observed (0 when ok). It returns
// the transition, if one fired:
//   - success while unreachable  -> Recovered, counter reset
//   - success while reachable    -> counter reset, no event
//   - failure while reachable    -> counter grows; WentDown at the threshold
//   - failure while unreachable  -> nothing, already known down
func (t *Tracker) Update(domain string, ok bool, failedAttempts int) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.states[domain]
	if st == nil {
		st = &domainState{}
		t.states[domain] = st
	}

	if ok {
		st.failures = 0
		if st.unreachable {
			st.unreachable = false
			return Event{Domain: domain, Type: Recovered, At: time.Now()}, true
		}
		return Event{}, false
	}

	if st.unreachable {
		return Event{}, false
	}
	st.failures += failedAttempts
	if st.failures >= t.maxFailures {
		st.unreachable = true
		return Event{Domain: domain, Type: WentDown, At: time.Now()}, true
	}
	return Event{}, false
}

// Reset discards every tracked domain. Used by manual restart; produces no
// events of its own.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]*domainState)
}

// Prune drops state for domains that left the target set. Called with the
// full (pre-ignore) set so an ignored domain keeps its state untouched.
func (t *Tracker) Prune(keep map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for d := range t.states {
		if _, ok := keep[d]; !ok {
			delete(t.states, d)
		}
	}
}

// Snapshot returns a sorted copy of the tracked fleet for reporting.
func (t *Tracker) Snapshot() []DomainStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]DomainStatus, 0, len(t.states))
	for d, st := range t.states {
		out = append(out, DomainStatus{
			Domain:      d,
			Unreachable: st.unreachable,
			Failures:    st.failures,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// UnreachableCount reports how many tracked domains are currently down.
func (t *Tracker) UnreachableCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, st := range t.states {
		if st.unreachable {
			n++
		}
	}
	return n
}
