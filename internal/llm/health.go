package llm

import (
	"sort"
	"time"
)

// disableThreshold is the number of consecutive failures after which a
// provider is taken out of rotation.
const disableThreshold = 3

// ProviderHealth is a snapshot of one provider's standing.
type ProviderHealth struct {
	Name                string
	ConsecutiveFailures int
	Disabled            bool
	DisabledReason      string
	DisabledAt          time.Time
	LastError           string
}

type healthState struct {
	consecutiveFailures int
	disabled            bool
	disabledReason      string
	disabledAt          time.Time
	lastError           string
}

// HealthTracker records per-provider outcomes and decides which
// providers are still worth calling. Auth and quota failures disable a
// provider immediately since retrying cannot help; other failures
// disable it after disableThreshold in a row. Rate limiting counts
// toward the threshold but never disables on its own, because quota
// windows reset.
//
// When ReprobeAfter is set, a disabled provider becomes eligible again
// once that much time has passed, so a long run can recover from a
// transient outage. Auth failures stay disabled regardless.
type HealthTracker struct {
	states       map[string]*healthState
	ReprobeAfter time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// NewHealthTracker creates an empty tracker.
func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		states: make(map[string]*healthState),
		now:    time.Now,
	}
}

func (t *HealthTracker) state(name string) *healthState {
	s, ok := t.states[name]
	if !ok {
		s = &healthState{}
		t.states[name] = s
	}
	return s
}

// Available reports whether a provider should be called.
func (t *HealthTracker) Available(name string) bool {
	s, ok := t.states[name]
	if !ok {
		return true
	}
	if !s.disabled {
		return true
	}
	if t.ReprobeAfter > 0 && s.disabledReason != string(KindAuth) &&
		t.now().Sub(s.disabledAt) >= t.ReprobeAfter {
		s.disabled = false
		s.consecutiveFailures = 0
		return true
	}
	return false
}

// RecordSuccess clears a provider's failure streak.
func (t *HealthTracker) RecordSuccess(name string) {
	s := t.state(name)
	s.consecutiveFailures = 0
	s.lastError = ""
}

// RecordFailure notes a failure of the given kind and disables the
// provider when warranted.
func (t *HealthTracker) RecordFailure(name string, kind ErrorKind, message string) {
	s := t.state(name)
	s.consecutiveFailures++
	s.lastError = message

	switch kind {
	case KindAuth, KindQuota:
		t.disable(s, string(kind))
	case KindRateLimit:
		// Counts toward the streak but does not disable by itself.
	default:
		if s.consecutiveFailures >= disableThreshold {
			t.disable(s, "repeated failures")
		}
	}
}

func (t *HealthTracker) disable(s *healthState, reason string) {
	if s.disabled {
		return
	}
	s.disabled = true
	s.disabledReason = reason
	s.disabledAt = t.now()
}

// Snapshot returns the current standing of every tracked provider,
// sorted by name for stable reporting.
func (t *HealthTracker) Snapshot() []ProviderHealth {
	out := make([]ProviderHealth, 0, len(t.states))
	for name, s := range t.states {
		out = append(out, ProviderHealth{
			Name:                name,
			ConsecutiveFailures: s.consecutiveFailures,
			Disabled:            s.disabled,
			DisabledReason:      s.disabledReason,
			DisabledAt:          s.disabledAt,
			LastError:           s.lastError,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
