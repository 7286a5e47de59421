package utils

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase is one named, timed section of work.
type Phase struct {
	Name     string
	Duration time.Duration
	Calls    int
}

// Timer accumulates named phase durations for one driver invocation
// (convert, candidate-gen, ub-shortcut, verify). Phases may repeat;
// durations accumulate per name.
type Timer struct {
	mu     sync.Mutex
	name   string
	clock  Clock
	phases map[string]*Phase
	order  []string
}

// NewTimer creates a timer labeled name using the wall clock.
func NewTimer(name string) *Timer {
	return NewTimerWithClock(name, NewRealClock())
}

// NewTimerWithClock creates a timer on an explicit clock, for tests.
func NewTimerWithClock(name string, clock Clock) *Timer {
	return &Timer{
		name:   name,
		clock:  clock,
		phases: make(map[string]*Phase),
	}
}

// PhaseTimer is a started phase; Stop records its elapsed time.
type PhaseTimer struct {
	timer *Timer
	name  string
	start time.Time
}

// Start begins timing the named phase.
func (t *Timer) Start(name string) *PhaseTimer {
	return &PhaseTimer{timer: t, name: name, start: t.clock.Now()}
}

// Stop records the elapsed time since Start under the phase's name.
func (pt *PhaseTimer) Stop() time.Duration {
	elapsed := pt.timer.clock.Since(pt.start)
	pt.timer.record(pt.name, elapsed)
	return elapsed
}

func (t *Timer) record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.phases[name]
	if !ok {
		p = &Phase{Name: name}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.Duration += d
	p.Calls++
}

// GetDuration returns the accumulated duration of a phase, zero if the
// phase never ran.
func (t *Timer) GetDuration(name string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.phases[name]; ok {
		return p.Duration
	}
	return 0
}

// Summary renders the phases in first-start order with their share of
// the total, or "" if nothing was timed.
func (t *Timer) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		return ""
	}
	var total time.Duration
	for _, name := range t.order {
		total += t.phases[name].Duration
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s timing ===\n", t.name)
	for _, name := range t.order {
		p := t.phases[name]
		share := 0.0
		if total > 0 {
			share = float64(p.Duration) / float64(total) * 100
		}
		fmt.Fprintf(&b, "%-16s %12v  %5.1f%%  (%d calls)\n", p.Name, p.Duration, share, p.Calls)
	}
	fmt.Fprintf(&b, "%-16s %12v\n", "total", total)
	return b.String()
}

// TopN returns the n longest phases, longest first.
func (t *Timer) TopN(n int) []*Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Phase, 0, len(t.phases))
	for _, p := range t.phases {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Duration > out[j].Duration })
	if n < len(out) {
		out = out[:n]
	}
	return out
}
