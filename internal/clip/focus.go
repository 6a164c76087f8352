package clip

import (
	"errors"
	"time"
)

// ErrFocusTimeout is the precondition failure reported when focus was not
// regained within the bound. Callers must not attempt the clipboard write
// after seeing it.
var ErrFocusTimeout = errors.New("focus not regained within bound")

// DefaultFocusTimeout bounds how long delivery will wait for focus to come
// back after a context-menu dismissal.
const DefaultFocusTimeout = 2 * time.Second

// focusPollInterval is the fixed probe cadence. 50ms is short enough to feel
// immediate and long enough to stay off the profiler.
const focusPollInterval = 50 * time.Millisecond

// FocusPoller polls a focus probe at a fixed interval until focus is
// observed or a bound elapses. The sleep function is injectable so tests run
// on a virtual clock.
type FocusPoller struct {
	Probe    func() bool
	Interval time.Duration

	sleep func(time.Duration)
}

// NewFocusPoller builds a poller around probe with the default interval.
func NewFocusPoller(probe func() bool) *FocusPoller {
	return &FocusPoller{Probe: probe, Interval: focusPollInterval, sleep: time.Sleep}
}

// Wait polls until the probe reports focus or timeout elapses. It probes
// immediately, so an already-focused caller never sleeps. Returns false on
// timeout.
func (p *FocusPoller) Wait(timeout time.Duration) bool {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var elapsed time.Duration
	for {
		if p.Probe() {
			return true
		}
		if elapsed >= timeout {
			return false
		}
		sleep(p.Interval)
		elapsed += p.Interval
	}
}
