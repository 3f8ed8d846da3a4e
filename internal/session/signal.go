package session

import "go.uber.org/atomic"

// Signal is a one-shot readiness flag. It fires at most once and never resets.
type Signal struct {
	fired atomic.Bool
	done  chan struct{}
}

func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire sets the signal. It reports whether this call was the one that fired it.
func (s *Signal) Fire() bool {
	if !s.fired.CompareAndSwap(false, true) {
		return false
	}
	close(s.done)
	return true
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool { return s.fired.Load() }

// Done is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} { return s.done }
