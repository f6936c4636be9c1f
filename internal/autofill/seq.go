package autofill

import "sync/atomic"

// Sequencer issues monotonic tokens for in-flight lookups so a superseded
// response arriving late can be detected and discarded instead of
// overwriting newer state (last-write-wins is not enough when the user
// resubmits while a request is still in flight).
type Sequencer struct {
	counter atomic.Uint64
}

// Begin registers a new request and returns its token. Any token issued
// earlier is immediately stale.
func (s *Sequencer) Begin() uint64 {
	return s.counter.Add(1)
}

// Current reports whether token belongs to the most recently begun request.
func (s *Sequencer) Current(token uint64) bool {
	return s.counter.Load() == token
}
