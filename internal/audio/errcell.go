package audio

import "sync/atomic"

// errorCell is a single-slot, first-error-wins holder shared between the
// real-time data callback and the capture thread. Set never blocks, so the
// callback can record a write error without stalling the audio subsystem;
// the capture thread reads the cell once after the stream is torn down.
type errorCell struct {
	err atomic.Pointer[error]
}

// Set records err unless an earlier error is already held. nil is ignored.
func (c *errorCell) Set(err error) {
	if err == nil {
		return
	}
	c.err.CompareAndSwap(nil, &err)
}

// Err returns the first recorded error, or nil.
func (c *errorCell) Err() error {
	if p := c.err.Load(); p != nil {
		return *p
	}
	return nil
}
