// Package timer schedules cancellable one-shot callbacks. It exists
// so the session package can arm a clock-flag, AFK, or disconnect
// deadline and tear it down cleanly when the game moves on, without
// every call site hand-rolling its own race between firing and
// cancellation.
package timer

import (
	"sync/atomic"
	"time"
)

// Service is the zero-value-usable scheduler. A single Service is
// shared across all games; each call to After is independent.
type Service struct{}

// Handle is a single scheduled callback.
type Handle struct {
	timer *time.Timer
	fired int32
}

// After arranges for fn to run once, after d has elapsed, on its own
// goroutine (the same guarantee time.AfterFunc makes). The returned
// Handle can cancel the callback before it runs; once fired, Cancel is
// a no-op.
func (Service) After(d time.Duration, fn func()) *Handle {
	h := &Handle{}
	h.timer = time.AfterFunc(d, func() {
		if atomic.CompareAndSwapInt32(&h.fired, 0, 1) {
			fn()
		}
	})
	return h
}

// Cancel stops the callback from running, if it hasn't already
// started. It reports whether the cancellation won the race against
// the callback firing: true means fn will never run, false means fn
// had already started (or another Cancel call already won).
func (h *Handle) Cancel() bool {
	won := atomic.CompareAndSwapInt32(&h.fired, 0, 1)
	h.timer.Stop()
	return won
}

// Reset rearms the handle for a fresh duration, as though it had just
// been created by After with the same callback. It must not be called
// concurrently with the callback it's resetting.
func (h *Handle) Reset(d time.Duration) {
	atomic.StoreInt32(&h.fired, 0)
	h.timer.Reset(d)
}
