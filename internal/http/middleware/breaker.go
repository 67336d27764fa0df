package middleware

import (
	"sync"
	"time"
)

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// breaker stops calling a failing backend for a while. After threshold
// consecutive failures it opens for openFor; then a single trial call decides
// whether it closes again.
type breaker struct {
	mu        sync.Mutex
	st        breakerState
	fails     int
	threshold int
	openFor   time.Duration
	retryAt   time.Time
	probing   bool
	now       func() time.Time
}

func newBreaker(threshold int, openFor time.Duration, now func() time.Time) *breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if now == nil {
		now = time.Now
	}
	return &breaker{threshold: threshold, openFor: openFor, now: now}
}

// allow reports whether the backend may be called now.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.st {
	case breakerOpen:
		if b.now().Before(b.retryAt) {
			return false
		}
		b.st = breakerHalfOpen
		b.probing = true
		return true
	case breakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

func (b *breaker) success() {
	b.mu.Lock()
	b.st = breakerClosed
	b.fails = 0
	b.probing = false
	b.mu.Unlock()
}

func (b *breaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if b.st == breakerHalfOpen {
		b.trip()
		return
	}
	b.fails++
	if b.fails >= b.threshold {
		b.trip()
	}
}

func (b *breaker) trip() {
	b.st = breakerOpen
	b.retryAt = b.now().Add(b.openFor)
}
