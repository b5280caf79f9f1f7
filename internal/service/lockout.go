package service

import (
	"sync"
	"time"
)

const (
	maxFailedAttempts = 5
	attemptWindow     = 15 * time.Minute
	lockoutDuration   = 15 * time.Minute
)

// LockoutTracker counts failed login attempts per email over a sliding window
// and locks an account once the threshold is hit.
//
// State is process-local and not durable; a restart clears all lockouts. Under
// multiple server instances each process tracks its own counters, so a
// deployment that scales out should move this to a shared store with TTLs.
// The threshold/window contract stays the same either way.
type LockoutTracker struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	lockouts map[string]time.Time

	now func() time.Time
}

func NewLockoutTracker() *LockoutTracker {
	return &LockoutTracker{
		attempts: make(map[string][]time.Time),
		lockouts: make(map[string]time.Time),
		now:      time.Now,
	}
}

// RecordFailedAttempt registers a failed login and reports whether the account
// just crossed the lockout threshold. Attempts older than the window are
// pruned before counting.
func (l *LockoutTracker) RecordFailedAttempt(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := append(l.attempts[email], now)

	pruned := kept[:0]
	for _, at := range kept {
		if now.Sub(at) <= attemptWindow {
			pruned = append(pruned, at)
		}
	}
	l.attempts[email] = pruned

	if len(pruned) >= maxFailedAttempts {
		l.lockouts[email] = now.Add(lockoutDuration)
		return true
	}
	return false
}

// IsLocked reports whether the email is currently locked out. An expired
// lockout is cleared on read.
func (l *LockoutTracker) IsLocked(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.lockouts[email]
	if !ok {
		return false
	}
	if l.now().Before(until) {
		return true
	}
	delete(l.lockouts, email)
	return false
}

// RemainingLockout returns how long the lockout has left, or zero when the
// email is not locked.
func (l *LockoutTracker) RemainingLockout(email string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.lockouts[email]
	if !ok {
		return 0
	}
	remaining := until.Sub(l.now())
	if remaining <= 0 {
		delete(l.lockouts, email)
		return 0
	}
	return remaining
}

// ClearFailedAttempts removes attempt history and any lockout for the email.
// Called on every successful authentication.
func (l *LockoutTracker) ClearFailedAttempts(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, email)
	delete(l.lockouts, email)
}
