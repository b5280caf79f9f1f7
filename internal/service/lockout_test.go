package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestTracker returns a tracker with a controllable clock.
func newTestTracker() (*LockoutTracker, *time.Time) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tracker := NewLockoutTracker()
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func TestLockoutTracker_ThresholdLocks(t *testing.T) {
	tracker, _ := newTestTracker()

	for i := 0; i < maxFailedAttempts-1; i++ {
		assert.False(t, tracker.RecordFailedAttempt("kid@example.com"), "attempt %d should not lock", i+1)
		assert.False(t, tracker.IsLocked("kid@example.com"))
	}

	assert.True(t, tracker.RecordFailedAttempt("kid@example.com"), "threshold attempt should lock")
	assert.True(t, tracker.IsLocked("kid@example.com"))
	assert.Greater(t, tracker.RemainingLockout("kid@example.com"), time.Duration(0))
}

func TestLockoutTracker_WindowPrunesOldAttempts(t *testing.T) {
	tracker, now := newTestTracker()

	for i := 0; i < maxFailedAttempts-1; i++ {
		tracker.RecordFailedAttempt("kid@example.com")
	}

	// Advance past the window; the old attempts no longer count.
	*now = now.Add(attemptWindow + time.Minute)

	assert.False(t, tracker.RecordFailedAttempt("kid@example.com"))
	assert.False(t, tracker.IsLocked("kid@example.com"))
}

func TestLockoutTracker_LockoutExpires(t *testing.T) {
	tracker, now := newTestTracker()

	for i := 0; i < maxFailedAttempts; i++ {
		tracker.RecordFailedAttempt("kid@example.com")
	}
	assert.True(t, tracker.IsLocked("kid@example.com"))

	*now = now.Add(lockoutDuration + time.Second)

	assert.False(t, tracker.IsLocked("kid@example.com"))
	assert.Equal(t, time.Duration(0), tracker.RemainingLockout("kid@example.com"))
}

func TestLockoutTracker_ClearFailedAttempts(t *testing.T) {
	tracker, _ := newTestTracker()

	for i := 0; i < maxFailedAttempts; i++ {
		tracker.RecordFailedAttempt("kid@example.com")
	}
	assert.True(t, tracker.IsLocked("kid@example.com"))

	tracker.ClearFailedAttempts("kid@example.com")

	assert.False(t, tracker.IsLocked("kid@example.com"))
	// History is gone too: the next failure starts a fresh count.
	assert.False(t, tracker.RecordFailedAttempt("kid@example.com"))
}

func TestLockoutTracker_EmailsAreIndependent(t *testing.T) {
	tracker, _ := newTestTracker()

	for i := 0; i < maxFailedAttempts; i++ {
		tracker.RecordFailedAttempt("locked@example.com")
	}

	assert.True(t, tracker.IsLocked("locked@example.com"))
	assert.False(t, tracker.IsLocked("other@example.com"))
}

func TestLockoutTracker_RemainingLockout(t *testing.T) {
	tracker, now := newTestTracker()

	for i := 0; i < maxFailedAttempts; i++ {
		tracker.RecordFailedAttempt("kid@example.com")
	}

	assert.Equal(t, lockoutDuration, tracker.RemainingLockout("kid@example.com"))

	*now = now.Add(5 * time.Minute)
	assert.Equal(t, lockoutDuration-5*time.Minute, tracker.RemainingLockout("kid@example.com"))
}
