// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package service

import "time"

// Lockout policy constants. They are fixed, not per-account: five consecutive
// verifier mismatches buy a fifteen-minute lock.
const (
	// LockoutThreshold is the number of consecutive failures that triggers a lock.
	LockoutThreshold = 5

	// LockoutDuration is how long an account stays locked once the threshold
	// is reached.
	LockoutDuration = 15 * time.Minute
)

// LockoutPolicy is a pure function of the lockout fields on the user record.
// It keeps no storage of its own and only ever gates the password-verifier
// comparison — never email-existence checks and never recovery.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

// DefaultLockoutPolicy returns the fixed policy constants.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		Threshold: LockoutThreshold,
		Duration:  LockoutDuration,
	}
}

// Evaluate decides whether a credential check may proceed. A lockedUntil in
// the past means not locked; the field is cleared lazily on the next
// successful login rather than by an explicit unlock transition.
func (p LockoutPolicy) Evaluate(lockedUntil *time.Time, now time.Time) (allowed bool, remaining time.Duration) {
	if lockedUntil == nil || !now.Before(*lockedUntil) {
		return true, 0
	}

	return false, lockedUntil.Sub(now)
}

// NextState computes the failure-counter transition after a verifier
// mismatch: the incremented counter and, once the counter reaches the
// threshold, the new lock expiry.
func (p LockoutPolicy) NextState(failedAttempts int, now time.Time) (newFailed int, lockedUntil *time.Time) {
	newFailed = failedAttempts + 1
	if newFailed >= p.Threshold {
		until := now.Add(p.Duration)
		return newFailed, &until
	}

	return newFailed, nil
}
