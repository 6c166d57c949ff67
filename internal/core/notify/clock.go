package notify

import "time"

// Timer is a pending scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules expiry callbacks. The real implementation is backed by
// time.AfterFunc; tests substitute notifytest.FakeClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
