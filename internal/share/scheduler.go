package share

import "time"

// Timer is a pending deferred call
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d on its own goroutine
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler is backed by time.AfterFunc
var SystemScheduler Scheduler = systemScheduler{}
