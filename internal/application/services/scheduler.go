package services

import "time"

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from running; false if it already ran
	Stop() bool
}

// Scheduler runs background work and delayed callbacks
type Scheduler interface {
	Go(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

// NewScheduler returns a Scheduler backed by goroutines and runtime timers
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) Go(fn func()) {
	go fn()
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
