// Package clock provides scheduled tasks with cancellation handles.
//
// Game timing (pulse cadence, settle and advance delays) is expressed as
// callbacks scheduled on a Scheduler. Every scheduled callback returns a Timer
// that can be stopped, so a session can drop all in-flight work when a game is
// restarted or abandoned.
//
// Real wraps the time package. Fake is a manually advanced clock for tests.
package clock

import "time"

// Timer is a handle on a scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on wall-clock time. Callbacks run on their own goroutine.
type Real struct{}

// NewReal returns the wall-clock scheduler.
func NewReal() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
