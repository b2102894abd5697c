package game

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/battle"
)

// eventPoster is the part of the screen the scheduler needs.
type eventPoster interface {
	PostEvent(ev tcell.Event) error
}

// loopScheduler delays callbacks with real timers, then hands them to the
// event loop as interrupt events so they run on the loop's goroutine.
type loopScheduler struct {
	poster eventPoster
	onDrop func(error)
}

// AfterFunc arms a timer that posts fn to the event loop after d.
func (s loopScheduler) AfterFunc(d time.Duration, fn func()) battle.Timer {
	return time.AfterFunc(d, func() {
		if err := s.poster.PostEvent(tcell.NewEventInterrupt(fn)); err != nil && s.onDrop != nil {
			s.onDrop(err)
		}
	})
}

// runInterrupt executes a callback posted by loopScheduler. It reports false
// for interrupts it does not recognize.
func runInterrupt(ev *tcell.EventInterrupt) bool {
	fn, ok := ev.Data().(func())
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}
