package battle

import (
	"sort"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs a callback after a presentation delay. Implementations must
// invoke fn on the goroutine that owns the Session.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// ImmediateScheduler runs callbacks synchronously, ignoring the delay.
// It suits headless simulations.
type ImmediateScheduler struct{}

// AfterFunc runs fn before returning.
func (ImmediateScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	fn()
	return firedTimer{}
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// ManualScheduler queues callbacks until Advance moves its clock past their
// deadline. Tests use it to step through enemy turns deterministically.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTimer
}

type manualTimer struct {
	at   time.Duration
	seq  int
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	return true
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues fn to run once the clock reaches now+d.
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Now returns the scheduler's current clock.
func (m *ManualScheduler) Now() time.Duration {
	return m.now
}

// Pending returns the number of queued callbacks that have not run.
func (m *ManualScheduler) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every callback that is due,
// in deadline order, including callbacks scheduled by earlier ones. It
// returns the number of callbacks run.
func (m *ManualScheduler) Advance(d time.Duration) int {
	m.now += d
	ran := 0
	for {
		next := m.nextDue()
		if next == nil {
			break
		}
		next.done = true
		next.fn()
		ran++
	}
	m.compact()
	return ran
}

func (m *ManualScheduler) nextDue() *manualTimer {
	due := make([]*manualTimer, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !t.done && t.at <= m.now {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (m *ManualScheduler) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.tasks); i++ {
		m.tasks[i] = nil
	}
	m.tasks = live
}
