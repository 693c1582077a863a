package main

import (
	"sort"
	"sync"
	"time"
)

// scheduler arms repeating and one-shot callbacks. The returned func cancels
// the timer; calling it more than once is harmless.
type scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
	After(d time.Duration, fn func()) (cancel func())
}

// wallScheduler runs callbacks on their own goroutines off the wall clock.
type wallScheduler struct{}

func (wallScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (wallScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// manualTimer is a pending callback in a manualScheduler.
type manualTimer struct {
	id       int
	due      time.Duration
	interval time.Duration // zero for one-shots
	fn       func()
	dead     bool
}

// manualScheduler fires callbacks only when Advance moves its virtual clock.
// Callbacks run on the goroutine calling Advance.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*manualTimer
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{}
}

func (m *manualScheduler) add(d, interval time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{id: m.nextID, due: m.now + d, interval: interval, fn: fn}
	m.timers = append(m.timers, t)
	return func() {
		m.mu.Lock()
		t.dead = true
		m.mu.Unlock()
	}
}

func (m *manualScheduler) Every(d time.Duration, fn func()) func() {
	return m.add(d, d, fn)
}

func (m *manualScheduler) After(d time.Duration, fn func()) func() {
	return m.add(d, 0, fn)
}

// Now returns the virtual time.
func (m *manualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending counts live timers.
func (m *manualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.dead {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every timer that comes due in
// due-time order. Timers armed by a callback fire in the same call if they
// fall inside the window.
func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	end := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		t := m.nextDue(end)
		if t == nil {
			m.now = end
			m.mu.Unlock()
			return
		}
		m.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			t.dead = true
		}
		fn := t.fn
		m.mu.Unlock()
		fn()
	}
}

// nextDue returns the earliest live timer due at or before end and drops dead
// ones. Ties go to the timer armed first.
func (m *manualScheduler) nextDue(end time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.dead {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due == m.timers[j].due {
			return m.timers[i].id < m.timers[j].id
		}
		return m.timers[i].due < m.timers[j].due
	})
	if len(m.timers) == 0 || m.timers[0].due > end {
		return nil
	}
	return m.timers[0]
}
