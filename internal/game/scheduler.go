package game

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable scheduled callback. Stop is idempotent.
type Timer interface {
	Stop()
}

// Scheduler abstracts time so sessions can be driven deterministically in tests.
type Scheduler interface {
	Every(d time.Duration, fn func()) Timer
	After(d time.Duration, fn func()) Timer
}

// SystemScheduler runs callbacks on wall-clock timers.
type SystemScheduler struct{}

func (SystemScheduler) Every(d time.Duration, fn func()) Timer {
	t := &tickerTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

func (SystemScheduler) After(d time.Duration, fn func()) Timer {
	return afterTimer{t: time.AfterFunc(d, fn)}
}

type tickerTimer struct {
	once sync.Once
	stop chan struct{}
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() { close(t.stop) })
}

type afterTimer struct {
	t *time.Timer
}

func (a afterTimer) Stop() { a.t.Stop() }

// ManualScheduler is a Scheduler whose clock only moves when Advance is
// called. Callbacks run on the caller's goroutine.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	s      *ManualScheduler
	id     int
	due    time.Duration
	period time.Duration
	fn     func()
	active bool
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	t.active = false
	t.s.mu.Unlock()
}

func (s *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	return s.add(d, d, fn)
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Timer {
	return s.add(d, 0, fn)
}

func (s *ManualScheduler) add(delay, period time.Duration, fn func()) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, id: s.seq, due: s.now + delay, period: period, fn: fn, active: true}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due
// in order of due time.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDueLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.active = false
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if t.active {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].due != s.timers[j].due {
			return s.timers[i].due < s.timers[j].due
		}
		return s.timers[i].id < s.timers[j].id
	})
	if len(s.timers) == 0 || s.timers[0].due > target {
		return nil
	}
	return s.timers[0]
}

// Active returns how many periodic and one-shot timers are still scheduled.
func (s *ManualScheduler) Active() (periodic int, oneShot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		if !t.active {
			continue
		}
		if t.period > 0 {
			periodic++
		} else {
			oneShot++
		}
	}
	return periodic, oneShot
}
