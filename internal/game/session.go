package game

import (
	"errors"
	"sync"
	"time"
)

type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateEnded
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result is the terminal outcome handed to the completion callback.
type Result struct {
	Game  ID
	Kind  RewardKind
	Score int
}

// Session is the lifetime of one running mini-game, from Start to Cleanup.
// It owns the game's only periodic timer and its pending one-shot follow-up.
// onEnd is called at most once, only when the game ends on its own.
type Session struct {
	mu sync.Mutex

	entry   Entry
	game    Game
	sched   Scheduler
	surface Surface
	onEnd   func(Result)

	state   State
	ticker  Timer
	pending Timer
	// epoch invalidates callbacks from timers stopped earlier; pendingSeq
	// does the same for superseded follow-ups.
	epoch      uint64
	pendingSeq uint64
	started    bool
	released   bool
	result     *Result
}

// NewSession binds a fresh instance of entry's game to surface. onEnd is
// required: a session without a completion handler cannot be built.
func NewSession(entry Entry, sched Scheduler, surface Surface, onEnd func(Result)) (*Session, error) {
	if entry.New == nil {
		return nil, errors.New("game entry has no constructor")
	}
	if sched == nil {
		return nil, errors.New("scheduler is required")
	}
	if onEnd == nil {
		return nil, errors.New("completion handler is required")
	}
	return &Session{
		entry:   entry,
		game:    entry.New(),
		sched:   sched,
		surface: surface,
		onEnd:   onEnd,
	}, nil
}

func (s *Session) ID() ID { return s.entry.ID }

func (s *Session) Entry() Entry { return s.entry }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the final result once the session has ended.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Start builds the game's view and installs its tick timer. Calling Start
// more than once is a no-op.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.released {
		return
	}
	s.started = true
	s.game.Reset(s.surface)
	if p := s.game.Period(); p > 0 {
		s.installTickerLocked(p)
	}
	s.syncStateLocked()
}

// Input forwards a key press to the game.
func (s *Session) Input(in Input) {
	s.mu.Lock()
	if !s.liveLocked() {
		s.mu.Unlock()
		return
	}
	res := s.applyLocked(s.game.Input(in))
	s.mu.Unlock()
	s.report(res)
}

// View renders the game, or "" once the surface has been released.
func (s *Session) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || !s.started {
		return ""
	}
	return s.game.View()
}

// Cleanup stops all timers and releases the surface. It is idempotent and
// safe in any state; a session torn down before it ended becomes Aborted
// and never reports.
func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	if s.state != StateEnded {
		s.state = StateAborted
	}
	s.released = true
}

// Restart tears this session down and returns a started replacement for
// the same game bound to the same completion handler.
func (s *Session) Restart() (*Session, error) {
	s.Cleanup()
	next, err := NewSession(s.entry, s.sched, s.surface, s.onEnd)
	if err != nil {
		return nil, err
	}
	next.Start()
	return next, nil
}

func (s *Session) installTickerLocked(period time.Duration) {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	epoch := s.epoch
	s.ticker = s.sched.Every(period, func() { s.onTick(epoch) })
}

func (s *Session) onTick(epoch uint64) {
	s.mu.Lock()
	if epoch != s.epoch || !s.liveLocked() {
		s.mu.Unlock()
		return
	}
	res := s.applyLocked(s.game.Tick())
	s.mu.Unlock()
	s.report(res)
}

func (s *Session) onResume(epoch, seq uint64) {
	s.mu.Lock()
	if epoch != s.epoch || seq != s.pendingSeq || !s.liveLocked() {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	res := s.applyLocked(s.game.Resume())
	s.mu.Unlock()
	s.report(res)
}

// applyLocked folds a game step into the session state and returns the
// result to report, if the game just ended.
func (s *Session) applyLocked(step Step) *Result {
	if step.Ended {
		score := step.Score
		if score < 0 {
			score = 0
		}
		s.stopTimersLocked()
		s.state = StateEnded
		s.result = &Result{Game: s.entry.ID, Kind: s.entry.Reward, Score: score}
		r := *s.result
		return &r
	}
	if step.StartClock {
		if p := s.game.Period(); p > 0 {
			s.installTickerLocked(p)
		}
	}
	if step.After > 0 {
		if s.pending != nil {
			s.pending.Stop()
		}
		s.pendingSeq++
		epoch, seq := s.epoch, s.pendingSeq
		s.pending = s.sched.After(step.After, func() { s.onResume(epoch, seq) })
	}
	s.syncStateLocked()
	return nil
}

func (s *Session) syncStateLocked() {
	if s.state == StateNotStarted && s.game.Running() {
		s.state = StateRunning
	}
}

func (s *Session) stopTimersLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.epoch++
}

func (s *Session) liveLocked() bool {
	return s.started && !s.released && (s.state == StateNotStarted || s.state == StateRunning)
}

func (s *Session) report(res *Result) {
	if res != nil {
		s.onEnd(*res)
	}
}
