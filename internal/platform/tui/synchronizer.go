package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/game"
)

// LoopState is the state of the poll loop.
type LoopState int

const (
	LoopIdle LoopState = iota
	LoopRunning
	LoopHalted
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopRunning:
		return "running"
	case LoopHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Fetcher retrieves the authority's current state.
type Fetcher interface {
	FetchState(ctx context.Context) (game.Snapshot, error)
}

// Presenter receives every accepted snapshot before it is drawn.
type Presenter interface {
	Present(s game.Snapshot, phase game.Phase)
}

// Drawer paints an accepted snapshot.
type Drawer interface {
	Draw(s game.Snapshot) error
}

// StateResultMsg carries the outcome of one /state fetch.
type StateResultMsg struct {
	Cycle    uint64
	Snapshot game.Snapshot
	Err      error
}

// GameOverMsg is sent once, when the terminal snapshot has been presented
// and drawn and the loop has halted.
type GameOverMsg struct {
	Snapshot game.Snapshot
}

// Stats counts what the poll loop has done.
type Stats struct {
	Polls       int
	Dropped     int
	Failures    int
	Malformed   int
	Failing     bool // the most recent fetch failed
	LastErr     error
	LastSuccess time.Time
}

// SyncOptions configures a Synchronizer.
type SyncOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	Logger   *log.Logger
	Schedule Scheduler
	Now      func() time.Time
}

// Default cadence and fetch timeout.
const (
	DefaultPollInterval   = 50 * time.Millisecond
	DefaultRequestTimeout = 2 * time.Second
)

// Synchronizer owns the canonical snapshot and runs the poll loop.
// At most one fetch is in flight; a tick that finds one still running is
// dropped. Ticks are scheduled against the previous deadline so slow cycles
// do not push the cadence back, and a late tick never stacks up behind
// another.
type Synchronizer struct {
	fetcher   Fetcher
	presenter Presenter
	drawer    Drawer
	logger    *log.Logger
	interval  time.Duration
	timeout   time.Duration
	schedule  Scheduler
	now       func() time.Time

	state    LoopState
	inFlight bool
	cycle    uint64
	deadline time.Time

	snapshot    game.Snapshot
	hasSnapshot bool
	phase       game.Phase
	stats       Stats
}

// NewSynchronizer creates an idle synchronizer.
func NewSynchronizer(f Fetcher, p Presenter, d Drawer, opts SyncOptions) *Synchronizer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Schedule == nil {
		opts.Schedule = tea.Tick
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Synchronizer{
		fetcher:   f,
		presenter: p,
		drawer:    d,
		logger:    opts.Logger,
		interval:  opts.Interval,
		timeout:   opts.Timeout,
		schedule:  opts.Schedule,
		now:       opts.Now,
	}
}

// Start moves the loop from idle to running and schedules the first cycle
// immediately. It returns nil if the loop was already started.
func (s *Synchronizer) Start() tea.Cmd {
	if s.state != LoopIdle {
		return nil
	}
	s.state = LoopRunning
	s.deadline = s.now().Add(-s.interval)
	return s.next()
}

// HandleTick runs one poll cycle.
func (s *Synchronizer) HandleTick(PollTickMsg) tea.Cmd {
	if s.state != LoopRunning {
		return nil
	}
	if s.inFlight {
		s.stats.Dropped++
		s.logger.Debug("poll cycle dropped", "cycle", s.cycle)
		return s.next()
	}

	s.inFlight = true
	s.cycle++
	s.stats.Polls++
	return tea.Batch(s.fetch(s.cycle), s.next())
}

// HandleResult applies the outcome of a fetch.
func (s *Synchronizer) HandleResult(msg StateResultMsg) tea.Cmd {
	if !s.inFlight || msg.Cycle != s.cycle {
		s.logger.Debug("stale state result ignored", "cycle", msg.Cycle, "current", s.cycle)
		return nil
	}
	s.inFlight = false
	if s.state == LoopHalted {
		return nil
	}

	if msg.Err != nil {
		s.stats.Failures++
		s.stats.Failing = true
		s.stats.LastErr = msg.Err
		s.logger.Warn("state poll failed", "kind", failureKind(msg.Err), "cycle", msg.Cycle, "err", msg.Err)
		return nil
	}

	s.snapshot = msg.Snapshot
	s.hasSnapshot = true
	s.phase = game.DerivePhase(msg.Snapshot)
	s.stats.LastSuccess = s.now()
	s.stats.Failing = false

	if s.presenter != nil {
		s.presenter.Present(s.snapshot, s.phase)
	}
	if s.drawer != nil {
		if err := s.drawer.Draw(s.snapshot); err != nil {
			s.stats.Malformed++
			s.logger.Warn("snapshot not drawn", "cycle", msg.Cycle, "err", err)
		}
	}

	if s.phase != game.PhaseGameOver {
		return nil
	}
	s.state = LoopHalted
	s.logger.Info("run finished, polling stopped", "goal", s.snapshot.GoalMessage)
	final := s.snapshot
	return func() tea.Msg {
		return GameOverMsg{Snapshot: final}
	}
}

// Redraw paints the current snapshot again, e.g. after sprites finished
// loading.
func (s *Synchronizer) Redraw() {
	if !s.hasSnapshot || s.drawer == nil {
		return
	}
	//nolint:errcheck // Already reported when the snapshot arrived
	s.drawer.Draw(s.snapshot)
}

// Snapshot returns the last accepted snapshot.
func (s *Synchronizer) Snapshot() (game.Snapshot, bool) {
	return s.snapshot, s.hasSnapshot
}

// Phase returns the phase of the last accepted snapshot.
func (s *Synchronizer) Phase() game.Phase {
	return s.phase
}

// State returns the loop state.
func (s *Synchronizer) State() LoopState {
	return s.state
}

// InFlight reports whether a fetch is outstanding.
func (s *Synchronizer) InFlight() bool {
	return s.inFlight
}

// Stats returns the loop counters.
func (s *Synchronizer) Stats() Stats {
	return s.stats
}

// next schedules the following tick at max(now, previous deadline + interval).
func (s *Synchronizer) next() tea.Cmd {
	now := s.now()
	deadline := s.deadline.Add(s.interval)
	if deadline.Before(now) {
		deadline = now
	}
	s.deadline = deadline
	return s.schedule(deadline.Sub(now), func(time.Time) tea.Msg {
		return PollTickMsg{Deadline: deadline}
	})
}

func (s *Synchronizer) fetch(cycle uint64) tea.Cmd {
	f, timeout := s.fetcher, s.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := f.FetchState(ctx)
		return StateResultMsg{Cycle: cycle, Snapshot: snap, Err: err}
	}
}

func failureKind(err error) string {
	if errors.Is(err, game.ErrDecode) {
		return "decode"
	}
	return "transport"
}
