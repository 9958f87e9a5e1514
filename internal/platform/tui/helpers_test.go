package tui

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/game"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// collect runs cmd and every command it batches, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func countMsg[T tea.Msg](msgs []tea.Msg) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

// recordingScheduler fires immediately and remembers the requested delays.
type recordingScheduler struct {
	delays []time.Duration
}

func (r *recordingScheduler) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	r.delays = append(r.delays, d)
	return func() tea.Msg { return fn(time.Time{}) }
}

// fakeAuthority serves queued snapshots and records commands.
type fakeAuthority struct {
	mu       sync.Mutex
	states   []game.Snapshot
	errs     []error
	fetches  int
	commands []game.Command
	sendErr  error
}

func (f *fakeAuthority) push(s game.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, s)
	f.errs = append(f.errs, nil)
}

func (f *fakeAuthority) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, game.Snapshot{})
	f.errs = append(f.errs, err)
}

func (f *fakeAuthority) FetchState(context.Context) (game.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if len(f.states) == 0 {
		return game.Snapshot{}, errors.New("no state queued")
	}
	s, err := f.states[0], f.errs[0]
	f.states, f.errs = f.states[1:], f.errs[1:]
	return s, err
}

func (f *fakeAuthority) SendCommand(_ context.Context, cmd game.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return f.sendErr
}

func (f *fakeAuthority) sent() []game.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]game.Command(nil), f.commands...)
}

type fakeHistory struct {
	mu   sync.Mutex
	runs []storage.Run
}

func (h *fakeHistory) SaveRun(_ context.Context, r storage.Run) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, r)
	return nil
}

func grid(rows ...string) []game.Row {
	out := make([]game.Row, len(rows))
	for i, r := range rows {
		out[i] = game.Row(r)
	}
	return out
}

func level(extra func(*game.Snapshot)) game.Snapshot {
	s := game.Snapshot{Width: 3, Height: 2, Grid: grid("#P#", "#G#")}
	if extra != nil {
		extra(&s)
	}
	return s
}
