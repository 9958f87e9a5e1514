package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/game"
	"github.com/vovakirdan/tui-platformer/internal/notify"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

type modelFixture struct {
	auth    *fakeAuthority
	history *fakeHistory
	sched   *recordingScheduler
	model   Model
}

func newModelFixture(t *testing.T) *modelFixture {
	t.Helper()
	f := &modelFixture{
		auth:    &fakeAuthority{},
		history: &fakeHistory{},
		sched:   &recordingScheduler{},
	}
	f.model = NewModel(Options{
		Config:    config.DefaultClientConfig(),
		Authority: f.auth,
		History:   f.history,
		Schedule:  f.sched.schedule,
		Width:     80,
		Height:    24,
	})
	msgs := collect(f.model.Init())
	if countMsg[PollTickMsg](msgs) != 1 {
		t.Fatalf("Init() should schedule the first poll, got %v", msgs)
	}
	return f
}

func (f *modelFixture) update(msg tea.Msg) []tea.Msg {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return collect(cmd)
}

// poll serves s to one poll cycle and feeds back everything but ticks.
func (f *modelFixture) poll(t *testing.T, s game.Snapshot) {
	t.Helper()
	f.auth.push(s)
	msgs := f.update(PollTickMsg{})
	res, ok := findMsg[StateResultMsg](msgs)
	if !ok {
		t.Fatalf("poll tick did not fetch: %v", msgs)
	}
	for _, m := range f.update(res) {
		f.update(m)
	}
}

func (f *modelFixture) press(msg tea.KeyMsg) []tea.Msg {
	return f.update(msg)
}

var doorChoices = []game.Choice{{ID: 1, Text: "Left door"}, {ID: 2, Text: "Right door"}}

func TestModelChooseSendsOneCommand(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(func(s *game.Snapshot) { s.Choices = doorChoices }))

	if got := f.model.Message(); got != "DECISION TIME! Press [1] for Left door   [2] for Right door" {
		t.Errorf("message = %q", got)
	}
	view := f.model.View()
	for _, want := range []string{"CHOICE", "[1] Left door", "[2] Right door"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	msgs := f.press(runeKey('1'))
	if countMsg[CommandSentMsg](msgs) != 1 {
		t.Fatalf("expected one CommandSentMsg, got %v", msgs)
	}
	sent := f.auth.sent()
	if len(sent) != 1 || sent[0] != game.Choose(1) {
		t.Errorf("sent = %v, expected exactly one choose(1)", sent)
	}
}

func TestModelFlashSurvivesEmptyPoll(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(nil))

	msgs := f.press(runeKey('s'))
	expired, ok := findMsg[FlashExpiredMsg](msgs)
	if !ok {
		t.Fatalf("save should arm a flash timer, got %v", msgs)
	}
	if got := f.sched.delays[len(f.sched.delays)-1]; got != config.DefaultClientConfig().FlashDuration() {
		t.Errorf("flash timer = %v", got)
	}
	if f.model.Message() != FlashSaved {
		t.Fatalf("message = %q, expected %q", f.model.Message(), FlashSaved)
	}

	f.poll(t, level(nil))
	if f.model.Message() != FlashSaved {
		t.Errorf("empty poll cleared the flash: %q", f.model.Message())
	}

	f.update(expired)
	if f.model.Message() != "" {
		t.Errorf("message after expiry = %q", f.model.Message())
	}
}

func TestModelFlashRestart(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(nil))

	first, _ := findMsg[FlashExpiredMsg](f.press(runeKey('s')))
	second, _ := findMsg[FlashExpiredMsg](f.press(runeKey('u')))

	f.update(first)
	if f.model.Message() != FlashUndo {
		t.Errorf("stale timer cleared the newer flash: %q", f.model.Message())
	}
	f.update(second)
	if f.model.Message() != "" {
		t.Errorf("message = %q after the second timer", f.model.Message())
	}
}

func TestModelGameOverStopsEverything(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(nil))
	f.press(runeKey('d'))

	f.poll(t, level(func(s *game.Snapshot) { s.GoalMessage = "Level complete!" }))

	if f.model.Message() != "Level complete!" {
		t.Errorf("message = %q", f.model.Message())
	}
	if f.model.Synchronizer().State() != LoopHalted {
		t.Fatalf("loop state = %v", f.model.Synchronizer().State())
	}

	// No further polls.
	fetches := f.auth.fetches
	if msgs := f.update(PollTickMsg{}); len(msgs) != 0 {
		t.Errorf("halted model scheduled %v", msgs)
	}
	if f.auth.fetches != fetches {
		t.Error("halted model fetched state")
	}

	// No further commands or flashes.
	before := len(f.auth.sent())
	for _, k := range []rune{'r', 's', '1', 'a'} {
		if msgs := f.press(runeKey(k)); len(msgs) != 0 {
			t.Errorf("key %q after game over produced %v", k, msgs)
		}
	}
	if len(f.auth.sent()) != before {
		t.Errorf("commands sent after game over: %v", f.auth.sent()[before:])
	}
	if f.model.Message() != "Level complete!" {
		t.Errorf("terminal message replaced by %q", f.model.Message())
	}

	// The run was recorded once as finished.
	if len(f.history.runs) != 1 {
		t.Fatalf("recorded %d runs", len(f.history.runs))
	}
	run := f.history.runs[0]
	if run.Outcome != storage.OutcomeFinished || run.GoalMessage != "Level complete!" || run.Commands != 1 || run.Polls != 2 {
		t.Errorf("run = %+v", run)
	}
}

func TestModelTransientFailureKeepsPolling(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(func(s *game.Snapshot) { s.Tutorial = "Jump with space" }))

	f.auth.fail(game.ErrDecode)
	msgs := f.update(PollTickMsg{})
	res, _ := findMsg[StateResultMsg](msgs)
	f.update(res)

	if f.model.Synchronizer().State() != LoopRunning {
		t.Errorf("state = %v", f.model.Synchronizer().State())
	}
	if f.model.Message() != "TUTORIAL: Jump with space" {
		t.Errorf("message = %q", f.model.Message())
	}
	if !strings.Contains(f.model.View(), "server unreachable") {
		t.Error("status line should show the failure")
	}
}

func TestModelQuitRecordsRun(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(nil))

	next, cmd := f.model.Update(runeKey('q'))
	m := next.(Model)
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if m.View() != "" {
		t.Error("view should be empty while quitting")
	}
	if r := m.Record(); r.Outcome != storage.OutcomeQuit || r.EndedAt.IsZero() {
		t.Errorf("run = %+v", r)
	}
}

func TestModelWaitsForFirstSnapshot(t *testing.T) {
	f := newModelFixture(t)
	if !strings.Contains(f.model.View(), "Waiting for") {
		t.Error("view should say it is waiting for the server")
	}
}

func TestModelWindowTooSmall(t *testing.T) {
	f := newModelFixture(t)
	f.update(tea.WindowSizeMsg{Width: 4, Height: 24})
	f.poll(t, level(nil))
	if !strings.Contains(f.model.View(), "Window too small") {
		t.Error("view should report a small window")
	}

	f.update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if strings.Contains(f.model.View(), "Window too small") {
		t.Error("notice should go away after resizing")
	}
}

func TestModelReplayFlashes(t *testing.T) {
	f := newModelFixture(t)
	f.poll(t, level(nil))
	f.press(runeKey('e'))
	if f.model.notes.Current().Source != notify.SourceFlash {
		t.Errorf("current = %+v", f.model.notes.Current())
	}
}
