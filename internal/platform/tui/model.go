package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/game"
	"github.com/vovakirdan/tui-platformer/internal/notify"
	"github.com/vovakirdan/tui-platformer/internal/render"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

// Authority is what the client needs from the game server.
type Authority interface {
	Fetcher
	Sender
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	SaveRun(ctx context.Context, r storage.Run) error
}

// AssetsLoadedMsg is sent when the sprite loading phase ends.
type AssetsLoadedMsg struct {
	Err error
}

type runSavedMsg struct {
	Err error
}

// Options configures a Model.
type Options struct {
	Config    config.ClientConfig
	Authority Authority

	// Assets is the sprite table. If Sources is set, Init loads it;
	// otherwise it is used as is (e.g. already loaded and shared).
	Assets  *render.Assets
	Sources []render.Source

	History RunRecorder
	Logger  *log.Logger
	User    string

	Width  int
	Height int

	// Schedule replaces tea.Tick for poll ticks and flash timers.
	Schedule Scheduler
}

// Rows used around the grid: status line, message bar, help line.
const chromeRows = 3

// Model is the Bubble Tea model of one player's client.
type Model struct {
	keys     KeyMap
	help     help.Model
	bar      *messageBar
	notes    *notify.Manager
	renderer *render.TileRenderer
	sync     *Synchronizer
	dispatch *Dispatcher

	assets   *render.Assets
	sources  []render.Source
	history  RunRecorder
	logger   *log.Logger
	schedule Scheduler
	flashFor time.Duration
	server   string

	run      storage.Run
	runSaved bool

	width    int
	height   int
	quitting bool
}

// NewModel wires the client components together.
func NewModel(opts Options) Model {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	schedule := opts.Schedule
	if schedule == nil {
		schedule = tea.Tick
	}
	assets := opts.Assets
	if assets == nil {
		assets = render.NewAssets(logger)
	}

	bar := &messageBar{}
	notes := notify.New(bar)
	renderer := render.New(core.NewScreen(0, 0), assets, render.Options{
		TileW: cfg.Tile.Width,
		TileH: cfg.Tile.Height,
	})
	sync := NewSynchronizer(opts.Authority, notes, renderer, SyncOptions{
		Interval: cfg.PollInterval(),
		Timeout:  cfg.RequestTimeout(),
		Logger:   logger,
		Schedule: schedule,
	})

	return Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		bar:      bar,
		notes:    notes,
		renderer: renderer,
		sync:     sync,
		dispatch: NewDispatcher(opts.Authority, cfg.SendTimeout(), logger),
		assets:   assets,
		sources:  opts.Sources,
		history:  opts.History,
		logger:   logger,
		schedule: schedule,
		flashFor: cfg.FlashDuration(),
		server:   cfg.Server,
		run: storage.Run{
			ID:        uuid.NewString(),
			Server:    cfg.Server,
			User:      opts.User,
			StartedAt: time.Now(),
		},
		width:  opts.Width,
		height: opts.Height,
	}
}

// Init starts the poll loop and, if configured, the sprite loading phase.
func (m Model) Init() tea.Cmd {
	m.logger.Info("run started", "id", m.run.ID, "server", m.server)
	return tea.Batch(m.sync.Start(), m.loadAssets())
}

func (m Model) loadAssets() tea.Cmd {
	if len(m.sources) == 0 {
		return nil
	}
	assets, sources := m.assets, m.sources
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return AssetsLoadedMsg{Err: assets.Load(ctx, sources...)}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case PollTickMsg:
		return m, m.sync.HandleTick(msg)

	case StateResultMsg:
		return m, m.sync.HandleResult(msg)

	case GameOverMsg:
		return m.handleGameOver(msg)

	case FlashExpiredMsg:
		m.notes.Expire(msg.Token)
		return m, nil

	case CommandSentMsg:
		m.dispatch.HandleSent(msg)
		return m, nil

	case AssetsLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("sprite loading interrupted", "err", msg.Err)
		}
		for _, name := range render.AssetNames {
			m.logger.Debug("sprite", "name", name, "status", m.assets.Status(name))
		}
		m.sync.Redraw()
		return m, nil

	case runSavedMsg:
		if msg.Err != nil {
			m.logger.Warn("could not record run", "err", msg.Err)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, ok := m.keys.Resolve(msg)
	if !ok {
		return m, nil
	}

	switch {
	case action.Quit:
		m.quitting = true
		if m.runSaved {
			return m, tea.Quit
		}
		m.finishRun(storage.OutcomeQuit, "")
		return m, tea.Sequence(m.saveRun(), tea.Quit)
	case action.Help:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	phase := m.sync.Phase()
	send := m.dispatch.Dispatch(action.Command, phase)
	if send == nil || action.Flash == "" {
		return m, send
	}
	timer := m.notes.Flash(action.Flash, action.FlashColor, m.flashFor)
	return m, tea.Batch(send, flashCmd(m.schedule, timer))
}

func (m Model) handleGameOver(msg GameOverMsg) (tea.Model, tea.Cmd) {
	if m.runSaved {
		return m, nil
	}
	m.finishRun(storage.OutcomeFinished, msg.Snapshot.GoalMessage)
	return m, m.saveRun()
}

func (m *Model) finishRun(outcome, goal string) {
	st := m.sync.Stats()
	m.run.EndedAt = time.Now()
	m.run.Outcome = outcome
	m.run.GoalMessage = goal
	m.run.Polls = st.Polls
	m.run.Dropped = st.Dropped
	m.run.Failures = st.Failures
	m.run.Commands = m.dispatch.Sent()
	m.runSaved = true
	m.logger.Info("run ended", "id", m.run.ID, "outcome", outcome,
		"polls", st.Polls, "dropped", st.Dropped, "failures", st.Failures)
}

func (m Model) saveRun() tea.Cmd {
	if m.history == nil {
		return nil
	}
	history, run := m.history, m.run
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return runSavedMsg{Err: history.SaveRun(ctx, run)}
	}
}

// Record returns the run record as it stands.
func (m Model) Record() storage.Run {
	return m.run
}

// Synchronizer exposes the poll loop, mainly for inspection.
func (m Model) Synchronizer() *Synchronizer {
	return m.sync
}

// Message returns the text in the message bar.
func (m Model) Message() string {
	return m.bar.Text()
}

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	choiceBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("14")).
			Padding(0, 1)
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.gridView())
	b.WriteByte('\n')
	b.WriteString(m.bar.View(m.width))
	if panel := m.choicePanel(); panel != "" {
		b.WriteByte('\n')
		b.WriteString(panel)
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	st := m.sync.Stats()
	parts := []string{
		phaseStyle.Render(strings.ToUpper(m.sync.Phase().String())),
		statusStyle.Render(m.server),
		statusStyle.Render(fmt.Sprintf("polls %d  dropped %d  failures %d", st.Polls, st.Dropped, st.Failures)),
	}
	if snap, ok := m.sync.Snapshot(); ok && snap.Player != nil {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("player (%d,%d)", snap.Player.X, snap.Player.Y)))
	}
	if st.Failing {
		parts = append(parts, warnStyle.Render("server unreachable"))
	}
	if m.sync.State() == LoopHalted {
		parts = append(parts, warnStyle.Render("halted"))
	}
	return strings.Join(parts, statusStyle.Render(" │ "))
}

func (m Model) gridView() string {
	if _, ok := m.sync.Snapshot(); !ok {
		return noticeStyle.Render("Waiting for " + m.server + " ...")
	}
	surface := m.renderer.Surface()
	if m.width > 0 && m.height > 0 {
		needW, needH := surface.Width(), surface.Height()+chromeRows
		if needW > m.width || needH > m.height {
			return noticeStyle.Render(fmt.Sprintf("Window too small: need %dx%d, have %dx%d",
				needW, needH, m.width, m.height))
		}
	}
	return RenderScreen(surface)
}

func (m Model) choicePanel() string {
	choices := m.notes.Choices()
	if len(choices) == 0 || m.sync.Phase() == game.PhaseGameOver {
		return ""
	}
	lines := make([]string, len(choices))
	for i, c := range choices {
		lines[i] = fmt.Sprintf("[%d] %s", c.ID, c.Text)
	}
	return choiceBorder.Render(strings.Join(lines, "\n"))
}

// Run starts the client in the current terminal and blocks until it quits.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
