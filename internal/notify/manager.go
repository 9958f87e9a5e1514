// Package notify decides which single line of text the player sees.
//
// Several sources compete for the message bar: the terminal goal message,
// the choice prompt, the tutorial hint and short flash notices triggered by
// input. Manager resolves them by priority on every poll and owns the one
// flash timer.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/game"
)

// DefaultFlashDuration is used when Flash is given no duration.
const DefaultFlashDuration = 2 * time.Second

// Source identifies where a message came from. Higher values win.
type Source int

const (
	SourceNone Source = iota
	SourceFlash
	SourceTutorial
	SourceChoice
	SourceTerminal
)

func (s Source) String() string {
	switch s {
	case SourceFlash:
		return "flash"
	case SourceTutorial:
		return "tutorial"
	case SourceChoice:
		return "choice"
	case SourceTerminal:
		return "terminal"
	default:
		return "none"
	}
}

// Message is one line for the message bar.
type Message struct {
	Text   string
	Color  core.Color
	Source Source
}

// Sink displays messages.
type Sink interface {
	Show(Message)
	Clear()
}

// Colors per source.
const (
	TerminalColor = core.ColorBrightYellow
	ChoiceColor   = core.ColorBrightCyan
	TutorialColor = core.ColorBrightWhite
)

// Token identifies one flash. Zero is never issued.
type Token uint64

// Timer asks the caller to call Expire(Token) once After has elapsed.
type Timer struct {
	Token Token
	After time.Duration
}

// Armed reports whether the timer needs scheduling.
func (t Timer) Armed() bool {
	return t.Token != 0
}

// Manager owns the message bar. It is not safe for concurrent use; the
// event loop is its only caller.
type Manager struct {
	sink    Sink
	current Message

	terminal string
	choice   string
	tutorial string
	choices  []game.Choice

	flash       Message
	flashToken  Token
	flashActive bool
}

// New creates a manager writing to sink.
func New(sink Sink) *Manager {
	return &Manager{sink: sink}
}

// Present re-evaluates the poll-driven sources against s. The terminal
// message, once shown, is latched and nothing replaces it afterwards.
func (m *Manager) Present(s game.Snapshot, phase game.Phase) {
	if m.terminal != "" {
		return
	}

	m.choice, m.tutorial, m.choices = "", "", nil
	if phase == game.PhaseGameOver {
		m.terminal = s.GoalMessage
		if m.terminal == "" {
			m.terminal = "Game over"
		}
		m.flashActive = false
		m.resolve()
		return
	}
	if s.HasChoices() {
		m.choices = append([]game.Choice(nil), s.Choices...)
		m.choice = ChoicePrompt(s.Choices)
	}
	if s.HasTutorial() {
		m.tutorial = "TUTORIAL: " + s.Tutorial
	}
	m.resolve()
}

// Flash shows text for d (DefaultFlashDuration if d <= 0), replacing any
// pending flash. The returned timer must be fired with Expire. After the
// terminal message is shown, flashes are ignored and the timer is unarmed.
func (m *Manager) Flash(text string, color core.Color, d time.Duration) Timer {
	if m.terminal != "" {
		return Timer{}
	}
	if d <= 0 {
		d = DefaultFlashDuration
	}
	m.flashToken++
	m.flash = Message{Text: text, Color: color, Source: SourceFlash}
	m.flashActive = true
	m.resolve()
	return Timer{Token: m.flashToken, After: d}
}

// Expire ends the flash identified by tok. Tokens of replaced flashes are
// ignored.
func (m *Manager) Expire(tok Token) {
	if tok == 0 || tok != m.flashToken || !m.flashActive {
		return
	}
	m.flashActive = false
	m.resolve()
}

// Current returns the message on display.
func (m *Manager) Current() Message {
	return m.current
}

// Choices returns the choices of the last presented snapshot, for a
// separate choice panel.
func (m *Manager) Choices() []game.Choice {
	return m.choices
}

// FlashPending reports whether a flash timer is running.
func (m *Manager) FlashPending() bool {
	return m.flashActive
}

func (m *Manager) pick() Message {
	switch {
	case m.terminal != "":
		return Message{Text: m.terminal, Color: TerminalColor, Source: SourceTerminal}
	case m.choice != "":
		return Message{Text: m.choice, Color: ChoiceColor, Source: SourceChoice}
	case m.tutorial != "":
		return Message{Text: m.tutorial, Color: TutorialColor, Source: SourceTutorial}
	case m.flashActive:
		return m.flash
	default:
		return Message{}
	}
}

func (m *Manager) resolve() {
	next := m.pick()
	if next == m.current {
		return
	}
	m.current = next
	if m.sink == nil {
		return
	}
	if next.Source == SourceNone {
		m.sink.Clear()
		return
	}
	m.sink.Show(next)
}

// ChoicePrompt builds the decision prompt from choices in list order.
func ChoicePrompt(choices []game.Choice) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprintf("[%d] for %s", c.ID, c.Text)
	}
	return "DECISION TIME! Press " + strings.Join(parts, "   ")
}
