package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/game"
)

// KeyMap holds the client's key bindings. It implements help.KeyMap.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Jump   key.Binding
	Save   key.Binding
	Undo   key.Binding
	Replay key.Binding
	Reset  key.Binding
	Choose key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "jump"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Replay: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "replay"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Choose: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "choose"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Choose, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Jump},
		{k.Save, k.Undo, k.Replay, k.Reset},
		{k.Choose, k.Help, k.Quit},
	}
}

// Action is what a key press asks for.
type Action struct {
	Command    game.Command
	HasCommand bool
	Flash      string
	FlashColor core.Color
	Help       bool
	Quit       bool
}

// Local acknowledgments shown for action keys.
const (
	FlashSaved  = "Game saved!"
	FlashUndo   = "Undo last move!"
	FlashReplay = "Replay has started!"
	FlashReset  = "Level reset!"
)

// Resolve maps a key press to an action. The second result is false for
// unbound keys.
func (k KeyMap) Resolve(msg tea.KeyMsg) (Action, bool) {
	command := func(t game.CommandType) (Action, bool) {
		return Action{Command: game.NewCommand(t), HasCommand: true}, true
	}
	ack := func(t game.CommandType, text string, color core.Color) (Action, bool) {
		return Action{Command: game.NewCommand(t), HasCommand: true, Flash: text, FlashColor: color}, true
	}

	switch {
	case key.Matches(msg, k.Quit):
		return Action{Quit: true}, true
	case key.Matches(msg, k.Help):
		return Action{Help: true}, true
	case key.Matches(msg, k.Left):
		return command(game.CommandLeft)
	case key.Matches(msg, k.Right):
		return command(game.CommandRight)
	case key.Matches(msg, k.Up):
		return command(game.CommandUp)
	case key.Matches(msg, k.Jump):
		return command(game.CommandJump)
	case key.Matches(msg, k.Save):
		return ack(game.CommandSave, FlashSaved, core.ColorBrightGreen)
	case key.Matches(msg, k.Undo):
		return ack(game.CommandUndo, FlashUndo, core.ColorBrightYellow)
	case key.Matches(msg, k.Replay):
		return ack(game.CommandReplay, FlashReplay, core.ColorBrightCyan)
	case key.Matches(msg, k.Reset):
		return ack(game.CommandReset, FlashReset, core.ColorBrightMagenta)
	case key.Matches(msg, k.Choose):
		id := int(msg.String()[0] - '0')
		return Action{Command: game.Choose(id), HasCommand: true}, true
	}
	return Action{}, false
}
