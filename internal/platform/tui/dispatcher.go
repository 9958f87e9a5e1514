package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/game"
)

// DefaultSendTimeout bounds one /input post.
const DefaultSendTimeout = 2 * time.Second

// Sender delivers commands to the authority.
type Sender interface {
	SendCommand(ctx context.Context, cmd game.Command) error
}

// CommandSentMsg reports the outcome of one post. It is only logged.
type CommandSentMsg struct {
	Command game.Command
	Err     error
}

// Dispatcher sends commands without waiting for them. There is no retry
// and no de-duplication; send order is the only ordering.
type Dispatcher struct {
	sender     Sender
	timeout    time.Duration
	logger     *log.Logger
	sent       int
	suppressed int
}

// NewDispatcher creates a dispatcher. A zero timeout uses DefaultSendTimeout.
func NewDispatcher(s Sender, timeout time.Duration, logger *log.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{sender: s, timeout: timeout, logger: logger}
}

// Dispatch returns a command posting cmd, or nil when the run is over.
func (d *Dispatcher) Dispatch(cmd game.Command, phase game.Phase) tea.Cmd {
	if phase == game.PhaseGameOver {
		d.suppressed++
		d.logger.Debug("command suppressed after game over", "command", cmd.String())
		return nil
	}
	d.sent++

	sender, timeout := d.sender, d.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return CommandSentMsg{Command: cmd, Err: sender.SendCommand(ctx, cmd)}
	}
}

// HandleSent logs the outcome of a post.
func (d *Dispatcher) HandleSent(msg CommandSentMsg) {
	if msg.Err != nil {
		d.logger.Debug("command send failed", "command", msg.Command.String(), "err", msg.Err)
		return
	}
	d.logger.Debug("command delivered", "command", msg.Command.String())
}

// Sent returns how many commands were handed to the sender.
func (d *Dispatcher) Sent() int {
	return d.sent
}

// Suppressed returns how many commands were dropped after game over.
func (d *Dispatcher) Suppressed() int {
	return d.suppressed
}
