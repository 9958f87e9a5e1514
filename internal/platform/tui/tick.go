// Package tui provides the Bubble Tea integration for the platformer client.
// Bubble Tea's update loop is the client's only event loop: poll ticks, key
// presses, fetch results and flash timers all arrive there as messages.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/notify"
)

// PollTickMsg starts one poll cycle. Deadline is the instant the tick was
// scheduled for.
type PollTickMsg struct {
	Deadline time.Time
}

// FlashExpiredMsg is sent when a flash notice's timer runs out.
type FlashExpiredMsg struct {
	Token notify.Token
}

// Scheduler delivers fn's message after d. tea.Tick is the production one.
type Scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// flashCmd arms the timer of a flash notice.
func flashCmd(schedule Scheduler, t notify.Timer) tea.Cmd {
	if !t.Armed() {
		return nil
	}
	tok := t.Token
	return schedule(t.After, func(time.Time) tea.Msg {
		return FlashExpiredMsg{Token: tok}
	})
}
