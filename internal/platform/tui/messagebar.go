package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-platformer/internal/notify"
)

// messageBar is the text sink of the notification manager.
type messageBar struct {
	msg     notify.Message
	visible bool
}

func (b *messageBar) Show(m notify.Message) {
	b.msg = m
	b.visible = true
}

func (b *messageBar) Clear() {
	b.msg = notify.Message{}
	b.visible = false
}

// Text returns the visible text, or "" when cleared.
func (b *messageBar) Text() string {
	if !b.visible {
		return ""
	}
	return b.msg.Text
}

func (b *messageBar) View(width int) string {
	st := lipgloss.NewStyle().Bold(true)
	if code := b.msg.Color.Code(); code != "" {
		st = st.Foreground(lipgloss.Color(code))
	}
	if width > 0 {
		st = st.MaxWidth(width)
	}
	if !b.visible {
		return " "
	}
	return st.Render(b.msg.Text)
}
