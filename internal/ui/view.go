package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"partyline/internal/chat"
	"partyline/internal/conn"
	appver "partyline/internal/version"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("7"))
)

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	width := m.width
	if width < 20 {
		width = 80
	}

	b := &strings.Builder{}
	b.WriteString(m.renderTitle(width))
	b.WriteString("\n")
	b.WriteString(m.renderMessages())
	if m.notice != "" {
		b.WriteString("  " + noticeStyle.Render(m.notice) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString("  " + m.ti.View() + "\n")
	if m.slashVisible {
		b.WriteString(renderSlashHelp(width, m.slashFiltered, m.slashIndex))
	}
	b.WriteString(m.renderStatusBar(width))
	return b.String()
}

func (m Model) renderTitle(width int) string {
	title := fmt.Sprintf("Room: %s[%d]", m.session.Room, m.session.ClientCount)
	s := "  " + titleStyle.Render(title)
	if !m.session.Buffer.AtBottom() {
		s += dimStyle.Render("  ↓ more below")
	}
	if w := xansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func (m Model) renderMessages() string {
	var b strings.Builder
	window := m.session.Buffer.Window()
	rows := m.height - chromeRows
	if rows < 1 {
		rows = 1
	}
	for _, msg := range window {
		b.WriteString("  " + renderMessage(msg, m.session.Room) + "\n")
	}
	for i := len(window); i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage paints one scrollback line: sender tinted by their color,
// room tag shown when the message is from elsewhere.
func renderMessage(msg chat.Message, currentRoom string) string {
	style := lipgloss.NewStyle()
	if len(msg.Color) == 6 {
		style = style.Foreground(lipgloss.Color("#" + msg.Color))
	}
	var b strings.Builder
	if msg.Room != "" && msg.Room != currentRoom {
		b.WriteString(dimStyle.Render("[" + msg.Room + "] "))
	}
	if msg.Sender != "" {
		b.WriteString(style.Render(msg.Sender + ": "))
		b.WriteString(msg.Text)
	} else {
		b.WriteString(style.Render(msg.Text))
	}
	return b.String()
}

func (m Model) renderStatusBar(width int) string {
	var left string
	switch {
	case m.connErr != nil:
		left = errStyle.Render("✗ " + m.connErr.Error())
	case m.connState == conn.Connected:
		left = fmt.Sprintf("● %s", m.serverURL)
	case m.connState == conn.Connecting:
		left = "… connecting to " + m.serverURL
	case m.connState == conn.Closing:
		left = "… closing"
	default:
		left = "○ " + m.connState.String()
	}
	right := m.session.Nickname + " · v" + appver.AppVersion
	gap := width - xansi.StringWidth("  "+left) - xansi.StringWidth(right+" ")
	if gap < 1 {
		gap = 1
	}
	line := "  " + left + strings.Repeat(" ", gap) + right + " "
	if m.connErr != nil {
		return line
	}
	return barStyle.Render(line)
}
