package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"partyline/internal/conn"
	"partyline/internal/protocol"
	"partyline/internal/system"
)

// tickInterval is the poll budget: every tick drains pending network
// events and re-renders. Matches a few-tens-of-milliseconds cadence.
const tickInterval = 50 * time.Millisecond

// closeTimeout bounds shutdown: the loop exits once the close is
// acknowledged or this elapses.
const closeTimeout = 2 * time.Second

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// connectCmd dials url on a fresh link.
func connectCmd(mgr *conn.Manager, url string) tea.Cmd {
	return func() tea.Msg {
		err := mgr.Connect(context.Background(), url)
		return connectDoneMsg{url: url, err: err}
	}
}

// switchServerCmd fully closes the existing link — observing its
// termination — before dialing the new one.
func switchServerCmd(mgr *conn.Manager, url string) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.Close(); err != nil {
			return connectDoneMsg{url: url, err: err}
		}
		err := mgr.Connect(context.Background(), url)
		return connectDoneMsg{url: url, err: err}
	}
}

// sendCmd forwards one frame over the live link.
func sendCmd(mgr *conn.Manager, f protocol.Frame) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: mgr.Send(f)}
	}
}

// shutdownCmd closes the link, bounded by closeTimeout.
func shutdownCmd(mgr *conn.Manager) tea.Cmd {
	return func() tea.Msg {
		done := make(chan struct{})
		go func() {
			_ = mgr.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(closeTimeout):
			system.Logger.Warn("connection close timed out during shutdown")
		}
		return closeDoneMsg{}
	}
}
