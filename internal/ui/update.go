package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"partyline/internal/chat"
	"partyline/internal/conn"
	"partyline/internal/protocol"
	"partyline/internal/system"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - chromeRows
		if rows < 1 {
			rows = 1
		}
		m.session.Buffer.SetRows(rows)
		tiw := msg.Width - 4
		if tiw < 10 {
			tiw = 10
		}
		m.ti.Width = tiw
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.now = time.Time(msg)
		// Pending network events are applied before any keyboard event of
		// this tick, in arrival order.
		m.drainStatus()
		m.drainFrames()
		if m.quitting {
			return m, nil
		}
		return m, tickCmd()

	case connectDoneMsg:
		m.drainStatus()
		if msg.err != nil {
			m.connErr = msg.err
			return m, nil
		}
		m.serverURL = msg.url
		m.connErr = nil
		// Announce ourselves in the current room on every fresh link.
		return m, sendCmd(m.mgr, m.joinFrame(m.session.Room, ""))

	case sendDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, conn.ErrNotConnected) {
				m.notice = chat.NotConnectedErr().Error()
			} else {
				m.notice = "send failed: " + msg.err.Error()
				system.Logger.Warn("send failed", "err", msg.err)
			}
		}
		return m, nil

	case closeDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.closingDown {
		// Only a second interrupt is honored while teardown runs.
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m.beginShutdown()
	case "esc":
		if m.slashVisible {
			m.ti.SetValue("")
			m.refreshSlash()
			return m, nil
		}
		return m.beginShutdown()
	case "up":
		if m.slashVisible {
			if n := len(m.slashFiltered); n > 0 {
				m.slashIndex = (m.slashIndex - 1 + n) % n
			}
			return m, nil
		}
		m.session.Buffer.Scroll(-1)
		return m, nil
	case "down":
		if m.slashVisible {
			if n := len(m.slashFiltered); n > 0 {
				m.slashIndex = (m.slashIndex + 1) % n
			}
			return m, nil
		}
		m.session.Buffer.Scroll(1)
		return m, nil
	case "pgup":
		m.session.Buffer.Scroll(-m.pageSize())
		return m, nil
	case "pgdown":
		m.session.Buffer.Scroll(m.pageSize())
		return m, nil
	case "tab":
		if m.slashVisible {
			m.completeSlash()
			m.refreshSlash()
		}
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		// Messages that arrived before this keystroke land first.
		m.drainStatus()
		m.drainFrames()
		line := m.ti.Value()
		m.ti.SetValue("")
		m.refreshSlash()
		return m.submit(line)
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	m.refreshSlash()
	return m, cmd
}

func (m Model) pageSize() int {
	n := m.height - chromeRows
	if n < 1 {
		n = 1
	}
	return n
}

// submit parses one composed line and applies the resulting command.
// Parse errors stay local: shown inline, no network frame, session
// untouched.
func (m Model) submit(line string) (tea.Model, tea.Cmd) {
	if len(line) == 0 {
		return m, nil
	}
	command, err := chat.Parse(line)
	if err != nil {
		var perr *chat.ParseError
		if errors.As(err, &perr) {
			m.notice = perr.Error()
			return m, nil
		}
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	switch c := command.(type) {
	case chat.QuitCmd:
		return m.beginShutdown()
	case chat.ClearCmd:
		m.session.Buffer.Clear()
		return m, nil
	case chat.ColorCmd:
		m.session.SetColor(c.Hex)
		m.notice = "color set to " + c.Hex
		return m, nil
	case chat.ChatCmd:
		if c.Text == "" {
			return m, nil
		}
		if m.connState != conn.Connected {
			m.notice = chat.NotConnectedErr().Error()
			return m, nil
		}
		f := protocol.Chat(c.Text)
		f.Nickname = m.session.Nickname
		f.Color = m.session.Color
		f.Room = m.session.Room
		return m, sendCmd(m.mgr, f)
	case chat.JoinCmd:
		if m.connState != conn.Connected {
			m.notice = chat.NotConnectedErr().Error()
			return m, nil
		}
		m.session.EnterRoom(c.Room)
		return m, sendCmd(m.mgr, m.joinFrame(c.Room, c.Password))
	case chat.ServerCmd:
		m.connErr = nil
		m.notice = "switching to " + c.URL
		return m, switchServerCmd(m.mgr, c.URL)
	}
	return m, nil
}

func (m *Model) joinFrame(room, password string) protocol.Frame {
	f := protocol.Join(room, password)
	f.Nickname = m.session.Nickname
	f.Color = m.session.Color
	return f
}

// drainFrames applies every currently buffered inbound frame, in arrival
// order, without blocking.
func (m *Model) drainFrames() {
	frames := m.mgr.Frames()
	if frames == nil {
		return
	}
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return
			}
			m.applyFrame(f)
		default:
			return
		}
	}
}

// drainStatus folds pending connection state transitions into the model.
func (m *Model) drainStatus() {
	for {
		select {
		case ev := <-m.mgr.Events():
			m.connState = ev.State
			if ev.URL != "" {
				m.serverURL = ev.URL
			}
			if ev.Err != nil {
				m.connErr = ev.Err
			}
			system.Logger.Debug("connection state", "state", ev.State, "url", ev.URL, "err", ev.Err)
		default:
			return
		}
	}
}

// applyFrame folds one inbound frame into the session. Malformed frames
// never get here; the reader drops them.
func (m *Model) applyFrame(f protocol.Frame) {
	switch f.Kind {
	case protocol.KindChat:
		m.session.Buffer.Append(chat.Message{
			Sender: f.Nickname,
			Color:  f.Color,
			Room:   f.Room,
			Text:   f.Text,
			Time:   time.Now(),
		})
	case protocol.KindClientCount:
		if f.Count > 0 {
			m.session.ClientCount = f.Count
		}
	case protocol.KindJoin:
		// Presence notices carry no sender prefix.
		m.session.Buffer.Append(chat.Message{
			Color: f.Color,
			Room:  f.Room,
			Text:  fmt.Sprintf("* %s joined %s", f.Nickname, f.Room),
			Time:  time.Now(),
		})
	case protocol.KindLeave:
		m.session.Buffer.Append(chat.Message{
			Color: f.Color,
			Room:  f.Room,
			Text:  fmt.Sprintf("* %s left", f.Nickname),
			Time:  time.Now(),
		})
	case protocol.KindError:
		m.notice = "server error: " + f.Text
	}
}

// beginShutdown starts teardown: the close is acknowledged (or times out)
// before the loop exits.
func (m Model) beginShutdown() (tea.Model, tea.Cmd) {
	if m.closingDown {
		return m, nil
	}
	m.closingDown = true
	return m, shutdownCmd(m.mgr)
}
