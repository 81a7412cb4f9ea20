package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"partyline/internal/chat"
	"partyline/internal/conn"
	"partyline/internal/identity"
)

// chromeRows is the vertical space taken by everything that is not
// scrollback: title bar, notice line, input, status bar.
const chromeRows = 6

// Model is the TUI state. The tea runtime is the render/input context; all
// session mutation happens inside Update.
type Model struct {
	session *chat.Session
	mgr     *conn.Manager

	serverURL string
	connState conn.State
	connErr   error

	ti     textinput.Model
	width  int
	height int
	now    time.Time

	// inline status line for parse errors and notices
	notice string

	// slash commands UI state
	slashVisible  bool
	slashFiltered []SlashCmd
	slashIndex    int

	closingDown bool
	quitting    bool
}

// New builds the model for a validated identity. The first connect is
// issued from Init.
func New(id identity.Identity, mgr *conn.Manager, serverURL string) Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.Placeholder = "message or /command"
	ti.CharLimit = 1024
	ti.Focus()

	m := Model{
		session:   chat.NewSession(id, 16),
		mgr:       mgr,
		serverURL: serverURL,
		connState: conn.Disconnected,
		ti:        ti,
	}
	m.refreshSlash()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		connectCmd(m.mgr, m.serverURL),
		tickCmd(),
	)
}

// Session exposes the session for tests.
func (m Model) Session() *chat.Session { return m.session }

// ConnState exposes the tracked connection state for tests.
func (m Model) ConnState() conn.State { return m.connState }
