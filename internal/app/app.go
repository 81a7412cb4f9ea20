// Package app wires identity setup, the connection manager, and the TUI.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"partyline/internal/config"
	"partyline/internal/conn"
	"partyline/internal/identity"
	"partyline/internal/system"
	"partyline/internal/ui"
)

// Start runs the client against serverURL. Identity prompts come first;
// the session and the first connect only exist once both values validate.
func Start(serverURL string) error {
	id, err := identity.Prompt(config.LoadIdentity())
	if err != nil {
		return err
	}
	if err := config.SaveIdentity(id); err != nil {
		system.Logger.Warn("identity not saved", "err", err)
	}

	// The TUI owns the terminal from here on; logs go to a file.
	if path, perr := config.LogPath(); perr == nil {
		closer := system.UseLogFile(path)
		defer func() { _ = closer.Close() }()
	}

	mgr := conn.New(conn.WSDialer{})
	p := tea.NewProgram(ui.New(id, mgr, serverURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
