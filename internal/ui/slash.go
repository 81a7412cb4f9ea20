package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
)

// SlashCmd describes one entry of the command palette.
type SlashCmd struct {
	Name    string
	Aliases []string
	Desc    string
}

var slashCmds = []SlashCmd{
	{Name: "/clear", Desc: "Clear the scrollback"},
	{Name: "/color", Desc: "Change your display color (rrggbb)"},
	{Name: "/join", Desc: "Join a room, optionally with a password"},
	{Name: "/quit", Aliases: []string{"/exit"}, Desc: "Leave the chat"},
	{Name: "/server", Desc: "Switch to another server (ws:// or wss://)"},
}

// refreshSlash recomputes the palette from the current input. Visible only
// while the line starts with '/'.
func (m *Model) refreshSlash() {
	v := m.ti.Value()
	if !strings.HasPrefix(v, "/") {
		m.slashVisible = false
		m.slashFiltered = nil
		m.slashIndex = 0
		return
	}
	m.slashVisible = true
	want := v
	if sp := strings.IndexAny(v, " \t"); sp >= 0 {
		want = v[:sp]
	}
	m.slashFiltered = filterSlashCommands(want)
	if m.slashIndex >= len(m.slashFiltered) {
		m.slashIndex = 0
	}
}

// filterSlashCommands fuzzy-matches the typed token against names and
// aliases, best match first.
func filterSlashCommands(token string) []SlashCmd {
	q := strings.TrimPrefix(strings.ToLower(token), "/")
	if q == "" {
		return slashCmds
	}
	names := make([]string, 0, len(slashCmds)*2)
	idx := make([]int, 0, len(slashCmds)*2)
	for i, c := range slashCmds {
		names = append(names, strings.TrimPrefix(c.Name, "/"))
		idx = append(idx, i)
		for _, a := range c.Aliases {
			names = append(names, strings.TrimPrefix(a, "/"))
			idx = append(idx, i)
		}
	}
	matches := fuzzy.Find(q, names)
	seen := make(map[int]bool, len(matches))
	res := make([]SlashCmd, 0, len(matches))
	for _, mt := range matches {
		i := idx[mt.Index]
		if seen[i] {
			continue
		}
		seen[i] = true
		res = append(res, slashCmds[i])
	}
	return res
}

// completeSlash replaces the first token of the input with the selected
// command name, keeping any argument suffix.
func (m *Model) completeSlash() {
	if len(m.slashFiltered) == 0 {
		return
	}
	sel := m.slashFiltered[m.slashIndex].Name
	v := m.ti.Value()
	if sp := strings.IndexAny(v, " \t"); sp >= 0 {
		v = sel + v[sp:]
	} else {
		v = sel + " "
	}
	m.ti.SetValue(v)
	m.ti.CursorEnd()
}

func renderSlashHelp(width int, cmds []SlashCmd, sel int) string {
	inner := width - 2
	if inner < 20 {
		inner = 20
	}
	nameWidth := 10
	hl := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render
	var b strings.Builder
	b.WriteString("╭" + strings.Repeat("─", inner) + "╮\n")
	if len(cmds) == 0 {
		cmds = []SlashCmd{{Name: "", Desc: "no matches"}}
		sel = -1
	}
	for i, c := range cmds {
		line := fmt.Sprintf("  %-*s  %s", nameWidth, c.Name, dim(c.Desc))
		if w := xansi.StringWidth(line); w > inner {
			line = xansi.Truncate(line, inner, "…")
		}
		if i == sel {
			line = hl(line)
		}
		b.WriteString("│")
		b.WriteString(line)
		if pad := inner - xansi.StringWidth(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("│\n")
	}
	b.WriteString("╰" + strings.Repeat("─", inner) + "╯\n")
	b.WriteString("  ↑/↓ select · Tab complete · Enter run · Esc close\n")
	return b.String()
}
