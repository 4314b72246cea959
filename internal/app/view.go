package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"chardiff/internal/session"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	footer := m.footer()
	switch m.mode {
	case modeEdit:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderEditor(), footer)
	case modeHistory:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHistory(), footer)
	}

	parts := []string{m.statusBar(), m.renderPanes()}
	if dock := m.renderDock(); dock != "" {
		parts = append(parts, dock)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) statusBar() string {
	opts := m.ctl.Options()
	segments := []string{
		"chardiff",
		"ignore case: " + onOff(opts.IgnoreCase),
		"ignore whitespace: " + onOff(opts.IgnoreWhitespace),
	}
	switch {
	case m.loading:
		segments = append(segments, "loading...")
	case m.hasResult:
		st := m.result.Stats()
		summary := "identical"
		if n := st.Differences(); n > 0 {
			summary = fmt.Sprintf("%d difference(s) in %d position(s)", n, m.result.Len())
		}
		if m.stale {
			summary += " (options changed, press c)"
		}
		segments = append(segments, summary)
	default:
		segments = append(segments, "not compared")
	}
	segments = append(segments, fmt.Sprintf("history: %d", len(m.ctl.History())))

	text := ansi.Truncate(strings.Join(segments, " | "), max(1, m.width), "")
	return lipgloss.NewStyle().
		Width(max(1, m.width)).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("63")).
		Render(text)
}

func (m Model) footer() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render(truncateLinesToWidth(m.helpText(), m.width))
}

func (m Model) helpText() string {
	switch m.mode {
	case modePrompt:
		return "enter load | esc cancel"
	case modeEdit:
		return "ctrl+s save | esc discard"
	case modeHistory:
		return "j/k move | enter load selected | Y copy history | esc back"
	}
	if !m.helpOpen {
		return "c compare | o/O open left/right | a attach | e edit | i/w toggle options | x clear | H history | y/Y copy | ? help | q quit"
	}
	return strings.Join([]string{
		"Global: q quit, ? toggle help, tab switch focused side, c/enter compare, x clear both sides",
		"Sources: o open left, O open right, a attach one or two files, e edit focused side (ctrl+s save, esc discard)",
		"Options: i ignore case, w ignore whitespace",
		"Panes: j/k scroll, ctrl-f/ctrl-b page, g/G top/bottom, h/l scroll sideways",
		"History: H open viewer, Y copy history, y copy comparison summary",
	}, "\n")
}

func (m Model) dockHeight() int {
	if dock := m.renderDock(); dock != "" {
		return lipgloss.Height(dock)
	}
	return 0
}

func (m Model) renderDock() string {
	if m.mode == modePrompt {
		return m.renderPromptDock()
	}
	if m.alertMsg != "" {
		return m.renderAlertDock()
	}
	return ""
}

func (m Model) renderPromptDock() string {
	title := "Open Left"
	switch m.promptKind {
	case promptOpenRight:
		title = "Open Right"
	case promptAttach:
		title = "Attach Files"
	}

	contentW := max(10, m.width-2)
	input := m.prompt
	input.Width = max(1, contentW-9)
	inputBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(input.View())
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("Enter load | Esc cancel | git:<rev>:<path> reads from git")

	return m.renderDockPanel(title, lipgloss.Color("39"), lipgloss.Color("39"), inputBox+"\n\n"+hint)
}

func (m Model) renderAlertDock() string {
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("Auto-hides after 3s")
	body := strings.Join([]string{
		m.alertMsg,
		"",
		hint,
	}, "\n")
	return m.renderDockPanel("Notice", lipgloss.Color("220"), lipgloss.Color("220"), body)
}

func (m Model) renderDockPanel(title string, titleColor, borderColor lipgloss.Color, body string) string {
	contentW := max(10, m.width-2)
	titleText := ansi.Truncate(title, max(1, contentW-2), "")
	titleBar := lipgloss.NewStyle().
		Width(contentW).
		Padding(0, 1).
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(titleColor).
		Render(titleText)

	bodyBlock := lipgloss.NewStyle().
		Width(contentW).
		Padding(1, 2).
		Render(body)

	return lipgloss.NewStyle().
		Width(contentW).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(titleBar + "\n" + bodyBlock)
}

func (m Model) renderPanes() string {
	left := m.renderSidePane(m.leftView.Width, m.leftView.Height, session.SideLeft, m.leftView.View(), false)
	right := m.renderSidePane(m.rightView.Width, m.rightView.Height, session.SideRight, m.rightView.View(), true)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderSidePane(width, height int, side session.Side, body string, withRightBorder bool) string {
	borderColor := lipgloss.Color("245")
	if m.focus == side {
		borderColor = lipgloss.Color("39")
	}

	paneStyle := lipgloss.NewStyle().
		Width(max(1, width)).
		Height(max(1, height+2)).
		Border(lipgloss.NormalBorder(), true, withRightBorder, true, true).
		BorderForeground(borderColor)

	label := "Left"
	if side == session.SideRight {
		label = "Right"
	}
	buf := m.ctl.Buffer(side)
	title := label + ": " + sourceTitle(buf)
	if m.xOffset > 0 {
		title += fmt.Sprintf(" [+%d]", m.xOffset)
	}

	header := lipgloss.NewStyle().Bold(true).Width(width).MaxWidth(width).Render(ansi.Truncate(title, max(1, width), "…"))
	return paneStyle.Render(header + "\n\n" + body)
}

func (m Model) renderEditor() string {
	label := "Left"
	if m.editSide == session.SideRight {
		label = "Right"
	}
	title := fmt.Sprintf("Edit %s: %s", label, sourceTitle(m.ctl.Buffer(m.editSide)))
	return m.renderDockPanel(title, lipgloss.Color("63"), lipgloss.Color("63"), m.editor.View())
}

func (m Model) renderHistory() string {
	body := m.history.View()
	if len(m.ctl.History()) == 0 {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("No comparisons recorded yet. Compare two loaded files to add one.")
	}
	return m.renderDockPanel("Comparison History", lipgloss.Color("63"), lipgloss.Color("63"), body)
}

func sourceTitle(b session.Buffer) string {
	if b.SourceID == "" {
		if b.Content == "" {
			return "(empty)"
		}
		return "(unsaved text)"
	}
	return b.SourceID
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func truncateLinesToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return strings.Join(lines, "\n")
}
