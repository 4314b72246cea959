package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"chardiff/internal/clipboard"
	"chardiff/internal/compare"
	"chardiff/internal/diffview"
	"chardiff/internal/report"
	"chardiff/internal/session"
	"chardiff/internal/watch"
)

type viewMode int

const (
	modeCompare viewMode = iota
	modePrompt
	modeEdit
	modeHistory
)

type promptKind int

const (
	promptOpenLeft promptKind = iota
	promptOpenRight
	promptAttach
)

// loadOrigin records why sources were fetched; it decides how results are
// reported and whether a comparison follows.
type loadOrigin int

const (
	originOpen loadOrigin = iota
	originAttach
	originHistory
	originWatch
	originStartup
)

const horizontalStep = 8

type sourcesLoadedMsg struct {
	origin       loadOrigin
	results      []session.Fetched
	compareAfter bool
}

type clipboardResultMsg struct {
	what string
	err  error
}

type sourceChangedMsg struct {
	path string
}

type watchErrMsg struct {
	err error
}

type alertTickMsg struct{}

// FileResolver maps a source identifier to a local file, when there is one.
type FileResolver interface {
	FilePath(sourceID string) (string, bool)
}

// Deps are the collaborators the UI drives.
type Deps struct {
	Controller  *session.Controller
	Files       FileResolver
	Watcher     *watch.Watcher
	Logger      zerolog.Logger
	Placeholder rune
	// Initial identifiers are attached on start; two or more also trigger a
	// comparison.
	Initial []string
}

// Model is the Bubble Tea state container for the app.
type Model struct {
	keys    KeyMap
	ctl     *session.Controller
	files   FileResolver
	watcher *watch.Watcher
	log     zerolog.Logger
	initial []string

	width  int
	height int
	ready  bool

	mode     viewMode
	focus    session.Side
	helpOpen bool

	placeholder rune
	styles      diffview.Styles
	result      compare.Result
	hasResult   bool
	stale       bool
	panes       diffview.Panes
	xOffset     int
	leftView    viewport.Model
	rightView   viewport.Model
	paneDirty   bool

	prompt     textinput.Model
	promptKind promptKind
	editor     textarea.Model
	editSide   session.Side
	history    table.Model

	loading    bool
	alertMsg   string
	alertUntil time.Time
}

func NewModel(deps Deps) Model {
	prompt := textinput.New()
	prompt.Prompt = "› "
	prompt.CharLimit = 4096
	prompt.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	prompt.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0

	history := table.New(
		table.WithColumns(historyColumns(80)),
		table.WithFocused(true),
	)

	placeholder := deps.Placeholder
	if placeholder == 0 {
		placeholder = ' '
	}

	m := Model{
		keys:        defaultKeyMap(),
		ctl:         deps.Controller,
		files:       deps.Files,
		watcher:     deps.Watcher,
		log:         deps.Logger,
		initial:     deps.Initial,
		focus:       session.SideLeft,
		placeholder: placeholder,
		styles:      diffview.DefaultStyles(),
		prompt:      prompt,
		editor:      editor,
		history:     history,
		paneDirty:   true,
		loading:     len(deps.Initial) > 0,
	}
	m.leftView = viewport.New(1, 1)
	m.rightView = viewport.New(1, 1)
	m.panes = diffview.Plain("", "")
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{alertTickCmd()}
	if plan := m.ctl.AttachPlan(m.initial); len(plan) > 0 {
		cmds = append(cmds, m.loadSourcesCmd(originStartup, plan, len(plan) >= 2))
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForChangeCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case sourcesLoadedMsg:
		return m.applyLoaded(msg)

	case sourceChangedMsg:
		return m, tea.Batch(m.reloadChanged(msg.path), waitForChangeCmd(m.watcher))

	case watchErrMsg:
		m.log.Warn().Err(msg.err).Msg("watch error")
		return m, waitForChangeCmd(m.watcher)

	case clipboardResultMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("copy failed: %v", msg.err))
			return m, nil
		}
		m.setAlert(fmt.Sprintf("Copied %s to clipboard.", msg.what))
		return m, nil

	case alertTickMsg:
		if m.alertMsg != "" && !m.alertUntil.IsZero() && time.Now().After(m.alertUntil) {
			m.alertMsg = ""
			m.alertUntil = time.Time{}
			m.resize()
		}
		return m, alertTickCmd()

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeEdit:
			return m.updateEditor(msg)
		case modeHistory:
			return m.updateHistory(msg)
		}
		return m.updateCompare(msg)
	}

	return m, nil
}

func (m Model) updateCompare(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.helpOpen = !m.helpOpen
		m.resize()
	case key.Matches(msg, m.keys.Compare):
		m.runCompare()
	case key.Matches(msg, m.keys.Clear):
		m.ctl.Clear()
		m.invalidate()
		m.syncWatcher()
	case key.Matches(msg, m.keys.ToggleCase):
		m.toggleOption(session.OptionIgnoreCase, !m.ctl.Options().IgnoreCase)
	case key.Matches(msg, m.keys.ToggleSpace):
		m.toggleOption(session.OptionIgnoreWhitespace, !m.ctl.Options().IgnoreWhitespace)
	case key.Matches(msg, m.keys.OpenLeft):
		return m, m.openPrompt(promptOpenLeft)
	case key.Matches(msg, m.keys.OpenRight):
		return m, m.openPrompt(promptOpenRight)
	case key.Matches(msg, m.keys.Attach):
		return m, m.openPrompt(promptAttach)
	case key.Matches(msg, m.keys.Edit):
		return m, m.openEditor(m.focus)
	case key.Matches(msg, m.keys.History):
		m.openHistory()
	case key.Matches(msg, m.keys.ToggleFocus):
		if m.focus == session.SideLeft {
			m.focus = session.SideRight
		} else {
			m.focus = session.SideLeft
		}
	case key.Matches(msg, m.keys.CopySummary):
		if !m.hasResult {
			m.setAlert("Nothing compared yet.")
			return m, nil
		}
		text := report.Summary(m.result, m.ctl.Left(), m.ctl.Right(), m.ctl.Options())
		return m, copyCmd("comparison summary", text)
	case key.Matches(msg, m.keys.CopyHistory):
		return m, copyCmd("history", report.ExportHistory(m.ctl.History(), "Comparison history:"))
	case key.Matches(msg, m.keys.Up):
		m.scrollVertical(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollVertical(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollVertical(-m.leftView.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollVertical(m.leftView.Height)
	case key.Matches(msg, m.keys.Top):
		m.leftView.GotoTop()
		m.rightView.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.leftView.GotoBottom()
		m.rightView.GotoBottom()
	case key.Matches(msg, m.keys.Left):
		m.scrollHorizontal(-horizontalStep)
	case key.Matches(msg, m.keys.Right):
		m.scrollHorizontal(horizontalStep)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closePrompt()
		return m, nil
	case msg.Type == tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Value())
		kind := m.promptKind
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		var plan []session.LoadRequest
		origin := originOpen
		switch kind {
		case promptOpenLeft:
			plan = []session.LoadRequest{{Side: session.SideLeft, SourceID: value}}
		case promptOpenRight:
			plan = []session.LoadRequest{{Side: session.SideRight, SourceID: value}}
		case promptAttach:
			ids, err := shlex.Split(value)
			if err != nil {
				m.setAlert(fmt.Sprintf("Cannot parse sources: %v", err))
				return m, nil
			}
			plan = m.ctl.AttachPlan(ids)
			origin = originAttach
		}
		if len(plan) == 0 {
			return m, nil
		}
		m.loading = true
		return m, m.loadSourcesCmd(origin, plan, false)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.editor.Blur()
		m.mode = modeCompare
		m.setAlert("Edit discarded.")
		return m, nil
	case key.Matches(msg, m.keys.SaveEdit):
		m.ctl.Edit(m.editSide, m.editor.Value())
		m.editor.Blur()
		m.mode = modeCompare
		m.invalidate()
		m.log.Debug().Str("side", m.editSide.String()).Msg("buffer edited")
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = modeCompare
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.CopyHistory), key.Matches(msg, m.keys.CopySummary):
		return m, copyCmd("history", report.ExportHistory(m.ctl.History(), "Comparison history:"))
	case key.Matches(msg, m.keys.LoadSelected):
		entries := m.ctl.History()
		idx := m.history.Cursor()
		if idx < 0 || idx >= len(entries) {
			m.setAlert("Please select a history item to load.")
			return m, nil
		}
		entry := entries[idx]
		m.mode = modeCompare
		m.loading = true
		m.resize()
		return m, m.loadSourcesCmd(originHistory, m.ctl.HistoryPlan(entry), false)
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind) tea.Cmd {
	m.mode = modePrompt
	m.promptKind = kind
	m.prompt.Reset()
	switch kind {
	case promptOpenLeft:
		m.prompt.Placeholder = "Path or git:<rev>:<path> for the left side"
		m.prompt.SetValue(m.ctl.Left().SourceID)
	case promptOpenRight:
		m.prompt.Placeholder = "Path or git:<rev>:<path> for the right side"
		m.prompt.SetValue(m.ctl.Right().SourceID)
	case promptAttach:
		m.prompt.Placeholder = `One or two sources; quote paths with spaces, e.g. "my notes.txt" b.txt`
	}
	m.prompt.CursorEnd()
	m.resize()
	return m.prompt.Focus()
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.mode = modeCompare
	m.resize()
}

func (m *Model) openEditor(side session.Side) tea.Cmd {
	m.mode = modeEdit
	m.editSide = side
	m.editor.SetValue(m.ctl.Buffer(side).Content)
	m.resize()
	return m.editor.Focus()
}

func (m *Model) openHistory() {
	m.mode = modeHistory
	entries := m.ctl.History()
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, table.Row{e.FormattedTime(), e.LeftSource, e.RightSource})
	}
	m.history.SetRows(rows)
	if len(rows) > 0 {
		m.history.SetCursor(len(rows) - 1)
	}
	m.resize()
}

func (m *Model) toggleOption(name session.OptionName, value bool) {
	if err := m.ctl.SetOption(name, value); err != nil {
		m.setAlert(err.Error())
		return
	}
	if m.hasResult {
		m.stale = true
	}
}

// runCompare compares the current buffers and replaces the pane content.
func (m *Model) runCompare() {
	m.result = m.ctl.Compare()
	m.hasResult = true
	m.stale = false
	m.panes = diffview.Layout(m.result, m.placeholder)
	m.paneDirty = true
	m.leftView.GotoTop()
	m.rightView.GotoTop()
	m.refreshPanes()
}

// invalidate drops the current comparison and shows the raw buffers.
func (m *Model) invalidate() {
	m.hasResult = false
	m.stale = false
	m.result = compare.Result{}
	m.panes = diffview.Plain(m.ctl.Left().Content, m.ctl.Right().Content)
	m.paneDirty = true
	m.refreshPanes()
}

func (m Model) applyLoaded(msg sourcesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	err := m.ctl.Apply(msg.results)
	loaded := 0
	for _, r := range msg.results {
		if r.Err == nil {
			loaded++
		}
	}

	m.syncWatcher()
	if msg.compareAfter && err == nil {
		m.runCompare()
	} else if loaded > 0 {
		m.invalidate()
	}

	switch {
	case err != nil:
		m.setAlert(fmt.Sprintf("Error opening file:\n%v", err))
	case msg.origin == originWatch && loaded > 0:
		m.setAlert("Reloaded changed source; press c to compare again.")
	}
	return m, nil
}

// reloadChanged refetches every side whose source is the changed file.
func (m Model) reloadChanged(path string) tea.Cmd {
	if m.files == nil {
		return nil
	}
	var plan []session.LoadRequest
	for _, side := range []session.Side{session.SideLeft, session.SideRight} {
		id := m.ctl.Buffer(side).SourceID
		if p, ok := m.files.FilePath(id); ok && p == path {
			plan = append(plan, session.LoadRequest{Side: side, SourceID: id})
		}
	}
	if len(plan) == 0 {
		return nil
	}
	return m.loadSourcesCmd(originWatch, plan, false)
}

func (m *Model) syncWatcher() {
	if m.watcher == nil || m.files == nil {
		return
	}
	var paths []string
	for _, side := range []session.Side{session.SideLeft, session.SideRight} {
		if p, ok := m.files.FilePath(m.ctl.Buffer(side).SourceID); ok {
			paths = append(paths, p)
		}
	}
	if err := m.watcher.Set(paths...); err != nil {
		m.log.Warn().Err(err).Strs("paths", paths).Msg("watch sources")
	}
}

func (m *Model) scrollVertical(delta int) {
	if delta < 0 {
		m.leftView.LineUp(-delta)
		m.rightView.LineUp(-delta)
		return
	}
	m.leftView.LineDown(delta)
	m.rightView.LineDown(delta)
}

func (m *Model) scrollHorizontal(delta int) {
	limit := max(0, m.panes.Width()-1)
	next := m.xOffset + delta
	if next < 0 {
		next = 0
	}
	if next > limit {
		next = limit
	}
	if next != m.xOffset {
		m.xOffset = next
		m.paneDirty = true
		m.refreshPanes()
	}
}

// resize recomputes viewport geometry for the current terminal size and
// chrome; pane content is re-rendered when the width changed.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	leftW, rightW := paneWidths(m.width)
	h := paneHeight(m.height, lipgloss.Height(m.statusBar()), m.dockHeight(), lipgloss.Height(m.footer()))
	if m.leftView.Width != leftW || m.rightView.Width != rightW {
		m.paneDirty = true
	}
	m.leftView.Width = leftW
	m.rightView.Width = rightW
	m.leftView.Height = h
	m.rightView.Height = h

	m.editor.SetWidth(max(10, m.width-4))
	m.editor.SetHeight(max(3, m.height-8))
	m.history.SetColumns(historyColumns(m.width - 4))
	m.history.SetHeight(max(3, m.height-8))
	m.refreshPanes()
}

func (m *Model) refreshPanes() {
	if !m.paneDirty || !m.ready {
		return
	}
	left := diffview.Render(m.panes, diffview.SideLeft, m.leftView.Width, m.xOffset, m.styles)
	right := diffview.Render(m.panes, diffview.SideRight, m.rightView.Width, m.xOffset, m.styles)
	yOffset := m.leftView.YOffset
	m.leftView.SetContent(strings.Join(left, "\n"))
	m.rightView.SetContent(strings.Join(right, "\n"))
	m.leftView.SetYOffset(yOffset)
	m.rightView.SetYOffset(yOffset)
	m.paneDirty = false
}

func (m *Model) setAlert(msg string) {
	m.alertMsg = msg
	m.alertUntil = time.Now().Add(3 * time.Second)
	m.resize()
}

// loadSourcesCmd fetches plan off the update loop; the results are applied to
// the controller when sourcesLoadedMsg arrives.
func (m Model) loadSourcesCmd(origin loadOrigin, plan []session.LoadRequest, compareAfter bool) tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		results := ctl.FetchAll(context.Background(), plan)
		return sourcesLoadedMsg{origin: origin, results: results, compareAfter: compareAfter}
	}
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{what: what, err: clipboard.CopyText(context.Background(), text)}
	}
}

func waitForChangeCmd(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case path, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return sourceChangedMsg{path: path}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

func alertTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return alertTickMsg{}
	})
}

func historyColumns(width int) []table.Column {
	timeW := len(session.TimestampLayout)
	rest := max(10, width-timeW-6)
	return []table.Column{
		{Title: "Timestamp", Width: timeW},
		{Title: "Left File", Width: rest / 2},
		{Title: "Right File", Width: rest - rest/2},
	}
}
