package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"vocabdiff/internal/clipboard"
	"vocabdiff/internal/comparison"
	"vocabdiff/internal/config"
	"vocabdiff/internal/diffview"
	"vocabdiff/internal/log"
	"vocabdiff/internal/vocab"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modePickOld
	modePickNew
)

const alertDuration = 3 * time.Second

type comparisonDoneMsg struct {
	c    *comparison.Comparison
	view *diffview.View
	err  error
}

type clipboardResultMsg struct {
	pane diffview.Pane
	err  error
}

type alertTickMsg struct{}

// Options seeds a Model.
type Options struct {
	OldPath string
	NewPath string
	Config  config.AppConfig

	// StartDir is where the file picker opens when no path is set yet.
	StartDir string
}

// Model is the Bubble Tea state container for the app.
type Model struct {
	keys   KeyMap
	help   help.Model
	styles diffview.Styles
	cfg    config.AppConfig

	width  int
	height int
	ready  bool

	req     comparison.Request
	last    *comparison.Comparison
	view    *diffview.View
	sorted  bool
	running bool

	active  diffview.Pane
	offsets map[diffview.Pane]int
	pane    viewport.Model

	mode     inputMode
	search   textinput.Model
	query    string
	hits     []diffview.Hit
	hitIdx   int
	picker   filepicker.Model
	startDir string

	alertMsg   string
	alertUntil time.Time
}

func NewModel(opts Options) Model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 256
	search.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	startDir := opts.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}

	m := Model{
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   diffview.DefaultStyles(),
		cfg:      opts.Config,
		req:      comparison.Request{OldPath: opts.OldPath, NewPath: opts.NewPath},
		sorted:   opts.Config.Sort,
		offsets:  make(map[diffview.Pane]int),
		pane:     viewport.New(1, 1),
		search:   search,
		hitIdx:   -1,
		startDir: startDir,
	}
	m.view, _ = diffview.Build(nil, diffview.BuildOptions{})
	m.refreshContent()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.req.Ready() {
		return tea.Batch(m.compareCmd(m.req), alertTickCmd())
	}
	return alertTickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizePane()
		return m, nil

	case comparisonDoneMsg:
		m.running = false
		if msg.err != nil {
			m.setAlert(msg.err.Error())
			return m, nil
		}
		m.last = msg.c
		m.view = msg.view
		m.offsets = make(map[diffview.Pane]int)
		m.pane.GotoTop()
		m.applyQuery()
		if msg.c.Failed() {
			m.setAlert(msg.c.Err().Error())
		} else if msg.c.Result.Empty() {
			m.setAlert("The vocabularies are identical.")
		}
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.setAlert(fmt.Sprintf("copy failed: %v", msg.err))
			return m, nil
		}
		m.setAlert(fmt.Sprintf("Copied %s pane to clipboard.", msg.pane.Name()))
		return m, nil

	case alertTickMsg:
		if m.alertMsg != "" && !m.alertUntil.IsZero() && time.Now().After(m.alertUntil) {
			m.alertMsg = ""
			m.alertUntil = time.Time{}
			m.resizePane()
		}
		return m, alertTickCmd()

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modePickOld, modePickNew:
			return m.updatePicker(msg)
		}
		return m.updateNormal(msg)
	}

	// The picker reads directories asynchronously.
	if m.mode == modePickOld || m.mode == modePickNew {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePane()
		return m, nil
	case key.Matches(msg, m.keys.PickOld):
		return m.openPicker(modePickOld)
	case key.Matches(msg, m.keys.PickNew):
		return m.openPicker(modePickNew)
	case key.Matches(msg, m.keys.Compare):
		return m.startCompare(m.req)
	case key.Matches(msg, m.keys.Rerun):
		// Re-reads both files, including any picked since the last run.
		return m.startCompare(m.req)
	case key.Matches(msg, m.keys.NextTab):
		m.switchPane(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchPane(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.pane.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.pane.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.pane.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.pane.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.pane.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.pane.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		m.resizePane()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.NextMatch):
		m.stepMatch(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevMatch):
		m.stepMatch(-1)
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.Sort):
		m.sorted = !m.sorted
		m.rebuild()
		return m, nil
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeNormal
		m.search.Blur()
		m.resizePane()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeNormal
		m.search.Blur()
		m.query = m.search.Value()
		m.resizePane()
		m.applyQuery()
		if m.query != "" && len(m.hits) == 0 {
			m.setAlert(fmt.Sprintf("No matches for %q in %s.", m.query, m.active.Name()))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.mode = modeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		side := "Old"
		if m.mode == modePickOld {
			m.req.OldPath = path
		} else {
			m.req.NewPath = path
			side = "New"
		}
		m.startDir = filepath.Dir(path)
		m.mode = modeNormal
		m.setAlert(fmt.Sprintf("%s file: %s", side, path))
		return m, nil
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setAlert(fmt.Sprintf("%s is not a vocabulary file (%s)", filepath.Base(path), strings.Join(m.cfg.Extensions, ", ")))
	}
	return m, cmd
}

func (m Model) openPicker(mode inputMode) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.AllowedTypes = m.cfg.Extensions
	fp.CurrentDirectory = m.pickerDir(mode)
	fp.AutoHeight = false
	_, h := m.paneSize()
	fp.Height = max(1, h-1)

	m.picker = fp
	m.mode = mode
	return m, fp.Init()
}

func (m Model) pickerDir(mode inputMode) string {
	path := m.req.NewPath
	if mode == modePickOld {
		path = m.req.OldPath
	}
	if path != "" {
		return filepath.Dir(path)
	}
	if m.startDir != "" {
		return m.startDir
	}
	return "."
}

func (m Model) startCompare(req comparison.Request) (tea.Model, tea.Cmd) {
	if !req.Ready() {
		m.setAlert(capitalize(comparison.ErrMissingInput.Error()) + " (o / p).")
		return m, nil
	}
	if m.running {
		return m, nil
	}
	m.req = req
	m.running = true
	return m, m.compareCmd(req)
}

func (m Model) compareCmd(req comparison.Request) tea.Cmd {
	opts := comparison.Options{Load: m.cfg.LoadOptions()}
	build := diffview.BuildOptions{Sorted: m.sorted, PatchContext: m.cfg.PatchContext}
	return func() tea.Msg {
		c, err := comparison.Run(req, opts)
		if err != nil {
			return comparisonDoneMsg{err: err}
		}
		view, err := diffview.Build(c, build)
		if err != nil {
			log.WithError(err).Warn("building patch pane")
		}
		return comparisonDoneMsg{c: c, view: view}
	}
}

func (m Model) copyCmd() tea.Cmd {
	pane := m.active
	text := m.view.PlainText(pane)
	return func() tea.Msg {
		err := clipboard.CopyText(context.Background(), text)
		return clipboardResultMsg{pane: pane, err: err}
	}
}

// rebuild re-lays the panes after an option change, keeping the query.
func (m *Model) rebuild() {
	if m.last == nil {
		return
	}
	view, err := diffview.Build(m.last, diffview.BuildOptions{Sorted: m.sorted, PatchContext: m.cfg.PatchContext})
	if err != nil {
		m.setAlert(fmt.Sprintf("patch: %v", err))
	}
	m.view = view
	m.applyQuery()
}

func (m *Model) switchPane(delta int) {
	m.offsets[m.active] = m.pane.YOffset
	m.active = m.active.Next(delta)
	m.hits = nil
	m.hitIdx = -1
	m.refreshContent()
	m.pane.SetYOffset(m.offsets[m.active])
	if m.query != "" {
		m.hits = diffview.Search(m.view.Rows(m.active), m.query)
		m.refreshContent()
	}
}

// applyQuery recomputes matches in the active pane and scrolls to the first
// one. Other panes pick the query up when they are shown.
func (m *Model) applyQuery() {
	m.hits = nil
	m.hitIdx = -1
	if m.query != "" {
		m.hits = diffview.Search(m.view.Rows(m.active), m.query)
	}
	if len(m.hits) > 0 {
		m.hitIdx = 0
	}
	m.refreshContent()
	m.showCurrentHit()
}

func (m *Model) stepMatch(delta int) {
	if len(m.hits) == 0 {
		if m.query != "" {
			m.setAlert(fmt.Sprintf("No matches for %q in %s.", m.query, m.active.Name()))
		}
		return
	}
	n := len(m.hits)
	m.hitIdx = ((m.hitIdx+delta)%n + n) % n
	m.refreshContent()
	m.showCurrentHit()
}

func (m *Model) showCurrentHit() {
	if m.hitIdx < 0 || m.hitIdx >= len(m.hits) {
		return
	}
	row := m.hits[m.hitIdx].Row
	m.pane.SetYOffset(scrollToShow(m.pane.YOffset, m.pane.Height, row))
}

func (m *Model) refreshContent() {
	rows := m.view.Rows(m.active)
	if len(rows) == 0 {
		m.pane.SetContent(m.placeholder())
		return
	}
	current := -1
	if len(m.hits) > 0 {
		current = m.hitIdx
	}
	lines := diffview.RenderLines(rows, m.pane.Width, m.query, current, m.styles)
	m.pane.SetContent(strings.Join(lines, "\n"))
}

func (m Model) placeholder() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	switch {
	case m.last == nil && !m.req.Ready():
		return style.Render("Pick the old (o) and new (p) vocabulary files, then press c to compare.")
	case m.last == nil:
		return style.Render("Press c to compare.")
	case m.active == diffview.PanePatch:
		return style.Render("No differences.")
	}
	return style.Render("Nothing here.")
}

func (m Model) paneSize() (int, int) {
	return paneSize(m.width, m.height, lipgloss.Height(m.footer()), m.dockHeight())
}

func (m *Model) resizePane() {
	w, h := m.paneSize()
	if m.pane.Width != w || m.pane.Height != h {
		m.pane.Width = w
		m.pane.Height = h
		m.refreshContent()
	}
}

func (m Model) dockHeight() int {
	if m.alertMsg == "" {
		return 0
	}
	return lipgloss.Height(m.renderAlertDock())
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// The dock may have appeared or gone since the last resize.
	w, h := m.paneSize()
	if m.pane.Width != w || m.pane.Height != h {
		m.pane.Width = w
		m.pane.Height = h
		m.refreshContent()
	}

	parts := []string{m.renderTabs(), m.renderPane(w, h), m.renderStatus()}
	if m.alertMsg != "" {
		parts = append(parts, m.renderAlertDock())
	}
	parts = append(parts, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) footer() string {
	if m.mode == modeSearch {
		input := m.search
		input.Width = max(1, m.width-4)
		return input.View()
	}
	return m.help.View(m.keys)
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("39")).Padding(0, 1)
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)

	tabs := make([]string, 0, len(diffview.Panes))
	for _, p := range diffview.Panes {
		title := p.Title(m.view.Count(p))
		if p == m.active {
			tabs = append(tabs, active.Render(title))
		} else {
			tabs = append(tabs, inactive.Render(title))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return ansi.Truncate(line, max(1, m.width), "…")
}

func (m Model) renderPane(width, height int) string {
	border := lipgloss.NormalBorder()
	borderColor := lipgloss.Color("39")

	var title, body string
	switch m.mode {
	case modePickOld:
		title = "Select old vocabulary (enter select, esc cancel)"
		body = m.picker.View()
	case modePickNew:
		title = "Select new vocabulary (enter select, esc cancel)"
		body = m.picker.View()
	default:
		title = m.paneTitle()
		body = m.pane.View()
	}

	innerW := max(1, width)
	header := lipgloss.NewStyle().Bold(true).Width(innerW).MaxWidth(innerW).Render(ansi.Truncate(title, innerW, "…"))
	paneStyle := lipgloss.NewStyle().
		Width(innerW).
		Height(height + 1).
		MaxHeight(height + 3).
		Border(border).
		BorderForeground(borderColor)
	return paneStyle.Render(header + "\n" + body)
}

func (m Model) paneTitle() string {
	title := m.active.Name()
	if m.query != "" {
		if len(m.hits) > 0 {
			title += fmt.Sprintf(" [%q %d/%d]", m.query, m.hitIdx+1, len(m.hits))
		} else {
			title += fmt.Sprintf(" [%q no matches]", m.query)
		}
	}
	if m.sorted {
		title += " (sorted)"
	}
	if m.running {
		title += " (comparing...)"
	}
	return title
}

func (m Model) renderStatus() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	var oldInfo, newInfo *vocab.Info
	var oldLen, newLen int
	if m.last != nil {
		oldInfo, newInfo = m.last.OldInfo, m.last.NewInfo
		oldLen, newLen = m.last.Old.Len(), m.last.New.Len()
	}
	line := describeSide("old", m.req.OldPath, oldInfo, oldLen) + "  →  " + describeSide("new", m.req.NewPath, newInfo, newLen)
	return style.Render(ansi.Truncate(line, max(1, m.width), "…"))
}

func describeSide(label, path string, info *vocab.Info, words int) string {
	if path == "" {
		return label + ": (none)"
	}
	s := label + ": " + filepath.Base(path)
	if info == nil || info.Path != path {
		return s
	}
	return fmt.Sprintf("%s [%s, %s, %s words]", s, info.Encoding, humanize.Bytes(uint64(info.Size)), humanize.Comma(int64(words)))
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
		Padding(0, 2).
		Render(body)

	return lipgloss.NewStyle().
		Width(contentW).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(titleBar + "\n" + bodyBlock)
}

func alertTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return alertTickMsg{}
	})
}

func (m *Model) setAlert(msg string) {
	m.alertMsg = msg
	m.alertUntil = time.Now().Add(alertDuration)
	m.resizePane()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
