package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joeycumines/run-stars/internal/logging"
	"github.com/joeycumines/run-stars/internal/protocol"
	"github.com/joeycumines/run-stars/internal/statelock"
)

// Focus names which pane receives j/k/arrow navigation.
type Focus int

const (
	FocusList Focus = iota
	FocusTable
)

type fsEventMsg struct{ ev Event }
type watcherErrMsg struct{ err error }
type tickMsg time.Time

// Model is the bubbletea tea.Model driving the monitor. Per the design
// notes (§9), the registry, projection, and widget state are all owned by
// this one struct and mutated only from Update — there is no shared
// mutable state across goroutines besides the watcher's channels.
type Model struct {
	runtimeDir, persistentDir string

	registry *Registry
	selected int
	focus    Focus

	tasks  []protocol.Task
	banner *Banner

	watcher *Watcher
	clock   *TickClock
	logger  *logging.Logger

	quitting      bool
	width, height int
}

// NewModel builds the initial registry and watcher for the two state
// directories. initialSelection, if non-empty and naming a known entry's
// decoded path, starts selection there; otherwise selection starts at 0.
func NewModel(runtimeDir, persistentDir, initialSelection string, logger *logging.Logger) (*Model, error) {
	registry, err := NewRegistry(runtimeDir, persistentDir)
	if err != nil {
		return nil, err
	}

	watcher, err := NewWatcher(runtimeDir, persistentDir)
	if err != nil {
		return nil, err
	}

	m := &Model{
		runtimeDir:    runtimeDir,
		persistentDir: persistentDir,
		registry:      registry,
		watcher:       watcher,
		clock:         NewTickClock(time.Now()),
		logger:        logger,
	}

	if initialSelection != "" {
		for i, e := range registry.Entries() {
			if e.DecodedPath() == initialSelection {
				m.selected = i
				break
			}
		}
	}

	if registry.Len() == 1 {
		m.focus = FocusTable
	}

	m.refreshProjection()
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.listenErrors(), m.tickCmd())
}

func (m *Model) listenEvents() tea.Cmd {
	ch := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return fsEventMsg{ev: ev}
	}
}

func (m *Model) listenErrors() tea.Cmd {
	ch := m.watcher.Errors()
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return watcherErrMsg{err: err}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fsEventMsg:
		m.handleEvent(msg.ev)
		return m, m.listenEvents()

	case watcherErrMsg:
		if m.logger != nil {
			m.logger.Debug().Err(msg.err).Log("watcher error")
		}
		return m, m.listenErrors()

	case tickMsg:
		m.handleTick(time.Time(msg))
		return m, m.tickCmd()

	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.toggleFocus()
		return m, nil

	case "h", "left":
		m.focus = FocusList
		return m, nil

	case "l", "right":
		m.focus = FocusTable
		return m, nil

	case "j", "down":
		if m.focus == FocusList {
			m.moveSelection(1)
		}
		return m, nil

	case "k", "up":
		if m.focus == FocusList {
			m.moveSelection(-1)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == FocusList {
		m.focus = FocusTable
	} else {
		m.focus = FocusList
	}
}

func (m *Model) moveSelection(delta int) {
	n := m.registry.Len()
	if n == 0 {
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	m.refreshProjection()
}

// selectedName returns the file name of the currently selected entry, or
// "" if the registry is empty.
func (m *Model) selectedName() string {
	if e, ok := m.registry.Get(m.selected); ok {
		return e.FileName
	}
	return ""
}

func (m *Model) handleEvent(ev Event) {
	if ev.Type == WatcherOverflowed {
		if m.logger != nil {
			m.logger.Info().Log("watcher queue overflowed; resyncing from directory listing")
		}
		m.resync()
		return
	}

	selected := m.selectedName()
	action := Reduce(ev, selected)
	m.apply(action)
}

// resync rebuilds the registry wholesale, per §9: a dropped event batch
// means deltas can no longer be trusted.
func (m *Model) resync() {
	selected := m.selectedName()
	registry, err := NewRegistry(m.runtimeDir, m.persistentDir)
	if err != nil {
		m.banner = &Banner{Severity: SeverityHigh, Message: fmt.Sprintf("resync: %v", err)}
		return
	}
	m.registry = registry
	m.selected = 0
	if selected != "" {
		if i, ok := registry.IndexOf(selected); ok {
			m.selected = i
		}
	}
	m.refreshProjection()
}

func (m *Model) apply(action Action) {
	switch action.Kind {
	case ActionRefreshTasks:
		m.refreshProjection()

	case ActionAddState:
		wasEmpty := m.registry.Len() == 0
		m.registry.Add(action.Entry)
		if wasEmpty {
			m.selected = 0
			m.refreshProjection()
		}

	case ActionRemoveState:
		name := action.Entry.FileName
		wasSelected := name == m.selectedName()
		wasTail := m.selected == m.registry.Len()-1

		stillExists, existed := m.registry.Remove(action.Entry)
		if !existed {
			return
		}

		if !stillExists {
			if wasTail && m.selected > 0 {
				m.selected--
			}
			if n := m.registry.Len(); m.selected >= n && n > 0 {
				m.selected = n - 1
			}
			if wasSelected {
				m.refreshProjection()
			}
			return
		}

		if wasSelected && action.Entry.Running {
			downgradeRunning(m.tasks)
		}

	case ActionQuit:
		m.quitting = true

	case ActionTick:
		// nothing to do besides the unconditional redraw.
	}
}

func (m *Model) handleTick(now time.Time) {
	m.clock.Advance(now)
	m.probeLockReleases()
}

// probeLockReleases synthesizes the CloseAfterWrite event fsnotify can't
// portably deliver (see DESIGN.md): every entry currently marked Running is
// re-probed, and a lock that's no longer held is reduced exactly as a
// CloseAfterWrite event on the runtime directory would be.
func (m *Model) probeLockReleases() {
	for _, e := range append([]StateEntry(nil), m.registry.Entries()...) {
		if !e.Running {
			continue
		}
		path := filepath.Join(m.runtimeDir, e.FileName)
		locked, notFound, err := statelock.Probe(path)
		if err != nil || locked {
			continue
		}
		if notFound {
			m.apply(Reduce(Event{Dir: KindRuntime, Name: e.FileName, Type: Departed}, m.selectedName()))
			continue
		}
		m.apply(Reduce(Event{Dir: KindRuntime, Name: e.FileName, Type: CloseAfterWrite}, m.selectedName()))
	}
}

func (m *Model) refreshProjection() {
	entry, ok := m.registry.Get(m.selected)
	if !ok {
		m.tasks = nil
		m.banner = nil
		return
	}

	result := BuildProjection(entry, m.runtimeDir, m.persistentDir)
	m.banner = result.Banner
	if !result.KeepPrevious && result.Banner == nil {
		m.tasks = result.Tasks
	} else if result.Banner != nil && result.Banner.Severity == SeverityHigh {
		m.tasks = nil
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	list := m.renderList()
	table := m.renderTable()

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, table)

	var b strings.Builder
	b.WriteString(body)
	b.WriteByte('\n')
	if m.banner != nil {
		b.WriteString(bannerStyle(m.banner.Severity).Render(m.banner.Message))
		b.WriteByte('\n')
	}
	b.WriteString(helpStyle.Render("j/k move  h/l focus  tab toggle  q quit"))
	return b.String()
}

func (m *Model) renderList() string {
	var b strings.Builder
	for i, e := range m.registry.Entries() {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		b.WriteString(marker)
		b.WriteString(listRowStyle(e, i == m.selected).Render(fmt.Sprintf("%c %s", statusGlyph(e, m.clock.Frame()), e.DecodedPath())))
		b.WriteByte('\n')
	}
	style := paneStyle
	if m.focus == FocusList {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func (m *Model) renderTable() string {
	var b strings.Builder
	for _, t := range m.tasks {
		b.WriteString(fmt.Sprintf("%s %3d %s %s\n", t.Status, t.Code, t.Time.Format(time.RFC3339), t.Path))
	}
	style := paneStyle
	if m.focus == FocusTable {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func statusGlyph(e StateEntry, spinner rune) rune {
	if e.Running {
		return spinner
	}
	return '.'
}
