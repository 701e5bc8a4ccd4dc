package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mistakeknot/milgrim/internal/config"
	"github.com/mistakeknot/milgrim/internal/diffview"
	"github.com/mistakeknot/milgrim/internal/gitdiff"
	"github.com/mistakeknot/milgrim/internal/workspace"
	pkgtui "github.com/mistakeknot/milgrim/pkg/tui"
)

const (
	focusWorkspaces = "WORKSPACES"
	focusDiff       = "DIFF"
)

type Model struct {
	cfg     *config.Config
	runner  gitdiff.Runner
	applier gitdiff.Applier

	// Loaders are fields so tests can stub the git backend.
	WorkspaceLoader func() ([]workspace.Workspace, error)
	DigestLoader    func(path string) (gitdiff.Digest, error)

	workspaces []workspace.Workspace
	filtered   []int
	selected   int

	digests  map[string]gitdiff.Digest
	lastSeen map[string]uint64

	session *diffview.Session

	focus        string
	filter       textinput.Model
	filterActive bool

	width      int
	height     int
	viewOffset int

	status string
	keys   KeyMap
	help   pkgtui.HelpOverlay
}

func NewModel(cfg *config.Config, runner gitdiff.Runner, applier gitdiff.Applier) Model {
	filter := textinput.New()
	filter.Placeholder = "filter workspaces"
	filter.CharLimit = 64

	scanner := workspace.NewScanner(cfg.Discovery, runner)
	return Model{
		cfg:             cfg,
		runner:          runner,
		applier:         applier,
		WorkspaceLoader: scanner.Scan,
		DigestLoader: func(path string) (gitdiff.Digest, error) {
			return gitdiff.ComputeDigest(runner, path)
		},
		digests:  make(map[string]gitdiff.Digest),
		lastSeen: make(map[string]uint64),
		focus:    focusWorkspaces,
		filter:   filter,
		width:    120,
		height:   40,
		keys:     NewKeyMap(),
		help:     pkgtui.NewHelpOverlay(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadWorkspacesCmd(), tickCmd(m.cfg.UI.PollInterval))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workspacesMsg:
		if msg.err != nil {
			m.status = "Workspace scan failed: " + msg.err.Error()
			return m, nil
		}
		m.workspaces = msg.workspaces
		m.applyFilter()
		if m.session == nil && len(m.filtered) > 0 {
			cmd := m.openSelected()
			return m, cmd
		}
		return m, nil

	case digestsMsg:
		for id, d := range msg {
			m.digests[id] = d
		}
		if ws := m.currentWorkspace(); ws != nil && m.session != nil {
			if d, ok := msg[ws.ID]; ok && m.session.Model != nil && d.Hash != m.session.Model.Hash {
				m.reloadSession()
			}
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.pollDigestsCmd(), tickCmd(m.cfg.UI.PollInterval))

	case watchMsg:
		// A watcher armed on a previously open workspace must not
		// refresh or re-arm against the current one.
		if m.session == nil || msg.worktree != m.session.Worktree {
			return m, nil
		}
		m.reloadSession()
		return m, m.watchSessionCmd()

	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.Visible {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Back):
			m.help.Toggle()
		}
		return m, nil
	}

	if m.filterActive {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.filterActive = false
			m.filter.SetValue("")
			m.filter.Blur()
			m.applyFilter()
		case key.Matches(msg, m.keys.Select):
			m.filterActive = false
			m.filter.Blur()
			cmd := m.openSelected()
			return m, cmd
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
		return m, nil
	}

	if cmd := pkgtui.HandleCommon(msg, m.keys.CommonKeys); cmd != nil {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.TabCycle):
		if m.focus == focusWorkspaces {
			m.focus = focusDiff
		} else {
			m.focus = focusWorkspaces
		}
		return m, nil
	}

	if m.focus == focusWorkspaces {
		return m.handleWorkspaceKey(msg)
	}
	return m.handleDiffKey(msg)
}

func (m Model) handleWorkspaceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NavDown):
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.NavUp):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(m.filtered) > 0 {
			m.selected = len(m.filtered) - 1
		}
	case key.Matches(msg, m.keys.Search):
		m.filterActive = true
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Select):
		cmd := m.openSelected()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadWorkspacesCmd()
	}
	return m, nil
}

func (m Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NavDown):
		m.session.CursorDown(1)
	case key.Matches(msg, m.keys.NavUp):
		m.session.CursorUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.session.CursorDown(m.diffPageSize())
	case key.Matches(msg, m.keys.PageUp):
		m.session.CursorUp(m.diffPageSize())
	case key.Matches(msg, m.keys.Top):
		m.session.CursorTop()
	case key.Matches(msg, m.keys.Bottom):
		m.session.CursorBottom()
	case key.Matches(msg, m.keys.Select):
		m.session.ToggleFold()
	case key.Matches(msg, m.keys.Visual):
		m.session.ToggleVisual()
	case key.Matches(msg, m.keys.Delete):
		m.runEdit(m.session.DeleteSelection)
	case key.Matches(msg, m.keys.Undo):
		m.runEdit(m.session.Undo)
	case key.Matches(msg, m.keys.Redo):
		m.runEdit(m.session.Redo)
	case key.Matches(msg, m.keys.Refresh):
		m.reloadSession()
	case key.Matches(msg, m.keys.Back):
		m.focus = focusWorkspaces
	}
	m.scrollToCursor()
	return m, nil
}

// runEdit invokes one editing operation and refreshes the diff when
// the working tree changed under it.
func (m *Model) runEdit(op func() error) {
	if err := op(); err != nil {
		m.status = "Edit failed: " + err.Error()
		return
	}
	m.status = ""
	if m.session.ForceRefresh {
		m.reloadSession()
	}
}

func (m *Model) reloadSession() {
	if m.session == nil {
		return
	}
	if err := m.session.Refresh(m.runner); err != nil {
		m.status = "Diff load failed: " + err.Error()
		return
	}
	m.markSeen()
	m.scrollToCursor()
}

func (m *Model) markSeen() {
	ws := m.currentWorkspace()
	if ws == nil || m.session == nil || m.session.Model == nil {
		return
	}
	m.lastSeen[ws.ID] = m.session.Model.Hash
	m.digests[ws.ID] = gitdiff.Digest{Hash: m.session.Model.Hash, Summary: m.session.Model.Summary}
}

// hasUnseen reports whether a workspace carries changes the user has
// not looked at yet.
func (m Model) hasUnseen(ws workspace.Workspace) bool {
	d, ok := m.digests[ws.ID]
	if !ok || d.Hash == 0 {
		return false
	}
	return m.lastSeen[ws.ID] != d.Hash
}

func (m *Model) openSelected() tea.Cmd {
	ws := m.selectedWorkspace()
	if ws == nil {
		return nil
	}
	m.session = diffview.NewSession(ws.Path, m.applier)
	m.viewOffset = 0
	m.focus = focusDiff
	m.reloadSession()
	return m.watchSessionCmd()
}

func (m Model) watchSessionCmd() tea.Cmd {
	if !m.cfg.UI.Watch || m.session == nil {
		return nil
	}
	return watchCmd(m.session.Worktree)
}

func (m Model) currentWorkspace() *workspace.Workspace {
	if m.session == nil {
		return nil
	}
	for i := range m.workspaces {
		if m.workspaces[i].Path == m.session.Worktree {
			return &m.workspaces[i]
		}
	}
	return nil
}

func (m Model) selectedWorkspace() *workspace.Workspace {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return &m.workspaces[m.filtered[m.selected]]
}

func (m Model) loadWorkspacesCmd() tea.Cmd {
	loader := m.WorkspaceLoader
	return func() tea.Msg {
		wts, err := loader()
		return workspacesMsg{workspaces: wts, err: err}
	}
}

func (m Model) pollDigestsCmd() tea.Cmd {
	loader := m.DigestLoader
	workspaces := make([]workspace.Workspace, len(m.workspaces))
	copy(workspaces, m.workspaces)
	return func() tea.Msg {
		digests := make(digestsMsg, len(workspaces))
		for _, ws := range workspaces {
			d, err := loader(ws.Path)
			if err != nil {
				continue
			}
			digests[ws.ID] = d
		}
		return digests
	}
}

func (m *Model) scrollToCursor() {
	if m.session == nil {
		return
	}
	m.viewOffset = clampViewOffset(m.session.Cursor, m.viewOffset, m.diffPageSize(), len(m.session.View.Lines))
}

func (m Model) diffPageSize() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func clampViewOffset(cursor, viewOffset, height, total int) int {
	if total <= 0 {
		return 0
	}
	if height < 1 {
		height = 1
	}
	if cursor < viewOffset {
		viewOffset = cursor
	}
	if cursor >= viewOffset+height {
		viewOffset = cursor - height + 1
	}
	if viewOffset < 0 {
		viewOffset = 0
	}
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if viewOffset > maxOffset {
		viewOffset = maxOffset
	}
	return viewOffset
}
