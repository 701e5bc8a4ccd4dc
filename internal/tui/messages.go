package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mistakeknot/milgrim/internal/gitdiff"
	"github.com/mistakeknot/milgrim/internal/workspace"
)

type tickMsg time.Time

// watchMsg carries the worktree its watcher was armed on, so messages
// from a workspace that is no longer open can be dropped.
type watchMsg struct {
	worktree string
}

type workspacesMsg struct {
	workspaces []workspace.Workspace
	err        error
}

type digestsMsg map[string]gitdiff.Digest

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
