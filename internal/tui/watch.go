package tui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchCmd blocks on filesystem events under the worktree root and
// emits a watchMsg on the first relevant change. The model re-arms it
// after each reload.
func watchCmd(worktree string) tea.Cmd {
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil
		}
		defer watcher.Close()

		if err := watcher.Add(worktree); err != nil {
			return nil
		}
		// Index changes (git add, checkout) also move the diff.
		_ = watcher.Add(filepath.Join(worktree, ".git"))

		for {
			select {
			case evt, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					if shouldReloadPath(evt.Name) {
						return watchMsg{worktree: worktree}
					}
				}
			case <-watcher.Errors:
			}
		}
	}
}

// shouldReloadPath filters out git bookkeeping churn that does not
// change the diff.
func shouldReloadPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".lock") || base == "FETCH_HEAD" || base == "ORIG_HEAD" {
		return false
	}
	slash := filepath.ToSlash(path)
	if strings.Contains(slash, "/.git/") {
		return base == "index" || base == "HEAD"
	}
	return true
}
