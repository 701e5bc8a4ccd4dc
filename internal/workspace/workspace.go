package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mistakeknot/milgrim/internal/config"
	"github.com/mistakeknot/milgrim/internal/gitdiff"
)

// Workspace is one working tree an agent edits in. A repository
// checked out in several worktrees yields one Workspace per worktree.
type Workspace struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Head   string `json:"head"`
	Path   string `json:"path"`
}

func (w Workspace) DisplayName() string {
	if w.Branch != "" && w.Branch != w.Name {
		return fmt.Sprintf("%s (%s)", w.Name, w.Branch)
	}
	return w.Name
}

// Scanner discovers workspaces in configured roots.
type Scanner struct {
	cfg    config.DiscoveryConfig
	runner gitdiff.Runner
}

func NewScanner(cfg config.DiscoveryConfig, r gitdiff.Runner) *Scanner {
	return &Scanner{cfg: cfg, runner: r}
}

// Scan walks the configured roots for git repositories and expands
// each into its worktrees.
func (s *Scanner) Scan() ([]Workspace, error) {
	var workspaces []Workspace
	seen := make(map[string]bool)

	for _, root := range s.cfg.ScanRoots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			slog.Warn("scan root does not exist", "path", root)
			continue
		}

		for _, repo := range s.findRepos(root) {
			wts, err := ListWorktrees(s.runner, repo)
			if err != nil {
				slog.Warn("listing worktrees failed", "repo", repo, "error", err)
				continue
			}
			for _, w := range wts {
				if seen[w.Path] {
					continue
				}
				seen[w.Path] = true
				workspaces = append(workspaces, w)
			}
		}
	}

	return workspaces, nil
}

// findRepos returns the git repositories directly under root, plus
// root itself when it is one. Worktree expansion happens later, so
// linked worktree directories found here are deduplicated by path.
func (s *Scanner) findRepos(root string) []string {
	if isRepo(root) {
		return []string{root}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		slog.Warn("reading scan root failed", "path", root, "error", err)
		return nil
	}

	var repos []string
	for _, e := range entries {
		if !e.IsDir() || s.excluded(e.Name()) {
			continue
		}
		path := filepath.Join(root, e.Name())
		if isRepo(path) {
			repos = append(repos, path)
		}
	}
	return repos
}

func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.cfg.ExcludePatterns {
		if name == pattern {
			return true
		}
	}
	return false
}

func isRepo(path string) bool {
	// .git is a directory in a primary checkout and a file in a
	// linked worktree.
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

// ListWorktrees enumerates the worktrees of one repository via
// `git worktree list --porcelain`.
func ListWorktrees(r gitdiff.Runner, repo string) ([]Workspace, error) {
	out, err := r.Run(repo, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktrees(out), nil
}

// parseWorktrees reads porcelain output: one block per worktree,
// blocks separated by blank lines, each block led by a "worktree"
// line followed by attribute lines.
func parseWorktrees(out string) []Workspace {
	var workspaces []Workspace
	var cur *Workspace

	flush := func() {
		if cur != nil && cur.Path != "" {
			workspaces = append(workspaces, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			path := strings.TrimPrefix(line, "worktree ")
			cur = &Workspace{
				ID:   newID(),
				Name: filepath.Base(path),
				Path: path,
			}
		case strings.HasPrefix(line, "HEAD "):
			if cur != nil {
				sha := strings.TrimPrefix(line, "HEAD ")
				if len(sha) > 8 {
					sha = sha[:8]
				}
				cur.Head = sha
			}
		case strings.HasPrefix(line, "branch "):
			if cur != nil {
				ref := strings.TrimPrefix(line, "branch ")
				cur.Branch = strings.TrimPrefix(ref, "refs/heads/")
			}
		case line == "detached":
			if cur != nil {
				cur.Branch = "(detached)"
			}
		}
	}
	flush()

	return workspaces
}

func newID() string {
	return uuid.New().String()[:8]
}
