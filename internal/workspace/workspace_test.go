package workspace

import (
	"fmt"
	"testing"

	"github.com/mistakeknot/milgrim/internal/config"
)

const porcelainOut = `worktree /home/dev/proj
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /home/dev/proj-feature
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature/diff-editor

worktree /home/dev/proj-spike
HEAD 3333333333333333333333333333333333333333
detached
`

func TestParseWorktrees(t *testing.T) {
	got := parseWorktrees(porcelainOut)
	if len(got) != 3 {
		t.Fatalf("expected 3 worktrees, got %d: %v", len(got), got)
	}

	if got[0].Path != "/home/dev/proj" || got[0].Name != "proj" || got[0].Branch != "main" {
		t.Fatalf("unexpected primary worktree %+v", got[0])
	}
	if got[0].Head != "11111111" {
		t.Fatalf("head should be shortened, got %q", got[0].Head)
	}
	if got[1].Branch != "feature/diff-editor" {
		t.Fatalf("branch ref should be trimmed, got %q", got[1].Branch)
	}
	if got[2].Branch != "(detached)" {
		t.Fatalf("unexpected detached branch %q", got[2].Branch)
	}

	seen := make(map[string]bool)
	for _, w := range got {
		if len(w.ID) != 8 {
			t.Fatalf("unexpected id %q", w.ID)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %q", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestParseWorktreesEmpty(t *testing.T) {
	if got := parseWorktrees(""); len(got) != 0 {
		t.Fatalf("expected no worktrees, got %v", got)
	}
}

func TestDisplayName(t *testing.T) {
	w := Workspace{Name: "proj", Branch: "main"}
	if got := w.DisplayName(); got != "proj (main)" {
		t.Fatalf("unexpected display name %q", got)
	}
	w = Workspace{Name: "main", Branch: "main"}
	if got := w.DisplayName(); got != "main" {
		t.Fatalf("matching branch should collapse, got %q", got)
	}
	w = Workspace{Name: "proj"}
	if got := w.DisplayName(); got != "proj" {
		t.Fatalf("missing branch should collapse, got %q", got)
	}
}

type fakeRunner struct {
	byDir map[string]string
}

func (f *fakeRunner) Run(dir string, args ...string) (string, error) {
	out, ok := f.byDir[dir]
	if !ok {
		return "", fmt.Errorf("unexpected dir %q", dir)
	}
	return out, nil
}

func TestListWorktrees(t *testing.T) {
	r := &fakeRunner{byDir: map[string]string{"/home/dev/proj": porcelainOut}}
	got, err := ListWorktrees(r, "/home/dev/proj")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 worktrees, got %d", len(got))
	}
}

func TestListWorktreesError(t *testing.T) {
	r := &fakeRunner{byDir: map[string]string{}}
	if _, err := ListWorktrees(r, "/nope"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestScannerExcludesPatterns(t *testing.T) {
	s := NewScanner(config.DiscoveryConfig{ExcludePatterns: []string{"node_modules"}}, &fakeRunner{})
	if !s.excluded("node_modules") {
		t.Fatalf("pattern should exclude")
	}
	if s.excluded("src") {
		t.Fatalf("unlisted name should pass")
	}
}
