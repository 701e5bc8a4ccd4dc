package gitdiff

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := ExecRunner{}.Run(dir, args...)
	if err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
	return out
}

func initRepo(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	gitRun(t, dir, "init")
	gitRun(t, dir, "config", "user.email", "test@test.com")
	gitRun(t, dir, "config", "user.name", "Test")
	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	gitRun(t, dir, "add", "test.txt")
	gitRun(t, dir, "commit", "-m", "initial commit")
	return dir
}

func TestApplyInvalidPatchFails(t *testing.T) {
	requireGit(t)
	dir := initRepo(t, "a\n")

	err := GitApplier{}.Apply(dir, "not a patch", false)
	if err == nil {
		t.Fatalf("expected invalid patch to fail")
	}
	if !strings.Contains(err.Error(), "git apply failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyRevertsAddedLine(t *testing.T) {
	requireGit(t)
	dir := initRepo(t, "one\ntwo\n")
	path := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := Build(ExecRunner{}, dir)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f := &m.Files[0]
	patch := LineRevertPatch(f, &f.Hunks[0], len(f.Hunks[0].Lines)-1)

	if err := (GitApplier{}).Apply(dir, patch, false); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Fatalf("unexpected contents %q", got)
	}
}

func TestApplyFallsBackToWorktreeOnly(t *testing.T) {
	requireGit(t)
	dir := initRepo(t, "one\ntwo\n")
	path := filepath.Join(dir, "test.txt")

	// Stage content that disagrees with the worktree so the --index
	// attempt cannot succeed.
	if err := os.WriteFile(path, []byte("one\ntwo\nstaged\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	gitRun(t, dir, "add", "test.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	patch := `diff --git a/test.txt b/test.txt
--- a/test.txt
+++ b/test.txt
@@ -1,3 +1,2 @@
 one
 two
-three
`
	if err := (GitApplier{}).Apply(dir, patch, false); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Fatalf("unexpected contents %q", got)
	}
}

func TestRunOutsideRepositoryReturnsSentinel(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()

	_, err := ExecRunner{}.Run(dir, "diff", "HEAD")
	if !errors.Is(err, ErrNotARepo) {
		t.Fatalf("expected ErrNotARepo, got %v", err)
	}
}

func TestNotARepoMessageVariants(t *testing.T) {
	matching := []string{
		"fatal: not a git repository (or any of the parent directories): .git",
		"warning: Not a git repository. Use --no-index to compare two paths outside a working tree",
	}
	for _, msg := range matching {
		if !isNotARepoMsg(msg) {
			t.Fatalf("message should match: %q", msg)
		}
	}
	if isNotARepoMsg("fatal: bad revision 'HEAD'") {
		t.Fatalf("unrelated diagnostic must not match")
	}
}

func TestScrubEnvDropsRepositoryOverrides(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"GIT_DIR=/somewhere/.git",
		"GIT_INDEX_FILE=/somewhere/index",
		"EDITOR=vi",
	}
	got := scrubEnv(env)
	want := []string{"PATH=/usr/bin", "EDITOR=vi"}
	if len(got) != len(want) {
		t.Fatalf("unexpected env: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected env: %v", got)
		}
	}
}
