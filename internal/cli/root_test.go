package cli

import (
	"bytes"
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

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("milgrim %v: %v", args, err)
	}
	return out.String()
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	run("init")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test")
	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	run("add", "test.txt")
	run("commit", "-m", "initial commit")
	return dir
}

func TestDiffCommandCleanTree(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	out := runCommand(t, "diff", dir)
	if !strings.Contains(out, "Working tree clean") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDiffCommandSummarizesChanges(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "test.txt"), []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := runCommand(t, "diff", dir)
	if !strings.Contains(out, "1 file(s) changed, 1 insertion(s), 0 deletion(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWorkspacesCommandListsWorktrees(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	body := "[discovery]\nscan_roots = [\"" + dir + "\"]\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := runCommand(t, "workspaces", "--config", cfgPath)
	if !strings.Contains(out, filepath.Base(dir)) {
		t.Fatalf("expected repo in listing, got %q", out)
	}
}
