package gitdiff

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrNotARepo reports that the target directory is not inside a git
// repository.
var ErrNotARepo = errors.New("not a git repository")

// Runner executes git in a given worktree and returns stdout.
type Runner interface {
	Run(dir string, args ...string) (string, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(dir string, args ...string) (string, error) {
	cmd := gitCommand(args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		if isNotARepoMsg(msg) {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ErrNotARepo)
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

// isNotARepoMsg matches git's repository-missing diagnostics. git
// prints both "fatal: not a git repository" and "warning: Not a git
// repository" depending on the command.
func isNotARepoMsg(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "not a git repository")
}

// scrubbedEnvVars are repository-locating overrides that git hooks can
// leave in the environment. Inheriting them would redirect child git
// processes away from the worktree they are pointed at.
var scrubbedEnvVars = []string{
	"GIT_DIR",
	"GIT_WORK_TREE",
	"GIT_INDEX_FILE",
	"GIT_OBJECT_DIRECTORY",
	"GIT_ALTERNATE_OBJECT_DIRECTORIES",
	"GIT_COMMON_DIR",
	"GIT_NAMESPACE",
	"GIT_PREFIX",
}

func gitCommand(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Env = scrubEnv(os.Environ())
	return cmd
}

func scrubEnv(env []string) []string {
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if scrubbed(kv) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func scrubbed(kv string) bool {
	for _, name := range scrubbedEnvVars {
		if strings.HasPrefix(kv, name+"=") {
			return true
		}
	}
	return false
}
