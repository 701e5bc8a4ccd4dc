package gitdiff

import (
	"bytes"
	"fmt"
	"strings"
)

// Applier applies a patch document to a worktree, optionally reversed.
type Applier interface {
	Apply(worktree, patch string, reverse bool) error
}

// GitApplier shells out to `git apply`. It first tries to update the
// index alongside the working tree; when the index disagrees with the
// worktree that attempt fails, so it retries worktree-only. Both
// failing surfaces the worktree error with the index error as context.
type GitApplier struct{}

func (GitApplier) Apply(worktree, patch string, reverse bool) error {
	indexErr := runApply(worktree, patch, reverse, true)
	if indexErr == nil {
		return nil
	}
	if err := runApply(worktree, patch, reverse, false); err != nil {
		return fmt.Errorf("%w (index attempt: %v)", err, indexErr)
	}
	return nil
}

func runApply(worktree, patch string, reverse, withIndex bool) error {
	args := []string{"apply", "--recount", "--whitespace=nowarn"}
	if reverse {
		args = append(args, "-R")
	}
	if withIndex {
		args = append(args, "--index")
	}

	cmd := gitCommand(args...)
	cmd.Dir = worktree
	cmd.Stdin = strings.NewReader(patch)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		mode := ""
		if withIndex {
			mode = " (--index)"
		}
		return fmt.Errorf("git apply failed%s: %s", mode, strings.TrimSpace(out.String()))
	}
	return nil
}
