package gitdiff

import "fmt"

// FileStatus classifies how a file changed relative to HEAD.
type FileStatus int

const (
	StatusUnknown FileStatus = iota
	StatusAdded
	StatusDeleted
	StatusModified
	StatusRenamed
	StatusCopied
	StatusTypeChange
	StatusUntracked
)

func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "A"
	case StatusDeleted:
		return "D"
	case StatusModified:
		return "M"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	case StatusTypeChange:
		return "T"
	case StatusUntracked:
		return "?"
	default:
		return "X"
	}
}

// HunkLine is one line of a hunk. Origin is '+', '-', ' ' or '\\'
// (the "no newline at end of file" marker). Content carries no
// trailing newline. OldLineno/NewLineno are 1-based; 0 means the line
// has no number on that side.
type HunkLine struct {
	Origin    byte
	Content   string
	OldLineno int
	NewLineno int
}

// Hunk is a contiguous changed region. The four counters are the
// values reported by the diff for the HEAD-vs-worktree comparison;
// Header keeps the raw "@@ ... @@" text.
type Hunk struct {
	Header   string
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []HunkLine
}

// File is one changed file. Meta holds the file-level preamble lines
// ("diff --git ...", mode lines, index line, ---/+++ markers) in
// order, so a complete per-file patch can be reassembled verbatim.
type File struct {
	Path      string
	Status    FileStatus
	Meta      []string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Summary counts changes across the whole diff.
type Summary struct {
	FilesChanged int
	Additions    int
	Deletions    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d file(s) changed, %d insertion(s), %d deletion(s)",
		s.FilesChanged, s.Additions, s.Deletions)
}

// Model is the structured form of one worktree's uncommitted changes.
// It is rebuilt wholesale on every refresh and never mutated in place.
// Hash is 0 exactly when FilesChanged is 0.
type Model struct {
	Files   []File
	Summary Summary
	Hash    uint64
}

// Digest is the cheap change-detection form of the same walk.
type Digest struct {
	Hash    uint64
	Summary Summary
}
