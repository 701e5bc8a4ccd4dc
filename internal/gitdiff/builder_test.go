package gitdiff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type fakeRunner struct {
	diff      string
	untracked string
	diffErr   error
	lsErr     error
}

func (f *fakeRunner) Run(dir string, args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("no args")
	}
	switch args[0] {
	case "diff":
		return f.diff, f.diffErr
	case "ls-files":
		return f.untracked, f.lsErr
	}
	return "", fmt.Errorf("unexpected git %v", args)
}

const modifiedDiff = `diff --git a/test.txt b/test.txt
index 5626abf..f719efd 100644
--- a/test.txt
+++ b/test.txt
@@ -1,2 +1,3 @@
 one
 two
+three
`

const deletedDiff = `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index 5626abf..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-keep
-me
`

func TestBuildModifiedFile(t *testing.T) {
	m, err := Build(&fakeRunner{diff: modifiedDiff}, "/wt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(m.Files))
	}

	f := m.Files[0]
	if f.Path != "test.txt" {
		t.Fatalf("unexpected path %q", f.Path)
	}
	if f.Status != StatusModified {
		t.Fatalf("expected modified, got %v", f.Status)
	}
	if len(f.Meta) != 4 {
		t.Fatalf("expected 4 meta lines, got %d: %v", len(f.Meta), f.Meta)
	}
	if f.Meta[0] != "diff --git a/test.txt b/test.txt" {
		t.Fatalf("unexpected first meta line %q", f.Meta[0])
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}

	h := f.Hunks[0]
	if h.OldStart != 1 || h.OldLines != 2 || h.NewStart != 1 || h.NewLines != 3 {
		t.Fatalf("unexpected hunk range: %+v", h)
	}
	if len(h.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(h.Lines))
	}
	if h.Lines[2].Origin != '+' || h.Lines[2].Content != "three" {
		t.Fatalf("unexpected added line: %+v", h.Lines[2])
	}
	if h.Lines[2].NewLineno != 3 || h.Lines[2].OldLineno != 0 {
		t.Fatalf("unexpected line numbers: %+v", h.Lines[2])
	}
	if h.Lines[0].OldLineno != 1 || h.Lines[0].NewLineno != 1 {
		t.Fatalf("unexpected context line numbers: %+v", h.Lines[0])
	}

	want := Summary{FilesChanged: 1, Additions: 1, Deletions: 0}
	if m.Summary != want {
		t.Fatalf("unexpected summary: %+v", m.Summary)
	}
	if m.Hash == 0 {
		t.Fatalf("expected non-zero hash for non-empty diff")
	}
}

func TestBuildDeletedFile(t *testing.T) {
	m, err := Build(&fakeRunner{diff: deletedDiff}, "/wt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := m.Files[0]
	if f.Status != StatusDeleted {
		t.Fatalf("expected deleted, got %v", f.Status)
	}
	if f.Deletions != 2 || f.Additions != 0 {
		t.Fatalf("unexpected counts: +%d -%d", f.Additions, f.Deletions)
	}
	if m.Summary.Deletions != 2 {
		t.Fatalf("unexpected summary: %+v", m.Summary)
	}
}

func TestBuildEmptyDiffHashSentinel(t *testing.T) {
	m, err := Build(&fakeRunner{}, "/wt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Files) != 0 || m.Summary.FilesChanged != 0 {
		t.Fatalf("expected empty model, got %+v", m.Summary)
	}
	if m.Hash != 0 {
		t.Fatalf("expected zero hash sentinel, got %d", m.Hash)
	}
}

func TestBuildPropagatesBackendError(t *testing.T) {
	backendErr := errors.New("bad object HEAD")
	_, err := Build(&fakeRunner{diffErr: backendErr}, "/wt")
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}

func TestBuildUntrackedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fresh.txt"), []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := Build(&fakeRunner{untracked: "fresh.txt\n"}, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(m.Files))
	}

	f := m.Files[0]
	if f.Status != StatusUntracked {
		t.Fatalf("expected untracked, got %v", f.Status)
	}
	if f.Additions != 2 {
		t.Fatalf("expected 2 additions, got %d", f.Additions)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}
	h := f.Hunks[0]
	if h.OldStart != 0 || h.OldLines != 0 || h.NewStart != 1 || h.NewLines != 2 {
		t.Fatalf("unexpected synthesized range: %+v", h)
	}
	for _, line := range h.Lines {
		if line.Origin != '+' {
			t.Fatalf("expected pure additions, got %q", line.Origin)
		}
	}
}

func TestBuildUntrackedFileWithoutTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "raw.txt"), []byte("solo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := Build(&fakeRunner{untracked: "raw.txt\n"}, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := m.Files[0].Hunks[0].Lines
	if len(lines) != 2 {
		t.Fatalf("expected content line plus marker, got %d lines", len(lines))
	}
	last := lines[len(lines)-1]
	if last.Origin != '\\' || last.Content != " No newline at end of file" {
		t.Fatalf("expected no-newline marker, got %+v", last)
	}
}

func TestBuildSkipsUntrackedAlreadyInDiff(t *testing.T) {
	m, err := Build(&fakeRunner{diff: modifiedDiff, untracked: "test.txt\n"}, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Files) != 1 {
		t.Fatalf("expected deduplicated file list, got %d files", len(m.Files))
	}
}

func TestParseHunkHeader(t *testing.T) {
	oldStart, oldLines, newStart, newLines, ok := parseHunkHeader("@@ -3,7 +3,8 @@ func main() {")
	if !ok {
		t.Fatalf("expected header to parse")
	}
	if oldStart != 3 || oldLines != 7 || newStart != 3 || newLines != 8 {
		t.Fatalf("unexpected ranges: %d,%d %d,%d", oldStart, oldLines, newStart, newLines)
	}

	// Omitted counts default to 1.
	_, oldLines, _, newLines, ok = parseHunkHeader("@@ -1 +1 @@")
	if !ok || oldLines != 1 || newLines != 1 {
		t.Fatalf("expected default counts of 1, got %d %d ok=%v", oldLines, newLines, ok)
	}

	if _, _, _, _, ok := parseHunkHeader("not a header"); ok {
		t.Fatalf("expected parse failure")
	}
}
