package gitdiff

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var diffArgs = []string{"diff", "HEAD", "--no-color", "--patch", "--no-ext-diff"}

// Build enumerates the uncommitted changes of worktree (working tree +
// index vs HEAD, untracked files included as pure additions) and
// parses them into a Model. The backend failing to enumerate surfaces
// as one error; no partial model is returned.
func Build(r Runner, worktree string) (*Model, error) {
	patch, err := r.Run(worktree, diffArgs...)
	if err != nil {
		return nil, fmt.Errorf("enumerate uncommitted changes: %w", err)
	}

	sink := &modelSink{ch: newChangeHasher()}
	seen := walkPatch(patch, sink)
	if err := walkUntracked(r, worktree, seen, sink); err != nil {
		return nil, err
	}
	return sink.finish(), nil
}

// modelSink builds the full structured model from the walk.
type modelSink struct {
	model Model
	ch    changeHasher
	oldNo int
	newNo int
}

func (s *modelSink) File(path string) {
	s.model.Files = append(s.model.Files, File{Path: path, Status: StatusModified})
	s.ch.mixPath(path)
}

func (s *modelSink) current() *File {
	return &s.model.Files[len(s.model.Files)-1]
}

func (s *modelSink) Meta(line string) {
	f := s.current()
	f.Meta = append(f.Meta, line)
}

func (s *modelSink) HunkStart(header string, oldStart, oldLines, newStart, newLines int) {
	f := s.current()
	f.Hunks = append(f.Hunks, Hunk{
		Header:   header,
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
	})
	s.oldNo = oldStart
	s.newNo = newStart
}

func (s *modelSink) Line(origin byte, content string) {
	f := s.current()
	if len(f.Hunks) == 0 {
		// Content before any boundary event; keep the line in a
		// placeholder hunk rather than dropping it.
		f.Hunks = append(f.Hunks, Hunk{})
	}
	h := &f.Hunks[len(f.Hunks)-1]

	line := HunkLine{Origin: origin, Content: content}
	switch origin {
	case '+':
		line.NewLineno = s.newNo
		s.newNo++
		f.Additions++
		s.model.Summary.Additions++
	case '-':
		line.OldLineno = s.oldNo
		s.oldNo++
		f.Deletions++
		s.model.Summary.Deletions++
	case ' ':
		line.OldLineno = s.oldNo
		line.NewLineno = s.newNo
		s.oldNo++
		s.newNo++
	}
	h.Lines = append(h.Lines, line)
	s.ch.mixLine(origin, content)
}

func (s *modelSink) End(status FileStatus) {
	s.current().Status = status
	s.ch.mixStatus(status)
}

func (s *modelSink) finish() *Model {
	s.model.Summary.FilesChanged = len(s.model.Files)
	s.model.Hash = s.ch.sum(len(s.model.Files))
	return &s.model
}

// walkUntracked feeds each untracked file through sink as a synthetic
// pure-addition delta, mirroring what the patch walk would produce for
// a newly added file.
func walkUntracked(r Runner, worktree string, seen map[string]bool, sink diffSink) error {
	out, err := r.Run(worktree, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return fmt.Errorf("list untracked files: %w", err)
	}

	for _, rel := range strings.Split(out, "\n") {
		rel = strings.TrimSpace(rel)
		if rel == "" {
			continue
		}
		path := filepath.ToSlash(rel)
		if seen[path] {
			continue
		}

		sink.File(path)
		sink.Meta("diff --git a/" + path + " b/" + path)
		sink.Meta("new file mode 100644")
		sink.Meta("--- /dev/null")
		sink.Meta("+++ b/" + path)

		data, err := os.ReadFile(filepath.Join(worktree, rel))
		if err != nil {
			sink.Meta("unable to read file: " + err.Error())
			sink.End(StatusUntracked)
			continue
		}

		if len(data) > 0 {
			lines, missingEOF := splitFileLines(string(data))
			header := fmt.Sprintf("@@ -0,0 +1,%d @@", len(lines))
			sink.HunkStart(header, 0, 0, 1, len(lines))
			for _, l := range lines {
				sink.Line('+', l)
			}
			if missingEOF {
				sink.Line('\\', " No newline at end of file")
			}
		}
		sink.End(StatusUntracked)
	}
	return nil
}

// splitFileLines splits file contents into newline-free lines and
// reports whether the final line lacked a trailing newline.
func splitFileLines(content string) (lines []string, missingEOF bool) {
	missingEOF = !strings.HasSuffix(content, "\n")
	lines = strings.Split(content, "\n")
	if !missingEOF {
		lines = lines[:len(lines)-1]
	}
	return lines, missingEOF
}
