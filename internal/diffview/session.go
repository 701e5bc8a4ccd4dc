package diffview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mistakeknot/milgrim/internal/gitdiff"
)

const (
	msgSelectChangedLine = "Select a changed line (+/-) to delete"
	msgDeletedFileLine   = "Cannot delete a line from a deleted file (select hunk header to restore)"
)

// Edit records one applied patch so it can be inverted or replayed.
type Edit struct {
	Patch          string
	AppliedReverse bool
}

// Session is the complete editing state for one workspace's diff:
// model, fold state, cursor and visual anchor, undo/redo history and
// the last status message. Switching workspaces discards the session
// and creates a fresh one; patches and line numbers are specific to
// one working tree's byte content, so nothing here migrates.
type Session struct {
	Worktree string

	Model *gitdiff.Model
	Folds *FoldState
	View  View

	Cursor       int
	VisualAnchor int // view index of the selection start, -1 when inactive

	Status       string
	ForceRefresh bool

	undo []Edit
	redo []Edit

	applier gitdiff.Applier
}

func NewSession(worktree string, applier gitdiff.Applier) *Session {
	return &Session{
		Worktree:     worktree,
		Folds:        NewFoldState(),
		VisualAnchor: -1,
		applier:      applier,
	}
}

// Refresh rebuilds the model from disk and re-renders the view. On
// backend failure the model is dropped and the error propagated; the
// session stays usable.
func (s *Session) Refresh(r gitdiff.Runner) error {
	s.ForceRefresh = false
	m, err := gitdiff.Build(r, s.Worktree)
	if err != nil {
		s.Model = nil
		s.View = View{}
		s.clampCursor()
		return err
	}
	s.SetModel(m)
	return nil
}

// SetModel installs a freshly built model and re-renders the view.
func (s *Session) SetModel(m *gitdiff.Model) {
	s.Model = m
	s.rebuildView()
}

func (s *Session) UndoDepth() int { return len(s.undo) }
func (s *Session) RedoDepth() int { return len(s.redo) }

func (s *Session) rebuildView() {
	if s.Model == nil {
		s.View = View{}
	} else {
		s.View = Render(s.Model, s.Folds, len(s.undo), len(s.redo))
	}
	s.clampCursor()
}

func (s *Session) clampCursor() {
	if s.Cursor >= len(s.View.Lines) {
		s.Cursor = len(s.View.Lines) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

func (s *Session) CursorUp(n int) {
	s.Cursor -= n
	s.clampCursor()
}

func (s *Session) CursorDown(n int) {
	s.Cursor += n
	s.clampCursor()
}

func (s *Session) CursorTop() {
	s.Cursor = 0
}

func (s *Session) CursorBottom() {
	s.Cursor = len(s.View.Lines) - 1
	s.clampCursor()
}

// ToggleVisual starts or clears the visual range selection anchored at
// the cursor.
func (s *Session) ToggleVisual() {
	if s.VisualAnchor >= 0 {
		s.VisualAnchor = -1
		s.Status = "Visual selection cleared"
		return
	}
	s.VisualAnchor = s.Cursor
	s.Status = "Visual selection started"
}

// SelectionRange returns the normalized visual range, or ok=false when
// no selection is active.
func (s *Session) SelectionRange() (start, end int, ok bool) {
	if s.VisualAnchor < 0 {
		return 0, 0, false
	}
	if s.VisualAnchor <= s.Cursor {
		return s.VisualAnchor, s.Cursor, true
	}
	return s.Cursor, s.VisualAnchor, true
}

// ToggleFold flips the fold under the cursor and rebuilds the view.
// Over a non-foldable row this is a no-op.
func (s *Session) ToggleFold() {
	if s.Model == nil {
		return
	}
	meta := s.metaAt(s.Cursor)
	switch meta.Kind {
	case LineFile:
		if meta.FileIdx >= len(s.Model.Files) {
			return
		}
		s.Folds.ToggleFile(s.Model.Files[meta.FileIdx].Path)
	case LineHunk:
		if meta.FileIdx >= len(s.Model.Files) {
			return
		}
		f := &s.Model.Files[meta.FileIdx]
		if meta.HunkIdx >= len(f.Hunks) {
			return
		}
		h := &f.Hunks[meta.HunkIdx]
		s.Folds.ToggleHunk(f.Path, h.OldStart, h.NewStart)
	default:
		return
	}
	s.rebuildView()
}

// DeleteSelection reverts whatever is selected: the visual range when
// one is active, the whole hunk when the cursor sits on a hunk header,
// otherwise the single line under the cursor.
func (s *Session) DeleteSelection() error {
	if s.Model == nil {
		s.Status = "Diff not loaded yet"
		return nil
	}
	if s.VisualAnchor >= 0 {
		return s.deleteRange()
	}
	if s.metaAt(s.Cursor).Kind == LineHunk {
		return s.deleteHunk()
	}
	return s.deleteLine()
}

func (s *Session) deleteLine() error {
	meta := s.metaAt(s.Cursor)
	if meta.Kind != LineDiff {
		return nil
	}
	f, h, line, ok := s.resolveLine(meta)
	if !ok {
		return nil
	}
	if f.Status == gitdiff.StatusDeleted {
		s.Status = msgDeletedFileLine
		return nil
	}
	if line.Origin != '+' && line.Origin != '-' {
		s.Status = msgSelectChangedLine
		return nil
	}

	patch := gitdiff.LineRevertPatch(f, h, meta.LineIdx)
	if err := s.applier.Apply(s.Worktree, patch, false); err != nil {
		return err
	}
	s.record(Edit{Patch: patch})
	s.Status = "Deleted diff line"
	return nil
}

func (s *Session) deleteHunk() error {
	meta := s.metaAt(s.Cursor)
	if meta.Kind != LineHunk && meta.Kind != LineDiff {
		return nil
	}
	if meta.FileIdx >= len(s.Model.Files) {
		return nil
	}
	f := &s.Model.Files[meta.FileIdx]

	if f.Status == gitdiff.StatusDeleted {
		// A deleted file's single hunk stands for the whole file body:
		// reverting it means restoring the file, by reverse-applying
		// the original deletion patch.
		patch := gitdiff.FilePatch(f)
		if err := s.applier.Apply(s.Worktree, patch, true); err != nil {
			return err
		}
		s.record(Edit{Patch: patch, AppliedReverse: true})
		s.Status = "Restored deleted file"
		return nil
	}

	if meta.HunkIdx >= len(f.Hunks) {
		return nil
	}
	h := &f.Hunks[meta.HunkIdx]

	patch := gitdiff.HunkRevertPatch(f, h)
	if err := s.applier.Apply(s.Worktree, patch, false); err != nil {
		return err
	}
	s.record(Edit{Patch: patch})
	s.Status = "Deleted diff hunk"
	return nil
}

func (s *Session) deleteRange() error {
	start, end, ok := s.SelectionRange()
	if !ok {
		return nil
	}

	type hunkRef struct {
		fileIdx int
		hunkIdx int
	}
	selected := make(map[hunkRef][]int)
	sawDeletedFile := false

	for idx := start; idx <= end; idx++ {
		meta := s.metaAt(idx)
		if meta.Kind != LineDiff {
			continue
		}
		f, _, line, ok := s.resolveLine(meta)
		if !ok {
			continue
		}
		if f.Status == gitdiff.StatusDeleted {
			sawDeletedFile = true
			continue
		}
		if line.Origin != '+' && line.Origin != '-' {
			continue
		}
		ref := hunkRef{fileIdx: meta.FileIdx, hunkIdx: meta.HunkIdx}
		selected[ref] = append(selected[ref], meta.LineIdx)
	}

	if len(selected) == 0 {
		if sawDeletedFile {
			s.Status = msgDeletedFileLine
		} else {
			s.Status = msgSelectChangedLine
		}
		return nil
	}

	refs := make([]hunkRef, 0, len(selected))
	for ref := range selected {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].fileIdx != refs[j].fileIdx {
			return refs[i].fileIdx < refs[j].fileIdx
		}
		return refs[i].hunkIdx < refs[j].hunkIdx
	})

	var patch strings.Builder
	lineCount := 0
	for _, ref := range refs {
		idxs := selected[ref]
		sort.Ints(idxs)
		lineCount += len(idxs)

		f := &s.Model.Files[ref.fileIdx]
		h := &f.Hunks[ref.hunkIdx]
		sub := gitdiff.RangeRevertPatch(f, h, idxs)
		patch.WriteString(sub)
		if !strings.HasSuffix(sub, "\n") {
			patch.WriteByte('\n')
		}
	}

	if err := s.applier.Apply(s.Worktree, patch.String(), false); err != nil {
		return err
	}
	s.record(Edit{Patch: patch.String()})
	s.VisualAnchor = -1

	if lineCount == 1 {
		s.Status = "Deleted diff line"
	} else {
		s.Status = fmt.Sprintf("Deleted %d diff lines", lineCount)
	}
	return nil
}

// Undo pops the newest edit and applies it with the opposite of its
// recorded direction. A failed apply restores the edit so the user can
// retry.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		s.Status = "Nothing to undo"
		return nil
	}
	edit := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	if err := s.applier.Apply(s.Worktree, edit.Patch, !edit.AppliedReverse); err != nil {
		s.undo = append(s.undo, edit)
		return err
	}
	s.redo = append(s.redo, edit)
	s.ForceRefresh = true
	s.Status = "Undo"
	return nil
}

// Redo pops the newest undone edit and reapplies it in its original
// direction.
func (s *Session) Redo() error {
	if len(s.redo) == 0 {
		s.Status = "Nothing to redo"
		return nil
	}
	edit := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	if err := s.applier.Apply(s.Worktree, edit.Patch, edit.AppliedReverse); err != nil {
		s.redo = append(s.redo, edit)
		return err
	}
	s.undo = append(s.undo, edit)
	s.ForceRefresh = true
	s.Status = "Redo"
	return nil
}

func (s *Session) record(edit Edit) {
	s.undo = append(s.undo, edit)
	s.redo = nil
	s.ForceRefresh = true
}

func (s *Session) metaAt(idx int) LineMeta {
	if idx < 0 || idx >= len(s.View.Meta) {
		return LineMeta{Kind: LineUnknown}
	}
	return s.View.Meta[idx]
}

// resolveLine follows a LineDiff meta entry into the model, guarding
// against a view that has drifted out of sync.
func (s *Session) resolveLine(meta LineMeta) (*gitdiff.File, *gitdiff.Hunk, gitdiff.HunkLine, bool) {
	if meta.FileIdx >= len(s.Model.Files) {
		return nil, nil, gitdiff.HunkLine{}, false
	}
	f := &s.Model.Files[meta.FileIdx]
	if meta.HunkIdx >= len(f.Hunks) {
		return nil, nil, gitdiff.HunkLine{}, false
	}
	h := &f.Hunks[meta.HunkIdx]
	if meta.LineIdx >= len(h.Lines) {
		return nil, nil, gitdiff.HunkLine{}, false
	}
	return f, h, h.Lines[meta.LineIdx], true
}
