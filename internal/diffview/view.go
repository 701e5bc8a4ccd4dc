package diffview

import (
	"fmt"

	"github.com/mistakeknot/milgrim/internal/gitdiff"
)

const (
	foldedMarker   = "▶"
	unfoldedMarker = "▼"
)

// View is the rendered projection of a model under a fold state. Meta
// always has the same length as Lines.
type View struct {
	Lines []string
	Meta  []LineMeta
}

// Render projects (model, folds) into display lines plus the parallel
// line-to-model mapping. The first two lines are a banner: the change
// summary and the undo/redo depth.
func Render(m *gitdiff.Model, folds *FoldState, undoCount, redoCount int) View {
	var v View
	add := func(line string, meta LineMeta) {
		v.Lines = append(v.Lines, line)
		v.Meta = append(v.Meta, meta)
	}

	add(m.Summary.String(), LineMeta{Kind: LineInfo})
	add(fmt.Sprintf("edits: %d undo / %d redo", undoCount, redoCount), LineMeta{Kind: LineInfo})

	for fi := range m.Files {
		f := &m.Files[fi]
		fileFolded := folds.FileFolded(f.Path)
		marker := unfoldedMarker
		if fileFolded {
			marker = foldedMarker
		}
		add(fmt.Sprintf("%s %s %s  +%d -%d", marker, f.Status, f.Path, f.Additions, f.Deletions),
			LineMeta{Kind: LineFile, FileIdx: fi})
		if fileFolded {
			continue
		}

		for hi := range f.Hunks {
			h := &f.Hunks[hi]
			hunkFolded := folds.HunkFolded(f.Path, h.OldStart, h.NewStart)
			marker := unfoldedMarker
			if hunkFolded {
				marker = foldedMarker
			}
			add(marker+" "+h.Header, LineMeta{Kind: LineHunk, FileIdx: fi, HunkIdx: hi})
			if hunkFolded {
				continue
			}

			for li, line := range h.Lines {
				add(string(line.Origin)+line.Content,
					LineMeta{Kind: LineDiff, FileIdx: fi, HunkIdx: hi, LineIdx: li})
			}
		}
	}
	return v
}
