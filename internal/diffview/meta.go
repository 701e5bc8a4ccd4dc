package diffview

// LineKind classifies a rendered display line.
type LineKind int

const (
	LineUnknown LineKind = iota
	LineInfo
	LineFile
	LineHunk
	LineDiff
)

// LineMeta maps one rendered display line back into the model. The
// index fields are meaningful per kind: LineFile carries FileIdx,
// LineHunk adds HunkIdx, LineDiff adds LineIdx.
type LineMeta struct {
	Kind    LineKind
	FileIdx int
	HunkIdx int
	LineIdx int
}
