package diffview

// hunkKey identifies a hunk by position rather than index, so fold
// toggles survive a refresh as long as hunk boundaries are unchanged.
type hunkKey struct {
	path     string
	oldStart int
	newStart int
}

// FoldState tracks which files and hunks are collapsed in the view.
type FoldState struct {
	files map[string]bool
	hunks map[hunkKey]bool
}

func NewFoldState() *FoldState {
	return &FoldState{
		files: make(map[string]bool),
		hunks: make(map[hunkKey]bool),
	}
}

func (f *FoldState) ToggleFile(path string) {
	if f.files[path] {
		delete(f.files, path)
		return
	}
	f.files[path] = true
}

func (f *FoldState) ToggleHunk(path string, oldStart, newStart int) {
	key := hunkKey{path: path, oldStart: oldStart, newStart: newStart}
	if f.hunks[key] {
		delete(f.hunks, key)
		return
	}
	f.hunks[key] = true
}

func (f *FoldState) FileFolded(path string) bool {
	return f.files[path]
}

func (f *FoldState) HunkFolded(path string, oldStart, newStart int) bool {
	return f.hunks[hunkKey{path: path, oldStart: oldStart, newStart: newStart}]
}
