package gitdiff

import "fmt"

// ComputeDigest runs the same walk as Build but discards structure,
// returning only the fingerprint and the change summary. Polling paths
// use it to answer "did anything change" without the allocation cost
// of the full model.
func ComputeDigest(r Runner, worktree string) (Digest, error) {
	patch, err := r.Run(worktree, diffArgs...)
	if err != nil {
		return Digest{}, fmt.Errorf("enumerate uncommitted changes: %w", err)
	}

	sink := &digestSink{ch: newChangeHasher()}
	seen := walkPatch(patch, sink)
	if err := walkUntracked(r, worktree, seen, sink); err != nil {
		return Digest{}, err
	}

	sink.summary.FilesChanged = sink.files
	return Digest{
		Hash:    sink.ch.sum(sink.files),
		Summary: sink.summary,
	}, nil
}

// digestSink mixes the hash and counts totals, nothing else.
type digestSink struct {
	ch      changeHasher
	files   int
	summary Summary
}

func (s *digestSink) File(path string) {
	s.files++
	s.ch.mixPath(path)
}

func (s *digestSink) Meta(string) {}

func (s *digestSink) HunkStart(string, int, int, int, int) {}

func (s *digestSink) Line(origin byte, content string) {
	switch origin {
	case '+':
		s.summary.Additions++
	case '-':
		s.summary.Deletions++
	}
	s.ch.mixLine(origin, content)
}

func (s *digestSink) End(status FileStatus) {
	s.ch.mixStatus(status)
}
