package gitdiff

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// changeHasher accumulates a rolling fingerprint of a diff walk. Both
// the model builder and the digest computer mix the same sequence of
// events, so equal walks produce equal sums.
type changeHasher struct {
	h hash.Hash64
}

func newChangeHasher() changeHasher {
	return changeHasher{h: fnv.New64a()}
}

func (c changeHasher) mixPath(path string) {
	c.h.Write([]byte(path))
	c.h.Write([]byte{0})
}

func (c changeHasher) mixStatus(status FileStatus) {
	c.h.Write([]byte{byte(status)})
}

func (c changeHasher) mixLine(origin byte, content string) {
	var buf [binary.MaxVarintLen64 + 1]byte
	buf[0] = origin
	n := binary.PutUvarint(buf[1:], uint64(len(content)))
	c.h.Write(buf[:1+n])
	c.h.Write([]byte(content))
}

// sum forces the sentinel 0 for an empty diff, whatever the raw
// accumulator produced.
func (c changeHasher) sum(filesChanged int) uint64 {
	if filesChanged == 0 {
		return 0
	}
	return c.h.Sum64()
}
