package gitdiff

import (
	"strconv"
	"strings"
)

// diffSink consumes the ordered event stream of a raw patch walk.
// Events for one file arrive as: File, then Meta/HunkStart/Line in
// input order, then End carrying the settled status. The model builder
// and the digest computer are both sinks over the same walk, so their
// hashes agree.
type diffSink interface {
	File(path string)
	Meta(line string)
	HunkStart(header string, oldStart, oldLines, newStart, newLines int)
	Line(origin byte, content string)
	End(status FileStatus)
}

// walkPatch feeds a raw `git diff` document through sink and returns
// the set of paths it saw, so untracked enumeration can skip them.
func walkPatch(patch string, sink diffSink) map[string]bool {
	seen := make(map[string]bool)

	inFile := false
	inHunks := false
	status := StatusUnknown

	lines := strings.Split(patch, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")

		if rest, ok := strings.CutPrefix(line, "diff --git "); ok {
			if inFile {
				sink.End(status)
			}
			path := parseGitDiffPath(rest)
			if path == "" {
				inFile = false
				continue
			}
			sink.File(path)
			sink.Meta(line)
			seen[path] = true
			status = StatusModified
			inFile = true
			inHunks = false
			continue
		}

		if !inFile {
			continue
		}

		if oldStart, oldLines, newStart, newLines, ok := parseHunkHeader(line); ok {
			sink.HunkStart(line, oldStart, oldLines, newStart, newLines)
			inHunks = true
			continue
		}

		if !inHunks {
			if st, ok := statusFromMeta(line); ok {
				status = st
			}
			sink.Meta(line)
			continue
		}

		if len(line) > 0 {
			switch line[0] {
			case '+', '-', ' ', '\\':
				sink.Line(line[0], line[1:])
				continue
			}
		}
		sink.Meta(line)
	}

	if inFile {
		sink.End(status)
	}
	return seen
}

// parseGitDiffPath extracts the b-side path from the remainder of a
// "diff --git a/x b/x" line, falling back to the a-side.
func parseGitDiffPath(rest string) string {
	fields := strings.Fields(rest)
	var aPath, bPath string
	if len(fields) > 0 {
		aPath = normalizeDiffPath(fields[0])
	}
	if len(fields) > 1 {
		bPath = normalizeDiffPath(fields[1])
	}
	if bPath != "" {
		return bPath
	}
	return aPath
}

func normalizeDiffPath(token string) string {
	token = strings.Trim(token, `"`)
	if rest, ok := strings.CutPrefix(token, "a/"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(token, "b/"); ok {
		return rest
	}
	return ""
}

func statusFromMeta(line string) (FileStatus, bool) {
	switch {
	case strings.HasPrefix(line, "new file mode "):
		return StatusAdded, true
	case strings.HasPrefix(line, "deleted file mode "):
		return StatusDeleted, true
	case strings.HasPrefix(line, "rename from "), strings.HasPrefix(line, "rename to "):
		return StatusRenamed, true
	case strings.HasPrefix(line, "copy from "), strings.HasPrefix(line, "copy to "):
		return StatusCopied, true
	case strings.HasPrefix(line, "old mode "), strings.HasPrefix(line, "new mode "):
		return StatusTypeChange, true
	}
	return StatusUnknown, false
}

// parseHunkHeader parses "@@ -old[,n] +new[,m] @@ ...". Counts default
// to 1 when omitted, matching unified diff conventions.
func parseHunkHeader(line string) (oldStart, oldLines, newStart, newLines int, ok bool) {
	rest, found := strings.CutPrefix(line, "@@ ")
	if !found {
		return 0, 0, 0, 0, false
	}
	end := strings.Index(rest, " @@")
	if end < 0 {
		return 0, 0, 0, 0, false
	}
	fields := strings.Fields(rest[:end])
	if len(fields) != 2 {
		return 0, 0, 0, 0, false
	}
	oldStart, oldLines, ok = parseHunkRange(fields[0], '-')
	if !ok {
		return 0, 0, 0, 0, false
	}
	newStart, newLines, ok = parseHunkRange(fields[1], '+')
	if !ok {
		return 0, 0, 0, 0, false
	}
	return oldStart, oldLines, newStart, newLines, true
}

func parseHunkRange(token string, sign byte) (start, count int, ok bool) {
	if len(token) < 2 || token[0] != sign {
		return 0, 0, false
	}
	token = token[1:]
	count = 1
	if at := strings.IndexByte(token, ','); at >= 0 {
		n, err := strconv.Atoi(token[at+1:])
		if err != nil {
			return 0, 0, false
		}
		count = n
		token = token[:at]
	}
	start, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return start, count, true
}
