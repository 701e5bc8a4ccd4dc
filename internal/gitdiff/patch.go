package gitdiff

import (
	"fmt"
	"strings"
)

// The synthesized patches below are applied against the working tree,
// whose line numbering matches the hunk's new-file side. Their "old"
// range is therefore the hunk's current new range, and selected lines
// are reclassified: a selected '+' becomes '-' (drop the addition), a
// selected '-' becomes '+' (reinsert the deletion).

// FilePatch reassembles a file's complete original patch verbatim:
// its preamble followed by every hunk's header and raw lines. Reverse
// applying it restores a deleted file.
func FilePatch(f *File) string {
	var b strings.Builder
	for _, line := range f.Meta {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, h := range f.Hunks {
		b.WriteString(h.Header)
		b.WriteByte('\n')
		for _, line := range h.Lines {
			b.WriteString(rawHunkLine(line))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// HunkRevertPatch reverts an entire hunk by strictly swapping every
// line's origin. Context and no-newline markers pass through.
func HunkRevertPatch(f *File, h *Hunk) string {
	var b strings.Builder
	writePatchHeader(&b, f.Path)

	oldStart := h.NewStart
	oldCount := h.NewLines
	newStart := h.OldStart
	if f.Status == StatusAdded || f.Status == StatusUntracked {
		newStart = oldStart
	}
	newCount := h.OldLines

	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@%s\n",
		oldStart, oldCount, newStart, newCount, hunkHeaderSuffix(h.Header))

	for _, line := range h.Lines {
		switch line.Origin {
		case ' ':
			b.WriteByte(' ')
		case '+':
			b.WriteByte('-')
		case '-':
			b.WriteByte('+')
		case '\\':
			b.WriteByte('\\')
		default:
			continue
		}
		b.WriteString(line.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// LineRevertPatch reverts a single changed line within a hunk, leaving
// every other line in place.
func LineRevertPatch(f *File, h *Hunk, target int) string {
	return RangeRevertPatch(f, h, []int{target})
}

// RangeRevertPatch reverts the given line indices within one hunk.
// Unselected additions become context, unselected removals are dropped
// (they are already absent from the working tree).
func RangeRevertPatch(f *File, h *Hunk, targets []int) string {
	selected := make(map[int]bool, len(targets))
	for _, idx := range targets {
		selected[idx] = true
	}

	var b strings.Builder
	writePatchHeader(&b, f.Path)

	oldStart := h.NewStart
	oldCount := h.NewLines

	var out []string
	for idx, line := range h.Lines {
		switch line.Origin {
		case ' ':
			out = append(out, " "+line.Content)
		case '+':
			if selected[idx] {
				out = append(out, "-"+line.Content)
			} else {
				out = append(out, " "+line.Content)
			}
		case '-':
			if selected[idx] {
				out = append(out, "+"+line.Content)
			}
		case '\\':
			out = append(out, "\\"+line.Content)
		}
	}

	newStart := oldStart
	newCount := countNewLines(out)

	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@%s\n",
		oldStart, oldCount, newStart, newCount, hunkHeaderSuffix(h.Header))
	for _, line := range out {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func writePatchHeader(b *strings.Builder, path string) {
	p := diffPath(path)
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", p, p)
	fmt.Fprintf(b, "--- a/%s\n", p)
	fmt.Fprintf(b, "+++ b/%s\n", p)
}

func diffPath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

func rawHunkLine(line HunkLine) string {
	switch line.Origin {
	case '+', '-', ' ', '\\':
		return string(line.Origin) + line.Content
	default:
		return line.Content
	}
}

// hunkHeaderSuffix returns everything after the closing "@@" of a raw
// hunk header, typically the function context git appends.
func hunkHeaderSuffix(header string) string {
	first := strings.Index(header, "@@")
	if first < 0 {
		return ""
	}
	second := strings.Index(header[first+2:], "@@")
	if second < 0 {
		return ""
	}
	return header[first+2+second+2:]
}

func countNewLines(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, " ") || strings.HasPrefix(l, "+") {
			n++
		}
	}
	return n
}
