package parser

import (
	"iter"
	"strings"
)

const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// StripComments removes markup comments from lines. A comment may open on
// one line and close on a later one. Lines that lie entirely inside a
// comment are dropped. The returned sequence is lazy and can be iterated
// again whenever lines can.
func StripComments(lines iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		inComment := false
		for line := range lines {
			text, keep := stripLine(line, &inComment)
			if keep && !yield(text) {
				return
			}
		}
	}
}

// stripLine scans one line, updating the in-comment state. keep is false
// when nothing outside a comment was found on the line.
func stripLine(line string, inComment *bool) (text string, keep bool) {
	var sb strings.Builder
	pos := 0
	for {
		if *inComment {
			end := strings.Index(line[pos:], commentClose)
			if end < 0 {
				return sb.String(), keep
			}
			*inComment = false
			pos += end + len(commentClose)
			if pos == len(line) {
				return sb.String(), keep
			}
			continue
		}

		start := strings.Index(line[pos:], commentOpen)
		if start < 0 {
			sb.WriteString(line[pos:])
			return sb.String(), true
		}
		if start > 0 {
			sb.WriteString(line[pos : pos+start])
			keep = true
		}
		*inComment = true
		pos += start + len(commentOpen)
	}
}
