package parser

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// maxLineSize bounds a single line; ICON attributes carry whole data URIs.
const maxLineSize = 16 << 20

// ParseBookmarksHTML parses a bookmark file read from r
func ParseBookmarksHTML(r io.Reader, log *logger.Logger) (*models.Folder, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	root, err := Parse(Lines(sc), log)
	if scanErr := sc.Err(); scanErr != nil {
		return nil, fmt.Errorf("cannot read bookmarks: %w", scanErr)
	}
	return root, err
}

// Lines yields the lines of sc without their line endings
func Lines(sc *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
}
