package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// FolderMerger merges folders that share the same full title. The first
// folder found survives and receives the children of the others, in order.
// Longer paths are merged first, so merging a nested duplicate never
// invalidates a shallower one still waiting. Titles are compared exactly.
type FolderMerger struct {
	log *logger.Logger
}

// NewFolderMerger creates a new folder merger
func NewFolderMerger(log *logger.Logger) *FolderMerger {
	return &FolderMerger{log: orNop(log)}
}

// Name implements Pass
func (m *FolderMerger) Name() string { return "merge-folders" }

// Apply implements Pass. It returns the number of folders merged away.
func (m *FolderMerger) Apply(_ context.Context, root *models.Folder) (int, error) {
	var paths []string
	groups := make(map[string][]*models.Folder)
	for _, f := range models.Folders(root) {
		path := f.FullTitle()
		if _, seen := groups[path]; !seen {
			paths = append(paths, path)
		}
		groups[path] = append(groups[path], f)
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return len(paths[i]) > len(paths[j])
	})

	merged := 0
	for _, path := range paths {
		group := groups[path]
		if len(group) < 2 {
			continue
		}

		survivor := group[0]
		m.log.Info().Str("folder", path).Int("duplicates", len(group)-1).Msg("merging folders")
		for _, dup := range group[1:] {
			for _, child := range dup.TakeChildren() {
				if err := survivor.Append(child); err != nil {
					return merged, fmt.Errorf("cannot merge %q: %w", path, err)
				}
			}
			models.Detach(dup)
			merged++
		}
	}
	return merged, nil
}
