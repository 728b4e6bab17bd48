package service

import (
	"context"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// EmptyFolderPruner removes folders without any bookmark in their subtree.
// The root folder is always kept.
type EmptyFolderPruner struct {
	log *logger.Logger
}

// NewEmptyFolderPruner creates a new pruner
func NewEmptyFolderPruner(log *logger.Logger) *EmptyFolderPruner {
	return &EmptyFolderPruner{log: orNop(log)}
}

// Name implements Pass
func (p *EmptyFolderPruner) Name() string { return "prune-empty-folders" }

// Apply implements Pass
func (p *EmptyFolderPruner) Apply(_ context.Context, root *models.Folder) (int, error) {
	var empty []*models.Folder
	var paths []string
	for _, f := range models.Folders(root) {
		if f != root && !f.HasBookmarks() {
			empty = append(empty, f)
			paths = append(paths, f.FullTitle())
		}
	}

	for i, f := range empty {
		p.log.Info().Str("folder", paths[i]).Msg("removing empty folder")
		models.Detach(f)
	}
	return len(empty), nil
}
