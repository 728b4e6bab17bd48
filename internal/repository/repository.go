package repository

import (
	"context"
	"errors"

	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// ErrNoTree is returned by LoadTree when nothing has been saved yet
var ErrNoTree = errors.New("no bookmark tree stored")

// TreeRepository stores a snapshot of a bookmark tree
type TreeRepository interface {
	// SaveTree replaces the stored snapshot with root
	SaveTree(ctx context.Context, root *models.Folder) error
	// LoadTree rebuilds the stored snapshot
	LoadTree(ctx context.Context) (*models.Folder, error)
	Close() error
}
