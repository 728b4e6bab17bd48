package commands

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/repository"
	"github.com/dastanaron/bookmarks-organiser/internal/service"
)

// ClearDoublesCommand removes duplicate bookmarks from the stored snapshot
type ClearDoublesCommand struct {
	repo  repository.TreeRepository
	dedup *service.Deduplicator
	log   *logger.Logger
}

// NewClearDoublesCommand creates a new clear doubles command
func NewClearDoublesCommand(repo repository.TreeRepository, log *logger.Logger) *ClearDoublesCommand {
	if log == nil {
		log = logger.Nop()
	}
	return &ClearDoublesCommand{
		repo:  repo,
		dedup: service.NewDeduplicator(log),
		log:   log,
	}
}

// Execute deduplicates the stored tree and saves it back. It returns the
// number of removed bookmarks.
func (c *ClearDoublesCommand) Execute(ctx context.Context) (int, error) {
	root, err := c.repo.LoadTree(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	removed, err := c.dedup.Apply(ctx, root)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		c.log.Info().Msg("no duplicate bookmarks found")
		return 0, nil
	}

	if err := c.repo.SaveTree(ctx, root); err != nil {
		return 0, fmt.Errorf("failed to save bookmarks: %w", err)
	}
	c.log.Info().Int("deleted", removed).Msg("duplicate bookmarks deleted")
	return removed, nil
}
