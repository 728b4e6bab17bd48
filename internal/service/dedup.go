package service

import (
	"context"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// Deduplicator removes bookmarks sharing the same link, keeping the deepest
// one. Among equally deep duplicates the first in document order is kept.
type Deduplicator struct {
	log *logger.Logger
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(log *logger.Logger) *Deduplicator {
	return &Deduplicator{log: orNop(log)}
}

// Name implements Pass
func (d *Deduplicator) Name() string { return "deduplicate" }

// Apply implements Pass
func (d *Deduplicator) Apply(_ context.Context, root *models.Folder) (int, error) {
	var links []string
	groups := make(map[string][]*models.Bookmark)
	for _, b := range models.Bookmarks(root) {
		if _, seen := groups[b.Link]; !seen {
			links = append(links, b.Link)
		}
		groups[b.Link] = append(groups[b.Link], b)
	}

	removed := 0
	for _, link := range links {
		group := groups[link]
		if len(group) < 2 {
			continue
		}

		keep := group[0]
		for _, b := range group[1:] {
			if b.Depth > keep.Depth {
				keep = b
			}
		}

		for _, b := range group {
			if b == keep {
				continue
			}
			d.log.Info().Str("title", b.Title).Str("folder", b.Parent().FullTitle()).Str("kept", models.Path(keep)).Msg("removing duplicate bookmark")
			models.Detach(b)
			removed++
		}
	}
	return removed, nil
}
