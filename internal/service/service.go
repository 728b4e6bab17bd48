package service

import (
	"context"
	"fmt"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
)

// Pass is one transformation of the bookmark tree. Apply returns the
// number of nodes it changed.
type Pass interface {
	Name() string
	Apply(ctx context.Context, root *models.Folder) (int, error)
}

// Report holds the number of changes made by each pass, in run order
type Report struct {
	Passes  []string
	Changed []int
}

// Total returns the sum of all changes
func (r Report) Total() int {
	total := 0
	for _, n := range r.Changed {
		total += n
	}
	return total
}

// Organiser runs the cleanup passes in a fixed order
type Organiser struct {
	passes []Pass
	log    *logger.Logger
}

// NewOrganiser creates an organiser running passes in the given order
func NewOrganiser(log *logger.Logger, passes ...Pass) *Organiser {
	return &Organiser{passes: passes, log: orNop(log)}
}

// NewDefaultOrganiser creates the standard pipeline: deduplicate, relocate
// bookmarks of dead hosts (when validator is not nil), merge folders, prune
// empty folders.
func NewDefaultOrganiser(log *logger.Logger, validator *LinkValidator) *Organiser {
	passes := []Pass{NewDeduplicator(log)}
	if validator != nil {
		passes = append(passes, validator)
	}
	passes = append(passes, NewFolderMerger(log), NewEmptyFolderPruner(log))
	return NewOrganiser(log, passes...)
}

// Run applies every pass to root. The first failing pass aborts the run.
func (o *Organiser) Run(ctx context.Context, root *models.Folder) (Report, error) {
	var report Report
	for _, p := range o.passes {
		n, err := p.Apply(ctx, root)
		if err != nil {
			return report, fmt.Errorf("%s failed: %w", p.Name(), err)
		}
		report.Passes = append(report.Passes, p.Name())
		report.Changed = append(report.Changed, n)
		o.log.Info().Str("pass", p.Name()).Int("changed", n).Msg("pass finished")
	}
	return report, nil
}
