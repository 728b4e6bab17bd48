package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/models"
	"github.com/dastanaron/bookmarks-organiser/internal/parser"
	"github.com/dastanaron/bookmarks-organiser/internal/service"
)

// TreeStore persists an organised bookmark tree
type TreeStore interface {
	SaveTree(ctx context.Context, root *models.Folder) error
}

// Previewer shows the organised tree and reports whether to write it
type Previewer interface {
	Preview(root *models.Folder) (accepted bool, err error)
}

// OrganiseCommand reads a bookmark file, cleans it up and writes the result
type OrganiseCommand struct {
	organiser *service.Organiser
	exporter  *ExportCommand
	store     TreeStore
	previewer Previewer
	log       *logger.Logger
}

// OrganiseOption configures an OrganiseCommand
type OrganiseOption func(*OrganiseCommand)

// WithStore also saves the organised tree to store
func WithStore(store TreeStore) OrganiseOption {
	return func(c *OrganiseCommand) { c.store = store }
}

// WithPreview asks p for confirmation before anything is written
func WithPreview(p Previewer) OrganiseOption {
	return func(c *OrganiseCommand) { c.previewer = p }
}

// NewOrganiseCommand creates a new organise command
func NewOrganiseCommand(organiser *service.Organiser, log *logger.Logger, opts ...OrganiseOption) *OrganiseCommand {
	if log == nil {
		log = logger.Nop()
	}
	c := &OrganiseCommand{
		organiser: organiser,
		exporter:  NewExportCommand(log),
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute organises the bookmarks in inputPath and writes them to outputPath
func (c *OrganiseCommand) Execute(ctx context.Context, inputPath, outputPath string) error {
	root, err := c.load(inputPath)
	if err != nil {
		return err
	}
	c.log.Info().
		Int("bookmarks", len(models.Bookmarks(root))).
		Int("folders", len(models.Folders(root))).
		Str("path", inputPath).
		Msg("parsed bookmarks")

	report, err := c.organiser.Run(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to organise bookmarks: %w", err)
	}
	c.log.Info().Int("changes", report.Total()).Msg("bookmarks organised")

	if c.previewer != nil {
		accepted, err := c.previewer.Preview(root)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		if !accepted {
			c.log.Info().Msg("result discarded, nothing written")
			return nil
		}
	}

	if c.store != nil {
		if err := c.store.SaveTree(ctx, root); err != nil {
			return fmt.Errorf("failed to save bookmarks: %w", err)
		}
	}

	return c.exporter.Execute(root, outputPath)
}

func (c *OrganiseCommand) load(inputPath string) (*models.Folder, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	root, err := parser.ParseBookmarksHTML(file, c.log)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return root, nil
}
