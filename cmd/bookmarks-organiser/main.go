package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"

	"github.com/dastanaron/bookmarks-organiser/internal/commands"
	"github.com/dastanaron/bookmarks-organiser/internal/config"
	"github.com/dastanaron/bookmarks-organiser/internal/logger"
	"github.com/dastanaron/bookmarks-organiser/internal/repository"
	"github.com/dastanaron/bookmarks-organiser/internal/resolver"
	"github.com/dastanaron/bookmarks-organiser/internal/service"
	"github.com/dastanaron/bookmarks-organiser/internal/ui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	log := logger.NewConsole("organiser", levelOf(cfg)).With("run", uuid.NewString())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var validator *service.LinkValidator
	if cfg.SkipLinkCheck {
		log.Info().Msg("link check disabled")
	} else {
		validator = service.NewLinkValidator(
			resolver.NewDNSResolver(cfg.ResolveTimeout),
			log,
			service.WithToolbarPath(cfg.ToolbarPath),
			service.WithRemovedFolder(cfg.RemovedFolder),
		)
	}
	organiser := service.NewDefaultOrganiser(log, validator)

	var (
		opts []commands.OrganiseOption
		repo *repository.SQLiteRepository
	)
	if cfg.DBPath != "" {
		// Ensure database directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			log.Fatal().Err(err).Msg("failed to create database directory")
		}

		repo, err = repository.NewSQLiteRepository(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer repo.Close()
		opts = append(opts, commands.WithStore(repo))
	}
	if cfg.ClearDoubles {
		if _, err := commands.NewClearDoublesCommand(repo, log).Execute(ctx); err != nil {
			stop()
			repo.Close()
			log.Fatal().Err(err).Msg("clear doubles failed")
		}
		return
	}
	if cfg.Preview {
		opts = append(opts, commands.WithPreview(ui.NewApp()))
	}

	cmd := commands.NewOrganiseCommand(organiser, log, opts...)
	if err := cmd.Execute(ctx, cfg.Input, cfg.OutputPath()); err != nil {
		stop()
		if repo != nil {
			repo.Close()
		}
		log.Fatal().Err(err).Msg("organise failed")
	}
	log.Info().Str("path", cfg.OutputPath()).Msg("done")
}

func levelOf(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return cfg.LogLevel
}
