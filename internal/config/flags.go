package config

import (
	"flag"
	"fmt"
)

// parseFlags parses command line arguments. The bookmark file may be given
// with -input or as the first positional argument.
//
// Flags:
//
//	-input bookmark file exported by the browser
//	-output path of the organised file (default <input>.modded.html)
//	-db SQLite file receiving a snapshot of the organised tree
//	-toolbar full title of the toolbar folder
//	-removed-folder title of the folder collecting dead bookmarks
//	-skip-dns do not check that bookmark hosts resolve
//	-resolve-timeout timeout of a single host lookup
//	-preview review the result before writing it
//	-log-level zerolog level name
//	-clear-doubles remove duplicate bookmarks from the -db snapshot and exit
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("bookmarks-organiser", flag.ContinueOnError)

	fs.StringVar(&cfg.Input, "input", "", "Bookmark file exported by the browser")
	fs.StringVar(&cfg.Output, "output", "", "Path of the organised file (default: <input>"+OutputSuffix+")")
	fs.StringVar(&cfg.DBPath, "db", "", "SQLite file receiving a snapshot of the organised tree")
	fs.StringVar(&cfg.ToolbarPath, "toolbar", "", "Full title of the toolbar folder")
	fs.StringVar(&cfg.RemovedFolder, "removed-folder", "", "Folder collecting bookmarks with dead hosts")
	fs.BoolVar(&cfg.SkipLinkCheck, "skip-dns", false, "Do not check that bookmark hosts resolve")
	fs.DurationVar(&cfg.ResolveTimeout, "resolve-timeout", 0, "Timeout of a single host lookup (e.g., 5s)")
	fs.BoolVar(&cfg.Preview, "preview", false, "Review the organised tree before writing it")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.ClearDoubles, "clear-doubles", false, "Remove duplicate bookmarks (same URL) from the -db snapshot")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	return cfg, nil
}
