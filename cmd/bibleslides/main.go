// Command bibleslides projects Bible verses as slides. Each verse is split
// into pages that exactly fit the projection pane at the chosen font size.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"bible-slides/internal/config"
	applog "bible-slides/internal/log"
)

// CLI defines the command-line interface.
var CLI struct {
	Data        string `name:"data" help:"Directory of <NAME>_bible.json / <NAME>_bible.db files." type:"path"`
	Translation string `short:"t" help:"Translation to use."`

	Present  PresentCmd  `cmd:"" default:"withargs" help:"Open the operator console (default)."`
	Paginate PaginateCmd `cmd:"" help:"Print the pages of one verse."`
	Export   ExportCmd   `cmd:"" help:"Render the pages of one verse to PNG files."`
	Import   ImportCmd   `cmd:"" help:"Convert a JSON bible to SQLite."`
	Books    BooksCmd    `cmd:"" help:"List the books of a translation."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

// env is bound into every command's Run.
type env struct {
	ctx         context.Context
	settings    config.Settings
	translation string
	log         *slog.Logger
	out         io.Writer
}

func main() {
	settings, cfgErr := config.Load()

	kctx := kong.Parse(&CLI,
		kong.Name("bibleslides"),
		kong.Description("Verse slides that always fit the screen."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if CLI.Data != "" {
		settings.Data.Dir = CLI.Data
	}

	opts := settings.Logging.LogOptions()
	if kctx.Command() == "present" || kctx.Command() == "present <ref>" {
		// The console owns the terminal; log to a file only.
		opts.Console = io.Discard
		if opts.File == "" {
			if dir, err := config.Dir(); err == nil {
				opts.File = filepath.Join(dir, "bible-slides.log")
			}
		}
	}
	applog.Init(opts)
	logger := applog.WithComponent("cli")
	if cfgErr != nil {
		logger.Warn("settings not loaded, using defaults", slog.Any("err", cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	translation := CLI.Translation
	if translation == "" {
		translation = settings.Data.Translation
	}
	err := kctx.Run(&env{ctx: ctx, settings: settings, translation: translation, log: logger, out: os.Stdout})
	kctx.FatalIfErrorf(err)
}
