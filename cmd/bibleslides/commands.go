package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mattn/go-runewidth"

	"bible-slides/internal/bible"
	"bible-slides/internal/config"
	applog "bible-slides/internal/log"
	"bible-slides/internal/paginate"
	"bible-slides/internal/present"
	"bible-slides/internal/render"
	"bible-slides/internal/ui"
	"bible-slides/internal/version"
)

// Terminal pages are measured against a classic 80x24 screen unless sized.
const (
	defaultCols = 80
	defaultRows = 24
)

// openStore loads the selected translation, or the first one in the library.
func (e *env) openStore() (*bible.Store, string, error) {
	lib, err := bible.OpenLibrary(e.settings.Data.Dir, e.log)
	if err != nil {
		return nil, "", err
	}
	name := e.translation
	if name == "" || !slices.Contains(lib.Translations(), name) {
		if name != "" {
			e.log.Warn("translation not found, using first", slog.String("translation", name))
		}
		name = lib.Translations()[0]
	}
	s, err := lib.Get(e.ctx, name)
	return s, name, err
}

// PresentCmd runs the operator console.
type PresentCmd struct {
	Ref         string `arg:"" optional:"" help:"Verse to open, e.g. \"John 3:16\" or 창1:1."`
	Mode        string `help:"Display mode: slide, slide-scroll or scroll."`
	FontPercent int    `name:"font" help:"Font zoom in percent."`
	Zen         bool   `help:"Hide everything but the projection."`
}

func (c *PresentCmd) Run(e *env) error {
	lib, err := bible.OpenLibrary(e.settings.Data.Dir, applog.WithComponent("bible"))
	if err != nil {
		return err
	}
	state, err := config.LoadState()
	if err != nil {
		e.log.Warn("state not loaded", slog.Any("err", err))
	}
	if state.Translation == "" {
		state.Mode = e.settings.Display.Mode
		state.FontPercent = e.settings.Display.FontPercent
		state.ShowRef = e.settings.Display.ShowRef
	}
	if CLI.Translation != "" {
		state.Translation = CLI.Translation
	}
	if c.Mode != "" {
		if _, err := present.ParseMode(c.Mode); err != nil {
			return err
		}
		state.Mode = c.Mode
	}
	if c.FontPercent > 0 {
		state.FontPercent = c.FontPercent
	}
	if c.Zen {
		state.Zen = true
	}
	if c.Ref != "" {
		name := state.Translation
		if !slices.Contains(lib.Translations(), name) {
			name = lib.Translations()[0]
			state.Translation = name
		}
		store, err := lib.Get(e.ctx, name)
		if err != nil {
			return err
		}
		ref, err := store.ParseReference(c.Ref)
		if err != nil {
			return err
		}
		state.Book, state.Chapter, state.Verse = ref.Book, ref.Chapter, ref.Verse
		state.EndChapter, state.EndVerse = ref.Chapter, ref.Verse
	}

	e.log.Info("console starting", slog.String("version", version.String()),
		slog.String("translation", state.Translation), slog.String("mode", state.Mode))
	return ui.Run(e.ctx, ui.Options{
		Library:  lib,
		Settings: e.settings,
		State:    state,
		Logger:   applog.WithComponent("ui"),
	})
}

// newRaster builds the pixel surface from the display settings.
func newRaster(s config.Settings) (*render.Raster, error) {
	r, err := render.NewRaster(s.Display.FontFile)
	if err != nil {
		return nil, err
	}
	r.Margin = s.Display.Margin
	return r, nil
}

// PageFlags are shared by commands that paginate a single verse.
type PageFlags struct {
	Ref      string `arg:"" help:"Verse reference."`
	Width    int    `help:"Surface width (pixels, or columns for the terminal)."`
	Height   int    `help:"Surface height (pixels, or rows for the terminal)."`
	FontSize int    `name:"font-size" help:"Font size (pixels, or zoom percent for the terminal)."`
	NoRef    bool   `name:"no-ref" help:"Do not draw the reference label."`
}

func (f PageFlags) constraints(s config.Settings, terminal bool) paginate.Constraints {
	c := paginate.Constraints{
		Width:    s.Display.RasterWidth,
		Height:   s.Display.RasterHeight,
		FontSize: s.Display.FontSize,
		ShowRef:  s.Display.ShowRef && !f.NoRef,
	}
	if terminal {
		c.Width, c.Height, c.FontSize = defaultCols, defaultRows, s.Display.FontPercent
	}
	if f.Width > 0 {
		c.Width = f.Width
	}
	if f.Height > 0 {
		c.Height = f.Height
	}
	if f.FontSize > 0 {
		c.FontSize = f.FontSize
	}
	return c
}

// paginate resolves the reference and splits its text on surface.
func (f PageFlags) paginate(e *env, surface present.Surface, c paginate.Constraints) (bible.Reference, paginate.Result, error) {
	store, _, err := e.openStore()
	if err != nil {
		return bible.Reference{}, paginate.Result{}, err
	}
	ref, err := store.ParseReference(f.Ref)
	if err != nil {
		return bible.Reference{}, paginate.Result{}, err
	}
	text, ok := store.Text(ref)
	if !ok {
		return ref, paginate.Result{}, fmt.Errorf("%w: %s not found", bible.ErrBadReference, ref)
	}
	p := &paginate.Paginator{Logger: applog.WithComponent("paginate")}
	res, err := p.Run(text, surface.Oracle(ref.String(), c))
	if err != nil {
		return ref, res, err
	}
	if res.Degenerate {
		e.log.Warn("surface too small for one glyph, verse kept on one page",
			slog.String("ref", ref.String()), slog.String("constraints", c.String()))
	}
	return ref, res, nil
}

// PaginateCmd prints the pages of one verse.
type PaginateCmd struct {
	PageFlags `embed:""`

	Surface string `help:"Measuring surface: raster or terminal." enum:"raster,terminal" default:"raster"`
}

func (c *PaginateCmd) Run(e *env) error {
	terminal := c.Surface == "terminal"
	var surface present.Surface
	if terminal {
		colors := e.settings.Colors
		surface = render.NewTerminal(colors.Text, colors.Highlight)
	} else {
		r, err := newRaster(e.settings)
		if err != nil {
			return err
		}
		surface = r
	}
	cons := c.constraints(e.settings, terminal)
	ref, res, err := c.paginate(e, surface, cons)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s  %s  %d pages\n", ref, cons, len(res.Pages))
	for i, p := range res.Pages {
		fmt.Fprintf(e.out, "%3d  %s\n", i+1, p)
	}
	return nil
}

// ExportCmd writes one PNG per page.
type ExportCmd struct {
	PageFlags `embed:""`

	Out string `short:"o" help:"Output directory." type:"path" default:"."`
}

func (c *ExportCmd) Run(e *env) error {
	r, err := newRaster(e.settings)
	if err != nil {
		return err
	}
	cons := c.constraints(e.settings, false)
	ref, res, err := c.paginate(e, r, cons)
	if err != nil {
		return err
	}
	files, err := r.ExportPNG(c.Out, ref, ref.String(), res.Pages, cons)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(e.out, f)
	}
	return nil
}

// ImportCmd converts a JSON bible into the SQLite layout.
type ImportCmd struct {
	Source string `arg:"" help:"JSON bible file." type:"existingfile"`
	Target string `arg:"" help:"SQLite file to write." type:"path"`
}

func (c *ImportCmd) Run(e *env) error {
	log := applog.WithOperation(e.log, "import")
	store, err := bible.Load(e.ctx, c.Source)
	if err != nil {
		return err
	}
	if err := bible.WriteSQLite(e.ctx, c.Target, store); err != nil {
		return err
	}
	log.Info("imported", slog.String("from", c.Source), slog.String("to", c.Target),
		slog.Int("verses", store.Len()))
	fmt.Fprintf(e.out, "%d verses in %d books written to %s\n", store.Len(), len(store.Books()), c.Target)
	return nil
}

// BooksCmd lists the books of a translation.
type BooksCmd struct{}

func (c *BooksCmd) Run(e *env) error {
	store, name, err := e.openStore()
	if err != nil {
		return err
	}
	if len(store.Books()) == 0 {
		return errors.New("no books")
	}
	fmt.Fprintln(e.out, name)
	for _, b := range store.Books() {
		fmt.Fprintf(e.out, "  %s %s %s %3d\n",
			runewidth.FillRight(b, 12),
			runewidth.FillRight(bible.DisplayName(b), 16),
			bible.Testament(b),
			len(store.Chapters(b)))
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	fmt.Fprintln(e.out, "bibleslides", version.String())
	return nil
}
