package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bible-slides/internal/config"
)

const kjv = `{"Genesis": {"1": {"1": "aaaa bbbb cccc", "2": "short"}}, "John": {"3": {"16": "for god so loved"}}}`

func testEnv(t *testing.T) (*env, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "KJV_bible.json"), []byte(kjv), 0o644); err != nil {
		t.Fatal(err)
	}
	s := config.Defaults()
	s.Data.Dir = dir
	var out bytes.Buffer
	return &env{
		ctx:         context.Background(),
		settings:    s,
		translation: "KJV",
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:         &out,
	}, &out
}

func TestPaginateTerminal(t *testing.T) {
	e, out := testEnv(t)
	cmd := PaginateCmd{
		PageFlags: PageFlags{Ref: "Genesis 1:1", Width: 10, Height: 1, FontSize: 100, NoRef: true},
		Surface:   "terminal",
	}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2 pages") || !strings.Contains(got, "1  aaaa bbbb") || !strings.Contains(got, "2  cccc") {
		t.Fatalf("output:\n%s", got)
	}
}

func TestPaginateUnknownVerse(t *testing.T) {
	e, _ := testEnv(t)
	cmd := PaginateCmd{PageFlags: PageFlags{Ref: "Genesis 9:9"}, Surface: "raster"}
	if err := cmd.Run(e); err == nil {
		t.Fatalf("expected an error for a missing verse")
	}
}

func TestConstraintsFromSettings(t *testing.T) {
	s := config.Defaults()
	c := PageFlags{}.constraints(s, false)
	if c.Width != s.Display.RasterWidth || c.FontSize != s.Display.FontSize || !c.ShowRef {
		t.Fatalf("raster constraints = %v", c)
	}
	c = PageFlags{Height: 5, NoRef: true}.constraints(s, true)
	if c.Width != defaultCols || c.Height != 5 || c.FontSize != s.Display.FontPercent || c.ShowRef {
		t.Fatalf("terminal constraints = %v", c)
	}
}

func TestRasterTakesMarginFromSettings(t *testing.T) {
	s := config.Defaults()
	s.Display.Margin = 32
	r, err := newRaster(s)
	if err != nil {
		t.Fatalf("newRaster: %v", err)
	}
	if r.Margin != 32 {
		t.Fatalf("margin = %d", r.Margin)
	}
}

func TestExportWritesPages(t *testing.T) {
	e, out := testEnv(t)
	dir := t.TempDir()
	cmd := ExportCmd{
		PageFlags: PageFlags{Ref: "John 3:16", Width: 400, Height: 200, FontSize: 24},
		Out:       dir,
	}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "John-3-16-01.png")); err != nil {
		t.Fatalf("first page missing: %v\n%s", err, out.String())
	}
}

func TestImportThenBooks(t *testing.T) {
	e, out := testEnv(t)
	db := filepath.Join(t.TempDir(), "KJV_bible.db")
	imp := ImportCmd{Source: filepath.Join(e.settings.Data.Dir, "KJV_bible.json"), Target: db}
	if err := imp.Run(e); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out.String(), "3 verses in 2 books") {
		t.Fatalf("import output: %s", out.String())
	}

	out.Reset()
	e.settings.Data.Dir = filepath.Dir(db)
	if err := (&BooksCmd{}).Run(e); err != nil {
		t.Fatalf("books: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || lines[0] != "KJV" || !strings.Contains(lines[1], "Genesis") || !strings.Contains(lines[2], "John") {
		t.Fatalf("books output:\n%s", out.String())
	}
}

func TestVersion(t *testing.T) {
	e, out := testEnv(t)
	if err := (&VersionCmd{}).Run(e); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "bibleslides ") {
		t.Fatalf("version output: %q", out.String())
	}
}
