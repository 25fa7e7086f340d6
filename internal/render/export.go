package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"bible-slides/internal/bible"
	"bible-slides/internal/paginate"
)

// PageFile names the PNG of page n (1-based) of ref.
func PageFile(ref bible.Reference, n int) string {
	book := strings.ReplaceAll(strings.TrimSpace(ref.Book), " ", "_")
	return fmt.Sprintf("%s-%d-%d-%02d.png", book, ref.Chapter, ref.Verse, n)
}

// ExportPNG renders every page of ref into dir and returns the written paths.
func (r *Raster) ExportPNG(dir string, ref bible.Reference, label string, pages []string, c paginate.Constraints) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	paths := make([]string, 0, len(pages))
	for i, page := range pages {
		img, err := r.Render(label, page, c)
		if err != nil {
			return paths, fmt.Errorf("render page %d: %w", i+1, err)
		}
		path := filepath.Join(dir, PageFile(ref, i+1))
		if err := writePNG(path, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePNG(path string, img *image.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
