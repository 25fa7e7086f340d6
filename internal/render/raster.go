package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"bible-slides/internal/paginate"
)

// Raster lays slides out in pixels with an OpenType face. FontSize is the
// face size in pixels; Width and Height are the canvas size.
type Raster struct {
	Foreground color.Color
	Background color.Color
	// Margin is kept clear on every side of the canvas, in pixels.
	Margin int

	font *opentype.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// NewRaster loads the font at path, or Go Regular when path is empty.
func NewRaster(path string) (*Raster, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Raster{
		Foreground: color.White,
		Background: color.Black,
		font:       f,
		faces:      make(map[int]font.Face),
	}, nil
}

func (r *Raster) face(size int) (font.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %dpx: %w", size, err)
	}
	r.faces[size] = f
	return f, nil
}

// area returns the drawable region inside the margins.
func (r *Raster) area(c paginate.Constraints) (w, h int, err error) {
	if !c.Valid() {
		return 0, 0, fmt.Errorf("raster %s: %w", c, paginate.ErrOracleUnavailable)
	}
	m := max(r.Margin, 0)
	return c.Width - 2*m, c.Height - 2*m, nil
}

// wrap breaks text greedily at spaces so no line exceeds maxWidth, except a
// single word that is wider on its own.
func wrap(face font.Face, text string, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if font.MeasureString(face, next) > maxWidth {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}

func lineHeight(face font.Face) int { return face.Metrics().Height.Ceil() }

// Oracle measures candidates with the face for c.FontSize.
func (r *Raster) Oracle(label string, c paginate.Constraints) paginate.Oracle {
	label = Sanitize(label)
	return paginate.OracleFunc(func(candidate string) (bool, error) {
		w, h, err := r.area(c)
		if err != nil {
			return false, err
		}
		if w < 1 || h < 1 {
			return false, nil
		}
		face, err := r.face(c.FontSize)
		if err != nil {
			return false, fmt.Errorf("%v: %w", err, paginate.ErrOracleUnavailable)
		}
		maxW := fixed.I(w)
		lines := wrap(face, compose(label, Sanitize(candidate), c.ShowRef), maxW)
		if len(lines)*lineHeight(face) > h {
			return false, nil
		}
		for _, l := range lines {
			if font.MeasureString(face, l) > maxW {
				return false, nil
			}
		}
		return true, nil
	})
}

// Render draws one page centered on a c.Width by c.Height canvas.
func (r *Raster) Render(label, page string, c paginate.Constraints) (*image.RGBA, error) {
	w, _, err := r.area(c)
	if err != nil {
		return nil, err
	}
	face, err := r.face(c.FontSize)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	lines := wrap(face, compose(Sanitize(label), Sanitize(page), c.ShowRef), fixed.I(max(w, 1)))
	lh := lineHeight(face)
	top := (c.Height - len(lines)*lh) / 2
	ascent := face.Metrics().Ascent.Ceil()

	d := font.Drawer{Dst: img, Src: image.NewUniform(r.Foreground), Face: face}
	for i, l := range lines {
		x := (fixed.I(c.Width) - d.MeasureString(l)) / 2
		d.Dot = fixed.Point26_6{X: x, Y: fixed.I(top + i*lh + ascent)}
		d.DrawString(l)
	}
	return img, nil
}
