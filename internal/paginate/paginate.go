// Package paginate splits verse text into slide pages that fit a viewport.
//
// The paginator never estimates text size. Every decision comes from an Oracle
// that renders a candidate into the real target surface and reports whether it
// overflowed, so font, locale and viewport changes are reflected exactly.
//
// Packing is greedy by word. A word that does not fit on an empty page is cut
// into rune fragments: the step starts at a third of the remaining runes and is
// halved while a fragment still overflows an empty page. A single rune that does
// not fit on an empty page is emitted as a page of its own with the fit rule
// waived. When nothing fits at all the viewport is degenerate and the whole text
// is returned as one page rather than looping or showing nothing.
package paginate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ErrOracleUnavailable is wrapped by oracles that cannot render or measure,
// e.g. because the target surface has no size yet.
var ErrOracleUnavailable = errors.New("measurement oracle unavailable")

// Oracle reports whether candidate, rendered alone on the target surface,
// fits without overflowing.
type Oracle interface {
	Fits(candidate string) (bool, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(candidate string) (bool, error)

func (f OracleFunc) Fits(candidate string) (bool, error) { return f(candidate) }

// Predicate adapts an infallible fit test to Oracle.
func Predicate(fits func(candidate string) bool) Oracle {
	return OracleFunc(func(s string) (bool, error) { return fits(s), nil })
}

// Result is the outcome of one pagination run.
type Result struct {
	Pages []string
	// Degenerate is set when a page could not be made to fit: either one
	// glyph wider than the viewport, or the single-page fallback when nothing
	// fits at all. Such pages may overflow.
	Degenerate bool
	// Calls counts oracle invocations.
	Calls int
}

// Paginator runs the packing algorithm. The zero value is ready to use.
type Paginator struct {
	Logger *slog.Logger
}

// Paginate splits text into pages using a default Paginator.
func Paginate(text string, o Oracle) ([]string, error) {
	var p Paginator
	res, err := p.Run(text, o)
	if err != nil {
		return nil, err
	}
	return res.Pages, nil
}

// Run splits text into pages that each satisfy o. Empty or blank text yields
// a single empty page without consulting the oracle. Oracle errors abort the
// run; no partial result is returned.
func (p *Paginator) Run(text string, o Oracle) (Result, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Result{Pages: []string{""}}, nil
	}
	if o == nil {
		return Result{}, fmt.Errorf("paginate: %w", ErrOracleUnavailable)
	}

	r := &run{oracle: o}
	pages, err := r.pack(words)
	if err != nil {
		return Result{Calls: r.calls}, fmt.Errorf("paginate: %w", err)
	}

	res := Result{Pages: pages, Calls: r.calls, Degenerate: r.waived > 0}
	if len(pages) == 0 || !r.fitted {
		res.Pages = []string{text}
		res.Degenerate = true
		p.logger().Warn("degenerate viewport, showing text unpaginated",
			slog.Int("runes", utf8.RuneCountInString(text)), slog.Int("calls", r.calls))
		return res, nil
	}
	if r.waived > 0 {
		p.logger().Warn("glyph wider than the viewport kept on its own page",
			slog.Int("glyphs", r.waived), slog.Int("pages", len(pages)))
	}
	p.logger().Debug("paginated",
		slog.Int("words", len(words)), slog.Int("pages", len(pages)), slog.Int("calls", r.calls))
	return res, nil
}

func (p *Paginator) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

type run struct {
	oracle Oracle
	calls  int
	// fitted records whether any candidate fit; waived counts glyph pages
	// that did not.
	fitted bool
	waived int
}

func (r *run) fits(candidate string) (bool, error) {
	r.calls++
	ok, err := r.oracle.Fits(candidate)
	if err != nil {
		return false, fmt.Errorf("measure %d runes: %w", utf8.RuneCountInString(candidate), err)
	}
	r.fitted = r.fitted || ok
	return ok, nil
}

func (r *run) pack(words []string) ([]string, error) {
	var pages []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		ok, err := r.fits(candidate)
		if err != nil {
			return nil, err
		}
		if ok {
			cur = candidate
			continue
		}

		// An empty cur means candidate was w itself and has already failed.
		alone := false
		if cur != "" {
			pages = append(pages, cur)
			cur = ""
			if alone, err = r.fits(w); err != nil {
				return nil, err
			}
		}
		if alone {
			cur = w
			continue
		}

		frags, err := r.split(w)
		if err != nil {
			return nil, err
		}
		pages = append(pages, frags...)
	}
	if cur != "" {
		pages = append(pages, cur)
	}
	return pages, nil
}

// split cuts a word that is wider than an empty page into fitting fragments.
// The last fragment is its own page, as is any single rune that overflows an
// empty page.
func (r *run) split(word string) ([]string, error) {
	var pages []string
	rest := []rune(word)
	piece := ""
	for len(rest) > 0 {
		step := max(1, (len(rest)+2)/3)
		next := piece + string(rest[:step])
		ok, err := r.fits(next)
		if err != nil {
			return nil, err
		}
		if ok {
			piece = next
			rest = rest[step:]
			continue
		}
		if piece != "" {
			pages = append(pages, piece)
			piece = ""
			continue
		}
		for !ok && step > 1 {
			step /= 2
			if ok, err = r.fits(string(rest[:step])); err != nil {
				return nil, err
			}
		}
		if !ok {
			pages = append(pages, string(rest[:1]))
			rest = rest[1:]
			r.waived++
			continue
		}
		piece = string(rest[:step])
		rest = rest[step:]
	}
	if piece != "" {
		pages = append(pages, piece)
	}
	return pages, nil
}
