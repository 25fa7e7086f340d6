// Package present drives what the projection shows: the selected verse, the
// page of it on screen, and how stepping moves between pages and verses.
package present

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bible-slides/internal/bible"
	"bible-slides/internal/paginate"
)

var ErrBadFontSize = errors.New("font size must be positive")

type Mode int

const (
	// ModeSlide shows one page of one verse at a time.
	ModeSlide Mode = iota
	// ModeSlideScroll shows one whole verse, scrolled by the viewer.
	ModeSlideScroll
	// ModeScroll shows a passage range.
	ModeScroll
)

var modeNames = []string{"slide", "slide-scroll", "scroll"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next cycles slide, slide-scroll, scroll.
func (m Mode) Next() Mode { return (m + 1) % Mode(len(modeNames)) }

// ParseMode accepts the names printed by String.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Mode(i), nil
		}
	}
	return ModeSlide, fmt.Errorf("unknown mode %q (want slide, slide-scroll or scroll)", s)
}

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// VerseSource is the part of the verse store the controller reads.
type VerseSource interface {
	Text(ref bible.Reference) (string, bool)
	Step(ref bible.Reference, dir int) (bible.Reference, bool)
	Passage(book string, from, to bible.Reference) []bible.Verse
}

// Surface produces an oracle that measures candidates, drawn after label,
// under c.
type Surface interface {
	Oracle(label string, c paginate.Constraints) paginate.Oracle
}

type Options struct {
	Mode        Mode
	Constraints paginate.Constraints
	Logger      *slog.Logger
	// Label formats the reference shown with each page. Defaults to Reference.String.
	Label func(bible.Reference) string
}

// Controller is not safe for concurrent use.
type Controller struct {
	src     VerseSource
	surface Surface
	p       *paginate.Paginator
	log     *slog.Logger
	label   func(bible.Reference) string

	mode    Mode
	c       paginate.Constraints
	ref     bible.Reference
	text    string
	session *paginate.Session
}

func New(src VerseSource, surface Surface, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	label := opts.Label
	if label == nil {
		label = bible.Reference.String
	}
	return &Controller{
		src:     src,
		surface: surface,
		p:       &paginate.Paginator{Logger: logger},
		log:     logger,
		label:   label,
		mode:    opts.Mode,
		c:       opts.Constraints,
	}
}

// load makes ref current under c. Only slide mode paginates. On failure the
// controller is left exactly as it was.
func (ctl *Controller) load(ref bible.Reference, c paginate.Constraints, at paginate.StartAt) error {
	text, ok := ctl.src.Text(ref)
	if !ok {
		return fmt.Errorf("%w: %s not found", bible.ErrBadReference, ref)
	}
	if ctl.mode != ModeSlide {
		ctl.ref, ctl.text, ctl.c, ctl.session = ref, text, c, nil
		return nil
	}

	o := ctl.surface.Oracle(ctl.label(ref), c)
	if ctl.session == nil {
		s, err := ctl.p.NewSession(text, c, o, at)
		if err != nil {
			return err
		}
		ctl.session = s
	} else if err := ctl.session.Invalidate(paginate.Change{Text: &text, Constraints: &c, StartAt: at}, o); err != nil {
		return err
	}
	ctl.ref, ctl.text, ctl.c = ref, text, c
	ctl.log.Debug("verse paginated", slog.String("ref", ref.String()),
		slog.String("constraints", c.String()), slog.Int("pages", ctl.session.Len()))
	return nil
}

// Select makes ref the current verse, on its first page.
func (ctl *Controller) Select(ref bible.Reference) error {
	return ctl.load(ref, ctl.c, paginate.StartFirst)
}

// reflow re-paginates the current verse under c. Before any verse is
// selected it only records c.
func (ctl *Controller) reflow(c paginate.Constraints) error {
	if ctl.ref == (bible.Reference{}) {
		ctl.c = c
		return nil
	}
	return ctl.load(ctl.ref, c, paginate.StartFirst)
}

func (ctl *Controller) SetFontSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrBadFontSize, n)
	}
	c := ctl.c
	c.FontSize = n
	return ctl.reflow(c)
}

func (ctl *Controller) Resize(width, height int) error {
	c := ctl.c
	c.Width, c.Height = width, height
	return ctl.reflow(c)
}

func (ctl *Controller) SetShowRef(show bool) error {
	c := ctl.c
	c.ShowRef = show
	return ctl.reflow(c)
}

// SetConstraints applies several constraint changes with one re-pagination.
func (ctl *Controller) SetConstraints(c paginate.Constraints) error {
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: %d", ErrBadFontSize, c.FontSize)
	}
	return ctl.reflow(c)
}

// SetMode switches mode. Entering slide mode paginates the current verse.
func (ctl *Controller) SetMode(m Mode) error {
	prev := ctl.mode
	ctl.mode = m
	if err := ctl.reflow(ctl.c); err != nil {
		ctl.mode = prev
		return err
	}
	return nil
}

// Step moves one page in dir, or to the neighbouring verse when the current
// page is the first or last. Entering the previous verse lands on its last
// page. It reports false at the edges of the book.
func (ctl *Controller) Step(dir Direction) (bool, error) {
	if ctl.session != nil {
		switch dir {
		case Forward:
			if ctl.session.Next() {
				return true, nil
			}
		case Backward:
			if ctl.session.Prev() {
				return true, nil
			}
		}
	}

	next, ok := ctl.src.Step(ctl.ref, int(dir))
	if !ok {
		return false, nil
	}
	at := paginate.StartFirst
	if dir == Backward {
		at = paginate.StartLast
	}
	if err := ctl.load(next, ctl.c, at); err != nil {
		return false, err
	}
	return true, nil
}

// Passage returns the verses from the current one to to, for scroll mode.
func (ctl *Controller) Passage(to bible.Reference) []bible.Verse {
	return ctl.src.Passage(ctl.ref.Book, ctl.ref, to)
}

func (ctl *Controller) Mode() Mode                        { return ctl.mode }
func (ctl *Controller) Current() bible.Reference          { return ctl.ref }
func (ctl *Controller) Constraints() paginate.Constraints { return ctl.c }
func (ctl *Controller) Label() string                     { return ctl.label(ctl.ref) }

// Page is the text on screen: the current page in slide mode, otherwise
// the whole verse.
func (ctl *Controller) Page() string {
	if ctl.session == nil {
		return ctl.text
	}
	return ctl.session.Page()
}

func (ctl *Controller) PageIndex() int {
	if ctl.session == nil {
		return 0
	}
	return ctl.session.Cursor()
}

func (ctl *Controller) PageCount() int {
	if ctl.session == nil {
		return 1
	}
	return ctl.session.Len()
}

// Degenerate reports whether some page of the current verse overflows
// because a glyph is wider than the pane.
func (ctl *Controller) Degenerate() bool {
	return ctl.session != nil && ctl.session.Degenerate()
}
