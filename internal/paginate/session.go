package paginate

import (
	"fmt"
	"log/slog"
)

// Constraints are the rendering conditions a set of pages was measured under.
// Any change to them makes existing pages stale.
type Constraints struct {
	FontSize int
	Width    int
	Height   int
	ShowRef  bool
}

// Valid reports whether the constraints describe a measurable surface.
func (c Constraints) Valid() bool {
	return c.FontSize > 0 && c.Width > 0 && c.Height > 0
}

func (c Constraints) String() string {
	return fmt.Sprintf("%dx%d@%d ref=%t", c.Width, c.Height, c.FontSize, c.ShowRef)
}

// StartAt selects where the cursor lands after re-pagination.
type StartAt int

const (
	StartFirst StartAt = iota
	// StartLast is used when stepping backward into a verse so the viewer
	// lands on its final page.
	StartLast
)

// Change describes an invalidation. Nil fields keep the session's current value.
type Change struct {
	Text        *string
	Constraints *Constraints
	StartAt     StartAt
}

// Session holds the pages of one verse under one set of constraints and a
// cursor into them. It is not safe for concurrent use.
type Session struct {
	p           *Paginator
	text        string
	constraints Constraints
	pages       []string
	cursor      int
	degenerate  bool
}

// NewSession paginates text with a default Paginator.
func NewSession(text string, c Constraints, o Oracle, at StartAt) (*Session, error) {
	return (&Paginator{}).NewSession(text, c, o, at)
}

// NewSession paginates text and returns a session positioned per at.
// o must measure under c.
func (p *Paginator) NewSession(text string, c Constraints, o Oracle, at StartAt) (*Session, error) {
	s := &Session{p: p}
	if err := s.Invalidate(Change{Text: &text, Constraints: &c, StartAt: at}, o); err != nil {
		return nil, err
	}
	return s, nil
}

// Invalidate re-paginates after a text or constraint change. o must measure
// under the resulting constraints. On error the session keeps its previous
// pages and cursor.
func (s *Session) Invalidate(ch Change, o Oracle) error {
	text, c := s.text, s.constraints
	if ch.Text != nil {
		text = *ch.Text
	}
	if ch.Constraints != nil {
		c = *ch.Constraints
	}

	res, err := s.p.Run(text, o)
	if err != nil {
		s.p.logger().Warn("re-pagination failed, keeping previous pages",
			slog.String("constraints", c.String()), slog.Any("err", err))
		return err
	}

	s.text = text
	s.constraints = c
	s.pages = res.Pages
	s.degenerate = res.Degenerate
	s.cursor = 0
	if ch.StartAt == StartLast {
		s.cursor = len(s.pages) - 1
	}
	return nil
}

// Next advances the cursor one page. It reports false, without moving, on the last page.
func (s *Session) Next() bool {
	if s.cursor >= len(s.pages)-1 {
		return false
	}
	s.cursor++
	return true
}

// Prev moves the cursor back one page. It reports false, without moving, on the first page.
func (s *Session) Prev() bool {
	if s.cursor <= 0 {
		return false
	}
	s.cursor--
	return true
}

func (s *Session) Page() string             { return s.pages[s.cursor] }
func (s *Session) Pages() []string          { return append([]string(nil), s.pages...) }
func (s *Session) Cursor() int              { return s.cursor }
func (s *Session) Len() int                 { return len(s.pages) }
func (s *Session) Text() string             { return s.text }
func (s *Session) Constraints() Constraints { return s.constraints }
func (s *Session) AtFirst() bool            { return s.cursor == 0 }
func (s *Session) AtLast() bool             { return s.cursor == len(s.pages)-1 }

// Degenerate reports whether any current page had its fit waived.
func (s *Session) Degenerate() bool { return s.degenerate }
