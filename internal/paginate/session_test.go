package paginate

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// sizedOracle models a surface where the per-page capacity shrinks as the
// font grows: capacity = 2000 / font size runes.
func sizedOracle(c Constraints) Oracle {
	limit := 2000 / c.FontSize
	return Predicate(func(s string) bool { return utf8.RuneCountInString(s) <= limit })
}

func TestSessionStartsAtFirstPage(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	s, err := NewSession(strings.Repeat("abcd ", 8), c, sizedOracle(c), StartFirst)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Len() != 2 || s.Cursor() != 0 || !s.AtFirst() {
		t.Fatalf("len=%d cursor=%d, want 2 pages at 0", s.Len(), s.Cursor())
	}
	if s.Page() != "abcd abcd abcd abcd" {
		t.Fatalf("page = %q", s.Page())
	}
}

func TestBackwardVerseStepLandsOnLastPage(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	s, err := NewSession("current verse", c, sizedOracle(c), StartFirst)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	prev := strings.TrimSpace(strings.Repeat("abcd ", 12)) // three pages of four words
	if err := s.Invalidate(Change{Text: &prev, StartAt: StartLast}, sizedOracle(c)); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if s.Cursor() != 2 || !s.AtLast() {
		t.Fatalf("cursor = %d, want 2", s.Cursor())
	}
}

func TestFontSizeIncreaseRepaginatesAndResetsCursor(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	text := strings.TrimSpace(strings.Repeat("abcd ", 8))
	s, err := NewSession(text, c, sizedOracle(c), StartFirst)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	s.Next()

	bigger := c
	bigger.FontSize = 200
	if err := s.Invalidate(Change{Constraints: &bigger}, sizedOracle(bigger)); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, want reset to 0", s.Cursor())
	}
	if s.Constraints() != bigger || s.Text() != text {
		t.Fatalf("session state not updated: %v %q", s.Constraints(), s.Text())
	}
}

func TestIntraVerseSteppingIsClamped(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	s, err := NewSession(strings.Repeat("abcd ", 12), c, sizedOracle(c), StartFirst)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Prev() {
		t.Fatalf("Prev moved past the first page")
	}
	if !s.Next() || !s.Next() {
		t.Fatalf("Next should advance within the verse")
	}
	if s.Next() {
		t.Fatalf("Next moved past the last page")
	}
	if s.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", s.Cursor())
	}
	if !s.Prev() || s.Cursor() != 1 {
		t.Fatalf("Prev did not step back, cursor %d", s.Cursor())
	}
}

func TestFailedInvalidateKeepsPreviousSession(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	s, err := NewSession(strings.Repeat("abcd ", 12), c, sizedOracle(c), StartFirst)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.Next()
	before := s.Pages()

	broken := OracleFunc(func(string) (bool, error) { return false, ErrOracleUnavailable })
	next := "replacement text"
	err = s.Invalidate(Change{Text: &next}, broken)
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Fatalf("err = %v, want ErrOracleUnavailable", err)
	}
	if s.Cursor() != 1 || s.Len() != len(before) || s.Text() == next {
		t.Fatalf("session changed after failed invalidate")
	}
}

func TestEmptyVerseSession(t *testing.T) {
	c := Constraints{FontSize: 100, Width: 80, Height: 24}
	s, err := NewSession("", c, nil, StartLast)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Len() != 1 || s.Page() != "" || s.Cursor() != 0 {
		t.Fatalf("empty session = %q cursor %d", s.Pages(), s.Cursor())
	}
}

func TestConstraintsValid(t *testing.T) {
	if (Constraints{FontSize: 100, Width: 0, Height: 10}).Valid() {
		t.Fatalf("zero width should be invalid")
	}
	if !(Constraints{FontSize: 1, Width: 1, Height: 1}).Valid() {
		t.Fatalf("minimal constraints should be valid")
	}
}
