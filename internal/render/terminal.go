// Package render provides the surfaces pages are measured against and drawn
// on: a terminal pane styled with lipgloss and a pixel canvas backed by an
// OpenType face.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bible-slides/internal/paginate"
)

// compose joins the reference label and the page text the way both surfaces
// draw them.
func compose(label, text string, showRef bool) string {
	switch {
	case !showRef || label == "":
		return text
	case text == "":
		return label
	}
	return label + " " + text
}

// Terminal draws slides into a block of terminal cells. FontSize is read as
// a zoom percentage: at 200 the text box holds half the columns and half the
// rows of the pane.
type Terminal struct {
	Text  lipgloss.Style
	Label lipgloss.Style
}

// NewTerminal returns a terminal surface using the given colors.
func NewTerminal(textColor, labelColor string) *Terminal {
	return &Terminal{
		Text:  lipgloss.NewStyle().Foreground(lipgloss.Color(textColor)),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color(labelColor)).Bold(true),
	}
}

// Box returns the columns and rows of text that fit under c. A cell cannot
// shrink, so zooms below 100 give the whole pane.
func (t *Terminal) Box(c paginate.Constraints) (cols, rows int, err error) {
	if !c.Valid() {
		return 0, 0, fmt.Errorf("terminal %s: %w", c, paginate.ErrOracleUnavailable)
	}
	return min(c.Width*100/c.FontSize, c.Width), min(c.Height*100/c.FontSize, c.Height), nil
}

func (t *Terminal) block(label, text string, cols int, showRef bool) string {
	var styledLabel, styledText string
	if label != "" {
		styledLabel = t.Label.Render(label)
	}
	if text != "" {
		styledText = t.Text.Render(text)
	}
	return lipgloss.NewStyle().Width(cols).Render(compose(styledLabel, styledText, showRef))
}

// Oracle measures candidates by laying them out exactly as Render does.
func (t *Terminal) Oracle(label string, c paginate.Constraints) paginate.Oracle {
	label = Sanitize(label)
	return paginate.OracleFunc(func(candidate string) (bool, error) {
		cols, rows, err := t.Box(c)
		if err != nil {
			return false, err
		}
		if cols < 1 || rows < 1 {
			return false, nil
		}
		out := t.block(label, Sanitize(candidate), cols, c.ShowRef)
		return lipgloss.Height(out) <= rows && lipgloss.Width(out) <= cols, nil
	})
}

// Lines wraps label and text into the text box for views that scroll
// instead of paginating.
func (t *Terminal) Lines(label, text string, c paginate.Constraints) []string {
	cols, _, err := t.Box(c)
	if err != nil || cols < 1 {
		return nil
	}
	return strings.Split(t.block(Sanitize(label), Sanitize(text), cols, c.ShowRef), "\n")
}

// Render draws one page centered in a c.Width by c.Height pane.
func (t *Terminal) Render(label, page string, c paginate.Constraints) string {
	cols, _, err := t.Box(c)
	if err != nil || cols < 1 {
		return ""
	}
	out := t.block(Sanitize(label), Sanitize(page), cols, c.ShowRef)
	return lipgloss.Place(c.Width, c.Height, lipgloss.Center, lipgloss.Center, out)
}
