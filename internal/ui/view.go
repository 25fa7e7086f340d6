package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"bible-slides/internal/bible"
	"bible-slides/internal/present"
	"bible-slides/internal/render"
)

func (m Model) View() string {
	if m.mode == gotoMode {
		return m.gotoView()
	}
	pane := m.projection()
	if m.zen {
		return pane
	}
	rows := []string{m.header(), m.statusLine()}
	if _, h := m.paneSize(); h > 0 {
		rows = append(rows, pane)
	}
	rows = append(rows, m.helpLine())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) header() string {
	cur := m.current()
	text := fmt.Sprintf("%s  %s %d:%d", m.translation, bible.DisplayName(cur.Book), cur.Chapter, cur.Verse)
	if m.ctl.Mode() == present.ModeScroll && m.end != cur {
		text += fmt.Sprintf(" – %d:%d", m.end.Chapter, m.end.Verse)
	}
	return m.bookStyle.Render(render.Truncate(text, max(m.width, 1)))
}

func (m Model) statusLine() string {
	c := m.ctl.Constraints()
	parts := []string{m.ctl.Mode().String()}
	if m.ctl.Mode() == present.ModeSlide {
		parts = append(parts, fmt.Sprintf("page %d/%d", m.ctl.PageIndex()+1, m.ctl.PageCount()))
	}
	parts = append(parts, fmt.Sprintf("%d%%", m.fontPercent))
	if c.ShowRef {
		parts = append(parts, "ref on")
	} else {
		parts = append(parts, "ref off")
	}
	if m.ctl.Degenerate() {
		parts = append(parts, "pane too small")
	}
	width := max(m.width, 1)
	info := strings.Join(parts, " · ")
	if m.status == "" {
		return m.verseNumStyle.Render(render.Truncate(info, width))
	}
	status := render.Truncate(render.Sanitize(m.status), width)
	line := m.bookStyle.Render(status)
	if room := width - runewidth.StringWidth(status) - 2; room > 0 {
		line += "  " + m.verseNumStyle.Render(render.Truncate(info, room))
	}
	return line
}

func (m Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.helpStyle.Render(render.Truncate(strings.Join(parts, "  "), max(m.width-1, 1)))
}

// projection renders the audience pane at exactly its pane size. While a
// resize is debounced the pages still have the old size and are clipped.
func (m Model) projection() string {
	w, h := m.paneSize()
	if !m.sized || w == 0 || h == 0 {
		return ""
	}
	c := m.ctl.Constraints()
	switch m.ctl.Mode() {
	case present.ModeSlide:
		return place(m.term.Render(m.ctl.Label(), m.ctl.Page(), c), w, h, lipgloss.Center)
	case present.ModeSlideScroll:
		return m.window(m.term.Lines(m.ctl.Label(), m.ctl.Page(), c), w, h)
	}

	var lines []string
	cur := m.ctl.Current()
	for _, v := range m.ctl.Passage(m.end) {
		num := fmt.Sprintf("%d:%d", v.Chapter, v.Verse)
		if v.Ref() == cur {
			num = "> " + num
		}
		vc := c
		vc.ShowRef = true
		lines = append(lines, m.term.Lines(num, v.Text, vc)...)
		lines = append(lines, "")
	}
	return m.window(lines, w, h)
}

// window cuts the scrolled part of lines out and places it in a w by h pane.
func (m Model) window(lines []string, w, h int) string {
	start := min(m.scroll, max(len(lines)-h, 0))
	end := min(start+h, len(lines))
	return place(strings.Join(lines[start:end], "\n"), w, h, lipgloss.Top)
}

// place clips body to w by h cells and centers it horizontally in that box.
func place(body string, w, h int, vertical lipgloss.Position) string {
	body = lipgloss.NewStyle().MaxWidth(w).MaxHeight(h).Render(body)
	return lipgloss.Place(w, h, lipgloss.Center, vertical, body)
}

func (m Model) gotoView() string {
	header := m.bookStyle.Render(fmt.Sprintf("Go to (%d results)", len(m.results)))
	lines := []string{header, m.input.View(), ""}

	visible := m.visibleResults()
	for i := m.offset; i < len(m.results) && i < m.offset+visible; i++ {
		v := m.results[i]
		marker := " "
		if i == m.selected {
			marker = m.bookStyle.Render(">")
		}
		ref := fmt.Sprintf(" %-14s ", render.Truncate(v.Ref().String(), 14))
		style := m.dimStyle
		if i == m.selected {
			style = m.textStyle
		}
		text := style.Render(render.Truncate(render.Sanitize(v.Text), max(m.width-17, 10)))
		lines = append(lines, marker+m.verseNumStyle.Render(ref)+text)
	}
	out := strings.Join(lines, "\n")
	if m.sized {
		out = lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(out)
	}
	return out
}
