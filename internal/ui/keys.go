package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	VerseDown   key.Binding
	VerseUp     key.Binding
	ChapterNext key.Binding
	ChapterPrev key.Binding
	BookNext    key.Binding
	BookPrev    key.Binding
	EndNext     key.Binding
	EndPrev     key.Binding
	FontUp      key.Binding
	FontDown    key.Binding
	Mode        key.Binding
	ShowRef     key.Binding
	TransNext   key.Binding
	TransPrev   key.Binding
	GoTo        key.Binding
	Zen         key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:        key.NewBinding(key.WithKeys("right", " "), key.WithHelp("→", "next")),
		Prev:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev")),
		VerseDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "verse")),
		VerseUp:     key.NewBinding(key.WithKeys("k", "up")),
		ChapterNext: key.NewBinding(key.WithKeys("l"), key.WithHelp("h/l", "chapter")),
		ChapterPrev: key.NewBinding(key.WithKeys("h")),
		BookNext:    key.NewBinding(key.WithKeys("w"), key.WithHelp("b/w", "book")),
		BookPrev:    key.NewBinding(key.WithKeys("b")),
		EndNext:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J/K", "end")),
		EndPrev:     key.NewBinding(key.WithKeys("K")),
		FontUp:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "size")),
		FontDown:    key.NewBinding(key.WithKeys("-")),
		Mode:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		ShowRef:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "ref")),
		TransNext:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translation")),
		TransPrev:   key.NewBinding(key.WithKeys("T")),
		GoTo:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "go to")),
		Zen:         key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zen")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// shortHelp is the order bindings appear in the help line.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.VerseDown, k.ChapterNext, k.BookNext, k.EndNext,
		k.FontUp, k.Mode, k.ShowRef, k.TransNext, k.GoTo, k.Zen, k.Quit}
}
