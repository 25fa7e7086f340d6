// Package ui is the operator console: a bubbletea program with a panel for
// choosing the passage and display options above a projection pane that
// shows exactly what the audience sees.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bible-slides/internal/bible"
	"bible-slides/internal/config"
	"bible-slides/internal/paginate"
	"bible-slides/internal/present"
	"bible-slides/internal/render"
)

const (
	// reflowDelay coalesces bursts of resize and font-size changes.
	reflowDelay = 120 * time.Millisecond
	// chromeLines are the header, status and help lines around the pane.
	chromeLines = 3

	fontStep       = 10
	minFontPercent = config.DefaultFontPercent
	maxFontPercent = 400
)

type viewMode int

const (
	navigationMode viewMode = iota
	gotoMode
)

type reflowMsg struct{ seq int }

type Options struct {
	Library  *bible.Library
	Settings config.Settings
	State    config.State
	Logger   *slog.Logger
	// SaveState persists the session on quit. Defaults to config.SaveState.
	SaveState func(config.State) error
}

type Model struct {
	ctx          context.Context
	lib          *bible.Library
	translations []string
	translation  string
	store        *bible.Store
	ctl          *present.Controller
	term         *render.Terminal
	save         func(config.State) error
	log          *slog.Logger
	keys         keyMap

	pending     bible.Reference
	end         bible.Reference
	fontPercent int
	width       int
	height      int
	sized       bool
	seq         int
	zen         bool
	scroll      int
	status      string

	mode     viewMode
	input    textinput.Model
	results  []bible.Verse
	selected int
	offset   int

	bookStyle     lipgloss.Style
	verseNumStyle lipgloss.Style
	textStyle     lipgloss.Style
	dimStyle      lipgloss.Style
	helpStyle     lipgloss.Style
}

// New loads the translation named by the saved state (or settings) and
// restores the saved reference.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Library == nil {
		return Model{}, fmt.Errorf("ui: %w", bible.ErrNoData)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	save := opts.SaveState
	if save == nil {
		save = config.SaveState
	}
	colors := opts.Settings.Colors

	ti := textinput.New()
	ti.Placeholder = "창1:1, Genesis 1, or a word"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	m := Model{
		ctx:           ctx,
		lib:           opts.Library,
		translations:  opts.Library.Translations(),
		term:          render.NewTerminal(colors.Text, colors.Highlight),
		save:          save,
		log:           logger,
		keys:          defaultKeyMap(),
		fontPercent:   opts.State.FontPercent,
		input:         ti,
		bookStyle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors.Highlight)),
		verseNumStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colors.VerseNum)).Bold(true),
		textStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Text)),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(colors.Dim)),
		helpStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(1),
		zen:           opts.State.Zen,
	}
	if m.fontPercent <= 0 {
		m.fontPercent = config.DefaultFontPercent
	}

	trans := opts.State.Translation
	if !slices.Contains(m.translations, trans) {
		trans = opts.Settings.Data.Translation
	}
	if !slices.Contains(m.translations, trans) {
		trans = m.translations[0]
	}
	store, err := m.lib.Get(ctx, trans)
	if err != nil {
		return Model{}, err
	}

	mode, err := present.ParseMode(opts.State.Mode)
	if err != nil {
		mode = present.ModeSlide
	}
	m.translation = trans
	m.store = store
	m.ctl = present.New(store, m.term, present.Options{
		Mode:        mode,
		Constraints: paginate.Constraints{FontSize: m.fontPercent, ShowRef: opts.State.ShowRef},
		Logger:      logger,
	})

	ref := mapReference(nil, store, bible.Reference{
		Book: opts.State.Book, Chapter: opts.State.Chapter, Verse: opts.State.Verse,
	})
	m.pending = ref
	m.end = ref
	if end := (bible.Reference{Book: ref.Book, Chapter: opts.State.EndChapter, Verse: opts.State.EndVerse}); !end.Less(ref) {
		if _, ok := store.Text(end); ok {
			m.end = end
		}
	}
	return m, nil
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// mapReference finds ref, or its nearest equivalent, in to. Books missing
// from to are matched by canonical position in from.
func mapReference(from, to *bible.Store, ref bible.Reference) bible.Reference {
	if _, ok := to.Text(ref); ok {
		return ref
	}
	books := to.Books()
	book := ref.Book
	if len(to.Chapters(book)) == 0 {
		book = books[0]
		if from != nil {
			if i := slices.Index(from.Books(), ref.Book); i >= 0 && i < len(books) {
				book = books[i]
			}
		}
	}
	if r := (bible.Reference{Book: book, Chapter: ref.Chapter, Verse: ref.Verse}); r.Chapter > 0 {
		if _, ok := to.Text(r); ok {
			return r
		}
	}
	first, _ := to.First(book)
	return first
}

func (m Model) Init() tea.Cmd { return nil }

// current is the selected verse, including one waiting for the first window size.
func (m *Model) current() bible.Reference {
	if ref := m.ctl.Current(); ref != (bible.Reference{}) {
		return ref
	}
	return m.pending
}

func (m *Model) paneSize() (int, int) {
	h := m.height
	if !m.zen {
		h -= chromeLines
	}
	return max(m.width, 0), max(h, 0)
}

func (m *Model) fail(op string, err error) {
	m.status = statusText(err)
	m.log.Warn(op+" failed", slog.Any("err", err))
}

// statusText is the short form of err shown on the status line.
func statusText(err error) string {
	switch {
	case errors.Is(err, paginate.ErrOracleUnavailable):
		return "pane too small"
	case errors.Is(err, bible.ErrBadReference), errors.Is(err, bible.ErrUnknownBook):
		return "verse not found"
	}
	return err.Error()
}

// reflow applies the pane size and font percent now.
func (m *Model) reflow() {
	w, h := m.paneSize()
	c := m.ctl.Constraints()
	c.Width, c.Height, c.FontSize = w, h, m.fontPercent
	if err := m.ctl.SetConstraints(c); err != nil {
		m.fail("reflow", err)
		return
	}
	m.status = ""
	if m.ctl.Current() == (bible.Reference{}) && m.pending != (bible.Reference{}) {
		m.selectRef(m.pending)
	}
}

// scheduleReflow debounces reflow; only the last scheduled tick applies.
func (m *Model) scheduleReflow() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(reflowDelay, func(time.Time) tea.Msg { return reflowMsg{seq: seq} })
}

func (m *Model) selectRef(ref bible.Reference) {
	if !m.sized {
		m.pending = ref
		m.end = ref
		return
	}
	if err := m.ctl.Select(ref); err != nil {
		m.fail("select", err)
		return
	}
	m.pending = ref
	m.status = ""
	m.scroll = 0
	if m.end.Book != ref.Book || m.end.Less(ref) {
		m.end = ref
	}
}

func (m *Model) stepVerse(dir int) {
	if next, ok := m.store.Step(m.current(), dir); ok {
		m.selectRef(next)
	}
}

func (m *Model) stepChapter(dir int) {
	cur := m.current()
	chs := m.store.Chapters(cur.Book)
	i := slices.Index(chs, cur.Chapter) + dir
	if i < 0 || i >= len(chs) {
		return
	}
	vs := m.store.Verses(cur.Book, chs[i])
	m.selectRef(vs[0].Ref())
}

func (m *Model) stepBook(dir int) {
	books := m.store.Books()
	i := slices.Index(books, m.current().Book) + dir
	if i < 0 || i >= len(books) {
		return
	}
	if first, ok := m.store.First(books[i]); ok {
		m.selectRef(first)
	}
}

func (m *Model) stepEnd(dir int) {
	next, ok := m.store.Step(m.end, dir)
	if ok && !next.Less(m.current()) {
		m.end = next
	}
}

func (m *Model) stepPage(dir present.Direction) {
	if _, err := m.ctl.Step(dir); err != nil {
		m.fail("step", err)
		return
	}
	m.scroll = 0
	if cur := m.ctl.Current(); m.end.Book != cur.Book || m.end.Less(cur) {
		m.end = cur
	}
	m.pending = m.ctl.Current()
}

func (m *Model) switchTranslation(dir int) {
	n := len(m.translations)
	if n < 2 {
		return
	}
	i := (slices.Index(m.translations, m.translation) + dir + n) % n
	name := m.translations[i]
	store, err := m.lib.Get(m.ctx, name)
	if err != nil {
		m.fail("load translation", err)
		return
	}
	ref := mapReference(m.store, store, m.current())
	ctl := present.New(store, m.term, present.Options{
		Mode:        m.ctl.Mode(),
		Constraints: m.ctl.Constraints(),
		Logger:      m.log,
	})
	m.translation, m.store, m.ctl = name, store, ctl
	m.end = ref
	m.selectRef(ref)
	m.log.Info("translation switched", slog.String("translation", name), slog.String("ref", ref.String()))
}

func (m *Model) state() config.State {
	cur := m.current()
	c := m.ctl.Constraints()
	return config.State{
		Translation: m.translation,
		Book:        cur.Book,
		Chapter:     cur.Chapter,
		Verse:       cur.Verse,
		EndChapter:  m.end.Chapter,
		EndVerse:    m.end.Verse,
		Mode:        m.ctl.Mode().String(),
		FontPercent: m.fontPercent,
		ShowRef:     c.ShowRef,
		Zen:         m.zen,
	}
}

func (m *Model) quit() tea.Cmd {
	if err := m.save(m.state()); err != nil {
		m.log.Error("save state failed", slog.Any("err", err))
	}
	return tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.sized {
			m.sized = true
			m.reflow()
			return m, nil
		}
		return m, m.scheduleReflow()

	case reflowMsg:
		if msg.seq == m.seq {
			m.reflow()
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == gotoMode {
			return m.updateGoto(msg)
		}
		return m.updateNavigation(msg)
	}
	return m, nil
}

func (m Model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, m.quit()
	case key.Matches(msg, k.Next):
		m.stepPage(present.Forward)
	case key.Matches(msg, k.Prev):
		m.stepPage(present.Backward)
	case key.Matches(msg, k.VerseDown):
		m.stepVerse(1)
	case key.Matches(msg, k.VerseUp):
		m.stepVerse(-1)
	case key.Matches(msg, k.ChapterNext):
		m.stepChapter(1)
	case key.Matches(msg, k.ChapterPrev):
		m.stepChapter(-1)
	case key.Matches(msg, k.BookNext):
		m.stepBook(1)
	case key.Matches(msg, k.BookPrev):
		m.stepBook(-1)
	case key.Matches(msg, k.EndNext):
		m.stepEnd(1)
	case key.Matches(msg, k.EndPrev):
		m.stepEnd(-1)
	case key.Matches(msg, k.FontUp):
		m.fontPercent = min(m.fontPercent+fontStep, maxFontPercent)
		return m, m.scheduleReflow()
	case key.Matches(msg, k.FontDown):
		m.fontPercent = max(m.fontPercent-fontStep, minFontPercent)
		return m, m.scheduleReflow()
	case key.Matches(msg, k.Mode):
		if err := m.ctl.SetMode(m.ctl.Mode().Next()); err != nil {
			m.fail("mode", err)
		}
		m.scroll = 0
	case key.Matches(msg, k.ShowRef):
		if err := m.ctl.SetShowRef(!m.ctl.Constraints().ShowRef); err != nil {
			m.fail("show ref", err)
		}
	case key.Matches(msg, k.TransNext):
		m.switchTranslation(1)
	case key.Matches(msg, k.TransPrev):
		m.switchTranslation(-1)
	case key.Matches(msg, k.Zen):
		m.zen = !m.zen
		if m.sized {
			m.reflow()
		}
	case key.Matches(msg, k.ScrollDown):
		_, h := m.paneSize()
		m.scroll += max(h/2, 1)
	case key.Matches(msg, k.ScrollUp):
		_, h := m.paneSize()
		m.scroll = max(m.scroll-max(h/2, 1), 0)
	case key.Matches(msg, k.GoTo):
		m.mode = gotoMode
		m.input.Reset()
		m.results = nil
		m.selected, m.offset = 0, 0
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, m.quit()
	case tea.KeyEsc:
		m.mode = navigationMode
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		if m.selected < len(m.results) {
			m.mode = navigationMode
			m.input.Blur()
			m.selectRef(m.results[m.selected].Ref())
		}
		return m, nil
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		m.offset = min(m.offset, m.selected)
		return m, nil
	case tea.KeyDown:
		if m.selected < len(m.results)-1 {
			m.selected++
		}
		if visible := m.visibleResults(); m.selected >= m.offset+visible {
			m.offset = m.selected - visible + 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != before {
		m.results = m.store.Search(q)
		m.selected, m.offset = 0, 0
	}
	return m, cmd
}

// visibleResults is how many result rows fit below the go-to header.
func (m Model) visibleResults() int {
	return max(m.height-chromeLines, 1)
}
