// Package bible is the verse store: it loads a translation and answers
// book/chapter/verse lookups, verse stepping, passage ranges and searches.
package bible

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoData       = errors.New("no verses")
	ErrUnknownBook  = errors.New("unknown book")
	ErrBadReference = errors.New("bad reference")
)

// Reference addresses one verse.
type Reference struct {
	Book    string
	Chapter int
	Verse   int
}

// Compare orders references by chapter, then verse. Book is not compared.
func (r Reference) Compare(o Reference) int {
	switch {
	case r.Chapter != o.Chapter:
		return cmpInt(r.Chapter, o.Chapter)
	default:
		return cmpInt(r.Verse, o.Verse)
	}
}

func (r Reference) Less(o Reference) bool { return r.Compare(o) < 0 }

// String formats r as the data files key it: "창1:1" for abbreviations,
// "Genesis 1:1" for spelled-out names.
func (r Reference) String() string {
	sep := ""
	if last, _ := utf8.DecodeLastRuneInString(r.Book); last < utf8.RuneSelf {
		sep = " "
	}
	return fmt.Sprintf("%s%s%d:%d", r.Book, sep, r.Chapter, r.Verse)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type Verse struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

func (v Verse) Ref() Reference { return Reference{Book: v.Book, Chapter: v.Chapter, Verse: v.Verse} }

// Store is an immutable, loaded translation.
type Store struct {
	verses       []Verse
	books        []string
	chapters     map[string][]int
	chapterIndex map[string]map[int][]Verse
	text         map[Reference]string
	index        map[string][]int
}

// flatKey matches "창1:1", "1 Samuel 3:4" and similar.
var flatKey = regexp.MustCompile(`^(.*?\D)\s*(\d+):(\d+)$`)

// Parse loads JSON in either the flat {"창1:1": "..."} shape or the nested
// {book: {chapter: {verse: text}}} shape.
func Parse(data []byte) (*Store, error) {
	b := newBuilder()

	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err == nil {
		for key, text := range flat {
			m := flatKey.FindStringSubmatch(strings.TrimSpace(key))
			if m == nil {
				continue
			}
			ch, _ := strconv.Atoi(m[2])
			vs, _ := strconv.Atoi(m[3])
			b.add(strings.TrimSpace(m[1]), ch, vs, text)
		}
		return b.finish()
	}

	var nested map[string]map[string]map[string]string
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("failed to parse bible JSON: %w", err)
	}
	for book, chapters := range nested {
		for chKey, verses := range chapters {
			ch, err := strconv.Atoi(chKey)
			if err != nil {
				continue
			}
			for vsKey, text := range verses {
				vs, err := strconv.Atoi(vsKey)
				if err != nil {
					continue
				}
				b.add(book, ch, vs, text)
			}
		}
	}
	return b.finish()
}

type builder struct {
	verses []Verse
	seen   map[Reference]bool
}

func newBuilder() *builder { return &builder{seen: make(map[Reference]bool)} }

func (b *builder) add(book string, ch, vs int, text string) {
	ref := Reference{Book: book, Chapter: ch, Verse: vs}
	if book == "" || ch <= 0 || vs <= 0 || b.seen[ref] {
		return
	}
	b.seen[ref] = true
	b.verses = append(b.verses, Verse{Book: book, Chapter: ch, Verse: vs, Text: norm.NFC.String(text)})
}

func (b *builder) finish() (*Store, error) {
	if len(b.verses) == 0 {
		return nil, ErrNoData
	}

	bookSet := make(map[string]bool)
	for _, v := range b.verses {
		bookSet[v.Book] = true
	}
	books := make([]string, 0, len(bookSet))
	for book := range bookSet {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool {
		ri, iok := canonicalRank[books[i]]
		rj, jok := canonicalRank[books[j]]
		switch {
		case iok && jok && ri != rj:
			return ri < rj
		case iok != jok:
			return iok
		}
		return books[i] < books[j]
	})
	rank := make(map[string]int, len(books))
	for i, book := range books {
		rank[book] = i
	}

	sort.Slice(b.verses, func(i, j int) bool {
		vi, vj := b.verses[i], b.verses[j]
		if vi.Book != vj.Book {
			return rank[vi.Book] < rank[vj.Book]
		}
		return vi.Ref().Less(vj.Ref())
	})

	s := &Store{
		verses:       b.verses,
		books:        books,
		chapters:     make(map[string][]int),
		chapterIndex: make(map[string]map[int][]Verse),
		text:         make(map[Reference]string, len(b.verses)),
		index:        make(map[string][]int),
	}
	for i, v := range s.verses {
		if s.chapterIndex[v.Book] == nil {
			s.chapterIndex[v.Book] = make(map[int][]Verse)
		}
		if len(s.chapterIndex[v.Book][v.Chapter]) == 0 {
			s.chapters[v.Book] = append(s.chapters[v.Book], v.Chapter)
		}
		s.chapterIndex[v.Book][v.Chapter] = append(s.chapterIndex[v.Book][v.Chapter], v)
		s.text[v.Ref()] = v.Text

		for _, word := range strings.Fields(strings.ToLower(v.Text)) {
			clean := strings.Trim(word, ".,;:!?\"'()[]")
			if utf8.RuneCountInString(clean) > 1 {
				s.index[clean] = append(s.index[clean], i)
			}
		}
	}
	return s, nil
}

func (s *Store) Books() []string { return s.books }

func (s *Store) Len() int { return len(s.verses) }

// Chapters returns the chapter numbers of book in ascending order.
func (s *Store) Chapters(book string) []int { return s.chapters[book] }

// MaxVerse returns the highest verse number of a chapter, or 0 if absent.
func (s *Store) MaxVerse(book string, chapter int) int {
	vs := s.chapterIndex[book][chapter]
	if len(vs) == 0 {
		return 0
	}
	return vs[len(vs)-1].Verse
}

// Verses returns the verses of one chapter in order.
func (s *Store) Verses(book string, chapter int) []Verse {
	if chapters, ok := s.chapterIndex[book]; ok {
		if verses, ok := chapters[chapter]; ok {
			return verses
		}
	}
	return []Verse{}
}

// Text returns the text of ref.
func (s *Store) Text(ref Reference) (string, bool) {
	t, ok := s.text[ref]
	return t, ok
}

// First returns the first verse of book.
func (s *Store) First(book string) (Reference, bool) {
	chs := s.chapters[book]
	if len(chs) == 0 {
		return Reference{}, false
	}
	return s.chapterIndex[book][chs[0]][0].Ref(), true
}

// Last returns the last verse of book.
func (s *Store) Last(book string) (Reference, bool) {
	chs := s.chapters[book]
	if len(chs) == 0 {
		return Reference{}, false
	}
	vs := s.chapterIndex[book][chs[len(chs)-1]]
	return vs[len(vs)-1].Ref(), true
}

// Step returns the verse after (dir > 0) or before (dir < 0) ref. It crosses
// chapter boundaries but stops at the edges of the book, returning ref and
// false there.
func (s *Store) Step(ref Reference, dir int) (Reference, bool) {
	verses := s.chapterIndex[ref.Book][ref.Chapter]
	if len(verses) == 0 || dir == 0 {
		return ref, false
	}
	i := sort.Search(len(verses), func(i int) bool { return verses[i].Verse >= ref.Verse })

	if dir > 0 {
		if i < len(verses) && verses[i].Verse == ref.Verse {
			i++
		}
		if i < len(verses) {
			return verses[i].Ref(), true
		}
		if ch, ok := s.adjacentChapter(ref.Book, ref.Chapter, 1); ok {
			return s.chapterIndex[ref.Book][ch][0].Ref(), true
		}
		return ref, false
	}

	if i > 0 {
		return verses[i-1].Ref(), true
	}
	if ch, ok := s.adjacentChapter(ref.Book, ref.Chapter, -1); ok {
		prev := s.chapterIndex[ref.Book][ch]
		return prev[len(prev)-1].Ref(), true
	}
	return ref, false
}

func (s *Store) adjacentChapter(book string, chapter, dir int) (int, bool) {
	chs := s.chapters[book]
	i := sort.SearchInts(chs, chapter)
	if i >= len(chs) || chs[i] != chapter {
		return 0, false
	}
	i += dir
	if i < 0 || i >= len(chs) {
		return 0, false
	}
	return chs[i], true
}

// Passage collects the verses of book from one reference to another,
// inclusive. A reversed range is swapped.
func (s *Store) Passage(book string, from, to Reference) []Verse {
	if to.Less(from) {
		from, to = to, from
	}
	var out []Verse
	for _, ch := range s.chapters[book] {
		if ch < from.Chapter || ch > to.Chapter {
			continue
		}
		for _, v := range s.chapterIndex[book][ch] {
			r := v.Ref()
			if r.Less(from) || to.Less(r) {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) findBook(name string) string {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return ""
	}
	// Substring hits are fine for the book picker but too loose here.
	for _, b := range s.FindBooks(q) {
		if strings.HasPrefix(strings.ToLower(b), q) || strings.HasPrefix(strings.ToLower(DisplayName(b)), q) {
			return b
		}
	}
	return ""
}

// ParseReference resolves "창1:1", "창세기 1:1", "Genesis 1:1", "Gen 1" or
// "Gen". Missing chapter or verse mean 1.
func (s *Store) ParseReference(query string) (Reference, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Reference{}, fmt.Errorf("%w: empty", ErrBadReference)
	}

	bookPart, numPart := q, ""
	if i := strings.IndexFunc(q, unicode.IsDigit); i >= 0 {
		// A leading digit belongs to the book ("1 John").
		j := i
		if i == 0 {
			if k := strings.IndexFunc(q, func(r rune) bool { return !unicode.IsDigit(r) }); k > 0 {
				rest := q[k:]
				if n := strings.IndexFunc(rest, unicode.IsDigit); n >= 0 {
					j = k + n
				} else {
					j = len(q)
				}
			}
		}
		bookPart, numPart = q[:j], q[j:]
	}

	book := s.findBook(bookPart)
	if book == "" {
		return Reference{}, fmt.Errorf("%w: %q", ErrUnknownBook, strings.TrimSpace(bookPart))
	}
	ref := Reference{Book: book, Chapter: 1, Verse: 1}
	numPart = strings.TrimSpace(numPart)
	if numPart == "" {
		return ref, nil
	}
	chStr, vsStr, hasVerse := strings.Cut(numPart, ":")
	ch, err := strconv.Atoi(strings.TrimSpace(chStr))
	if err != nil || ch <= 0 {
		return Reference{}, fmt.Errorf("%w: chapter in %q", ErrBadReference, q)
	}
	ref.Chapter = ch
	if hasVerse {
		vs, err := strconv.Atoi(strings.TrimSpace(vsStr))
		if err != nil || vs <= 0 {
			return Reference{}, fmt.Errorf("%w: verse in %q", ErrBadReference, q)
		}
		ref.Verse = vs
	}
	if _, ok := s.text[ref]; !ok {
		return Reference{}, fmt.Errorf("%w: %s not found", ErrBadReference, ref)
	}
	return ref, nil
}
