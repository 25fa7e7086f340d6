package bible

import (
	"sort"
	"strings"
	"unicode/utf8"
)

type scoredVerse struct {
	verse Verse
	score int
}

func fuzzyMatchAndScore(text, pattern string) (matches bool, score int) {
	if pattern == "" {
		return true, 1000000
	}

	textLower := strings.ToLower(text)
	patternLower := strings.ToLower(pattern)

	if idx := strings.Index(textLower, patternLower); idx >= 0 {
		return true, idx
	}

	words := strings.Fields(textLower)
	for i, word := range words {
		cleanWord := strings.Trim(word, ".,;:!?\"'()[]")
		if strings.HasPrefix(cleanWord, patternLower) {
			return true, 100 + i
		}
		if strings.Contains(cleanWord, patternLower) {
			return true, 500 + i
		}
	}

	return false, 1000000
}

func intersect(a, b []int) []int {
	var result []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return result
}

func sortAndExtractVerses(matches []scoredVerse) []Verse {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score < matches[j].score
	})
	verses := make([]Verse, len(matches))
	for i, match := range matches {
		verses[i] = match.verse
	}
	return verses
}

// Search finds verses for the go-to box. A query that resolves as a
// reference ("창1", "Genesis 1:3") returns those verses; "<book> <word>"
// searches inside one book; anything else is a word search over all verses.
func (s *Store) Search(query string) []Verse {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Verse{}
	}

	if referenceResults := s.searchByReference(query); len(referenceResults) > 0 {
		return referenceResults
	}

	parts := strings.Fields(query)
	if len(parts) >= 2 {
		bookName := strings.Join(parts[:len(parts)-1], " ")
		searchTerm := parts[len(parts)-1]

		if matchedBook := s.findBook(bookName); matchedBook != "" {
			var matches []scoredVerse
			for _, verse := range s.verses {
				if verse.Book != matchedBook {
					continue
				}
				if match, score := fuzzyMatchAndScore(verse.Text, searchTerm); match {
					matches = append(matches, scoredVerse{verse: verse, score: score})
				}
			}
			if len(matches) > 0 {
				return sortAndExtractVerses(matches)
			}
		}
	}

	// Narrow candidates with the word index before scoring.
	var candidates []int
	for _, word := range strings.Fields(strings.ToLower(query)) {
		clean := strings.Trim(word, ".,;:!?\"'()[]")
		if utf8.RuneCountInString(clean) <= 1 {
			continue
		}
		indices, ok := s.index[clean]
		if !ok {
			candidates = nil
			break
		}
		if candidates == nil {
			candidates = append([]int(nil), indices...)
		} else {
			candidates = intersect(candidates, indices)
		}
	}

	var matches []scoredVerse
	if candidates != nil {
		for _, idx := range candidates {
			verse := s.verses[idx]
			if match, score := fuzzyMatchAndScore(verse.Text, query); match {
				matches = append(matches, scoredVerse{verse: verse, score: score})
			}
		}
		return sortAndExtractVerses(matches)
	}

	for _, verse := range s.verses {
		if match, score := fuzzyMatchAndScore(verse.Text, query); match {
			matches = append(matches, scoredVerse{verse: verse, score: score})
		}
	}
	return sortAndExtractVerses(matches)
}

// searchByReference returns a whole chapter for "book ch", one verse for
// "book ch:vs", and the whole book for a bare book name.
func (s *Store) searchByReference(query string) []Verse {
	ref, err := s.ParseReference(query)
	if err != nil {
		return nil
	}
	hasChapter := strings.IndexFunc(query, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 &&
		!startsWithBookNumberOnly(query)
	switch {
	case strings.Contains(query, ":"):
		t, _ := s.Text(ref)
		return []Verse{{Book: ref.Book, Chapter: ref.Chapter, Verse: ref.Verse, Text: t}}
	case hasChapter:
		return s.Verses(ref.Book, ref.Chapter)
	}
	var out []Verse
	for _, ch := range s.chapters[ref.Book] {
		out = append(out, s.chapterIndex[ref.Book][ch]...)
	}
	return out
}

// startsWithBookNumberOnly reports queries like "1 John" whose only digits
// are the book's ordinal.
func startsWithBookNumberOnly(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" || q[0] < '0' || q[0] > '9' {
		return false
	}
	rest := strings.TrimLeft(q, "0123456789")
	return strings.IndexFunc(rest, func(r rune) bool { return r >= '0' && r <= '9' }) < 0
}
