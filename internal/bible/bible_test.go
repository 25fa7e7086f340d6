package bible

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const flatJSON = `{
	"창1:1": "태초에 하나님이 천지를 창조하시니라",
	"창1:2": "땅이 혼돈하고 공허하며 흑암이 깊음 위에 있고",
	"창1:3": "하나님이 이르시되 빛이 있으라 하시니 빛이 있었고",
	"창2:1": "천지와 만물이 다 이루어지니라",
	"창2:2": "하나님이 그가 하시던 일을 일곱째 날에 마치시니",
	"출1:1": "야곱과 함께 각각 자기 가족을 데리고 애굽에 이른",
	"요3:16": "하나님이 세상을 이처럼 사랑하사",
	"bogus": "ignored"
}`

const nestedJSON = `{
	"John": {"3": {"16": "For God so loved the world", "17": "For God sent not his Son"}},
	"Genesis": {
		"1": {"1": "In the beginning God created the heaven and the earth.", "2": "And the earth was without form"},
		"2": {"1": "Thus the heavens and the earth were finished"}
	},
	"1 John": {"1": {"1": "That which was from the beginning"}}
}`

func mustParse(t *testing.T, data string) *Store {
	t.Helper()
	s, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParseFlatKoreanKeys(t *testing.T) {
	s := mustParse(t, flatJSON)
	if got, want := s.Books(), []string{"창", "출", "요"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Books() = %v, want %v", got, want)
	}
	if got := s.Chapters("창"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("Chapters = %v", got)
	}
	if s.MaxVerse("창", 1) != 3 || s.MaxVerse("창", 9) != 0 {
		t.Fatalf("MaxVerse wrong: %d %d", s.MaxVerse("창", 1), s.MaxVerse("창", 9))
	}
	text, ok := s.Text(Reference{Book: "창", Chapter: 1, Verse: 1})
	if !ok || text != "태초에 하나님이 천지를 창조하시니라" {
		t.Fatalf("Text = %q, %v", text, ok)
	}
	if s.Len() != 7 {
		t.Fatalf("Len = %d, want 7", s.Len())
	}
}

func TestParseNestedCanonicalOrder(t *testing.T) {
	s := mustParse(t, nestedJSON)
	if got, want := s.Books(), []string{"Genesis", "John", "1 John"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Books() = %v, want %v", got, want)
	}
}

func TestParseRejectsEmptyAndGarbage(t *testing.T) {
	if _, err := Parse([]byte(`{}`)); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty: err = %v, want ErrNoData", err)
	}
	if _, err := Parse([]byte(`[1,2`)); err == nil {
		t.Fatalf("garbage should fail")
	}
}

func TestStepWrapsChaptersAndStopsAtBook(t *testing.T) {
	s := mustParse(t, flatJSON)
	ref := Reference{Book: "창", Chapter: 1, Verse: 3}

	next, ok := s.Step(ref, 1)
	if !ok || next != (Reference{Book: "창", Chapter: 2, Verse: 1}) {
		t.Fatalf("forward across chapter = %v %v", next, ok)
	}
	prev, ok := s.Step(next, -1)
	if !ok || prev != ref {
		t.Fatalf("backward across chapter = %v %v", prev, ok)
	}

	first := Reference{Book: "창", Chapter: 1, Verse: 1}
	if got, ok := s.Step(first, -1); ok || got != first {
		t.Fatalf("stepping before the book should stop, got %v %v", got, ok)
	}
	last := Reference{Book: "창", Chapter: 2, Verse: 2}
	if got, ok := s.Step(last, 1); ok || got != last {
		t.Fatalf("stepping past the book should stop, got %v %v", got, ok)
	}
}

func TestPassageSwapsReversedRange(t *testing.T) {
	s := mustParse(t, flatJSON)
	from := Reference{Book: "창", Chapter: 1, Verse: 2}
	to := Reference{Book: "창", Chapter: 2, Verse: 1}

	forward := s.Passage("창", from, to)
	backward := s.Passage("창", to, from)
	if len(forward) != 3 || !reflect.DeepEqual(forward, backward) {
		t.Fatalf("Passage = %v / %v", forward, backward)
	}
	if forward[0].Ref() != from || forward[2].Ref() != to {
		t.Fatalf("range ends wrong: %v", forward)
	}
}

func TestReferenceOrderingAndString(t *testing.T) {
	a := Reference{Book: "창", Chapter: 1, Verse: 9}
	b := Reference{Book: "창", Chapter: 2, Verse: 1}
	if !a.Less(b) || b.Less(a) || a.Compare(a) != 0 {
		t.Fatalf("ordering broken")
	}
	if a.String() != "창1:9" {
		t.Fatalf("String = %q", a.String())
	}
	if got := (Reference{Book: "Genesis", Chapter: 1, Verse: 1}).String(); got != "Genesis 1:1" {
		t.Fatalf("String = %q", got)
	}
}

func TestParseReference(t *testing.T) {
	s := mustParse(t, nestedJSON)
	cases := map[string]Reference{
		"Genesis 1:2": {Book: "Genesis", Chapter: 1, Verse: 2},
		"gen 2":       {Book: "Genesis", Chapter: 2, Verse: 1},
		"John 3:17":   {Book: "John", Chapter: 3, Verse: 17},
		"1 John 1:1":  {Book: "1 John", Chapter: 1, Verse: 1},
		"1 John":      {Book: "1 John", Chapter: 1, Verse: 1},
	}
	for in, want := range cases {
		got, err := s.ParseReference(in)
		if err != nil || got != want {
			t.Fatalf("ParseReference(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := s.ParseReference("Hezekiah 1:1"); !errors.Is(err, ErrUnknownBook) {
		t.Fatalf("unknown book err = %v", err)
	}
	if _, err := s.ParseReference("Genesis 9:9"); !errors.Is(err, ErrBadReference) {
		t.Fatalf("missing verse err = %v", err)
	}

	k := mustParse(t, flatJSON)
	for _, in := range []string{"창1:3", "창 1:3", "창세기 1:3"} {
		got, err := k.ParseReference(in)
		if err != nil || got != (Reference{Book: "창", Chapter: 1, Verse: 3}) {
			t.Fatalf("ParseReference(%q) = %v, %v", in, got, err)
		}
	}
}

func TestFindBooksAndDisplayName(t *testing.T) {
	s := mustParse(t, flatJSON)
	if got := s.FindBooks("창세"); !reflect.DeepEqual(got, []string{"창"}) {
		t.Fatalf("FindBooks = %v", got)
	}
	if DisplayName("요") != "요한복음" || DisplayName("Genesis") != "Genesis" {
		t.Fatalf("DisplayName mismatch")
	}
	if Testament("창") != "OT" || Testament("요") != "NT" || Testament("Revelation") != "NT" || Testament("x") != "" {
		t.Fatalf("Testament mismatch")
	}
}

func TestSearch(t *testing.T) {
	s := mustParse(t, nestedJSON)

	if got := s.Search("Genesis 1"); len(got) != 2 {
		t.Fatalf("chapter search returned %d verses", len(got))
	}
	if got := s.Search("John 3:16"); len(got) != 1 || got[0].Verse != 16 {
		t.Fatalf("verse search = %v", got)
	}
	got := s.Search("beginning")
	if len(got) != 2 {
		t.Fatalf("word search = %v", got)
	}
	if got := s.Search("Genesis earth"); len(got) != 3 {
		t.Fatalf("book-scoped search = %v", got)
	}
	if got := s.Search(""); len(got) != 0 {
		t.Fatalf("empty search = %v", got)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := mustParse(t, flatJSON)
	path := filepath.Join(t.TempDir(), "KRV_bible.db")

	if err := WriteSQLite(ctx, path, s); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}
	// Writing twice replaces, not duplicates.
	if err := WriteSQLite(ctx, path, s); err != nil {
		t.Fatalf("WriteSQLite again: %v", err)
	}
	loaded, err := LoadSQLite(ctx, path)
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if loaded.Len() != s.Len() || !reflect.DeepEqual(loaded.Books(), s.Books()) {
		t.Fatalf("loaded %d verses %v, want %d %v", loaded.Len(), loaded.Books(), s.Len(), s.Books())
	}
	ref := Reference{Book: "요", Chapter: 3, Verse: 16}
	a, _ := s.Text(ref)
	b, _ := loaded.Text(ref)
	if a != b {
		t.Fatalf("text mismatch %q vs %q", a, b)
	}
}

func TestLibraryLoadsLazily(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "KRV_bible.json"), []byte(flatJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "KJV_bible.json"), []byte(nestedJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := OpenLibrary(dir, nil)
	if err != nil {
		t.Fatalf("OpenLibrary: %v", err)
	}
	if got := lib.Translations(); !reflect.DeepEqual(got, []string{"KJV", "KRV"}) {
		t.Fatalf("Translations = %v", got)
	}
	s1, err := lib.Get(context.Background(), "KRV")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	s2, _ := lib.Get(context.Background(), "KRV")
	if s1 != s2 {
		t.Fatalf("translation not cached")
	}
	if _, err := lib.Get(context.Background(), "NIV"); !errors.Is(err, ErrNoData) {
		t.Fatalf("missing translation err = %v", err)
	}
}

func TestOpenLibraryEmptyDir(t *testing.T) {
	if _, err := OpenLibrary(t.TempDir(), nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
