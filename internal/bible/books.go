package bible

import "strings"

// Korean book abbreviations in canonical order, as used by the flat
// "창1:1"-style data files.
var (
	oldTestament = []string{
		"창", "출", "레", "민", "신", "수", "삿", "룻", "삼상", "삼하", "왕상", "왕하", "대상", "대하", "스",
		"느", "에", "욥", "시", "잠", "전", "아", "사", "렘", "애", "겔", "단", "호", "욜", "암", "옵", "욘", "미",
		"나", "합", "습", "학", "슥", "말",
	}
	newTestament = []string{
		"마", "막", "눅", "요", "행", "롬", "고전", "고후", "갈", "엡", "빌", "골", "살전", "살후", "딤전", "딤후",
		"딛", "몬", "히", "약", "벧전", "벧후", "요일", "요이", "요삼", "유", "계",
	}
)

var englishOrder = []string{
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel", "1 Kings", "2 Kings",
	"1 Chronicles", "2 Chronicles", "Ezra", "Nehemiah", "Esther", "Job", "Psalm",
	"Proverbs", "Ecclesiastes", "Song Of Solomon", "Isaiah", "Jeremiah",
	"Lamentations", "Ezekiel", "Daniel", "Hosea", "Joel", "Amos", "Obadiah",
	"Jonah", "Micah", "Nahum", "Habakkuk", "Zephaniah", "Haggai", "Zechariah", "Malachi",
	"Matthew", "Mark", "Luke", "John", "Acts", "Romans", "1 Corinthians", "2 Corinthians",
	"Galatians", "Ephesians", "Philippians", "Colossians", "1 Thessalonians", "2 Thessalonians",
	"1 Timothy", "2 Timothy", "Titus", "Philemon", "Hebrews", "James", "1 Peter", "2 Peter",
	"1 John", "2 John", "3 John", "Jude", "Revelation",
}

var koreanNames = map[string]string{
	"창": "창세기", "출": "출애굽기", "레": "레위기", "민": "민수기", "신": "신명기", "수": "여호수아", "삿": "사사기", "룻": "룻기",
	"삼상": "사무엘상", "삼하": "사무엘하", "왕상": "열왕기상", "왕하": "열왕기하", "대상": "역대상", "대하": "역대하", "스": "에스라",
	"느": "느헤미야", "에": "에스더", "욥": "욥기", "시": "시편", "잠": "잠언", "전": "전도서", "아": "아가", "사": "이사야", "렘": "예레미야",
	"애": "예레미야애가", "겔": "에스겔", "단": "다니엘", "호": "호세아", "욜": "요엘", "암": "아모스", "옵": "오바댜", "욘": "요나", "미": "미가",
	"나": "나훔", "합": "하박국", "습": "스바냐", "학": "학개", "슥": "스가랴", "말": "말라기",
	"마": "마태복음", "막": "마가복음", "눅": "누가복음", "요": "요한복음", "행": "사도행전", "롬": "로마서", "고전": "고린도전서",
	"고후": "고린도후서", "갈": "갈라디아서", "엡": "에베소서", "빌": "빌립보서", "골": "골로새서", "살전": "데살로니가전서",
	"살후": "데살로니가후서", "딤전": "디모데전서", "딤후": "디모데후서", "딛": "디도서", "몬": "빌레몬서", "히": "히브리서", "약": "야고보서",
	"벧전": "베드로전서", "벧후": "베드로후서", "요일": "요한일서", "요이": "요한이서", "요삼": "요한삼서", "유": "유다서", "계": "요한계시록",
}

// canonicalRank orders known books; unknown books sort after all of them.
var canonicalRank = func() map[string]int {
	m := make(map[string]int, len(oldTestament)+len(newTestament)+len(englishOrder))
	for i, b := range append(append([]string{}, oldTestament...), newTestament...) {
		m[b] = i
	}
	for i, b := range englishOrder {
		m[b] = i
	}
	return m
}()

// DisplayName returns the full name of a book abbreviation, or book itself.
func DisplayName(book string) string {
	if n, ok := koreanNames[book]; ok {
		return n
	}
	return book
}

// Testament reports "OT", "NT" or "" for a known book.
func Testament(book string) string {
	r, ok := canonicalRank[book]
	if !ok {
		return ""
	}
	if _, korean := koreanNames[book]; korean {
		if r < len(oldTestament) {
			return "OT"
		}
		return "NT"
	}
	if r < 39 {
		return "OT"
	}
	return "NT"
}

// FindBooks returns the books whose abbreviation or display name matches
// query, exact and prefix matches first.
func (s *Store) FindBooks(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var exact, prefix, contains []string
	for _, b := range s.books {
		name := strings.ToLower(DisplayName(b))
		abbr := strings.ToLower(b)
		switch {
		case abbr == q || name == q:
			exact = append(exact, b)
		case strings.HasPrefix(abbr, q) || strings.HasPrefix(name, q):
			prefix = append(prefix, b)
		case strings.Contains(name, q):
			contains = append(contains, b)
		}
	}
	return append(append(exact, prefix...), contains...)
}
