package lyrics

import (
	"strings"
	"unicode"
)

// StyleNotFound is the style text used when the answer has no style section.
const StyleNotFound = "음악 스타일 정보를 찾을 수 없습니다."

const maxStyleKeywords = 5

// Result is a parsed model answer.
type Result struct {
	Lyrics string
	Style  string
}

// ParseResponse splits the answer at the section markers. Without a lyrics
// marker the whole answer is taken as lyrics.
func ParseResponse(text string) Result {
	res := Result{Lyrics: text, Style: StyleNotFound}

	if _, after, ok := strings.Cut(text, LyricsMarker); ok {
		lyrics, _, _ := strings.Cut(after, StyleMarker)
		res.Lyrics = strings.TrimSpace(lyrics)
	}

	if _, style, ok := strings.Cut(text, StyleMarker); ok {
		res.Style = strings.TrimSpace(style)
	}

	return res
}

// SunoFormat renders lyrics on one line with the first style keywords, ready
// to paste into SUNO AI.
func SunoFormat(lyrics, style string) string {
	clean := strings.Join(strings.Fields(lyrics), " ")

	var b strings.Builder

	b.WriteString("🎵 가사:\n")
	b.WriteString(clean)
	b.WriteString("\n\n🎼 음악 스타일:\n")
	b.WriteString(strings.Join(StyleKeywords(style), ", "))
	b.WriteString("\n\n📝 SUNO AI 사용법:\n")
	b.WriteString("1. SUNO AI 웹사이트에 접속\n")
	b.WriteString("2. 위의 가사를 복사하여 붙여넣기\n")
	b.WriteString("3. 음악 스타일 키워드를 참고하여 원하는 스타일 선택\n")
	b.WriteString("4. 생성 버튼 클릭")

	return b.String()
}

// StyleKeywords returns up to five words of style, keeping only ASCII word
// characters and Hangul syllables.
func StyleKeywords(style string) []string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case unicode.IsSpace(r):
			return r
		case r >= '가' && r <= '힣':
			return r
		default:
			return -1
		}
	}, style)

	words := strings.Fields(kept)

	return words[:min(len(words), maxStyleKeywords)]
}
