// Package textutil counts keywords in free text such as book descriptions.
package textutil

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace from it so that
// category and keyword comparisons ignore spacing.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether name contains any of the matchers, both are
// compared after NormalizeName.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"이", "있", "하", "것", "들", "그", "되", "수", "보", "않", "없", "나", "사람", "주", "아니", "등",
		"같", "우리", "때", "년", "가", "한", "지", "대하", "오", "말", "일", "그렇", "위하", "그리고",
		"하지만", "그러나", "또한", "더욱이", "게다가", "때문에", "이어서", "또", "그런데", "따라서",
		"그래서", "여기서", "저기서", "먼저", "바로", "다시", "결국", "즉", "그래도",
	} {
		stopwords[w] = struct{}{}
	}
}

// particles trailing a korean noun, longest first
var particles = []string{
	"에서는", "으로는", "에게서", "까지는",
	"에서", "으로", "에게", "까지", "부터", "처럼", "보다", "과의", "와의", "이나", "이란", "라는", "이다",
	"은", "는", "이", "가", "을", "를", "의", "에", "로", "와", "과", "도", "만", "나",
}

func trimParticle(word string) string {
	for _, p := range particles {
		stem, ok := strings.CutSuffix(word, p)
		// never cut a word down to a single rune, "나라" must not become "나"
		if ok && utf8.RuneCountInString(stem) >= 2 {
			return stem
		}
	}
	return word
}

func isHangul(word string) bool {
	for _, r := range word {
		if !unicode.Is(unicode.Hangul, r) {
			return false
		}
	}
	return true
}

// Tokenize splits text on anything that is not a letter or digit, lowercases
// the tokens and strips trailing korean particles.
func Tokenize(text string) []string {
	text = norm.NFC.String(text)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToLower(f)
		if isHangul(f) {
			f = trimParticle(f)
		}
		tokens = append(tokens, f)
	}
	return tokens
}

type WordFrequency struct {
	Word  string
	Count int
}

// Analyze counts the keywords of text. Stopwords and single rune tokens are
// dropped. The result is sorted by descending count, ties by word.
func Analyze(text string) []WordFrequency {
	counts := map[string]int{}
	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) < 2 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		counts[token]++
	}

	out := make([]WordFrequency, 0, len(counts))
	for word, count := range counts {
		out = append(out, WordFrequency{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}
