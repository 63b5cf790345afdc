package markov

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits sentences into words and joins generated words back
// into a sentence.
type Tokenizer interface {
	// Split returns the words of a sentence. Words may carry tags.
	Split(sentence string) []string

	// Join renders words produced by Split as a sentence.
	Join(words []string) string
}

// WhitespaceTokenizer splits on runs of whitespace.
type WhitespaceTokenizer struct{}

// Split implements Tokenizer.
func (WhitespaceTokenizer) Split(sentence string) []string {
	return strings.Fields(sentence)
}

// Join implements Tokenizer.
func (WhitespaceTokenizer) Join(words []string) string {
	return strings.Join(words, " ")
}

// tagSeparator separates a surface form from its part-of-speech tag.
const tagSeparator = "::"

// untag strips a trailing part-of-speech tag from a word.
func untag(word string) string {
	if i := strings.LastIndex(word, tagSeparator); i >= 0 {
		return word[:i]
	}
	return word
}

// joinSurfaces concatenates surface forms, inserting a space only between
// two words whose touching runes are both Latin letters or digits, so
// Japanese text is rejoined without spaces.
func joinSurfaces(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 && needsSpace(words[i-1], w) {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

func needsSpace(prev, next string) bool {
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(next)
	if last == utf8.RuneError || first == utf8.RuneError {
		return false
	}
	if isWide(last) || isWide(first) {
		return false
	}
	if unicode.IsPunct(first) && first != '(' && first != '"' {
		return false
	}
	return true
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) ||
		(r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}
