package markov

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations are words ending in a period that do not end a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"capt": true, "col": true, "gen": true, "lt": true, "sgt": true,
	"gov": true, "rev": true, "hon": true, "mt": true,
}

// splitSentences breaks text into sentences. A Latin terminator ends a
// sentence when followed by whitespace and an upper case letter; a full
// width terminator always ends one.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	emit := func(end int) {
		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i, r := range text {
		size := utf8.RuneLen(r)
		switch r {
		case '。', '！', '？':
			emit(i + size)
		case '.', '!', '?':
			if endsSentence(text, i, r) {
				emit(i + size)
			}
		}
	}
	emit(len(text))
	return sentences
}

func endsSentence(text string, i int, r rune) bool {
	rest := text[i+1:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsUpper(next) {
		return false
	}
	if r == '.' {
		return !isAbbreviation(text[:i])
	}
	return true
}

func isAbbreviation(before string) bool {
	word := before
	if j := strings.LastIndexFunc(before, unicode.IsSpace); j >= 0 {
		word = before[j+1:]
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r)
	}
	return abbreviations[strings.ToLower(word)]
}
