package markov

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeTokenizer tags each word with its primary part of speech using
// the kagome morphological analyser and the IPA dictionary. Words take
// the form "surface::POS" so the chain distinguishes homographs.
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeTokenizer creates a kagome tokenizer.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create kagome tokenizer: %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

// Split implements Tokenizer.
func (k *KagomeTokenizer) Split(sentence string) []string {
	tokens := k.t.Tokenize(sentence)
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		pos := "*"
		if features := token.Features(); len(features) > 0 {
			pos = features[0]
		}
		words = append(words, token.Surface+tagSeparator+pos)
	}
	return words
}

// Join implements Tokenizer.
func (k *KagomeTokenizer) Join(words []string) string {
	surfaces := make([]string, len(words))
	for i, w := range words {
		surfaces[i] = untag(w)
	}
	return joinSurfaces(surfaces)
}
