package markov

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// Default overlap limits for rejecting sentences that copy the corpus.
const (
	DefaultMaxOverlapRatio = 0.7
	DefaultMaxOverlapTotal = 15
)

// DefaultMaxWords caps a single walk through the chain. A stored chain
// may loop without ever reaching End.
const DefaultMaxWords = 200

// Model is a Markov text model with the sentences it was built from.
type Model struct {
	chain     *Chain
	sentences [][]string
}

// Build tokenizes the corpus entries and builds a model.
func Build(corpus []string, stateSize int, tok Tokenizer) *Model {
	var sentences [][]string
	for _, entry := range corpus {
		for _, s := range splitSentences(entry) {
			if words := tok.Split(s); len(words) > 0 {
				sentences = append(sentences, words)
			}
		}
	}
	return &Model{chain: buildChain(sentences, stateSize), sentences: sentences}
}

// StateSize returns the chain order.
func (m *Model) StateSize() int { return m.chain.stateSize }

// Compiled reports whether the model has been compiled.
func (m *Model) Compiled() bool { return m.chain.compiled }

// Sentences returns the number of sentences the model was built from.
func (m *Model) Sentences() int { return len(m.sentences) }

// Compile returns a compiled copy of the model. Compiled models sample
// faster but can no longer be combined.
func (m *Model) Compile() *Model {
	return &Model{chain: m.chain.compile(), sentences: m.sentences}
}

// Combine merges models by summing their transition counts.
//
// In strict mode any compiled input, or any input whose state size
// differs from the first, fails with domain.ErrIncompatibleModels. In
// permissive mode such inputs are skipped. The number of combined inputs
// is returned.
func Combine(models []*Model, strict bool) (*Model, int, error) {
	if len(models) == 0 {
		return nil, 0, errors.New("combine: no models")
	}

	var usable []*Model
	for i, m := range models {
		var reason string
		switch {
		case m.Compiled():
			reason = "is compiled"
		case len(usable) > 0 && m.StateSize() != usable[0].StateSize():
			reason = fmt.Sprintf("has state size %d, want %d", m.StateSize(), usable[0].StateSize())
		}
		if reason != "" {
			if strict {
				return nil, 0, fmt.Errorf("%w: model %d %s", domain.ErrIncompatibleModels, i, reason)
			}
			continue
		}
		usable = append(usable, m)
	}
	if len(usable) == 0 {
		return nil, 0, fmt.Errorf("%w: no combinable models", domain.ErrIncompatibleModels)
	}

	chains := make([]*Chain, len(usable))
	var sentences [][]string
	for i, m := range usable {
		chains[i] = m.chain
		sentences = append(sentences, m.sentences...)
	}
	return &Model{chain: combineChains(chains), sentences: sentences}, len(usable), nil
}

// SentenceOptions controls sentence sampling.
type SentenceOptions struct {
	// CharLimit is the maximum sentence length in runes. <= 0 is unlimited.
	CharLimit int

	// Tries is the number of attempts before giving up.
	Tries int

	// TestOverlap rejects sentences that copy too much of the corpus.
	TestOverlap bool

	// MaxOverlapRatio and MaxOverlapTotal bound the copied run of words.
	MaxOverlapRatio float64
	MaxOverlapTotal int

	// MaxWords rejects a walk that runs longer. <= 0 means DefaultMaxWords.
	MaxWords int
}

// MakeSentence samples a sentence. ok is false if no attempt succeeded.
func (m *Model) MakeSentence(rng *rand.Rand, tok Tokenizer, opts SentenceOptions) (string, bool) {
	var corpus string
	if opts.TestOverlap {
		corpus = m.rejoined()
	}

	maxWords := opts.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	for range opts.Tries {
		words, ok := m.chain.walk(rng, maxWords)
		if !ok || len(words) == 0 {
			continue
		}
		if opts.TestOverlap && !passesOverlap(words, corpus, opts) {
			continue
		}
		sentence := tok.Join(words)
		if opts.CharLimit > 0 && utf8.RuneCountInString(sentence) > opts.CharLimit {
			continue
		}
		return sentence, true
	}
	return "", false
}

// rejoined renders every source sentence on its own line with words
// space separated and padded so whole-word runs can be matched.
func (m *Model) rejoined() string {
	var b strings.Builder
	for _, s := range m.sentences {
		b.WriteString(" ")
		b.WriteString(strings.Join(s, " "))
		b.WriteString(" \n")
	}
	return b.String()
}

func passesOverlap(words []string, corpus string, opts SentenceOptions) bool {
	ratio := int(math.Round(opts.MaxOverlapRatio * float64(len(words))))
	overlapMax := min(opts.MaxOverlapTotal, ratio)
	over := overlapMax + 1
	grams := max(len(words)-overlapMax, 1)

	for i := range grams {
		end := min(i+over, len(words))
		gram := " " + strings.Join(words[i:end], " ") + " "
		if strings.Contains(corpus, gram) {
			return false
		}
	}
	return true
}

// payload is the serialized form of a Model.
type payload struct {
	StateSize int          `json:"state_size"`
	Compiled  bool         `json:"compiled"`
	Chain     []chainEntry `json:"chain"`
	Sentences [][]string   `json:"parsed_sentences"`
}

type chainEntry struct {
	State      []string       `json:"state"`
	Next       map[string]int `json:"next,omitempty"`
	Words      []string       `json:"words,omitempty"`
	Cumulative []int          `json:"cumulative,omitempty"`
}

// MarshalJSON implements json.Marshaler. Output is deterministic.
func (m *Model) MarshalJSON() ([]byte, error) {
	p := payload{
		StateSize: m.chain.stateSize,
		Compiled:  m.chain.compiled,
		Chain:     make([]chainEntry, 0, len(m.chain.model)),
		Sentences: m.sentences,
	}
	if p.Sentences == nil {
		p.Sentences = [][]string{}
	}
	for _, key := range m.chain.keys() {
		t := m.chain.model[key]
		entry := chainEntry{State: strings.Split(key, stateSep)}
		if m.chain.compiled {
			entry.Words = t.words
			entry.Cumulative = t.cumulative
		} else {
			entry.Next = t.counts
		}
		p.Chain = append(p.Chain, entry)
	}
	return json.Marshal(p)
}

// UnmarshalJSON implements json.Unmarshaler and validates structure.
func (m *Model) UnmarshalJSON(data []byte) error {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidModel, err)
	}
	if p.StateSize < 1 {
		return fmt.Errorf("%w: state size %d", domain.ErrInvalidModel, p.StateSize)
	}

	c := newChain(p.StateSize)
	c.compiled = p.Compiled
	for i, e := range p.Chain {
		if len(e.State) != p.StateSize {
			return fmt.Errorf("%w: entry %d has state of length %d", domain.ErrInvalidModel, i, len(e.State))
		}
		key := strings.Join(e.State, stateSep)
		if p.Compiled {
			if err := validateCumulative(e.Words, e.Cumulative); err != nil {
				return fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidModel, i, err)
			}
			c.model[key] = &transition{words: e.Words, cumulative: e.Cumulative}
			continue
		}
		t := &transition{counts: make(map[string]int, len(e.Next))}
		for w, n := range e.Next {
			if n < 1 {
				return fmt.Errorf("%w: entry %d has count %d", domain.ErrInvalidModel, i, n)
			}
			t.counts[w] = n
		}
		c.model[key] = t
	}

	m.chain = c
	m.sentences = p.Sentences
	return nil
}

func validateCumulative(words []string, cum []int) error {
	if len(words) != len(cum) {
		return fmt.Errorf("%d words but %d weights", len(words), len(cum))
	}
	prev := 0
	for _, n := range cum {
		if n <= prev {
			return errors.New("weights are not increasing")
		}
		prev = n
	}
	return nil
}
