package markov

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

var testCorpus = []string{
	"The cat sat on the mat.",
	"The dog sat on the rug.",
	"A bird sang in the tree.",
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", "Hello there.", []string{"Hello there."}},
		{"two", "Hello there. General Kenobi!", []string{"Hello there.", "General Kenobi!"}},
		{"lower case continuation", "It is 3 p.m. and late.", []string{"It is 3 p.m. and late."}},
		{"abbreviation", "Ask Mr. Smith. He knows.", []string{"Ask Mr. Smith.", "He knows."}},
		{"initial", "J. R. Hartley wrote it.", []string{"J. R. Hartley wrote it."}},
		{"full width", "今日は晴れ。明日は雨。", []string{"今日は晴れ。", "明日は雨。"}},
		{"no terminator", "just words", []string{"just words"}},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.text))
		})
	}
}

func TestBuild_CountsTransitions(t *testing.T) {
	m := Build(testCorpus, 2, WhitespaceTokenizer{})

	assert.Equal(t, 3, m.Sentences())
	assert.Equal(t, 2, m.StateSize())
	assert.False(t, m.Compiled())

	begin := m.chain.model[Begin+stateSep+Begin]
	require.NotNil(t, begin)
	assert.Equal(t, map[string]int{"The": 2, "A": 1}, begin.counts)

	after := m.chain.model["on"+stateSep+"the"]
	require.NotNil(t, after)
	assert.Equal(t, map[string]int{"mat.": 1, "rug.": 1}, after.counts)
}

func TestCombine_SumsCounts(t *testing.T) {
	a := Build(testCorpus[:1], 2, WhitespaceTokenizer{})
	b := Build(testCorpus[1:], 2, WhitespaceTokenizer{})

	combined, n, err := Combine([]*Model{a, b}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	whole := Build(testCorpus, 2, WhitespaceTokenizer{})
	wantJSON, err := json.Marshal(whole)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(combined)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))
}

func TestCombine_StrictRejectsCompiled(t *testing.T) {
	a := Build(testCorpus, 2, WhitespaceTokenizer{})
	b := Build(testCorpus, 2, WhitespaceTokenizer{}).Compile()

	_, _, err := Combine([]*Model{a, b}, true)
	assert.ErrorIs(t, err, domain.ErrIncompatibleModels)
}

func TestCombine_StrictRejectsStateSize(t *testing.T) {
	a := Build(testCorpus, 2, WhitespaceTokenizer{})
	b := Build(testCorpus, 3, WhitespaceTokenizer{})

	_, _, err := Combine([]*Model{a, b}, true)
	assert.ErrorIs(t, err, domain.ErrIncompatibleModels)
}

func TestCombine_PermissiveSkipsIncompatible(t *testing.T) {
	a := Build(testCorpus, 2, WhitespaceTokenizer{})
	b := Build(testCorpus, 2, WhitespaceTokenizer{}).Compile()
	c := Build(testCorpus, 3, WhitespaceTokenizer{})

	combined, n, err := Combine([]*Model{a, b, c}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, combined.Sentences())
}

func TestCombine_PermissiveNothingUsable(t *testing.T) {
	b := Build(testCorpus, 2, WhitespaceTokenizer{}).Compile()

	_, _, err := Combine([]*Model{b}, false)
	assert.ErrorIs(t, err, domain.ErrIncompatibleModels)
}

func TestCombine_Empty(t *testing.T) {
	_, _, err := Combine(nil, true)
	assert.Error(t, err)
}

func TestJSON_RoundTripIsStable(t *testing.T) {
	for _, compiled := range []bool{false, true} {
		m := Build(testCorpus, 2, WhitespaceTokenizer{})
		if compiled {
			m = m.Compile()
		}

		first, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Model
		require.NoError(t, json.Unmarshal(first, &decoded))
		assert.Equal(t, compiled, decoded.Compiled())

		second, err := json.Marshal(&decoded)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	}
}

func TestUnmarshal_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero state size", `{"state_size":0,"chain":[]}`},
		{"state length", `{"state_size":2,"chain":[{"state":["a"],"next":{"b":1}}]}`},
		{"bad count", `{"state_size":1,"chain":[{"state":["a"],"next":{"b":0}}]}`},
		{"weights mismatch", `{"state_size":1,"compiled":true,"chain":[{"state":["a"],"words":["b"],"cumulative":[1,2]}]}`},
		{"weights decreasing", `{"state_size":1,"compiled":true,"chain":[{"state":["a"],"words":["b","c"],"cumulative":[2,1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Model
			err := json.Unmarshal([]byte(tt.data), &m)
			assert.ErrorIs(t, err, domain.ErrInvalidModel)
		})
	}
}

func TestMakeSentence_FromSingleSentence(t *testing.T) {
	m := Build([]string{"Only one path here."}, 2, WhitespaceTokenizer{})
	rng := rand.New(rand.NewPCG(1, 2))

	s, ok := m.MakeSentence(rng, WhitespaceTokenizer{}, SentenceOptions{Tries: 1})
	require.True(t, ok)
	assert.Equal(t, "Only one path here.", s)
}

func TestMakeSentence_CompiledMatchesUncompiled(t *testing.T) {
	m := Build(testCorpus, 2, WhitespaceTokenizer{})
	c := m.Compile()

	for seed := range uint64(20) {
		a, okA := m.MakeSentence(rand.New(rand.NewPCG(seed, seed)), WhitespaceTokenizer{}, SentenceOptions{Tries: 1})
		b, okB := c.MakeSentence(rand.New(rand.NewPCG(seed, seed)), WhitespaceTokenizer{}, SentenceOptions{Tries: 1})
		assert.Equal(t, okA, okB)
		assert.Equal(t, a, b)
	}
}

func TestMakeSentence_CharLimitExhaustsTries(t *testing.T) {
	m := Build([]string{"This sentence is always longer than ten characters."}, 2, WhitespaceTokenizer{})
	rng := rand.New(rand.NewPCG(1, 2))

	s, ok := m.MakeSentence(rng, WhitespaceTokenizer{}, SentenceOptions{CharLimit: 10, Tries: 5})
	assert.False(t, ok)
	assert.Empty(t, s)
}

func TestMakeSentence_CyclicChainStopsAtMaxWords(t *testing.T) {
	var m Model
	data := `{"state_size":1,"compiled":false,"chain":[
		{"state":["___BEGIN__"],"next":{"again":1}},
		{"state":["again"],"next":{"again":1}}
	],"parsed_sentences":[]}`
	require.NoError(t, json.Unmarshal([]byte(data), &m))

	s, ok := m.MakeSentence(rand.New(rand.NewPCG(1, 2)), WhitespaceTokenizer{}, SentenceOptions{Tries: 3, MaxWords: 20})
	assert.False(t, ok)
	assert.Empty(t, s)

	_, ok = m.MakeSentence(rand.New(rand.NewPCG(1, 2)), WhitespaceTokenizer{}, SentenceOptions{Tries: 3})
	assert.False(t, ok)
}

func TestMakeSentence_ZeroTries(t *testing.T) {
	m := Build(testCorpus, 2, WhitespaceTokenizer{})
	_, ok := m.MakeSentence(rand.New(rand.NewPCG(1, 2)), WhitespaceTokenizer{}, SentenceOptions{Tries: 0})
	assert.False(t, ok)
}

func TestMakeSentence_OverlapRejectsCopies(t *testing.T) {
	m := Build([]string{"Only one path here."}, 2, WhitespaceTokenizer{})
	rng := rand.New(rand.NewPCG(1, 2))

	_, ok := m.MakeSentence(rng, WhitespaceTokenizer{}, SentenceOptions{
		Tries:           10,
		TestOverlap:     true,
		MaxOverlapRatio: DefaultMaxOverlapRatio,
		MaxOverlapTotal: DefaultMaxOverlapTotal,
	})
	assert.False(t, ok)
}

func TestMakeSentence_StaysWithinCorpusVocabulary(t *testing.T) {
	m := Build(testCorpus, 2, WhitespaceTokenizer{})
	vocab := map[string]bool{}
	for _, s := range testCorpus {
		for _, w := range strings.Fields(s) {
			vocab[w] = true
		}
	}

	rng := rand.New(rand.NewPCG(7, 7))
	for range 50 {
		s, ok := m.MakeSentence(rng, WhitespaceTokenizer{}, SentenceOptions{Tries: 1})
		require.True(t, ok)
		for _, w := range strings.Fields(s) {
			assert.True(t, vocab[w], "unexpected word %q", w)
		}
	}
}
