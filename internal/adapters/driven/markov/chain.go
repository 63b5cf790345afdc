package markov

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
)

// Sentinel words marking the start and end of a sentence.
const (
	Begin = "___BEGIN__"
	End   = "___END__"
)

// stateSep joins state words into a map key.
const stateSep = "\x1f"

// transition holds the words following a state. Counts are used until
// the chain is compiled; afterwards words and cumulative weights are used.
type transition struct {
	counts     map[string]int
	words      []string
	cumulative []int
}

// Chain is a word-level Markov chain of fixed order.
type Chain struct {
	stateSize int
	compiled  bool
	model     map[string]*transition
}

func newChain(stateSize int) *Chain {
	return &Chain{stateSize: stateSize, model: make(map[string]*transition)}
}

// buildChain counts transitions across sentences.
func buildChain(sentences [][]string, stateSize int) *Chain {
	c := newChain(stateSize)
	for _, words := range sentences {
		items := make([]string, 0, stateSize+len(words)+1)
		for range stateSize {
			items = append(items, Begin)
		}
		items = append(items, words...)
		items = append(items, End)

		for i := 0; i+stateSize < len(items); i++ {
			c.add(items[i:i+stateSize], items[i+stateSize], 1)
		}
	}
	return c
}

func (c *Chain) add(state []string, next string, n int) {
	c.addKey(strings.Join(state, stateSep), next, n)
}

// StateSize returns the chain order.
func (c *Chain) StateSize() int { return c.stateSize }

// Compiled reports whether the chain has been compiled.
func (c *Chain) Compiled() bool { return c.compiled }

// compile returns a compiled copy of the chain.
func (c *Chain) compile() *Chain {
	if c.compiled {
		return c
	}
	out := &Chain{stateSize: c.stateSize, compiled: true, model: make(map[string]*transition, len(c.model))}
	for key, t := range c.model {
		words := sortedWords(t.counts)
		cum := make([]int, len(words))
		total := 0
		for i, w := range words {
			total += t.counts[w]
			cum[i] = total
		}
		out.model[key] = &transition{words: words, cumulative: cum}
	}
	return out
}

func sortedWords(counts map[string]int) []string {
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// move picks the next word for a state. ok is false for an unknown state.
func (c *Chain) move(rng *rand.Rand, state []string) (string, bool) {
	t, ok := c.model[strings.Join(state, stateSep)]
	if !ok {
		return "", false
	}

	words, cum := t.words, t.cumulative
	if !c.compiled {
		words = sortedWords(t.counts)
		cum = make([]int, len(words))
		total := 0
		for i, w := range words {
			total += t.counts[w]
			cum[i] = total
		}
	}
	if len(cum) == 0 || cum[len(cum)-1] <= 0 {
		return "", false
	}

	r := rng.IntN(cum[len(cum)-1])
	i := sort.SearchInts(cum, r+1)
	return words[i], true
}

// walk generates words from the begin state until End is reached. ok is
// false if End is not reached within maxWords words.
func (c *Chain) walk(rng *rand.Rand, maxWords int) (words []string, ok bool) {
	state := make([]string, c.stateSize)
	for i := range state {
		state[i] = Begin
	}

	for len(words) < maxWords {
		next, found := c.move(rng, state)
		if !found || next == End {
			return words, true
		}
		words = append(words, next)
		state = append(state[1:], next)
	}
	return nil, false
}

// combineChains sums transition counts. Callers check compatibility.
func combineChains(chains []*Chain) *Chain {
	out := newChain(chains[0].stateSize)
	for _, c := range chains {
		for key, t := range c.model {
			for w, n := range t.counts {
				out.addKey(key, w, n)
			}
		}
	}
	return out
}

func (c *Chain) addKey(key, next string, n int) {
	t, ok := c.model[key]
	if !ok {
		t = &transition{counts: make(map[string]int)}
		c.model[key] = t
	}
	t.counts[next] += n
}

// keys returns the state keys in sorted order.
func (c *Chain) keys() []string {
	keys := make([]string, 0, len(c.model))
	for k := range c.model {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
