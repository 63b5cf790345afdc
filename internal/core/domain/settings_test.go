package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 10, s.Markov.MinQuotes)
	assert.Equal(t, 280, s.Markov.CharLimit)
	assert.Equal(t, 20, s.Markov.Tries)
	assert.Equal(t, 2, s.Markov.StateSize)
	assert.Equal(t, TokenizerWhitespace, s.Markov.Tokenizer)
	assert.Equal(t, 50, s.Quotes.RandomSample)
	assert.Equal(t, 50, s.Quotes.GroupRandomSample)
	assert.Equal(t, time.Hour, s.Sweep.Interval)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"negative min quotes", func(s *Settings) { s.Markov.MinQuotes = -1 }},
		{"negative char limit", func(s *Settings) { s.Markov.CharLimit = -5 }},
		{"zero tries", func(s *Settings) { s.Markov.Tries = 0 }},
		{"zero state size", func(s *Settings) { s.Markov.StateSize = 0 }},
		{"unknown tokenizer", func(s *Settings) { s.Markov.Tokenizer = "spacy" }},
		{"zero sample", func(s *Settings) { s.Quotes.RandomSample = 0 }},
		{"zero group sample", func(s *Settings) { s.Quotes.GroupRandomSample = 0 }},
		{"zero concurrency", func(s *Settings) { s.Sweep.Concurrency = 0 }},
		{"negative rate", func(s *Settings) { s.Sweep.RebuildRate = -1 }},
		{"zero interval", func(s *Settings) { s.Sweep.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestTokenizerKind(t *testing.T) {
	assert.True(t, TokenizerWhitespace.IsValid())
	assert.True(t, TokenizerKagome.IsValid())
	assert.False(t, TokenizerKind("").IsValid())

	assert.Equal(t, "whitespace", TokenizerWhitespace.String())
	assert.Contains(t, TokenizerKagome.Description(), "part-of-speech")
	assert.Equal(t, unknownDescription, TokenizerKind("x").Description())
}

func TestMarkovSettings_Eligibility(t *testing.T) {
	s := MarkovSettings{MinQuotes: 3}
	assert.Equal(t, Eligibility{MinQuotes: 3}, s.Eligibility())
}
