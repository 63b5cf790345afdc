package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// TokenizerKind selects how the text modeller splits sentences into words.
type TokenizerKind string

// Available tokenizers.
const (
	// TokenizerWhitespace splits on whitespace.
	TokenizerWhitespace TokenizerKind = "whitespace"

	// TokenizerKagome tags each word with its part of speech using the
	// kagome morphological analyser.
	TokenizerKagome TokenizerKind = "kagome"
)

// IsValid returns true if the tokenizer is recognised.
func (k TokenizerKind) IsValid() bool {
	switch k {
	case TokenizerWhitespace, TokenizerKagome:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k TokenizerKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the tokenizer.
func (k TokenizerKind) Description() string {
	switch k {
	case TokenizerWhitespace:
		return "Whitespace (plain words)"
	case TokenizerKagome:
		return "Kagome (part-of-speech tagged)"
	default:
		return unknownDescription
	}
}

// MarkovSettings configures model eligibility and sentence generation.
type MarkovSettings struct {
	// MinQuotes is the quote threshold a source must exceed.
	MinQuotes int

	// CharLimit is the default maximum generated sentence length.
	CharLimit int

	// Tries is the default sampling attempt budget.
	Tries int

	// StateSize is the Markov chain order.
	StateSize int

	// Tokenizer selects the word splitter.
	Tokenizer TokenizerKind
}

// Eligibility returns the eligibility thresholds for these settings.
func (s MarkovSettings) Eligibility() Eligibility {
	return Eligibility{MinQuotes: s.MinQuotes}
}

// QuoteSettings configures random quote retrieval.
type QuoteSettings struct {
	// RandomSample caps how many least-used quotes a source draws from.
	RandomSample int

	// GroupRandomSample caps how many least-used quotes a group draws from.
	GroupRandomSample int
}

// SweepSettings configures the maintenance sweep.
type SweepSettings struct {
	// Interval is how often the scheduler runs the sweep.
	Interval time.Duration

	// Concurrency is how many groups are swept in parallel.
	Concurrency int

	// RebuildRate caps full rebuilds per second. Zero disables the limit.
	RebuildRate float64

	// SchedulerEnabled turns the periodic sweep on.
	SchedulerEnabled bool
}

// Settings holds all application settings.
type Settings struct {
	Markov MarkovSettings
	Quotes QuoteSettings
	Sweep  SweepSettings

	// DataDir is where the SQLite database lives. Empty uses the default.
	DataDir string
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Markov: MarkovSettings{
			MinQuotes: 10,
			CharLimit: 280,
			Tries:     20,
			StateSize: 2,
			Tokenizer: TokenizerWhitespace,
		},
		Quotes: QuoteSettings{
			RandomSample:      50,
			GroupRandomSample: 50,
		},
		Sweep: SweepSettings{
			Interval:         time.Hour,
			Concurrency:      4,
			SchedulerEnabled: true,
		},
	}
}

// Validate checks settings are usable.
func (s *Settings) Validate() error {
	if s.Markov.MinQuotes < 0 {
		return fmt.Errorf("%w: markov.min_quotes must not be negative", ErrInvalidInput)
	}
	if s.Markov.CharLimit < 0 {
		return fmt.Errorf("%w: markov.char_limit must not be negative", ErrInvalidInput)
	}
	if s.Markov.Tries < 1 {
		return fmt.Errorf("%w: markov.tries must be at least 1", ErrInvalidInput)
	}
	if s.Markov.StateSize < 1 {
		return fmt.Errorf("%w: markov.state_size must be at least 1", ErrInvalidInput)
	}
	if !s.Markov.Tokenizer.IsValid() {
		return fmt.Errorf("%w: unknown tokenizer %q", ErrInvalidInput, s.Markov.Tokenizer)
	}
	if s.Quotes.RandomSample < 1 || s.Quotes.GroupRandomSample < 1 {
		return fmt.Errorf("%w: random sample sizes must be at least 1", ErrInvalidInput)
	}
	if s.Sweep.Concurrency < 1 {
		return fmt.Errorf("%w: sweep.concurrency must be at least 1", ErrInvalidInput)
	}
	if s.Sweep.RebuildRate < 0 {
		return fmt.Errorf("%w: sweep.rebuild_rate must not be negative", ErrInvalidInput)
	}
	if s.Sweep.Interval <= 0 {
		return fmt.Errorf("%w: sweep.interval must be positive", ErrInvalidInput)
	}
	return nil
}
