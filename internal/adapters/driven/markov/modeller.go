package markov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// Verify interface compliance.
var _ driven.TextModeller = (*Modeller)(nil)

// Modeller implements driven.TextModeller.
type Modeller struct {
	stateSize int
	tokenizer Tokenizer
	overlap   bool

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Modeller.
type Option func(*Modeller)

// WithStateSize sets the chain order used by Build.
func WithStateSize(n int) Option {
	return func(m *Modeller) { m.stateSize = n }
}

// WithTokenizer sets the tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(m *Modeller) { m.tokenizer = t }
}

// WithRand sets the random source used for sampling.
func WithRand(r *rand.Rand) Option {
	return func(m *Modeller) { m.rng = r }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return func(m *Modeller) { m.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithOverlapCheck enables or disables rejecting sentences that copy
// long runs of the corpus. Enabled by default.
func WithOverlapCheck(enabled bool) Option {
	return func(m *Modeller) { m.overlap = enabled }
}

// NewModeller creates a Modeller with state size 2, whitespace
// tokenization and the overlap check enabled.
func NewModeller(opts ...Option) *Modeller {
	m := &Modeller{
		stateSize: 2,
		tokenizer: WhitespaceTokenizer{},
		overlap:   true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		now := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return m
}

// NewTokenizer returns the tokenizer for a configured kind.
func NewTokenizer(kind domain.TokenizerKind) (Tokenizer, error) {
	switch kind {
	case domain.TokenizerWhitespace, "":
		return WhitespaceTokenizer{}, nil
	case domain.TokenizerKagome:
		return NewKagomeTokenizer()
	default:
		return nil, fmt.Errorf("%w: unknown tokenizer %q", domain.ErrInvalidInput, kind)
	}
}

// Build implements driven.TextModeller.
func (m *Modeller) Build(_ context.Context, corpus []string) ([]byte, error) {
	model := Build(corpus, m.stateSize, m.tokenizer)
	logger.Debug("markov: built model from %d entries (%d sentences)", len(corpus), model.Sentences())
	return json.Marshal(model)
}

// Combine implements driven.TextModeller.
func (m *Modeller) Combine(_ context.Context, payloads [][]byte, mode driven.CombineMode) ([]byte, int, error) {
	strict := mode != driven.CombinePermissive
	models := make([]*Model, 0, len(payloads))
	for i, p := range payloads {
		model, err := decode(p)
		if err != nil {
			if strict {
				return nil, 0, fmt.Errorf("decode model %d: %w", i, err)
			}
			logger.Warn("markov: skipping undecodable model %d: %v", i, err)
			continue
		}
		models = append(models, model)
	}

	combined, n, err := Combine(models, strict)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("markov: combined %d of %d models (%s)", n, len(payloads), mode)

	data, err := json.Marshal(combined)
	if err != nil {
		return nil, 0, err
	}
	return data, n, nil
}

// Generate implements driven.TextModeller.
func (m *Modeller) Generate(_ context.Context, payload []byte, charLimit, tries int) (string, bool, error) {
	model, err := decode(payload)
	if err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sentence, ok := model.MakeSentence(m.rng, m.tokenizer, SentenceOptions{
		CharLimit:       charLimit,
		Tries:           tries,
		TestOverlap:     m.overlap,
		MaxOverlapRatio: DefaultMaxOverlapRatio,
		MaxOverlapTotal: DefaultMaxOverlapTotal,
	})
	if !ok {
		logger.Debug("markov: no sentence within %d tries (limit %d)", tries, charLimit)
	}
	return sentence, ok, nil
}

// Validate implements driven.TextModeller.
func (m *Modeller) Validate(payload []byte) error {
	_, err := decode(payload)
	return err
}

// Compile returns the payload of the compiled model. Compiled payloads
// can be sampled but not combined.
func (m *Modeller) Compile(payload []byte) ([]byte, error) {
	model, err := decode(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(model.Compile())
}

func decode(payload []byte) (*Model, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidModel)
	}
	var model Model
	if err := json.Unmarshal(payload, &model); err != nil {
		if errors.Is(err, domain.ErrInvalidModel) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidModel, err)
	}
	return &model, nil
}
