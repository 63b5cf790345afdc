package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// Ensure TextModelStore implements the interface.
var _ driven.TextModelStore = (*TextModelStore)(nil)

// TextModelStore is an in-memory implementation of driven.TextModelStore.
// Modification times are strictly increasing per model.
type TextModelStore struct {
	mu     sync.RWMutex
	models map[string]domain.TextModel
	now    func() time.Time
}

// NewTextModelStore creates a new in-memory text model store.
func NewTextModelStore() *TextModelStore {
	return &TextModelStore{
		models: make(map[string]domain.TextModel),
		now:    time.Now,
	}
}

// Create inserts a new, empty text model.
func (s *TextModelStore) Create(_ context.Context) (*domain.TextModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	model := domain.TextModel{ID: uuid.New().String(), CreatedAt: now, ModifiedAt: now}
	s.models[model.ID] = model
	return &model, nil
}

// Get retrieves a text model by ID.
func (s *TextModelStore) Get(_ context.Context, id string) (*domain.TextModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	model, ok := s.models[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	model = cloneModel(model)
	return &model, nil
}

// Save writes a single model.
func (s *TextModelStore) Save(ctx context.Context, model *domain.TextModel) error {
	return s.SaveBatch(ctx, model)
}

// SaveBatch writes every model or none of them.
func (s *TextModelStore) SaveBatch(_ context.Context, models ...*domain.TextModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now().UTC()
	for _, m := range models {
		if m == nil {
			return domain.ErrInvalidInput
		}
		existing, ok := s.models[m.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if !stamp.After(existing.ModifiedAt) {
			stamp = existing.ModifiedAt.Add(time.Microsecond)
		}
	}

	for _, m := range models {
		existing := s.models[m.ID]
		m.CreatedAt = existing.CreatedAt
		m.ModifiedAt = stamp
		s.models[m.ID] = cloneModel(*m)
	}
	return nil
}

// Delete removes a text model.
func (s *TextModelStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, id)
	return nil
}

func cloneModel(m domain.TextModel) domain.TextModel {
	m.Data = slices.Clone(m.Data)
	m.Members = slices.Clone(m.Members)
	return m
}
