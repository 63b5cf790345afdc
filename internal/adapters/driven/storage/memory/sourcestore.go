package memory

import (
	"cmp"
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

var (
	_ driven.GroupStore  = (*GroupStore)(nil)
	_ driven.SourceStore = (*SourceStore)(nil)
)

// GroupStore keeps groups in memory, listed by name.
type GroupStore struct {
	groups *table[domain.Group]
}

// NewGroupStore creates an empty group store.
func NewGroupStore() *GroupStore {
	return &GroupStore{groups: newTable[domain.Group]()}
}

func (s *GroupStore) Save(_ context.Context, group domain.Group) error {
	if group.ID == "" {
		return domain.ErrInvalidInput
	}
	s.groups.put(group.ID, group)
	return nil
}

func (s *GroupStore) Get(_ context.Context, id string) (*domain.Group, error) {
	group, ok := s.groups.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &group, nil
}

func (s *GroupStore) Delete(_ context.Context, id string) error {
	s.groups.remove(id)
	return nil
}

func (s *GroupStore) List(_ context.Context) ([]domain.Group, error) {
	return s.groups.selectRows(nil, func(a, b domain.Group) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	}), nil
}

// SourceStore keeps sources in memory, listed by name. Deleting a
// source does not remove its quotes.
type SourceStore struct {
	sources *table[domain.Source]
}

// NewSourceStore creates an empty source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{sources: newTable[domain.Source]()}
}

func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	s.sources.put(source.ID, source)
	return nil
}

func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	source, ok := s.sources.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.sources.remove(id)
	return nil
}

func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	return s.sources.selectRows(nil, bySourceName), nil
}

func (s *SourceStore) ListByGroup(_ context.Context, groupID string) ([]domain.Source, error) {
	inGroup := func(src domain.Source) bool { return src.GroupID == groupID }
	return s.sources.selectRows(inGroup, bySourceName), nil
}

func bySourceName(a, b domain.Source) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
}
