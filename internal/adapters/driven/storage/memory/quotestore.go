package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// Ensure QuoteStore implements the interface.
var _ driven.QuoteStore = (*QuoteStore)(nil)

// QuoteStore is an in-memory implementation of driven.QuoteStore.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]domain.Quote
	stats  *StatsStore
	now    func() time.Time
}

// NewQuoteStore creates a new in-memory quote store. stats is consulted
// for usage ordering and may be nil.
func NewQuoteStore(stats *StatsStore) *QuoteStore {
	return &QuoteStore{
		quotes: make(map[string]domain.Quote),
		stats:  stats,
		now:    time.Now,
	}
}

// Save stores or updates a quote and stamps ModifiedAt.
func (s *QuoteStore) Save(_ context.Context, quote *domain.Quote) error {
	if quote == nil || quote.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if existing, ok := s.quotes[quote.ID]; ok {
		quote.CreatedAt = existing.CreatedAt
	} else if quote.CreatedAt.IsZero() {
		quote.CreatedAt = now
	}
	quote.ModifiedAt = now
	s.quotes[quote.ID] = cloneQuote(*quote)
	return nil
}

// Get retrieves a quote by ID.
func (s *QuoteStore) Get(_ context.Context, id string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quote, ok := s.quotes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	quote = cloneQuote(quote)
	return &quote, nil
}

// Delete removes a quote.
func (s *QuoteStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, id)
	return nil
}

// ListBySource returns every quote of a source, oldest first.
func (s *QuoteStore) ListBySource(_ context.Context, sourceID string) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Quote
	for _, q := range s.quotes {
		if q.SourceID == sourceID {
			result = append(result, cloneQuote(q))
		}
	}
	slices.SortFunc(result, func(a, b domain.Quote) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

// CountBySource returns the number of quotes of a source.
func (s *QuoteStore) CountBySource(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.quotes {
		if q.SourceID == sourceID {
			n++
		}
	}
	return n, nil
}

// LatestChange returns when the corpus of a source last changed.
func (s *QuoteStore) LatestChange(_ context.Context, sourceID string, now time.Time) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest time.Time
	found := false
	for _, q := range s.quotes {
		if q.SourceID != sourceID {
			continue
		}
		changed := q.ModifiedAt
		if q.PubDate != nil && !q.PubDate.After(now) && q.PubDate.After(changed) {
			changed = *q.PubDate
		}
		if !found || changed.After(latest) {
			latest = changed
		}
		found = true
	}
	return latest, found, nil
}

// ListLeastUsed returns published quotes of the sources ordered by usage.
func (s *QuoteStore) ListLeastUsed(
	ctx context.Context,
	sourceIDs []string,
	now time.Time,
	limit int,
) ([]domain.Quote, error) {
	s.mu.RLock()
	var result []domain.Quote
	for _, q := range s.quotes {
		if slices.Contains(sourceIDs, q.SourceID) && q.IsPublished(now) {
			result = append(result, cloneQuote(q))
		}
	}
	s.mu.RUnlock()

	used := make(map[string]int, len(result))
	if s.stats != nil {
		for _, q := range result {
			if st, err := s.stats.QuoteStats(ctx, q.ID); err == nil {
				used[q.ID] = st.TimesUsed
			}
		}
	}
	slices.SortFunc(result, func(a, b domain.Quote) int {
		return cmp.Or(cmp.Compare(used[a.ID], used[b.ID]), cmp.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func cloneQuote(q domain.Quote) domain.Quote {
	if q.PubDate != nil {
		t := *q.PubDate
		q.PubDate = &t
	}
	return q
}
