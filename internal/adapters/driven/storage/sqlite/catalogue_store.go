package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// ==================== Group Store ====================

// groupStore implements driven.GroupStore.
type groupStore struct {
	store *Store
}

var _ driven.GroupStore = (*groupStore)(nil)

const groupColumns = `id, name, description, text_model_id, created_at, updated_at`

// Save stores or updates a group.
func (s *groupStore) Save(ctx context.Context, group domain.Group) error {
	if group.ID == "" {
		return domain.ErrInvalidInput
	}
	now := s.store.now()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			text_model_id = excluded.text_model_id,
			updated_at = excluded.updated_at
	`, group.ID, group.Name, group.Description, nullString(group.TextModelID),
		formatTime(group.CreatedAt), formatTime(group.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving group: %w", err)
	}
	return nil
}

// Get retrieves a group by ID.
func (s *groupStore) Get(ctx context.Context, id string) (*domain.Group, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = ?`, id)
	return scanGroup(row)
}

// Delete removes a group. Sources, quotes and stats cascade.
func (s *groupStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	return nil
}

// List returns all groups ordered by name.
func (s *groupStore) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM groups ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group //nolint:prealloc // size unknown from query
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}
	return groups, nil
}

func scanGroup(row rowScanner) (*domain.Group, error) {
	var group domain.Group
	var textModelID sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &textModelID,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning group: %w", err)
	}
	group.TextModelID = textModelID.String
	group.CreatedAt = parseTime(createdAt)
	group.UpdatedAt = parseTime(updatedAt)
	return &group, nil
}

// ==================== Source Store ====================

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

const sourceColumns = `id, group_id, name, description, allow_markov, text_model_id, created_at, updated_at`

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	if source.ID == "" {
		return domain.ErrInvalidInput
	}
	now := s.store.now()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sources (`+sourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			group_id = excluded.group_id,
			name = excluded.name,
			description = excluded.description,
			allow_markov = excluded.allow_markov,
			text_model_id = excluded.text_model_id,
			updated_at = excluded.updated_at
	`, source.ID, source.GroupID, source.Name, source.Description,
		boolToInt(source.AllowMarkov), nullString(source.TextModelID),
		formatTime(source.CreatedAt), formatTime(source.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id)
	return scanSource(row)
}

// Delete removes a source. Quotes and stats cascade.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// List returns all sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	return s.query(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY name, id`)
}

// ListByGroup returns the sources of a group.
func (s *sourceStore) ListByGroup(ctx context.Context, groupID string) ([]domain.Source, error) {
	return s.query(ctx, `SELECT `+sourceColumns+` FROM sources WHERE group_id = ? ORDER BY name, id`, groupID)
}

func (s *sourceStore) query(ctx context.Context, query string, args ...any) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

func scanSource(row rowScanner) (*domain.Source, error) {
	var source domain.Source
	var allowMarkov int
	var textModelID sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&source.ID, &source.GroupID, &source.Name, &source.Description,
		&allowMarkov, &textModelID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}
	source.AllowMarkov = allowMarkov == 1
	source.TextModelID = textModelID.String
	source.CreatedAt = parseTime(createdAt)
	source.UpdatedAt = parseTime(updatedAt)
	return &source, nil
}

// ==================== Quote Store ====================

// quoteStore implements driven.QuoteStore.
type quoteStore struct {
	store *Store
}

var _ driven.QuoteStore = (*quoteStore)(nil)

const quoteColumns = `q.id, q.source_id, q.text, q.citation, q.citation_url, q.pub_date, q.created_at, q.modified_at`

// Save stores or updates a quote and stamps ModifiedAt.
func (s *quoteStore) Save(ctx context.Context, quote *domain.Quote) error {
	if quote == nil || quote.ID == "" {
		return domain.ErrInvalidInput
	}
	now := s.store.now().UTC()
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = now
	}

	var pubDate any
	if quote.PubDate != nil {
		pubDate = formatTime(*quote.PubDate)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO quotes (id, source_id, text, citation, citation_url, pub_date, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			text = excluded.text,
			citation = excluded.citation,
			citation_url = excluded.citation_url,
			pub_date = excluded.pub_date,
			modified_at = excluded.modified_at
	`, quote.ID, quote.SourceID, quote.Text, quote.Citation, quote.CitationURL, pubDate,
		formatTime(quote.CreatedAt), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving quote: %w", err)
	}
	quote.ModifiedAt = now
	return nil
}

// Get retrieves a quote by ID.
func (s *quoteStore) Get(ctx context.Context, id string) (*domain.Quote, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes q WHERE q.id = ?`, id)
	return scanQuote(row)
}

// Delete removes a quote.
func (s *quoteStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM quotes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting quote: %w", err)
	}
	return nil
}

// ListBySource returns every quote of a source, oldest first.
func (s *quoteStore) ListBySource(ctx context.Context, sourceID string) ([]domain.Quote, error) {
	return s.query(ctx, `
		SELECT `+quoteColumns+` FROM quotes q
		WHERE q.source_id = ?
		ORDER BY q.created_at, q.id
	`, sourceID)
}

// CountBySource returns the number of quotes of a source.
func (s *quoteStore) CountBySource(ctx context.Context, sourceID string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotes WHERE source_id = ?", sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}
	return n, nil
}

// LatestChange returns when the corpus of a source last changed.
// Stored timestamps are fixed width, so MAX compares them correctly.
func (s *quoteStore) LatestChange(ctx context.Context, sourceID string, now time.Time) (time.Time, bool, error) {
	var latest sql.NullString
	err := s.store.db.QueryRowContext(ctx, `
		SELECT MAX(CASE
			WHEN pub_date IS NOT NULL AND pub_date <= ? AND pub_date > modified_at THEN pub_date
			ELSE modified_at
		END)
		FROM quotes WHERE source_id = ?
	`, formatTime(now), sourceID).Scan(&latest)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying latest quote: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, false, nil
	}
	return parseTime(latest.String), true, nil
}

// ListLeastUsed returns published quotes of the sources ordered by usage.
func (s *quoteStore) ListLeastUsed(
	ctx context.Context,
	sourceIDs []string,
	now time.Time,
	limit int,
) ([]domain.Quote, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(sourceIDs)+2)
	for _, id := range sourceIDs {
		args = append(args, id)
	}
	args = append(args, formatTime(now), limit)

	return s.query(ctx, `
		SELECT `+quoteColumns+` FROM quotes q
		LEFT JOIN quote_stats st ON st.quote_id = q.id
		WHERE q.source_id IN (`+placeholders(len(sourceIDs))+`)
		  AND (q.pub_date IS NULL OR q.pub_date <= ?)
		ORDER BY COALESCE(st.times_used, 0), q.id
		LIMIT ?
	`, args...)
}

func (s *quoteStore) query(ctx context.Context, query string, args ...any) ([]domain.Quote, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote //nolint:prealloc // size unknown from query
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotes: %w", err)
	}
	return quotes, nil
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var quote domain.Quote
	var pubDate sql.NullString
	var createdAt, modifiedAt string
	if err := row.Scan(&quote.ID, &quote.SourceID, &quote.Text, &quote.Citation, &quote.CitationURL,
		&pubDate, &createdAt, &modifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning quote: %w", err)
	}
	if t := parseNullableTime(pubDate); !t.IsZero() {
		quote.PubDate = &t
	}
	quote.CreatedAt = parseTime(createdAt)
	quote.ModifiedAt = parseTime(modifiedAt)
	return &quote, nil
}
