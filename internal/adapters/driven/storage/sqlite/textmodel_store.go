package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// textModelStore implements driven.TextModelStore.
type textModelStore struct {
	store *Store
}

var _ driven.TextModelStore = (*textModelStore)(nil)

// Create inserts a new, empty text model.
func (s *textModelStore) Create(ctx context.Context) (*domain.TextModel, error) {
	now := s.store.now().UTC()
	model := &domain.TextModel{ID: uuid.New().String(), CreatedAt: now, ModifiedAt: now}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO text_models (id, data, members, created_at, modified_at)
		VALUES (?, NULL, '[]', ?, ?)
	`, model.ID, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("creating text model: %w", err)
	}
	return model, nil
}

// Get retrieves a text model by ID.
func (s *textModelStore) Get(ctx context.Context, id string) (*domain.TextModel, error) {
	return getTextModel(ctx, s.store.db, id)
}

// Save writes a single model.
func (s *textModelStore) Save(ctx context.Context, model *domain.TextModel) error {
	return s.SaveBatch(ctx, model)
}

// SaveBatch writes every model in one transaction. All models receive
// the same modification time, later than any of their previous ones.
func (s *textModelStore) SaveBatch(ctx context.Context, models ...*domain.TextModel) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stamp := s.store.now().UTC()
	created := make([]time.Time, len(models))
	for i, m := range models {
		if m == nil {
			return domain.ErrInvalidInput
		}
		existing, err := getTextModel(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		created[i] = existing.CreatedAt
		if !stamp.After(existing.ModifiedAt) {
			stamp = existing.ModifiedAt.Add(time.Microsecond)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE text_models SET data = ?, members = ?, modified_at = ? WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range models {
		members, err := json.Marshal(nonNil(m.Members))
		if err != nil {
			return fmt.Errorf("marshalling members: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, nullBytes(m.Data), string(members), formatTime(stamp), m.ID); err != nil {
			return fmt.Errorf("saving text model: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for i, m := range models {
		m.CreatedAt = created[i]
		m.ModifiedAt = stamp
	}
	return nil
}

// Delete removes a text model. Owner references are cleared.
func (s *textModelStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM text_models WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting text model: %w", err)
	}
	return nil
}

// queryer is implemented by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func getTextModel(ctx context.Context, q queryer, id string) (*domain.TextModel, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, data, members, created_at, modified_at FROM text_models WHERE id = ?
	`, id)

	var model domain.TextModel
	var members, createdAt, modifiedAt string
	if err := row.Scan(&model.ID, &model.Data, &members, &createdAt, &modifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning text model: %w", err)
	}
	if err := json.Unmarshal([]byte(members), &model.Members); err != nil {
		return nil, fmt.Errorf("unmarshalling members: %w", err)
	}
	if len(model.Members) == 0 {
		model.Members = nil
	}
	model.CreatedAt = parseTime(createdAt)
	model.ModifiedAt = parseTime(modifiedAt)
	return &model, nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
