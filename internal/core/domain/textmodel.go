package domain

import (
	"slices"
	"time"
)

// TextModel is the persisted, serialized Markov model owned by exactly one
// Source or Group. Data is nil until the model has been built.
//
// TextModels are only mutated by the corpus builder and incremental combiner.
type TextModel struct {
	// ID is the unique identifier for the text model.
	ID string

	// Data is the serialized model payload. Its format is owned entirely
	// by the TextModeller adapter. Nil means "not yet built".
	Data []byte

	// Members lists the source IDs whose models were combined into this
	// model. Only populated for group models.
	Members []string

	// CreatedAt is when the model row was created.
	CreatedAt time.Time

	// ModifiedAt is when the payload was last written.
	ModifiedAt time.Time
}

// IsReady returns true if the model payload has been built.
func (m *TextModel) IsReady() bool {
	return m != nil && len(m.Data) > 0
}

// HasMembers reports whether the recorded member set equals ids,
// ignoring order.
func (m *TextModel) HasMembers(ids []string) bool {
	a := slices.Clone(m.Members)
	b := slices.Clone(ids)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
