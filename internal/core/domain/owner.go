package domain

import "fmt"

// OwnerKind distinguishes the two entity kinds that own a text model.
type OwnerKind string

// Available owner kinds.
const (
	// OwnerSource is a single Source.
	OwnerSource OwnerKind = "source"

	// OwnerGroup is a SourceGroup.
	OwnerGroup OwnerKind = "group"
)

// IsValid returns true if the owner kind is recognised.
func (k OwnerKind) IsValid() bool {
	return k == OwnerSource || k == OwnerGroup
}

// String returns the string representation.
func (k OwnerKind) String() string {
	return string(k)
}

// Owner identifies the entity a text model, event or request belongs to.
// It carries its own back-reference so callers never need to search
// both the source and group tables to discover what owns a model.
type Owner struct {
	// Kind is either OwnerSource or OwnerGroup.
	Kind OwnerKind

	// ID is the ID of the source or group.
	ID string
}

// SourceOwner returns an Owner referencing a source.
func SourceOwner(id string) Owner {
	return Owner{Kind: OwnerSource, ID: id}
}

// GroupOwner returns an Owner referencing a group.
func GroupOwner(id string) Owner {
	return Owner{Kind: OwnerGroup, ID: id}
}

// IsSource returns true if the owner is a source.
func (o Owner) IsSource() bool {
	return o.Kind == OwnerSource
}

// IsGroup returns true if the owner is a group.
func (o Owner) IsGroup() bool {
	return o.Kind == OwnerGroup
}

// Validate checks the owner is well formed.
func (o Owner) Validate() error {
	if !o.Kind.IsValid() {
		return fmt.Errorf("%w: unknown owner kind %q", ErrInvalidInput, o.Kind)
	}
	if o.ID == "" {
		return fmt.Errorf("%w: owner id is empty", ErrInvalidInput)
	}
	return nil
}

// String returns "kind:id".
func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Kind, o.ID)
}
