package driven

import "context"

// CombineMode controls how TextModeller.Combine treats incompatible inputs.
type CombineMode string

// Available combine modes.
const (
	// CombineStrict fails if any input is incompatible.
	CombineStrict CombineMode = "strict"

	// CombinePermissive skips incompatible inputs.
	CombinePermissive CombineMode = "permissive"
)

// TextModeller is the statistical text model capability. Payloads are
// opaque to the core; their byte format is owned by the implementation.
// Build, Combine and Generate are CPU-bound and do not suspend.
type TextModeller interface {
	// Build constructs a model from corpus entries and returns its payload.
	Build(ctx context.Context, corpus []string) ([]byte, error)

	// Combine merges model payloads into one. In strict mode a structural
	// incompatibility returns an error wrapping domain.ErrIncompatibleModels.
	// It returns the number of inputs actually combined.
	Combine(ctx context.Context, payloads [][]byte, mode CombineMode) ([]byte, int, error)

	// Generate samples one sentence no longer than charLimit characters
	// (charLimit <= 0 means unlimited), making at most tries attempts.
	// ok is false if no sentence was produced within the budget.
	Generate(ctx context.Context, payload []byte, charLimit, tries int) (sentence string, ok bool, err error)

	// Validate checks a payload is a structurally valid model.
	Validate(payload []byte) error
}
