package driven

// ConfigStore holds raw settings values under dot-notation keys such as
// "markov.min_quotes". Values keep whatever type the backend decoded;
// the settings service converts them.
type ConfigStore interface {
	// Get returns the value for key and whether it is present.
	Get(key string) (any, bool)

	// Set changes a value in memory. Call Save to persist it.
	Set(key string, value any) error

	// Save writes all values to the backing storage.
	Save() error

	// Load replaces the values with the contents of the backing storage.
	Load() error

	// Path describes where the values are stored.
	Path() string
}
