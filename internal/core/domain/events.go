package domain

// SentenceGenerated is emitted after a sentence is successfully generated.
type SentenceGenerated struct {
	// Owner is the entity whose model produced the sentence.
	Owner Owner

	// GroupID is the group the owner belongs to (or is).
	GroupID string

	// CharLimit is the character limit requested.
	CharLimit int

	// Sentence is the generated text.
	Sentence string
}

// QuoteRetrieved is emitted after a random quote is returned.
type QuoteRetrieved struct {
	// Owner is the entity the request was made against.
	Owner Owner

	// SourceID is the source the returned quote belongs to.
	SourceID string

	// GroupID is the group of that source.
	GroupID string

	// QuoteID is the returned quote.
	QuoteID string
}

// ModelUpdated is emitted after a text model update is persisted.
type ModelUpdated struct {
	// Owner is the entity whose model changed.
	Owner Owner

	// Outcome is OutcomeRebuilt or OutcomeMerged.
	Outcome UpdateOutcome
}
