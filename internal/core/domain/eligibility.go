package domain

// Eligibility holds the thresholds used to decide whether a source or
// group has enough data to participate in generation and combination.
type Eligibility struct {
	// MinQuotes is the exclusive lower bound on quote count.
	// A source needs strictly more than MinQuotes quotes.
	MinQuotes int
}

// SourceReady returns true iff markov is enabled and quoteCount exceeds
// the threshold.
func (e Eligibility) SourceReady(allowMarkov bool, quoteCount int) bool {
	return allowMarkov && quoteCount > e.MinQuotes
}

// GroupReady returns true iff at least one member source is eligible,
// the group has a text model attached and the quotes across eligible
// sources exceed the threshold.
func (e Eligibility) GroupReady(eligibleSources int, hasTextModel bool, eligibleQuotes int) bool {
	return eligibleSources > 0 && hasTextModel && eligibleQuotes > e.MinQuotes
}
