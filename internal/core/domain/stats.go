package domain

// SourceStats tracks usage of a source.
type SourceStats struct {
	SourceID        string
	QuotesRequested int
	QuotesGenerated int
}

// GroupStats tracks usage of a group and its sources.
type GroupStats struct {
	GroupID         string
	QuotesRequested int
	QuotesGenerated int
}

// QuoteStats tracks how often a quote has been returned.
type QuoteStats struct {
	QuoteID   string
	TimesUsed int
}
