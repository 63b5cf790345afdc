package domain

import "time"

// UpdateOutcome records which path a model update took.
type UpdateOutcome string

// Available update outcomes.
const (
	// OutcomeRebuilt means the model was rebuilt from the full corpus.
	OutcomeRebuilt UpdateOutcome = "rebuilt"

	// OutcomeMerged means a single new quote was combined into the
	// existing models.
	OutcomeMerged UpdateOutcome = "merged"

	// OutcomeSkipped means nothing was changed.
	OutcomeSkipped UpdateOutcome = "skipped"
)

// String returns the string representation.
func (o UpdateOutcome) String() string {
	return string(o)
}

// Changed returns true if the outcome modified a model.
func (o UpdateOutcome) Changed() bool {
	return o == OutcomeRebuilt || o == OutcomeMerged
}

// Skip reasons reported with OutcomeSkipped.
const (
	SkipNotReady      = "not markov ready"
	SkipUnsavedQuote  = "quote is not saved"
	SkipStaleQuote    = "quote is older than the source model"
	SkipFutureQuote   = "quote publish date is in the future"
	SkipNoCorpus      = "no quotes in corpus"
	SkipNoModels      = "no eligible source models"
	SkipNoTextModel   = "no text model attached"
	SkipNoFlip        = "allow_markov unchanged"
	SkipNothingToSync = "models are up to date"
)

// UpdateResult is returned by every coordinator operation that may
// touch a text model so callers and tests can assert which path ran.
type UpdateResult struct {
	// Outcome is the path taken.
	Outcome UpdateOutcome

	// Reason explains a skip. Empty otherwise.
	Reason string
}

// Rebuilt returns a rebuilt result.
func Rebuilt() UpdateResult { return UpdateResult{Outcome: OutcomeRebuilt} }

// Merged returns a merged result.
func Merged() UpdateResult { return UpdateResult{Outcome: OutcomeMerged} }

// Skipped returns a skipped result with a reason.
func Skipped(reason string) UpdateResult {
	return UpdateResult{Outcome: OutcomeSkipped, Reason: reason}
}

// SweepFailure records one entity that failed during a maintenance sweep.
type SweepFailure struct {
	Owner Owner
	Err   error
}

// SweepReport summarises a maintenance sweep.
type SweepReport struct {
	// Force is true if the sweep ignored timestamps.
	Force bool

	// GroupsUpdated counts rebuilt group models.
	GroupsUpdated int

	// SourcesUpdated counts rebuilt source models.
	SourcesUpdated int

	// Failures lists entities whose rebuild failed.
	Failures []SweepFailure

	// StartedAt is when the sweep started.
	StartedAt time.Time

	// EndedAt is when the sweep completed.
	EndedAt time.Time
}

// Rebuilds returns the total number of rebuilt models.
func (r *SweepReport) Rebuilds() int {
	return r.GroupsUpdated + r.SourcesUpdated
}
