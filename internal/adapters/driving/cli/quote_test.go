package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestQuoteAdd(t *testing.T) {
	ts := setupTestServices(t)
	ts.catalogue.result = domain.Merged()

	out, _, err := executeCommand(t, "",
		"quote", "add", "s1", "Luck is what happens when preparation meets opportunity.",
		"--citation", "Letters", "--url", "https://example.com/letters", "--pub-date", "2020-01-02")

	require.NoError(t, err)
	assert.Contains(t, out, "Added quote quote-1")
	assert.Contains(t, out, "Text models: merged")

	saved := ts.catalogue.quotes["quote-1"]
	assert.Equal(t, "s1", saved.SourceID)
	assert.Equal(t, "Letters", saved.Citation)
	assert.Equal(t, "https://example.com/letters", saved.CitationURL)
	require.NotNil(t, saved.PubDate)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), *saved.PubDate)
}

func TestQuoteAdd_InvalidPubDate(t *testing.T) {
	ts := setupTestServices(t)

	_, _, err := executeCommand(t, "", "quote", "add", "s1", "text", "--pub-date", "next tuesday")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.catalogue.quotes)
}

func TestQuoteAdd_CorpusErrorKeepsQuote(t *testing.T) {
	ts := setupTestServices(t)
	ts.catalogue.err = domain.NewCorpusError("combine", domain.GroupOwner("g1"), domain.ErrIncompatibleModels)

	out, _, err := executeCommand(t, "", "quote", "add", "s1", "text")

	assert.ErrorIs(t, err, domain.ErrCorpus)
	assert.Contains(t, out, "Added quote quote-1")
}

func TestQuoteList(t *testing.T) {
	ts := setupTestServices(t)
	ts.catalogue.quotes["q1"] = domain.Quote{ID: "q1", SourceID: "s1", Text: "published"}
	ts.catalogue.quotes["q2"] = domain.Quote{ID: "q2", SourceID: "s1", Text: "scheduled", PubDate: datePtr("2999-01-01")}

	out, _, err := executeCommand(t, "", "quote", "list", "s1")

	require.NoError(t, err)
	assert.Contains(t, out, `q1  "published"`)
	assert.Contains(t, out, `q2  "scheduled"  (publishes 2999-01-01)`)
}

func TestQuoteList_Empty(t *testing.T) {
	setupTestServices(t)

	out, _, err := executeCommand(t, "", "quote", "list", "s1")

	require.NoError(t, err)
	assert.Contains(t, out, "No quotes.")
}

func TestQuoteUpdate(t *testing.T) {
	ts := setupTestServices(t)
	ts.catalogue.quotes["q1"] = domain.Quote{
		ID: "q1", SourceID: "s1", Text: "old", Citation: "kept", PubDate: datePtr("2021-05-05"),
	}

	out, _, err := executeCommand(t, "", "quote", "update", "q1", "--text", "new", "--pub-date", "")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated quote q1")
	require.NotNil(t, ts.catalogue.updatedQuote)
	assert.Equal(t, "new", ts.catalogue.updatedQuote.Text)
	assert.Equal(t, "kept", ts.catalogue.updatedQuote.Citation)
	assert.Nil(t, ts.catalogue.updatedQuote.PubDate)
}

func TestQuoteDelete(t *testing.T) {
	ts := setupTestServices(t)

	out, _, err := executeCommand(t, "", "quote", "delete", "q1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted quote q1")
	assert.Equal(t, []string{"q1"}, ts.catalogue.deleted)
}

func TestParsePubDate(t *testing.T) {
	got, err := parsePubDate("2024-03-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), got)

	got, err = parsePubDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parsePubDate("03/01/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
