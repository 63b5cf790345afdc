package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestGenerate_Group(t *testing.T) {
	ts := setupTestServices(t)
	ts.generator.sentence = "The unexamined life is a stream."
	ts.generator.ok = true

	out, _, err := executeCommand(t, "", "generate", "--group", "g1", "--chars", "140", "--tries", "5")

	require.NoError(t, err)
	assert.Equal(t, "The unexamined life is a stream.\n", out)
	assert.Equal(t, domain.GroupOwner("g1"), ts.generator.owner)
	assert.Equal(t, 140, ts.generator.charLimit)
	assert.Equal(t, 5, ts.generator.tries)
}

func TestGenerate_SourceUsesDefaults(t *testing.T) {
	ts := setupTestServices(t)
	ts.generator.sentence = "x"
	ts.generator.ok = true

	_, _, err := executeCommand(t, "", "generate", "--source", "s1")

	require.NoError(t, err)
	assert.Equal(t, domain.SourceOwner("s1"), ts.generator.owner)
	assert.Zero(t, ts.generator.charLimit)
	assert.Zero(t, ts.generator.tries)
}

func TestGenerate_NotReady(t *testing.T) {
	setupTestServices(t)

	out, errOut, err := executeCommand(t, "", "generate", "--source", "s1")

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No sentence generated for source:s1")
}

func TestGenerate_OwnerFlags(t *testing.T) {
	setupTestServices(t)

	tests := []struct {
		name string
		args []string
	}{
		{"neither", []string{"generate"}},
		{"both", []string{"generate", "--group", "g1", "--source", "s1"}},
		{"empty id", []string{"generate", "--group", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_NegativeLimits(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "generate", "--group", "g1", "--chars", "-1")

	assert.Error(t, err)
}

func TestGenerate_ServiceError(t *testing.T) {
	ts := setupTestServices(t)
	ts.generator.err = domain.ErrNotFound

	_, _, err := executeCommand(t, "", "generate", "--group", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRandom(t *testing.T) {
	ts := setupTestServices(t)
	ts.retriever.quote = &domain.Quote{
		ID:          "q1",
		Text:        "Know thyself.",
		Citation:    "Temple of Apollo",
		CitationURL: "https://example.com/delphi",
	}

	out, _, err := executeCommand(t, "", "random", "--group", "g1")

	require.NoError(t, err)
	assert.Equal(t, domain.GroupOwner("g1"), ts.retriever.owner)
	assert.Contains(t, out, `"Know thyself."`)
	assert.Contains(t, out, "-- Temple of Apollo")
	assert.Contains(t, out, "https://example.com/delphi")
}

func TestRandom_NoQuotes(t *testing.T) {
	setupTestServices(t)

	out, errOut, err := executeCommand(t, "", "random", "--source", "s1")

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "No published quotes")
}

func TestRandom_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.retriever.err = errors.New("disk full")

	_, _, err := executeCommand(t, "", "random", "--source", "s1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestGenerateAndRandom_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "generate", "--group", "g1")
	assert.EqualError(t, err, "generator not configured")

	_, _, err = executeCommand(t, "", "random", "--group", "g1")
	assert.EqualError(t, err, "quote retriever not configured")
}
