package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func testCatalogue() *mockCatalogue {
	return &mockCatalogue{
		groups: []domain.Group{{ID: "g1", Name: "Sailors"}},
		sources: []domain.Source{
			{ID: "s1", GroupID: "g1", Name: "Logbook", AllowMarkov: true},
			{ID: "s2", GroupID: "g1", Name: "Letters"},
		},
		quotes: []domain.Quote{
			{ID: "q1", SourceID: "s1", Text: "Fair winds."},
			{ID: "q2", SourceID: "s1", Text: "Following seas."},
		},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{
		Catalogue: testCatalogue(),
		Generator: mockGenerator{},
		Retriever: mockRetriever{},
		Settings:  mockSettings{},
	})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// send delivers msg and then every message its commands produce.
func send(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()
	_, cmd := app.Update(msg)
	drain(t, app, cmd, 0)
}

func drain(t *testing.T, app *App, cmd tea.Cmd, depth int) {
	t.Helper()
	if cmd == nil {
		return
	}
	require.Less(t, depth, 10, "command chain does not settle")
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, app, c, depth+1)
		}
		return
	}
	_, next := app.Update(msg)
	drain(t, app, next, depth+1)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingCatalogue)

	_, err = NewApp(&Ports{Catalogue: &mockCatalogue{}})
	assert.ErrorIs(t, err, ErrMissingGenerator)
}

func TestNewApp_StartsOnMenu(t *testing.T) {
	app, err := NewApp(NewPorts(&mockCatalogue{}, mockGenerator{}))
	require.NoError(t, err)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_BrowseGroupToQuote(t *testing.T) {
	app := newTestApp(t)

	send(t, app, enter)
	require.Equal(t, messages.ViewGroups, app.CurrentView())
	assert.Contains(t, app.View(), "Sailors")

	send(t, app, enter)
	require.Equal(t, messages.ViewGroupDetail, app.CurrentView())
	require.NotNil(t, app.SelectedGroup())
	assert.Contains(t, app.View(), "Groups › Sailors")

	send(t, app, enter)
	require.Equal(t, messages.ViewSources, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "Logbook")
	assert.Contains(t, view, "Letters")

	send(t, app, enter)
	require.Equal(t, messages.ViewSourceDetail, app.CurrentView())
	assert.Equal(t, "s1", app.SelectedSource().ID)
	n, ok := app.sourceDetailView.QuoteCount()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	send(t, app, enter)
	require.Equal(t, messages.ViewQuotes, app.CurrentView())
	assert.Contains(t, app.View(), "Fair winds.")
	assert.Contains(t, app.View(), "Sailors › Sources › Logbook › Quotes")

	send(t, app, down)
	send(t, app, enter)
	require.Equal(t, messages.ViewQuoteDetail, app.CurrentView())
	assert.Contains(t, app.View(), "Following seas.")

	for _, want := range []messages.ViewType{
		messages.ViewQuotes, messages.ViewSourceDetail, messages.ViewSources,
		messages.ViewGroupDetail, messages.ViewGroups, messages.ViewMenu,
	} {
		send(t, app, esc)
		assert.Equal(t, want, app.CurrentView())
	}
	assert.Nil(t, app.SelectedGroup())
}

func TestApp_GenerateFromGroupAndSource(t *testing.T) {
	app := newTestApp(t)
	send(t, app, enter)
	send(t, app, enter)

	send(t, app, key("s"))
	assert.Contains(t, app.View(), "Generated for g1.")

	send(t, app, enter)
	send(t, app, enter)
	send(t, app, key("s"))
	assert.Contains(t, app.View(), "Generated for s1.")

	send(t, app, key("r"))
	assert.Contains(t, app.View(), "No published quotes.")
}

func TestApp_AllSources(t *testing.T) {
	app := newTestApp(t)

	send(t, app, down)
	send(t, app, enter)
	require.Equal(t, messages.ViewSources, app.CurrentView())
	assert.Nil(t, app.SelectedGroup())
	assert.Contains(t, app.View(), "All Sources")

	send(t, app, esc)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Settings(t *testing.T) {
	app := newTestApp(t)

	send(t, app, down)
	send(t, app, down)
	send(t, app, enter)

	require.Equal(t, messages.ViewSettings, app.CurrentView())
	require.NotNil(t, app.settingsView.Settings())
	assert.Contains(t, app.View(), "Minimum quotes")
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)

	send(t, app, key("?"))
	require.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "generate sentence")
	assert.Contains(t, view, "random quote")

	send(t, app, esc)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ErrorShownUntilNavigation(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("store closed")})
	assert.Contains(t, app.View(), "store closed")
	require.Error(t, app.Err())

	send(t, app, enter)
	assert.NoError(t, app.Err())
	assert.NotContains(t, app.View(), "store closed")
}
