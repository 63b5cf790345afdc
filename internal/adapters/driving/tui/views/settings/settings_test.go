package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

type mockSettings struct {
	driving.SettingsService
	settings domain.Settings
	sets     map[string]string
	setErr   error
	keys     []string
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultSettings(),
		sets:     map[string]string{},
		keys: []string{
			"markov.min_quotes", "markov.char_limit", "markov.tries", "markov.state_size", "markov.tokenizer",
			"quotes.random_sample", "quotes.group_random_sample",
			"sweep.interval", "sweep.concurrency", "sweep.rebuild_rate", "scheduler.enabled",
			"storage.data_dir",
		},
	}
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	if key == "markov.tries" {
		m.settings.Markov.Tries = 99
	}
	return nil
}

func (m *mockSettings) Keys() []string {
	return m.keys
}

func loaded(t *testing.T, svc *mockSettings) *View {
	t.Helper()
	v := NewView(nil, svc)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func TestRows_CoverEveryKey(t *testing.T) {
	svc := newMockSettings()
	keys := make([]string, 0, len(Rows))
	for _, r := range Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, svc.Keys(), keys)
}

func TestView_ShowsSettings(t *testing.T) {
	v := loaded(t, newMockSettings())

	require.NotNil(t, v.Settings())
	out := v.View()
	assert.Contains(t, out, "Minimum quotes")
	assert.Contains(t, out, "Tokenizer")
	assert.Contains(t, out, "Key: markov.min_quotes")
	assert.Contains(t, out, "(default)")
}

func TestView_EditAndSave(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 2, v.Selected())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	require.True(t, v.Editing())

	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("42")})
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Editing())

	_, reload := v.Update(cmd())
	require.NotNil(t, reload)
	v.Update(reload())

	assert.Equal(t, "42", svc.sets["markov.tries"])
	assert.Equal(t, 99, v.Settings().Markov.Tries)
	assert.Contains(t, v.View(), "Saved markov.tries.")
}

func TestView_SaveError(t *testing.T) {
	svc := newMockSettings()
	svc.setErr = domain.ErrInvalidInput
	v := loaded(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.True(t, errors.Is(v.Err(), domain.ErrInvalidInput))
	assert.Contains(t, v.View(), "Error")
}

func TestView_EscCancelsEditThenLeaves(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.Editing())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
	assert.Empty(t, svc.sets)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "not available")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_Reset(t *testing.T) {
	v := loaded(t, newMockSettings())
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v.Reset()
	assert.False(t, v.Editing())
	assert.NoError(t, v.Err())
}
