// Package settings edits the configuration one key at a time.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Row is one editable setting.
type Row struct {
	Key   string
	Label string
	Value func(*domain.Settings) string
}

func itoa(n int) string { return strconv.Itoa(n) }

// Rows lists the editable settings in display order.
var Rows = []Row{
	{"markov.min_quotes", "Minimum quotes", func(s *domain.Settings) string { return itoa(s.Markov.MinQuotes) }},
	{"markov.char_limit", "Character limit", func(s *domain.Settings) string { return itoa(s.Markov.CharLimit) }},
	{"markov.tries", "Tries", func(s *domain.Settings) string { return itoa(s.Markov.Tries) }},
	{"markov.state_size", "State size", func(s *domain.Settings) string { return itoa(s.Markov.StateSize) }},
	{"markov.tokenizer", "Tokenizer", func(s *domain.Settings) string { return string(s.Markov.Tokenizer) }},
	{"quotes.random_sample", "Random sample", func(s *domain.Settings) string { return itoa(s.Quotes.RandomSample) }},
	{"quotes.group_random_sample", "Group random sample", func(s *domain.Settings) string {
		return itoa(s.Quotes.GroupRandomSample)
	}},
	{"sweep.interval", "Sweep interval", func(s *domain.Settings) string { return s.Sweep.Interval.String() }},
	{"sweep.concurrency", "Sweep concurrency", func(s *domain.Settings) string { return itoa(s.Sweep.Concurrency) }},
	{"sweep.rebuild_rate", "Rebuild rate", func(s *domain.Settings) string {
		return strconv.FormatFloat(s.Sweep.RebuildRate, 'g', -1, 64)
	}},
	{"scheduler.enabled", "Scheduler", func(s *domain.Settings) string {
		return strconv.FormatBool(s.Sweep.SchedulerEnabled)
	}},
	{"storage.data_dir", "Data dir", func(s *domain.Settings) string { return s.DataDir }},
}

// View is the settings editor.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	service driving.SettingsService

	settings *domain.Settings
	selected int
	field    *input.Field
	status   string
	err      error
	width    int
	height   int
}

// NewView creates the settings editor. service may be nil, in which case
// the view only reports that settings are unavailable.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		service: service,
		field:   input.NewField(s, "", "", 256),
		width:   80,
		height:  24,
	}
}

// Reset closes any edit and clears the status line.
func (v *View) Reset() {
	v.field.Close()
	v.status, v.err = "", nil
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	if v.service == nil {
		return nil
	}
	service := v.service
	return func() tea.Msg {
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings editor.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Saved " + msg.Key + "."
		return v, v.Init()

	case tea.KeyMsg:
		if v.field.Active() {
			return v, v.handleFieldKey(msg)
		}
		return v, v.handleKey(msg)

	default:
		if v.field.Active() {
			var cmd tea.Cmd
			v.field, cmd = v.field.Update(msg)
			return v, cmd
		}
	}
	return v, nil
}

func (v *View) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.field.Close()
		return nil
	case tea.KeyEnter:
		value := strings.TrimSpace(v.field.Value())
		v.field.Close()
		return v.save(Rows[v.selected].Key, value)
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return cmd
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s := msg.String(); {
	case keymap.Matches(s, v.keys.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(s, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(s, v.keys.Down):
		if v.selected < len(Rows)-1 {
			v.selected++
		}
	case keymap.Matches(s, v.keys.Reload):
		return v.Init()
	case keymap.Matches(s, v.keys.Select):
		if v.settings == nil {
			return nil
		}
		row := Rows[v.selected]
		v.status, v.err = "", nil
		v.field.SetLabel(row.Label)
		return v.field.Open(row.Value(v.settings))
	}
	return nil
}

func (v *View) save(key, value string) tea.Cmd {
	if v.service == nil {
		return nil
	}
	service := v.service
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: service.Set(key, value)}
	}
}

// View renders the settings editor.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	switch {
	case v.service == nil:
		b.WriteString(v.styles.Warning.Render("Settings are not available."))
		b.WriteString("\n\n")
	case v.settings == nil && v.err == nil:
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n\n")
	case v.settings != nil:
		for i, row := range Rows {
			value := row.Value(v.settings)
			if value == "" {
				value = "(default)"
			}
			line := fmt.Sprintf("%-20s %s", row.Label, value)
			if i == v.selected {
				b.WriteString("> " + v.styles.Selected.Render(line))
			} else {
				b.WriteString("  " + v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Key: " + Rows[v.selected].Key))
		b.WriteString("\n\n")
	}

	if v.field.Active() {
		b.WriteString(v.field.View())
		b.WriteString("\n\n")
	}
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n\n")
	}

	if v.field.Active() {
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [ctrl+r] Reload  [Esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.field.SetWidth(width)
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.Settings {
	return v.settings
}

// Selected returns the index of the highlighted row.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.field.Active()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
