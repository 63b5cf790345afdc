package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/groupdetail"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/groups"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/quotedetail"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/quotes"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/sourcedetail"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// App is the catalogue browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	menuView         *menu.View
	groupsView       *groups.View
	groupDetailView  *groupdetail.View
	sourcesView      *sources.View
	sourceDetailView *sourcedetail.View
	quotesView       *quotes.View
	quoteDetailView  *quotedetail.View
	settingsView     *settings.View
	statusBar        *status.Bar

	// selectedGroup is nil when browsing every source.
	selectedGroup  *domain.Group
	selectedSource *domain.Source

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the browser with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:            ports,
		ctx:              context.Background(),
		styles:           s,
		keys:             km,
		menuView:         menu.NewView(s),
		groupsView:       groups.NewView(s, ports.Catalogue),
		groupDetailView:  groupdetail.NewView(s, ports.Catalogue, ports.Generator, ports.Retriever),
		sourcesView:      sources.NewView(s, ports.Catalogue),
		sourceDetailView: sourcedetail.NewView(s, ports.Catalogue, ports.Generator, ports.Retriever),
		quotesView:       quotes.NewView(s, ports.Catalogue),
		quoteDetailView:  quotedetail.NewView(s),
		settingsView:     settings.NewView(s, ports.Settings),
		statusBar:        status.NewBar(s, km),
		currentView:      messages.ViewMenu,
	}, nil
}

// WithContext sets the context every service call runs under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.groupsView.SetContext(ctx)
	a.groupDetailView.SetContext(ctx)
	a.sourcesView.SetContext(ctx)
	a.sourceDetailView.SetContext(ctx)
	a.quotesView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("quotechain"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo,funlen // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.updateKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.Quit:
		return a, tea.Quit

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err)
		return a, nil

	case messages.GroupSelected:
		group := msg.Group
		a.selectedGroup = &group
		a.currentView = messages.ViewGroupDetail
		return a, a.groupDetailView.SetGroup(group)

	case messages.SourcesRequested:
		a.selectedGroup = msg.Group
		a.currentView = messages.ViewSources
		return a, a.sourcesView.SetGroup(msg.Group)

	case messages.SourceSelected:
		source := msg.Source
		a.selectedSource = &source
		a.currentView = messages.ViewSourceDetail
		return a, a.sourceDetailView.SetSource(source)

	case messages.QuotesRequested:
		source := msg.Source
		a.selectedSource = &source
		a.currentView = messages.ViewQuotes
		return a, a.quotesView.SetSource(source)

	case messages.QuoteSelected:
		a.quoteDetailView.SetQuote(msg.Quote)
		a.currentView = messages.ViewQuoteDetail
		return a, nil

	case messages.GroupsLoaded:
		a.groupsView, cmd = a.groupsView.Update(msg)
		return a, cmd

	case messages.GroupSummaryLoaded:
		a.groupDetailView, cmd = a.groupDetailView.Update(msg)
		return a, cmd

	case messages.SourcesLoaded:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.SourceUpdated:
		if msg.Err == nil {
			source := msg.Source
			a.selectedSource = &source
		}
		a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
		return a, cmd

	case messages.QuotesLoaded:
		// Both the detail count and the list consume quote loads; each
		// ignores sources it is not showing.
		var listCmd tea.Cmd
		a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
		a.quotesView, listCmd = a.quotesView.Update(msg)
		return a, tea.Batch(cmd, listCmd)

	case messages.QuoteAdded, messages.QuoteDeleted:
		a.quotesView, cmd = a.quotesView.Update(msg)
		return a, cmd

	case messages.SentenceGenerated:
		return a, a.routeSample(msg.Owner, msg)

	case messages.QuoteRetrieved:
		return a, a.routeSample(msg.Owner, msg)

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	// Cursor blinks and other internal messages go to the active view.
	return a, a.updateCurrent(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) tea.Cmd {
	switch a.currentView {
	case messages.ViewMenu:
		if keymap.Matches(msg.String(), a.keys.Help) {
			return a.switchTo(messages.ViewHelp)
		}
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keys.Back) || keymap.Matches(msg.String(), a.keys.Help) {
			return a.switchTo(messages.ViewMenu)
		}
		return nil
	}
	return a.updateCurrent(msg)
}

func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewGroups:
		a.groupsView, cmd = a.groupsView.Update(msg)
	case messages.ViewGroupDetail:
		a.groupDetailView, cmd = a.groupDetailView.Update(msg)
	case messages.ViewSources:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewSourceDetail:
		a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
	case messages.ViewQuotes:
		a.quotesView, cmd = a.quotesView.Update(msg)
	case messages.ViewQuoteDetail:
		a.quoteDetailView, cmd = a.quoteDetailView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) routeSample(owner domain.Owner, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if owner.IsSource() {
		a.sourceDetailView, cmd = a.sourceDetailView.Update(msg)
	} else {
		a.groupDetailView, cmd = a.groupDetailView.Update(msg)
	}
	return cmd
}

// switchTo makes view current and reloads it. Going back to a detail
// screen refreshes its counts.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.statusBar.ClearError()
	a.err = nil

	switch view {
	case messages.ViewGroups:
		a.selectedGroup = nil
		return a.groupsView.Init()
	case messages.ViewGroupDetail:
		return a.groupDetailView.Init()
	case messages.ViewSources:
		return a.sourcesView.Init()
	case messages.ViewSourceDetail:
		return a.sourceDetailView.Init()
	case messages.ViewQuotes:
		return a.quotesView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu:
		a.selectedGroup, a.selectedSource = nil, nil
	case messages.ViewQuoteDetail, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewGroups:
		body = a.groupsView.View()
	case messages.ViewGroupDetail:
		body = a.groupDetailView.View()
	case messages.ViewSources:
		body = a.sourcesView.View()
	case messages.ViewSourceDetail:
		body = a.sourceDetailView.View()
	case messages.ViewQuotes:
		body = a.quotesView.View()
	case messages.ViewQuoteDetail:
		body = a.quoteDetailView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	a.statusBar.SetPath(a.breadcrumb()...)
	if a.err != nil {
		a.statusBar.SetError(a.err)
	}
	return body + "\n\n" + a.statusBar.View()
}

func (a *App) breadcrumb() []string {
	var path []string
	switch a.currentView {
	case messages.ViewMenu:
		return nil
	case messages.ViewSettings:
		return []string{"Settings"}
	case messages.ViewHelp:
		return []string{"Help"}
	}

	if a.selectedGroup != nil {
		path = append(path, "Groups", a.selectedGroup.Name)
	} else if a.currentView == messages.ViewGroups {
		return []string{"Groups"}
	}
	if a.currentView == messages.ViewGroupDetail {
		return path
	}

	if a.selectedGroup == nil {
		path = append(path, "All Sources")
	} else {
		path = append(path, "Sources")
	}
	if a.currentView == messages.ViewSources || a.selectedSource == nil {
		return path
	}
	path = append(path, a.selectedSource.Name)
	switch a.currentView {
	case messages.ViewQuotes:
		path = append(path, "Quotes")
	case messages.ViewQuoteDetail:
		path = append(path, "Quotes", "Quote")
	}
	return path
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the browser.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SelectedGroup returns the group being browsed, nil for all sources.
func (a *App) SelectedGroup() *domain.Group {
	return a.selectedGroup
}

// SelectedSource returns the source being browsed.
func (a *App) SelectedSource() *domain.Source {
	return a.selectedSource
}

// Err returns the last reported error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := max(height-2, 1)
	a.menuView.SetDimensions(width, body)
	a.groupsView.SetDimensions(width, body)
	a.groupDetailView.SetDimensions(width, body)
	a.sourcesView.SetDimensions(width, body)
	a.sourceDetailView.SetDimensions(width, body)
	a.quotesView.SetDimensions(width, body)
	a.quoteDetailView.SetDimensions(width, body)
	a.settingsView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}
