package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"woofinder/internal/avatar"
	"woofinder/internal/catalog"
	"woofinder/internal/match"
	"woofinder/internal/search"
	"woofinder/internal/store"
)

// Deps bundles everything the pages need. The store is injected, never
// ambient, so tests can construct isolated instances.
type Deps struct {
	Store   *store.Store
	Catalog *catalog.Client
	Search  *search.Coordinator
	Match   *match.Coordinator
	Avatar  *avatar.Client
	Logger  *zap.Logger
	Styles  Styles

	// InitialFilters restores a shared search: the search page starts on
	// these instead of the defaults.
	InitialFilters *search.Filters

	AgeFloor int
	AgeCeil  int
}

// App is the root model. It owns routing between the pages and the single
// cross-cutting error boundary: auth expiry signs the visitor out and
// returns to the entry page; every other failure becomes a toast while the
// last good page content stays visible.
type App struct {
	deps  *Deps
	route Route

	signIn SignInModel
	search SearchModel
	match  MatchModel
	toast  Toast

	searchStarted bool
	width, height int
}

// NewApp wires the pages. A persisted identity skips straight to search,
// mirroring the entry redirect for signed-in visitors.
func NewApp(deps *Deps) App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Styles.Theme == (Theme{}) {
		deps.Styles = NewStyles(DetectTheme())
	}
	if deps.AgeCeil <= 0 {
		deps.AgeCeil = 20
	}

	route := RouteSignIn
	if deps.Store.User() != nil {
		route = RouteSearch
	}

	searchPage := NewSearchModel(deps)
	if deps.InitialFilters != nil {
		searchPage.SetFilters(*deps.InitialFilters)
	}

	return App{
		deps:   deps,
		route:  route,
		signIn: NewSignInModel(deps),
		search: searchPage,
		match:  NewMatchModel(deps),
		toast:  NewToast(deps.Styles),
	}
}

// Init starts the search page immediately for a signed-in visitor.
func (a App) Init() tea.Cmd {
	if a.route == RouteSearch {
		a.searchStarted = true
		return a.search.Init()
	}
	return nil
}

// Update routes messages: results to the page that owns them, key input to
// the active page, failures through the error boundary.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.signIn.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.match.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			if a.deps.Store.User() != nil {
				return a, a.logoutCmd()
			}
		}
		return a.updateActive(msg)

	case navigateMsg:
		return a.navigate(msg.to)

	case loginDoneMsg:
		a.deps.Logger.Info("signed in", zap.String("email", msg.user.Email))
		var cmd tea.Cmd
		a.signIn, cmd = a.signIn.Update(msg)
		next, navCmd := a.navigate(RouteSearch)
		return next, tea.Batch(cmd, navCmd)

	case errMsg:
		return a.handleError(msg)

	case toastExpiredMsg:
		var cmd tea.Cmd
		a.toast, cmd = a.toast.Update(msg)
		return a, cmd

	case breedsLoadedMsg, pageLoadedMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd

	case matchLoadedMsg:
		var cmd tea.Cmd
		a.match, cmd = a.match.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var searchCmd, matchCmd tea.Cmd
		a.search, searchCmd = a.search.Update(msg)
		a.match, matchCmd = a.match.Update(msg)
		return a, tea.Batch(searchCmd, matchCmd)
	}

	return a.updateActive(msg)
}

func (a App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case RouteSignIn:
		a.signIn, cmd = a.signIn.Update(msg)
	case RouteSearch:
		a.search, cmd = a.search.Update(msg)
	case RouteMatch:
		a.match, cmd = a.match.Update(msg)
	}
	return a, cmd
}

func (a App) navigate(to Route) (tea.Model, tea.Cmd) {
	// Signed-out visitors only ever see the entry page.
	if to != RouteSignIn && a.deps.Store.User() == nil {
		to = RouteSignIn
	}
	a.route = to

	switch to {
	case RouteSearch:
		if !a.searchStarted {
			a.searchStarted = true
			return a, a.search.Init()
		}
	case RouteMatch:
		return a, a.match.Init()
	}
	return a, nil
}

// handleError is the cross-cutting failure boundary: auth expiry resets the
// session and routes to the entry page; anything else is a toast, with the
// previous page content left in place.
func (a App) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	// Let the active page clear its loading state first.
	model, pageCmd := a.updateActive(msg)
	a = model.(App)

	if catalog.IsAuthExpired(msg.err) {
		a.deps.Logger.Warn("session expired", zap.Error(msg.err))
		a.deps.Store.Reset()
		a.route = RouteSignIn

		message := "Your session has expired. Please sign in again."
		var ce *catalog.Error
		if errors.As(msg.err, &ce) && ce.Message != "" {
			message = ce.Message
		}
		return a, tea.Batch(pageCmd, a.toast.Show(message, true))
	}

	a.deps.Logger.Warn("request failed", zap.Error(msg.err))
	return a, tea.Batch(pageCmd, a.toast.Show(msg.err.Error(), true))
}

func (a App) logoutCmd() tea.Cmd {
	deps := a.deps
	return func() tea.Msg {
		if err := deps.Catalog.Logout(context.Background()); err != nil {
			return errMsg{err: err}
		}
		deps.Store.SetUser(nil)
		deps.Store.ClearFavorites()
		return navigateMsg{to: RouteSignIn}
	}
}

// View renders the active page with the toast bar beneath it.
func (a App) View() string {
	var page string
	switch a.route {
	case RouteSignIn:
		page = a.signIn.View()
	case RouteSearch:
		page = a.search.View()
	case RouteMatch:
		page = a.match.View()
	}

	if toast := a.toast.View(); toast != "" {
		return page + "\n\n" + toast
	}
	return page
}

// Run starts the interactive program.
func Run(deps *Deps) error {
	program := tea.NewProgram(NewApp(deps), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
