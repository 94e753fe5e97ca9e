package ui

import (
	"woofinder/internal/match"
	"woofinder/internal/search"
	"woofinder/internal/store"
)

// Route identifies a page.
type Route int

const (
	RouteSignIn Route = iota
	RouteSearch
	RouteMatch
)

// navigateMsg switches the active page.
type navigateMsg struct {
	to Route
}

// errMsg funnels every remote-call failure to the app's single error
// boundary. Pages never branch on errors themselves.
type errMsg struct {
	err error
}

// breedsLoadedMsg delivers the breed reference list to the search page.
type breedsLoadedMsg struct {
	breeds []string
}

// pageLoadedMsg delivers a resolved search page.
type pageLoadedMsg struct {
	page *search.Page
}

// loginDoneMsg reports a successful sign-in.
type loginDoneMsg struct {
	user *store.User
}

// matchLoadedMsg delivers a computed match. celebrate is set for a newly
// obtained distinct match, exactly once.
type matchLoadedMsg struct {
	result    *match.Result
	celebrate bool
}
