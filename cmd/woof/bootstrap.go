package main

import (
	"context"
	"fmt"
	"net/url"

	"woofinder/cmd/woof/ui"
	"woofinder/internal/avatar"
	"woofinder/internal/catalog"
	"woofinder/internal/config"
	"woofinder/internal/logging"
	"woofinder/internal/match"
	"woofinder/internal/search"
	"woofinder/internal/store"
)

// session bundles the wired-up application components for a single command
// invocation. Every subcommand builds one; the interactive interface hands
// it to the page models.
type session struct {
	cfg     *config.Config
	store   *store.Store
	catalog *catalog.Client
	search  *search.Coordinator
	match   *match.Coordinator
	avatar  *avatar.Client
}

// newSession loads config, initializes category logging and constructs the
// catalog client, store and coordinators.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}
	if homeDir != "" {
		cfg.Storage.Home = homeDir
	}
	if verbose {
		cfg.Logging.DebugMode = true
	}

	if err := logging.Initialize(cfg.HomeDir(), logging.Settings{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	client := catalog.NewClientWithConfig(catalog.Config{
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.RequestTimeout(),
		Logger:  logging.Get(logging.CategoryAPI),
	})

	st := store.New(cfg.StoragePath(), logging.Get(logging.CategoryStore))

	searchCoord := search.NewCoordinator(client, search.Options{
		PageSize:    cfg.Search.PageSize,
		DefaultSort: cfg.Search.Sort,
		Logger:      logging.Get(logging.CategorySearch),
	})

	matchCoord := match.NewCoordinator(client, st, logging.Get(logging.CategoryMatch))

	return &session{
		cfg:     cfg,
		store:   st,
		catalog: client,
		search:  searchCoord,
		match:   matchCoord,
		avatar:  avatar.NewClient(cfg.Service.AvatarURL),
	}, nil
}

// ensureSession establishes the access cookie for commands that need one.
// The jar is per-process, so each invocation signs in again with the stored
// identity.
func (s *session) ensureSession(ctx context.Context) error {
	user := s.store.User()
	if user == nil {
		return fmt.Errorf("not signed in: run 'woof login --name NAME --email EMAIL' first")
	}
	if err := s.catalog.Login(ctx, user.Name, user.Email); err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}
	return nil
}

// runInteractive launches the full-screen interface.
func runInteractive() error {
	s, err := newSession()
	if err != nil {
		return err
	}

	var initialFilters *search.Filters
	if rootQuery != "" {
		values, err := url.ParseQuery(rootQuery)
		if err != nil {
			return fmt.Errorf("invalid --query string: %w", err)
		}
		filters := search.DecodeFilters(values)
		initialFilters = &filters
	}

	// Re-establish the cookie for a returning visitor before the first
	// search fires. Failure is fine; the 401 path signs them out.
	if user := s.store.User(); user != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout())
		_ = s.catalog.Login(ctx, user.Name, user.Email)
		cancel()
	}

	return ui.Run(&ui.Deps{
		Store:          s.store,
		Catalog:        s.catalog,
		Search:         s.search,
		Match:          s.match,
		Avatar:         s.avatar,
		Logger:         logging.Get(logging.CategoryUI),
		InitialFilters: initialFilters,
		AgeFloor:       s.cfg.Search.AgeFloor,
		AgeCeil:        s.cfg.Search.AgeCeil,
	})
}
