// Package search coordinates the active search: it derives catalog requests
// from the current filters, enriches the returned ID page into full records
// plus locations, and caches pages by the exact filter tuple so revisiting a
// previously seen search within the session costs no remote calls.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"woofinder/internal/catalog"
)

// ErrSuperseded is returned to a caller whose page resolution was overtaken
// by a newer one. The newer request owns the current view; a slow stale
// response must never overwrite it.
var ErrSuperseded = errors.New("search: superseded by a newer request")

// Catalog is the slice of the catalog client the coordinator needs.
type Catalog interface {
	Breeds(ctx context.Context) ([]string, error)
	SearchDogs(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error)
	Dogs(ctx context.Context, ids []string) ([]catalog.Dog, error)
	Locations(ctx context.Context, zipCodes []string) ([]*catalog.Location, error)
}

// Page is one fully resolved search page: records joined with their
// locations, plus the pagination state derived from the service's cursors.
type Page struct {
	Filters    Filters
	Dogs       []catalog.Dog
	Locations  map[string]*catalog.Location
	Total      int
	NextCursor string
	PrevCursor string
}

// HasNext reports whether a next page exists: the service handed back a
// cursor and the offset it encodes is still below the total match count.
func (p *Page) HasNext() bool {
	if p.NextCursor == "" {
		return false
	}
	if offset, ok := catalog.CursorOffset(p.NextCursor); ok {
		return offset < p.Total
	}
	return true
}

// HasPrev reports whether a previous page exists.
func (p *Page) HasPrev() bool {
	return p.PrevCursor != ""
}

// LocationFor joins a record to its location by zip code. Nil when the
// service does not know the zip; callers fall back to the raw zip code.
func (p *Page) LocationFor(zipCode string) *catalog.Location {
	return p.Locations[zipCode]
}

type resolveState int

const (
	statePending resolveState = iota
	stateReady
	stateFailed
)

// entry is the per-key resolve state machine. Concurrent callers of the
// same key share one in-flight resolution.
type entry struct {
	state resolveState
	page  *Page
	err   error
	done  chan struct{}
}

// Coordinator resolves filters into pages. Safe for concurrent use.
type Coordinator struct {
	catalog  Catalog
	pageSize int
	sort     string
	logger   *zap.Logger

	mu      sync.Mutex
	breeds  []string
	cache   map[string]*entry
	current uuid.UUID
}

// Options tune the coordinator's defaults.
type Options struct {
	// PageSize is the page size requested when filters do not set one.
	PageSize int
	// DefaultSort applies when filters carry no sort.
	DefaultSort string
	Logger      *zap.Logger
}

// NewCoordinator creates a coordinator over the given catalog client.
func NewCoordinator(c Catalog, opts Options) *Coordinator {
	if opts.PageSize <= 0 {
		opts.PageSize = 24
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = "breed:asc"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Coordinator{
		catalog:  c,
		pageSize: opts.PageSize,
		sort:     opts.DefaultSort,
		logger:   opts.Logger,
		cache:    make(map[string]*entry),
	}
}

// Breeds returns the breed list, fetched once per session. Static reference
// data, independent of the active filters.
func (c *Coordinator) Breeds(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if c.breeds != nil {
		breeds := c.breeds
		c.mu.Unlock()
		return breeds, nil
	}
	c.mu.Unlock()

	breeds, err := c.catalog.Breeds(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.breeds = breeds
	c.mu.Unlock()
	return breeds, nil
}

// Resolve turns filters into a fully enriched page. Results are cached by
// the exact filter tuple; a cached page costs no remote calls. When a newer
// Resolve starts before this one finishes, the stale caller gets
// ErrSuperseded instead of a result.
func (c *Coordinator) Resolve(ctx context.Context, f Filters) (*Page, error) {
	key := f.Key()
	reqID := uuid.New()

	c.mu.Lock()
	c.current = reqID

	if e, ok := c.cache[key]; ok && e.state != stateFailed {
		c.mu.Unlock()
		return c.await(ctx, e, reqID)
	}

	e := &entry{state: statePending, done: make(chan struct{})}
	c.cache[key] = e
	c.mu.Unlock()

	page, err := c.resolvePage(ctx, f)

	c.mu.Lock()
	if err != nil {
		e.state = stateFailed
		e.err = err
		delete(c.cache, key) // failures never poison the cache
	} else {
		e.state = stateReady
		e.page = page
	}
	c.mu.Unlock()
	close(e.done)

	return c.finish(e, reqID)
}

// await blocks on an entry another caller is resolving (or that is already
// ready) and applies the same supersession rule.
func (c *Coordinator) await(ctx context.Context, e *entry, reqID uuid.UUID) (*Page, error) {
	select {
	case <-e.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.finish(e, reqID)
}

// finish applies last-request-wins by request identity, not arrival time.
func (c *Coordinator) finish(e *entry, reqID uuid.UUID) (*Page, error) {
	if e.err != nil {
		return nil, e.err
	}

	c.mu.Lock()
	superseded := c.current != reqID
	c.mu.Unlock()

	if superseded {
		c.logger.Debug("dropping superseded page", zap.String("request", reqID.String()))
		return nil, ErrSuperseded
	}
	return e.page, nil
}

// resolvePage runs the dependency chain: ID page, then records, then the
// locations for the records' distinct zip codes. Each stage starts only once
// its input value is available.
func (c *Coordinator) resolvePage(ctx context.Context, f Filters) (*Page, error) {
	sort := f.Sort
	if sort == "" {
		sort = c.sort
	}

	result, err := c.catalog.SearchDogs(ctx, catalog.SearchQuery{
		Breeds: f.Breeds,
		AgeMin: f.AgeMin,
		AgeMax: f.AgeMax,
		Size:   c.pageSize,
		From:   f.From,
		Sort:   sort,
	})
	if err != nil {
		return nil, err
	}
	if len(result.ResultIDs) > c.pageSize {
		return nil, fmt.Errorf("search: service returned %d results for page size %d", len(result.ResultIDs), c.pageSize)
	}

	dogs, err := c.catalog.Dogs(ctx, result.ResultIDs)
	if err != nil {
		return nil, err
	}

	locations, err := c.lookupLocations(ctx, dogs)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Filters:    f,
		Dogs:       dogs,
		Locations:  locations,
		Total:      result.Total,
		NextCursor: catalog.CursorFrom(result.Next),
		PrevCursor: catalog.CursorFrom(result.Prev),
	}
	c.logger.Info("page resolved",
		zap.Int("dogs", len(dogs)),
		zap.Int("total", page.Total),
		zap.String("next", page.NextCursor),
		zap.String("prev", page.PrevCursor))
	return page, nil
}

func (c *Coordinator) lookupLocations(ctx context.Context, dogs []catalog.Dog) (map[string]*catalog.Location, error) {
	seen := make(map[string]bool, len(dogs))
	var zips []string
	for _, dog := range dogs {
		if dog.ZipCode == "" || seen[dog.ZipCode] {
			continue
		}
		seen[dog.ZipCode] = true
		zips = append(zips, dog.ZipCode)
	}
	if len(zips) == 0 {
		return map[string]*catalog.Location{}, nil
	}

	locs, err := c.catalog.Locations(ctx, zips)
	if err != nil {
		return nil, err
	}

	byZip := make(map[string]*catalog.Location, len(locs))
	for _, loc := range locs {
		if loc != nil {
			byZip[loc.ZipCode] = loc
		}
	}
	return byZip, nil
}
