// Package match computes the adoption match from the favorites set. A match
// is only ever valid against the exact favorites it was computed from: any
// favorites mutation invalidates it, and a stale match is never returned.
package match

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"woofinder/internal/catalog"
)

// Catalog is the slice of the catalog client the coordinator needs.
type Catalog interface {
	Match(ctx context.Context, ids []string) (string, error)
	Dogs(ctx context.Context, ids []string) ([]catalog.Dog, error)
	Locations(ctx context.Context, zipCodes []string) ([]*catalog.Location, error)
}

// Favorites is the slice of the session store the coordinator reads.
type Favorites interface {
	Favorites() []string
	Version() uint64
}

// Result is a computed match: the winning dog and its location, tagged with
// the favorites version it was computed against.
type Result struct {
	Dog      catalog.Dog
	Location *catalog.Location

	version uint64
}

// Coordinator owns the current match. Safe for concurrent use.
type Coordinator struct {
	catalog Catalog
	favs    Favorites
	logger  *zap.Logger

	mu          sync.Mutex
	result      *Result
	celebration bool
	celebrated  string // dog ID the last celebration fired for
}

// NewCoordinator creates a coordinator over the catalog client and store.
func NewCoordinator(c Catalog, favs Favorites, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{catalog: c, favs: favs, logger: logger}
}

// Current returns the match for the current favorites set, computing it if
// none exists or the cached one was invalidated by a favorites mutation.
// With no favorites there is no match and no remote call: (nil, nil).
func (m *Coordinator) Current(ctx context.Context) (*Result, error) {
	if len(m.favs.Favorites()) == 0 {
		m.mu.Lock()
		m.result = nil
		m.mu.Unlock()
		return nil, nil
	}

	m.mu.Lock()
	if m.result != nil && m.result.version == m.favs.Version() {
		result := m.result
		m.mu.Unlock()
		return result, nil
	}
	m.mu.Unlock()

	return m.compute(ctx)
}

// Reroll asks the service for a fresh match against the current favorites.
// User-initiated and unconditional: it never reuses the cached result, even
// when the favorites have not changed.
func (m *Coordinator) Reroll(ctx context.Context) (*Result, error) {
	if len(m.favs.Favorites()) == 0 {
		return nil, nil
	}
	return m.compute(ctx)
}

// TakeCelebration reports whether a newly obtained distinct match is waiting
// to be celebrated, and consumes the flag. True at most once per distinct
// match, no matter how often the result is rendered.
func (m *Coordinator) TakeCelebration() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	fire := m.celebration
	m.celebration = false
	return fire
}

// compute runs match selection, then fetches the winning record and its
// location. If the favorites change while the calls are in flight, the
// result is discarded and recomputed against the new set.
func (m *Coordinator) compute(ctx context.Context) (*Result, error) {
	for {
		favorites := m.favs.Favorites()
		if len(favorites) == 0 {
			m.mu.Lock()
			m.result = nil
			m.mu.Unlock()
			return nil, nil
		}
		version := m.favs.Version()

		winner, err := m.catalog.Match(ctx, favorites)
		if err != nil {
			return nil, err
		}

		dogs, err := m.catalog.Dogs(ctx, []string{winner})
		if err != nil {
			return nil, err
		}
		if len(dogs) != 1 {
			return nil, fmt.Errorf("match: expected one record for %q, got %d", winner, len(dogs))
		}
		dog := dogs[0]

		var location *catalog.Location
		if dog.ZipCode != "" {
			locs, err := m.catalog.Locations(ctx, []string{dog.ZipCode})
			if err != nil {
				return nil, err
			}
			if len(locs) > 0 {
				location = locs[0]
			}
		}

		if m.favs.Version() != version {
			m.logger.Debug("favorites changed mid-flight, recomputing match")
			continue
		}

		result := &Result{Dog: dog, Location: location, version: version}

		m.mu.Lock()
		m.result = result
		if m.celebrated != dog.ID {
			m.celebration = true
			m.celebrated = dog.ID
		}
		m.mu.Unlock()

		m.logger.Info("match computed",
			zap.String("dog", dog.ID),
			zap.Int("favorites", len(favorites)))
		return result, nil
	}
}
