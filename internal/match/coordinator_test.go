package match

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"woofinder/internal/catalog"
	"woofinder/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCatalog picks a fixed winner and counts match-selection calls.
type fakeCatalog struct {
	mu         sync.Mutex
	matchCalls int
	winner     string
	matchErr   error

	// onMatch runs inside Match, before responding.
	onMatch func(ids []string)
}

func (f *fakeCatalog) Match(ctx context.Context, ids []string) (string, error) {
	f.mu.Lock()
	f.matchCalls++
	hook := f.onMatch
	winner := f.winner
	matchErr := f.matchErr
	f.mu.Unlock()

	if hook != nil {
		hook(ids)
	}
	if matchErr != nil {
		return "", matchErr
	}
	if winner != "" {
		return winner, nil
	}
	return ids[0], nil
}

func (f *fakeCatalog) Dogs(ctx context.Context, ids []string) ([]catalog.Dog, error) {
	dogs := make([]catalog.Dog, len(ids))
	for i, id := range ids {
		dogs[i] = catalog.Dog{ID: id, Name: "N-" + id, ZipCode: "60601", Breed: "Boxer"}
	}
	return dogs, nil
}

func (f *fakeCatalog) Locations(ctx context.Context, zipCodes []string) ([]*catalog.Location, error) {
	locs := make([]*catalog.Location, len(zipCodes))
	for i, zip := range zipCodes {
		locs[i] = &catalog.Location{ZipCode: zip, City: "Chicago", State: "IL"}
	}
	return locs, nil
}

func (f *fakeCatalog) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matchCalls
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(filepath.Join(t.TempDir(), "storage.json"), nil)
}

func TestCurrent(t *testing.T) {
	t.Run("empty favorites never calls the service", func(t *testing.T) {
		fake := &fakeCatalog{}
		c := NewCoordinator(fake, newTestStore(t), nil)

		result, err := c.Current(context.Background())
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 0, fake.calls())
	})

	t.Run("winner comes from the favorites set", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-2"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")
		s.AddFavorite("dog-2")
		s.AddFavorite("dog-3")

		var submitted []string
		fake.onMatch = func(ids []string) { submitted = ids }

		c := NewCoordinator(fake, s, nil)
		result, err := c.Current(context.Background())
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, []string{"dog-1", "dog-2", "dog-3"}, submitted)
		assert.Equal(t, "dog-2", result.Dog.ID)
		require.NotNil(t, result.Location)
		assert.Equal(t, "60601", result.Location.ZipCode)
	})

	t.Run("unchanged favorites reuse the result", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		first, err := c.Current(context.Background())
		require.NoError(t, err)
		second, err := c.Current(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, fake.calls())
	})

	t.Run("any favorites mutation invalidates the result", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)

		s.AddFavorite("dog-2")
		_, err = c.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, fake.calls())

		s.RemoveFavorite("dog-2")
		_, err = c.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, fake.calls())
	})

	t.Run("clearing favorites drops the result without a call", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)

		s.ClearFavorites()
		result, err := c.Current(context.Background())
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 1, fake.calls())
	})

	t.Run("service failure is surfaced", func(t *testing.T) {
		fake := &fakeCatalog{matchErr: errors.New("boom")}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		assert.Error(t, err)
	})

	t.Run("favorites changing mid-flight forces a recompute", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		var once sync.Once
		fake.onMatch = func(ids []string) {
			// Mutate the set while the first selection is in flight.
			once.Do(func() { s.AddFavorite("dog-9") })
		}

		c := NewCoordinator(fake, s, nil)
		result, err := c.Current(context.Background())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 2, fake.calls())
	})
}

func TestReroll(t *testing.T) {
	t.Run("recomputes without a favorites change", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)

		_, err = c.Reroll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, fake.calls())
	})

	t.Run("no favorites means no reroll", func(t *testing.T) {
		fake := &fakeCatalog{}
		c := NewCoordinator(fake, newTestStore(t), nil)

		result, err := c.Reroll(context.Background())
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, 0, fake.calls())
	})
}

func TestCelebration(t *testing.T) {
	t.Run("fires once per distinct match", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)

		assert.True(t, c.TakeCelebration())
		assert.False(t, c.TakeCelebration(), "second take must not fire again")

		// Same favorites, cached result: still nothing to celebrate.
		_, err = c.Current(context.Background())
		require.NoError(t, err)
		assert.False(t, c.TakeCelebration())
	})

	t.Run("reroll to a different dog re-arms it", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")
		s.AddFavorite("dog-2")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)
		assert.True(t, c.TakeCelebration())

		fake.mu.Lock()
		fake.winner = "dog-2"
		fake.mu.Unlock()

		_, err = c.Reroll(context.Background())
		require.NoError(t, err)
		assert.True(t, c.TakeCelebration())
	})

	t.Run("reroll to the same dog does not", func(t *testing.T) {
		fake := &fakeCatalog{winner: "dog-1"}
		s := newTestStore(t)
		s.AddFavorite("dog-1")

		c := NewCoordinator(fake, s, nil)
		_, err := c.Current(context.Background())
		require.NoError(t, err)
		assert.True(t, c.TakeCelebration())

		_, err = c.Reroll(context.Background())
		require.NoError(t, err)
		assert.False(t, c.TakeCelebration())
	})
}
