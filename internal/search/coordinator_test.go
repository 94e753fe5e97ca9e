package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"woofinder/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeCatalog serves canned pages and counts calls. searchHook, when set,
// runs inside SearchDogs before responding.
type fakeCatalog struct {
	mu          sync.Mutex
	breedsCalls int
	searchCalls int
	dogsCalls   int
	locCalls    int

	breedsErr  error
	searchErr  error
	searchHook func(q catalog.SearchQuery)
	total      int
	next       string
	prev       string
	resultIDs  func(q catalog.SearchQuery) []string
}

func (f *fakeCatalog) Breeds(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.breedsCalls++
	f.mu.Unlock()
	if f.breedsErr != nil {
		return nil, f.breedsErr
	}
	return []string{"Beagle", "Boxer", "Pug"}, nil
}

func (f *fakeCatalog) SearchDogs(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls++
	hook := f.searchHook
	f.mu.Unlock()

	if hook != nil {
		hook(q)
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	ids := []string{"dog-1", "dog-2"}
	if f.resultIDs != nil {
		ids = f.resultIDs(q)
	}
	return &catalog.SearchResult{
		ResultIDs: ids,
		Total:     f.total,
		Next:      f.next,
		Prev:      f.prev,
	}, nil
}

func (f *fakeCatalog) Dogs(ctx context.Context, ids []string) ([]catalog.Dog, error) {
	f.mu.Lock()
	f.dogsCalls++
	f.mu.Unlock()

	dogs := make([]catalog.Dog, len(ids))
	for i, id := range ids {
		dogs[i] = catalog.Dog{ID: id, Name: "N-" + id, ZipCode: "60601", Breed: "Boxer"}
	}
	return dogs, nil
}

func (f *fakeCatalog) Locations(ctx context.Context, zipCodes []string) ([]*catalog.Location, error) {
	f.mu.Lock()
	f.locCalls++
	f.mu.Unlock()

	locs := make([]*catalog.Location, len(zipCodes))
	for i, zip := range zipCodes {
		locs[i] = &catalog.Location{ZipCode: zip, City: "Chicago", State: "IL"}
	}
	return locs, nil
}

func (f *fakeCatalog) calls() (breeds, search, dogs, locs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.breedsCalls, f.searchCalls, f.dogsCalls, f.locCalls
}

func TestBreedsMemoized(t *testing.T) {
	fake := &fakeCatalog{}
	c := NewCoordinator(fake, Options{})

	for range 3 {
		breeds, err := c.Breeds(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Beagle", "Boxer", "Pug"}, breeds)
	}

	calls, _, _, _ := fake.calls()
	assert.Equal(t, 1, calls)
}

func TestBreedsErrorNotMemoized(t *testing.T) {
	fake := &fakeCatalog{breedsErr: errors.New("boom")}
	c := NewCoordinator(fake, Options{})

	_, err := c.Breeds(context.Background())
	require.Error(t, err)

	fake.breedsErr = nil
	breeds, err := c.Breeds(context.Background())
	require.NoError(t, err)
	assert.Len(t, breeds, 3)
}

func TestResolve(t *testing.T) {
	t.Run("runs the full dependency chain with defaults", func(t *testing.T) {
		fake := &fakeCatalog{total: 57, next: "/dogs/search?size=24&from=24"}
		var gotQuery catalog.SearchQuery
		fake.searchHook = func(q catalog.SearchQuery) { gotQuery = q }

		c := NewCoordinator(fake, Options{})
		page, err := c.Resolve(context.Background(), Filters{Breeds: []string{"Boxer"}})
		require.NoError(t, err)

		assert.Equal(t, 24, gotQuery.Size)
		assert.Equal(t, "breed:asc", gotQuery.Sort)
		assert.Equal(t, []string{"Boxer"}, gotQuery.Breeds)

		require.Len(t, page.Dogs, 2)
		assert.Equal(t, 57, page.Total)
		assert.Equal(t, "24", page.NextCursor)
		assert.True(t, page.HasNext())
		assert.False(t, page.HasPrev())

		loc := page.LocationFor("60601")
		require.NotNil(t, loc)
		assert.Equal(t, "Chicago", loc.City)
		assert.Nil(t, page.LocationFor("99999"))
	})

	t.Run("explicit sort wins over the default", func(t *testing.T) {
		fake := &fakeCatalog{total: 1}
		var gotQuery catalog.SearchQuery
		fake.searchHook = func(q catalog.SearchQuery) { gotQuery = q }

		c := NewCoordinator(fake, Options{})
		_, err := c.Resolve(context.Background(), Filters{Sort: "breed:desc"})
		require.NoError(t, err)
		assert.Equal(t, "breed:desc", gotQuery.Sort)
	})

	t.Run("same filter tuple hits the cache", func(t *testing.T) {
		fake := &fakeCatalog{total: 2}
		c := NewCoordinator(fake, Options{})

		f := Filters{Breeds: []string{"Boxer"}}
		first, err := c.Resolve(context.Background(), f)
		require.NoError(t, err)
		second, err := c.Resolve(context.Background(), f)
		require.NoError(t, err)
		assert.Same(t, first, second)

		_, search, dogs, locs := fake.calls()
		assert.Equal(t, 1, search)
		assert.Equal(t, 1, dogs)
		assert.Equal(t, 1, locs)
	})

	t.Run("different cursor is a different cache key", func(t *testing.T) {
		fake := &fakeCatalog{total: 100}
		c := NewCoordinator(fake, Options{})

		f := Filters{Breeds: []string{"Boxer"}}
		_, err := c.Resolve(context.Background(), f)
		require.NoError(t, err)
		_, err = c.Resolve(context.Background(), f.WithCursor("24"))
		require.NoError(t, err)

		_, search, _, _ := fake.calls()
		assert.Equal(t, 2, search)
	})

	t.Run("failure is returned and not cached", func(t *testing.T) {
		fake := &fakeCatalog{searchErr: errors.New("boom"), total: 2}
		c := NewCoordinator(fake, Options{})

		f := Filters{Breeds: []string{"Boxer"}}
		_, err := c.Resolve(context.Background(), f)
		require.Error(t, err)

		fake.searchErr = nil
		page, err := c.Resolve(context.Background(), f)
		require.NoError(t, err)
		assert.NotNil(t, page)
	})

	t.Run("oversized page from the service is rejected", func(t *testing.T) {
		fake := &fakeCatalog{total: 100}
		fake.resultIDs = func(catalog.SearchQuery) []string {
			ids := make([]string, 30)
			for i := range ids {
				ids[i] = fmt.Sprintf("dog-%d", i)
			}
			return ids
		}

		c := NewCoordinator(fake, Options{PageSize: 24})
		_, err := c.Resolve(context.Background(), Filters{})
		assert.Error(t, err)
	})
}

func TestResolveSupersession(t *testing.T) {
	fake := &fakeCatalog{total: 10}

	entered := make(chan struct{})
	release := make(chan struct{})
	fake.searchHook = func(q catalog.SearchQuery) {
		if len(q.Breeds) > 0 && q.Breeds[0] == "slow" {
			close(entered)
			<-release
		}
	}

	c := NewCoordinator(fake, Options{})

	type resolved struct {
		page *Page
		err  error
	}
	slowDone := make(chan resolved, 1)
	go func() {
		page, err := c.Resolve(context.Background(), Filters{Breeds: []string{"slow"}})
		slowDone <- resolved{page, err}
	}()

	<-entered

	// A newer request lands while the first is still in flight.
	fast, err := c.Resolve(context.Background(), Filters{Breeds: []string{"fast"}})
	require.NoError(t, err)
	require.NotNil(t, fast)

	close(release)
	slow := <-slowDone
	assert.Nil(t, slow.page)
	assert.ErrorIs(t, slow.err, ErrSuperseded)
}

func TestResolveContextCancellation(t *testing.T) {
	fake := &fakeCatalog{total: 10}

	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	fake.searchHook = func(catalog.SearchQuery) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	}

	c := NewCoordinator(fake, Options{})

	f := Filters{Breeds: []string{"Boxer"}}
	primaryDone := make(chan error, 1)
	go func() {
		_, err := c.Resolve(context.Background(), f)
		primaryDone <- err
	}()
	<-entered

	// A second caller joins the in-flight entry but gives up waiting.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Resolve(ctx, f)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release <- struct{}{}
	<-primaryDone
}

func TestPageHasNext(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want bool
	}{
		{"cursor below total", Page{NextCursor: "48", Total: 57}, true},
		{"cursor at total", Page{NextCursor: "57", Total: 57}, false},
		{"cursor beyond total", Page{NextCursor: "120", Total: 57}, false},
		{"no cursor", Page{Total: 57}, false},
		{"opaque cursor is trusted", Page{NextCursor: "abc", Total: 57}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.HasNext())
		})
	}
}
