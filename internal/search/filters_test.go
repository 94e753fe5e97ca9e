package search

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestFilterTransitions(t *testing.T) {
	base := Filters{
		Breeds: []string{"Boxer"},
		Sort:   "breed:asc",
		AgeMin: intPtr(1),
		AgeMax: intPtr(5),
		From:   "48",
	}

	t.Run("changing breeds resets the cursor", func(t *testing.T) {
		next := base.WithBreeds([]string{"Beagle"})
		assert.Empty(t, next.From)
		assert.Equal(t, []string{"Beagle"}, next.Breeds)
		assert.Equal(t, "breed:asc", next.Sort)
	})

	t.Run("changing sort resets the cursor", func(t *testing.T) {
		next := base.WithSort("breed:desc")
		assert.Empty(t, next.From)
		assert.Equal(t, "breed:desc", next.Sort)
	})

	t.Run("changing age bounds resets the cursor", func(t *testing.T) {
		next := base.WithAgeRange(intPtr(2), intPtr(8))
		assert.Empty(t, next.From)
		assert.Equal(t, 2, *next.AgeMin)
		assert.Equal(t, 8, *next.AgeMax)
	})

	t.Run("changing the cursor leaves everything else untouched", func(t *testing.T) {
		next := base.WithCursor("72")
		assert.Equal(t, "72", next.From)
		assert.Equal(t, base.Breeds, next.Breeds)
		assert.Equal(t, base.Sort, next.Sort)
		assert.Equal(t, base.AgeMin, next.AgeMin)
		assert.Equal(t, base.AgeMax, next.AgeMax)
	})

	t.Run("transitions do not mutate the receiver", func(t *testing.T) {
		_ = base.WithBreeds([]string{"Pug"})
		_ = base.WithCursor("")
		assert.Equal(t, []string{"Boxer"}, base.Breeds)
		assert.Equal(t, "48", base.From)
	})
}

func TestFilterCodec(t *testing.T) {
	t.Run("round trip preserves every field", func(t *testing.T) {
		f := Filters{
			Breeds: []string{"Boxer", "Great Dane"},
			Sort:   "breed:desc",
			AgeMin: intPtr(0),
			AgeMax: intPtr(12),
			From:   "24",
		}

		decoded := DecodeFilters(f.Encode())
		if diff := cmp.Diff(f, decoded); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("round trip of the empty value", func(t *testing.T) {
		decoded := DecodeFilters(Filters{}.Encode())
		if diff := cmp.Diff(Filters{}, decoded); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("decode survives a shared URL query", func(t *testing.T) {
		values, err := url.ParseQuery("breeds=Boxer&breeds=Beagle&sort=breed:asc&ageMin=1&ageMax=5&from=48")
		assert.NoError(t, err)

		f := DecodeFilters(values)
		assert.Equal(t, []string{"Boxer", "Beagle"}, f.Breeds)
		assert.Equal(t, "breed:asc", f.Sort)
		assert.Equal(t, 1, *f.AgeMin)
		assert.Equal(t, 5, *f.AgeMax)
		assert.Equal(t, "48", f.From)
	})

	t.Run("unparseable age bounds are dropped", func(t *testing.T) {
		values := url.Values{"ageMin": {"puppy"}}
		assert.Nil(t, DecodeFilters(values).AgeMin)
	})
}

func TestFilterKey(t *testing.T) {
	a := Filters{Breeds: []string{"Boxer"}, Sort: "breed:asc"}
	b := Filters{Breeds: []string{"Boxer"}, Sort: "breed:asc"}
	assert.Equal(t, a.Key(), b.Key())

	assert.NotEqual(t, a.Key(), a.WithSort("breed:desc").Key())
	assert.NotEqual(t, a.Key(), a.WithCursor("24").Key())
	assert.NotEqual(t, a.Key(), a.WithBreeds([]string{"Boxer", "Beagle"}).Key())
}
