package search

import (
	"net/url"
	"strconv"
)

// Filters is the authoritative description of the active search. It is
// encodable to and decodable from a query string so a shared or reloaded
// search reproduces the same view.
//
// The cursor (From) and the other fields are independent parts of the same
// value, with one coupling rule: changing any non-cursor field clears the
// cursor in the same transition, so a stale cursor is never sent against
// new filters. Use the With* methods; they encode that rule.
type Filters struct {
	Breeds []string
	Sort   string
	AgeMin *int
	AgeMax *int
	From   string
}

// WithBreeds returns a copy with the breed list replaced and the cursor reset.
func (f Filters) WithBreeds(breeds []string) Filters {
	f.Breeds = append([]string(nil), breeds...)
	f.From = ""
	return f
}

// WithSort returns a copy with the sort replaced and the cursor reset.
func (f Filters) WithSort(sort string) Filters {
	f.Sort = sort
	f.From = ""
	return f
}

// WithAgeRange returns a copy with the age bounds replaced and the cursor
// reset. nil leaves a bound unconstrained.
func (f Filters) WithAgeRange(ageMin, ageMax *int) Filters {
	f.AgeMin = ageMin
	f.AgeMax = ageMax
	f.From = ""
	return f
}

// WithCursor returns a copy with only the pagination cursor replaced.
func (f Filters) WithCursor(from string) Filters {
	f.From = from
	return f
}

// Encode serializes the filters as query values.
func (f Filters) Encode() url.Values {
	values := url.Values{}
	for _, breed := range f.Breeds {
		values.Add("breeds", breed)
	}
	if f.Sort != "" {
		values.Set("sort", f.Sort)
	}
	if f.AgeMin != nil {
		values.Set("ageMin", strconv.Itoa(*f.AgeMin))
	}
	if f.AgeMax != nil {
		values.Set("ageMax", strconv.Itoa(*f.AgeMax))
	}
	if f.From != "" {
		values.Set("from", f.From)
	}
	return values
}

// DecodeFilters restores filters from query values. Unparseable age bounds
// are dropped rather than failing the whole navigation.
func DecodeFilters(values url.Values) Filters {
	f := Filters{
		Sort: values.Get("sort"),
		From: values.Get("from"),
	}
	if breeds, ok := values["breeds"]; ok {
		f.Breeds = append([]string(nil), breeds...)
	}
	if n, err := strconv.Atoi(values.Get("ageMin")); err == nil {
		f.AgeMin = &n
	}
	if n, err := strconv.Atoi(values.Get("ageMax")); err == nil {
		f.AgeMax = &n
	}
	return f
}

// Key is the canonical cache key for the exact filter/cursor tuple.
func (f Filters) Key() string {
	return f.Encode().Encode()
}
