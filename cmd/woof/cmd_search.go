package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"woofinder/internal/search"
)

var (
	searchQuery  string
	searchBreeds []string
	searchSort   string
	searchAgeMin int
	searchAgeMax int
	searchFrom   string
	searchJSON   bool
)

// searchCmd runs a filtered catalog search and prints one page of dogs.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search adoptable dogs",
	Long: `Searches the catalog with the given filters and prints one page of
results, each dog joined with its shelter location.

--query takes a full encoded filter string, as printed in the next-page
hint or shared from another invocation; explicit flags override its fields.

Examples:
  woof search --breeds Pug --breeds Beagle --age-max 5 --sort breed:desc
  woof search --query 'breeds=Pug&breeds=Beagle&ageMax=5&from=24'`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "encoded filter string from a shared or paginated search")
	searchCmd.Flags().StringArrayVar(&searchBreeds, "breeds", nil, "breed filter (repeatable)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order, e.g. breed:asc or breed:desc")
	searchCmd.Flags().IntVar(&searchAgeMin, "age-min", -1, "minimum age in years")
	searchCmd.Flags().IntVar(&searchAgeMax, "age-max", -1, "maximum age in years")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "pagination cursor from a previous page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the page as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.ensureSession(cmd.Context()); err != nil {
		return err
	}

	filters, err := buildSearchFilters(searchQuery)
	if err != nil {
		return err
	}

	page, err := s.search.Resolve(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	printPage(s, page)
	return nil
}

// buildSearchFilters restores filters from an encoded query string, then
// applies the explicit flags on top. A bare cursor flag keeps whatever
// filters the query carried, so paging never changes the search.
func buildSearchFilters(query string) (search.Filters, error) {
	var filters search.Filters
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return search.Filters{}, fmt.Errorf("invalid --query string: %w", err)
		}
		filters = search.DecodeFilters(values)
	}

	if len(searchBreeds) > 0 {
		filters = filters.WithBreeds(searchBreeds)
	}
	if searchSort != "" {
		filters = filters.WithSort(searchSort)
	}
	var ageMin, ageMax *int
	if searchAgeMin >= 0 {
		ageMin = &searchAgeMin
	}
	if searchAgeMax >= 0 {
		ageMax = &searchAgeMax
	}
	if ageMin != nil || ageMax != nil {
		filters = filters.WithAgeRange(ageMin, ageMax)
	}
	if searchFrom != "" {
		filters = filters.WithCursor(searchFrom)
	}
	return filters, nil
}

func printPage(s *session, page *search.Page) {
	fmt.Printf("%d dogs total\n\n", page.Total)

	for _, dog := range page.Dogs {
		heart := " "
		if s.store.IsFavorite(dog.ID) {
			heart = "♥"
		}
		where := dog.ZipCode
		if loc := page.LocationFor(dog.ZipCode); loc != nil {
			where = fmt.Sprintf("%s, %s %s", loc.City, loc.State, loc.ZipCode)
		}
		fmt.Printf("%s %-12s %-30s %2d yr  %s  (%s)\n",
			heart, dog.Name, dog.Breed, dog.Age, where, dog.ID)
	}

	if hint := nextPageHint(page); hint != "" {
		fmt.Printf("\nNext page: %s\n", hint)
	}
}

// nextPageHint builds the command reproducing this search's next page: the
// cursor alone is meaningless, so the hint carries the full filter string.
func nextPageHint(page *search.Page) string {
	if !page.HasNext() {
		return ""
	}
	next := page.Filters.WithCursor(page.NextCursor)
	return fmt.Sprintf("woof search --query '%s'", next.Encode().Encode())
}
