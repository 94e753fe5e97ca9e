package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"woofinder/internal/catalog"
)

var (
	locationsCity   string
	locationsStates []string
)

// locationsCmd looks up shelter locations, either by zip codes given as
// arguments or by a city/state search.
var locationsCmd = &cobra.Command{
	Use:   "locations [zip...]",
	Short: "Look up shelter locations",
	Long: `With zip code arguments, resolves each zip to its location. Without
arguments, searches locations by city and state.

Examples:
  woof locations 60601 94107
  woof locations --city Chicago --states IL`,
	RunE: runLocations,
}

func init() {
	locationsCmd.Flags().StringVar(&locationsCity, "city", "", "city to search for")
	locationsCmd.Flags().StringSliceVar(&locationsStates, "states", nil, "two-letter state codes")
}

func runLocations(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.ensureSession(cmd.Context()); err != nil {
		return err
	}

	if len(args) > 0 {
		locations, err := s.catalog.Locations(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("location lookup failed: %w", err)
		}
		for i, loc := range locations {
			if loc == nil {
				fmt.Printf("%s: not found\n", args[i])
				continue
			}
			printLocation(loc)
		}
		return nil
	}

	if locationsCity == "" && len(locationsStates) == 0 {
		return fmt.Errorf("give zip codes as arguments or use --city/--states")
	}

	page, err := s.catalog.SearchLocations(cmd.Context(), catalog.LocationQuery{
		City:   locationsCity,
		States: locationsStates,
	})
	if err != nil {
		return fmt.Errorf("location search failed: %w", err)
	}

	fmt.Printf("%d locations total\n\n", page.Total)
	for _, loc := range page.Results {
		if loc != nil {
			printLocation(loc)
		}
	}
	return nil
}

func printLocation(loc *catalog.Location) {
	fmt.Printf("%s  %s, %s (%s county)  %.4f,%.4f\n",
		loc.ZipCode, loc.City, loc.State, loc.County, loc.Latitude, loc.Longitude)
}
