package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"woofinder/internal/match"
)

var matchAgain bool

// matchCmd asks the service to pick a match from the favorited dogs.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Let the service pick your match from your favorites",
	Long: `Submits your favorited dogs and prints the one the service picked.
The result is cached until your favorites change; use --again to re-roll.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchAgain, "again", false, "ask for a fresh pick even if favorites are unchanged")
}

func runMatch(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.ensureSession(cmd.Context()); err != nil {
		return err
	}

	if len(s.store.Favorites()) == 0 {
		fmt.Println("No favorites yet. Favorite some dogs first: woof favorites add ID...")
		return nil
	}

	var result *match.Result
	if matchAgain {
		result, err = s.match.Reroll(cmd.Context())
	} else {
		result, err = s.match.Current(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if s.match.TakeCelebration() {
		fmt.Println("🎉 We found a match!")
	}

	dog := result.Dog
	where := dog.ZipCode
	if loc := result.Location; loc != nil {
		where = fmt.Sprintf("%s, %s %s", loc.City, loc.State, loc.ZipCode)
	}
	fmt.Printf("%s — %s, %d yr, %s\n", dog.Name, dog.Breed, dog.Age, where)
	return nil
}
