package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// favoritesCmd manages the persisted favorites set.
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorited dogs",
	RunE:  runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorited dog IDs",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add ID...",
	Short: "Add dogs to your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove ID...",
	Short: "Remove dogs from your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFavoritesRemove,
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all favorites",
	RunE:  runFavoritesClear,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	favorites := s.store.Favorites()
	if len(favorites) == 0 {
		fmt.Println("No favorites yet.")
		return nil
	}
	for _, id := range favorites {
		fmt.Println(id)
	}
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	for _, id := range args {
		s.store.AddFavorite(id)
	}
	fmt.Printf("%d favorited\n", len(s.store.Favorites()))
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	for _, id := range args {
		s.store.RemoveFavorite(id)
	}
	fmt.Printf("%d favorited\n", len(s.store.Favorites()))
	return nil
}

func runFavoritesClear(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	s.store.ClearFavorites()
	fmt.Println("Favorites cleared.")
	return nil
}
