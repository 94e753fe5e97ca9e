package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// breedsCmd lists the catalog's breed reference data.
var breedsCmd = &cobra.Command{
	Use:   "breeds",
	Short: "List all available dog breeds",
	RunE:  runBreeds,
}

func runBreeds(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.ensureSession(cmd.Context()); err != nil {
		return err
	}

	breeds, err := s.search.Breeds(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch breeds: %w", err)
	}

	for _, breed := range breeds {
		fmt.Println(breed)
	}
	return nil
}
