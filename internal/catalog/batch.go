package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchBatched splits items into MaxBatchSize chunks, fetches them
// concurrently and reassembles the results in the original item order.
func fetchBatched[T any](ctx context.Context, items []string, fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	if len(items) == 0 {
		return []T{}, nil
	}

	chunks := chunk(items, MaxBatchSize)
	results := make([][]T, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for i, batch := range chunks {
		g.Go(func() error {
			out, err := fetch(ctx, batch)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make([]T, 0, len(items))
	for _, part := range results {
		combined = append(combined, part...)
	}
	return combined, nil
}

func chunk(items []string, size int) [][]string {
	var chunks [][]string
	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	return append(chunks, items)
}
