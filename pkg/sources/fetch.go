package sources

import (
	"context"
	"time"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"golang.org/x/sync/errgroup"
)

// FetchBoth retrieves the two sides of a reconciliation concurrently.
// Each fetch runs under its own timeout when one is given; a failure
// on either side cancels the sibling and surfaces as a FetchError
// naming the source. Joining must not start until both slices are
// returned.
func FetchBoth(ctx context.Context, a, b Source, window inventory.Window, timeout time.Duration) ([]normalize.Raw, []normalize.Raw, error) {
	var rawA, rawB []normalize.Raw

	g, gctx := errgroup.WithContext(ctx)
	g.Go(fetchInto(gctx, a, window, timeout, &rawA))
	g.Go(fetchInto(gctx, b, window, timeout, &rawB))
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rawA, rawB, nil
}

// fetchInto returns the errgroup task for one source. The destination
// slice is written only on success, before Wait returns.
func fetchInto(ctx context.Context, src Source, window inventory.Window, timeout time.Duration, out *[]normalize.Raw) func() error {
	return func() error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		rows, err := src.Fetch(ctx, window)
		if err != nil {
			if errors.IsFetchError(err) {
				return err
			}
			return errors.WrapFetch(src.ID().String(), err)
		}
		*out = rows
		return nil
	}
}
