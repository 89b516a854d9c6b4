package rules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/solatis/prodrules/internal/types"
)

// DefaultWorkers bounds batch concurrency when the caller passes workers <= 0.
const DefaultWorkers = 4

// ApplyBatch applies rules to every product and returns the transformed
// products in input order.
//
// Inputs are cloned before evaluation, so each goroutine exclusively owns the
// product it works on and the caller's products are left untouched. Rules
// within one product are still applied sequentially. Returns ctx.Err() if the
// context is cancelled before all products are processed.
func (r *Registry) ApplyBatch(ctx context.Context, products []*types.Product, workers int) ([]*types.Product, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	for i, p := range products {
		if p == nil {
			return nil, fmt.Errorf("product %d: nil product", i)
		}
	}

	out := make([]*types.Product, len(products))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.ApplyRules(p.Clone())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
