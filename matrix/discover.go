// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Discover builds the dependency matrix of log. It is DiscoverContext with a
// background context.
func Discover(log *eventlog.Log, temporalThreshold, existentialThreshold float64, opts ...Option) (*AdjacencyMatrix, error) {
	return DiscoverContext(context.Background(), log, temporalThreshold, existentialThreshold, opts...)
}

// DiscoverContext builds the dependency matrix of log.
//
// Implementation:
//   - Stage 1: validate both thresholds (nothing is computed on failure).
//   - Stage 2: BuildIndex validates the log and fixes the alphabet order.
//   - Stage 3: fan out one task per row over an errgroup bounded by workers;
//     each task fills its own row, skipping the diagonal.
//   - Stage 4: wait; the first error (or ctx cancellation) aborts the run.
//
// Errors:
//   - dependency.ErrInvalidThreshold (wrapped with the threshold name).
//   - eventlog.ErrEmptyActivity for malformed logs.
//   - ctx.Err() when the caller abandons the run.
//
// Complexity: see package doc.
func DiscoverContext(ctx context.Context, log *eventlog.Log, temporalThreshold, existentialThreshold float64, opts ...Option) (*AdjacencyMatrix, error) {
	if err := dependency.ValidateThreshold(temporalThreshold); err != nil {
		return nil, fmt.Errorf("temporal threshold: %w", err)
	}
	if err := dependency.ValidateThreshold(existentialThreshold); err != nil {
		return nil, fmt.Errorf("existential threshold: %w", err)
	}
	o := NewOptions(opts...)

	ix, err := eventlog.BuildIndex(log)
	if err != nil {
		return nil, matrixErrorf("Discover", err)
	}

	am := newAdjacency(ix.Alphabet())
	am.thresholds = &Thresholds{Temporal: temporalThreshold, Existential: existentialThreshold}
	n := am.Size()
	checkOpts := []dependency.Option{dependency.WithGranularity(o.granularity)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < n; i++ {
		row := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			from := am.activities[row]
			for j := 0; j < n; j++ {
				if j == row {
					continue // self-pairs are never evaluated
				}
				rel, te, ee, err := dependency.Check(ix, from, am.activities[j], temporalThreshold, existentialThreshold, checkOpts...)
				if err != nil {
					return err
				}
				am.cells[row*n+j] = Cell{Relation: rel, Temporal: te, Existential: ee}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return am, nil
}
