// SPDX-License-Identifier: MIT

package matrix

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// DFS colours.
const (
	white = iota // not visited
	gray         // on the current path
	black        // fully explored
)

// orderer holds the state of one TemporalOrder traversal.
type orderer struct {
	ctx   context.Context
	am    *AdjacencyMatrix
	state []int
	path  []int
	order []int
}

// TemporalOrder lists the activities so that every temporal dependency
// (a, b) puts a before b. Roots and successors are explored in reverse
// alphabet order, so activities with no path between them keep their
// alphabet order in the result.
//
// Errors:
//   - ErrNilMatrix.
//   - ErrTemporalCycle when the temporal relations loop; the message names
//     the first cycle met, e.g. "a -> b -> a".
//   - ctx.Err() on cancellation.
//
// Complexity: O(n²) time, O(n) memory.
func (am *AdjacencyMatrix) TemporalOrder(ctx context.Context) ([]eventlog.Activity, error) {
	if am == nil {
		return nil, ErrNilMatrix
	}
	n := am.Size()
	o := &orderer{
		ctx:   ctx,
		am:    am,
		state: make([]int, n),
		path:  make([]int, 0, n),
		order: make([]int, 0, n),
	}
	for i := n - 1; i >= 0; i-- {
		if o.state[i] != white {
			continue
		}
		if err := o.visit(i); err != nil {
			return nil, err
		}
	}

	out := make([]eventlog.Activity, n)
	for k, i := range o.order {
		out[n-1-k] = am.activities[i]
	}

	return out, nil
}

func (o *orderer) visit(i int) error {
	if err := o.ctx.Err(); err != nil {
		return err
	}
	o.state[i] = gray
	o.path = append(o.path, i)

	n := o.am.Size()
	for j := n - 1; j >= 0; j-- {
		if j == i || !o.am.cells[i*n+j].Relation.Temporal {
			continue
		}
		switch o.state[j] {
		case white:
			if err := o.visit(j); err != nil {
				return err
			}
		case gray:
			return o.cycle(j)
		}
	}

	o.path = o.path[:len(o.path)-1]
	o.state[i] = black
	o.order = append(o.order, i)

	return nil
}

// cycle reports the path segment from the back-edge target to the top.
func (o *orderer) cycle(back int) error {
	start := 0
	for k, v := range o.path {
		if v == back {
			start = k
			break
		}
	}
	names := make([]string, 0, len(o.path)-start+1)
	for _, v := range o.path[start:] {
		names = append(names, o.am.activities[v])
	}
	names = append(names, o.am.activities[back])

	return fmt.Errorf("%w: %s", ErrTemporalCycle, strings.Join(names, " -> "))
}
