// SPDX-License-Identifier: MIT
// Package matrix - AdjacencyMatrix container and read accessors.
//
// Invariants:
//   - Size() == len(Activities()); cells has Size()² entries, row-major.
//   - Diagonal cells are the zero Cell (no relation, no evidence).
//   - A matrix is never mutated after construction.

package matrix

import (
	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// Cell is the content of one (from, to) position.
type Cell struct {
	Relation    dependency.Relation
	Temporal    dependency.Evidence
	Existential dependency.Evidence
}

// Thresholds records the thresholds a matrix was discovered with.
type Thresholds struct {
	Temporal    float64 `json:"temporal" yaml:"temporal"`
	Existential float64 `json:"existential" yaml:"existential"`
}

// AdjacencyMatrix is the activity × activity relation table.
// index maps a label to its row/column; activities is the reverse lookup.
type AdjacencyMatrix struct {
	index      map[eventlog.Activity]int
	activities []eventlog.Activity
	cells      []Cell
	thresholds *Thresholds // nil for hand-built matrices (ground truth)
}

// newAdjacency allocates an n×n matrix over activities (assumed distinct).
func newAdjacency(activities []eventlog.Activity) *AdjacencyMatrix {
	n := len(activities)
	am := &AdjacencyMatrix{
		index:      make(map[eventlog.Activity]int, n),
		activities: make([]eventlog.Activity, n),
		cells:      make([]Cell, n*n),
	}
	copy(am.activities, activities)
	for i, a := range activities {
		am.index[a] = i
	}

	return am
}

// Size returns the number of activities (rows == cols).
func (am *AdjacencyMatrix) Size() int {
	if am == nil {
		return 0
	}

	return len(am.activities)
}

// Index returns the row/column of a, or false when a is not in the matrix.
func (am *AdjacencyMatrix) Index(a eventlog.Activity) (int, bool) {
	if am == nil {
		return 0, false
	}
	i, ok := am.index[a]

	return i, ok
}

// Activities returns a copy of the row/column labels in index order.
func (am *AdjacencyMatrix) Activities() []eventlog.Activity {
	out := make([]eventlog.Activity, am.Size())
	if am != nil {
		copy(out, am.activities)
	}

	return out
}

// Thresholds returns the discovery thresholds, or false for matrices that
// were not produced by Discover.
func (am *AdjacencyMatrix) Thresholds() (Thresholds, bool) {
	if am == nil || am.thresholds == nil {
		return Thresholds{}, false
	}

	return *am.thresholds, true
}

// At returns the cell at (i, j).
// Errors: ErrNilMatrix, ErrOutOfRange.
// Complexity: O(1).
func (am *AdjacencyMatrix) At(i, j int) (Cell, error) {
	if am == nil {
		return Cell{}, ErrNilMatrix
	}
	n := len(am.activities)
	if i < 0 || i >= n || j < 0 || j >= n {
		return Cell{}, matrixErrorf("At", ErrOutOfRange)
	}

	return am.cells[i*n+j], nil
}

// Cell returns the cell for the ordered pair (from, to).
// Errors: ErrNilMatrix, ErrUnknownActivity.
func (am *AdjacencyMatrix) Cell(from, to eventlog.Activity) (Cell, error) {
	if am == nil {
		return Cell{}, ErrNilMatrix
	}
	i, ok := am.index[from]
	if !ok {
		return Cell{}, matrixErrorf("Cell: "+from, ErrUnknownActivity)
	}
	j, ok := am.index[to]
	if !ok {
		return Cell{}, matrixErrorf("Cell: "+to, ErrUnknownActivity)
	}

	return am.cells[i*len(am.activities)+j], nil
}

// Relation returns only the relation of (from, to).
func (am *AdjacencyMatrix) Relation(from, to eventlog.Activity) (dependency.Relation, error) {
	c, err := am.Cell(from, to)

	return c.Relation, err
}

// Pair is one off-diagonal entry in row-major order.
type Pair struct {
	From     eventlog.Activity
	To       eventlog.Activity
	Relation dependency.Relation
}

// Pairs lists all off-diagonal ordered pairs in row-major order.
// Complexity: O(n²).
func (am *AdjacencyMatrix) Pairs() []Pair {
	n := am.Size()
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			out = append(out, Pair{
				From:     am.activities[i],
				To:       am.activities[j],
				Relation: am.cells[i*n+j].Relation,
			})
		}
	}

	return out
}

// SameAlphabet reports whether am and other share labels in the same order.
func (am *AdjacencyMatrix) SameAlphabet(other *AdjacencyMatrix) bool {
	if am.Size() != other.Size() {
		return false
	}
	for i := 0; i < am.Size(); i++ {
		if am.activities[i] != other.activities[i] {
			return false
		}
	}

	return true
}

// FromRelations builds a matrix by hand, e.g. a ground truth. Pairs absent
// from rels hold no relation.
//
// Errors:
//   - ErrDuplicateActivity when activities repeats a label.
//   - ErrUnknownActivity when rels names a label outside activities.
//   - ErrDiagonalRelation when rels assigns a relation to (a, a).
//
// Complexity: O(n² + len(rels)).
func FromRelations(activities []eventlog.Activity, rels map[[2]eventlog.Activity]dependency.Relation) (*AdjacencyMatrix, error) {
	seen := make(map[eventlog.Activity]struct{}, len(activities))
	for _, a := range activities {
		if a == "" {
			return nil, matrixErrorf("FromRelations", eventlog.ErrEmptyActivity)
		}
		if _, dup := seen[a]; dup {
			return nil, matrixErrorf("FromRelations: "+a, ErrDuplicateActivity)
		}
		seen[a] = struct{}{}
	}

	am := newAdjacency(activities)
	n := len(activities)
	for pair, rel := range rels {
		i, ok := am.index[pair[0]]
		if !ok {
			return nil, matrixErrorf("FromRelations: "+pair[0], ErrUnknownActivity)
		}
		j, ok := am.index[pair[1]]
		if !ok {
			return nil, matrixErrorf("FromRelations: "+pair[1], ErrUnknownActivity)
		}
		if i == j {
			if rel.IsNone() {
				continue
			}
			return nil, matrixErrorf("FromRelations: "+pair[0], ErrDiagonalRelation)
		}
		am.cells[i*n+j].Relation = rel
	}

	return am, nil
}
