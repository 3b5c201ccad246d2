// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Every message is prefixed with "matrix: ..." so log lines are easy to grep.
// Callers match with errors.Is; call sites wrap with matrixErrorf for context.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates a nil *AdjacencyMatrix receiver or argument.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrOutOfRange indicates a row or column index outside [0, Size()).
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrUnknownActivity indicates a label that is not part of the matrix alphabet.
	ErrUnknownActivity = errors.New("matrix: unknown activity")

	// ErrDuplicateActivity indicates an alphabet listing the same label twice.
	ErrDuplicateActivity = errors.New("matrix: duplicate activity")

	// ErrDiagonalRelation indicates a relation was assigned to a self-pair (a, a).
	ErrDiagonalRelation = errors.New("matrix: self-pairs cannot hold a relation")

	// ErrBadPairKey indicates a pair key that does not split into two known activities.
	ErrBadPairKey = errors.New("matrix: malformed pair key")

	// ErrTemporalCycle indicates temporal relations that admit no linear order.
	ErrTemporalCycle = errors.New("matrix: temporal relations form a cycle")
)

// matrixErrorf tags err with the failing operation.
func matrixErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
