// SPDX-License-Identifier: MIT

package evaluation

import "errors"

var (
	// ErrNilMatrix indicates a nil discovered or ground-truth matrix.
	ErrNilMatrix = errors.New("evaluation: nil matrix")

	// ErrShapeMismatch indicates matrices over different alphabets or orders.
	ErrShapeMismatch = errors.New("evaluation: matrices differ in alphabet")

	// ErrBadGroundTruth indicates an unparseable ground-truth source.
	ErrBadGroundTruth = errors.New("evaluation: malformed ground truth")
)
