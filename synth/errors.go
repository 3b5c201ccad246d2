// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFew indicates a count parameter (traces, activities) below its minimum.
	ErrTooFew = errors.New("synth: parameter too small")

	// ErrInvalidProbability indicates a probability outside [0, 1].
	ErrInvalidProbability = errors.New("synth: probability out of range")

	// ErrNeedRandSource indicates a stochastic generator ran without an RNG.
	ErrNeedRandSource = errors.New("synth: rng is required")

	// ErrConstructFailed indicates a nil generator or an otherwise impossible request.
	ErrConstructFailed = errors.New("synth: construction failed")
)

// synthErrorf prefixes err with the generator name.
func synthErrorf(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}
