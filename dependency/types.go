// SPDX-License-Identifier: MIT

package dependency

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for dependency checks.
var (
	// ErrInvalidThreshold indicates a threshold outside [0, 1] or NaN.
	ErrInvalidThreshold = errors.New("dependency: threshold must be within [0, 1]")

	// ErrUnknownTag indicates an unrecognised relation tag.
	ErrUnknownTag = errors.New("dependency: unknown relation tag")

	// ErrNilIndex indicates a nil *eventlog.Index was passed to a checker.
	ErrNilIndex = errors.New("dependency: index is nil")
)

// ValidateThreshold rejects thresholds outside [0, 1]. Values are never clamped.
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}

	return nil
}

// Kind names one of the two relation dimensions.
type Kind uint8

const (
	// Temporal is the eventually-follows relation a → b.
	Temporal Kind = iota
	// Existential is the occurrence implication a ⇒ b.
	Existential
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Temporal:
		return "temporal"
	case Existential:
		return "existential"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Tag is the compact interchange form of a Relation.
type Tag string

// Relation tags.
const (
	TagNone        Tag = "none"
	TagTemporal    Tag = "temporal"
	TagExistential Tag = "existential"
	TagBoth        Tag = "both"
)

// Relation is the discovered fact for an ordered pair (a, b).
type Relation struct {
	Temporal    bool
	Existential bool
}

// Has reports whether the relation of kind k holds.
func (r Relation) Has(k Kind) bool {
	if k == Temporal {
		return r.Temporal
	}

	return r.Existential
}

// IsNone reports whether neither relation holds.
func (r Relation) IsNone() bool { return !r.Temporal && !r.Existential }

// Tag returns the interchange tag of r.
func (r Relation) Tag() Tag {
	switch {
	case r.Temporal && r.Existential:
		return TagBoth
	case r.Temporal:
		return TagTemporal
	case r.Existential:
		return TagExistential
	default:
		return TagNone
	}
}

// String renders r the way the text grid shows cells:
// "T,E", "T,-", "-,E" or "None".
func (r Relation) String() string {
	switch r.Tag() {
	case TagBoth:
		return "T,E"
	case TagTemporal:
		return "T,-"
	case TagExistential:
		return "-,E"
	default:
		return "None"
	}
}

// ParseTag converts a tag back into a Relation. The empty string and "-"
// are accepted as none.
func ParseTag(s string) (Relation, error) {
	switch Tag(s) {
	case TagNone, "", "-":
		return Relation{}, nil
	case TagTemporal:
		return Relation{Temporal: true}, nil
	case TagExistential:
		return Relation{Existential: true}, nil
	case TagBoth:
		return Relation{Temporal: true, Existential: true}, nil
	default:
		return Relation{}, fmt.Errorf("%w: %q", ErrUnknownTag, s)
	}
}

// Evidence is the outcome of one check on one ordered pair.
type Evidence struct {
	// Qualifying is the number of traces containing the antecedent.
	Qualifying int `json:"qualifying" yaml:"qualifying"`
	// Satisfied is the number of qualifying traces supporting the relation.
	Satisfied int `json:"satisfied" yaml:"satisfied"`
	// Score is Satisfied/Qualifying, or 0 without evidence.
	Score float64 `json:"score" yaml:"score"`
	// Holds reports whether Score met the threshold with at least one qualifying trace.
	Holds bool `json:"holds" yaml:"holds"`
}

// decide fills Score/Holds from the counts.
func decide(qualifying, satisfied int, threshold float64) Evidence {
	ev := Evidence{Qualifying: qualifying, Satisfied: satisfied}
	if qualifying == 0 {
		return ev
	}
	ev.Score = float64(satisfied) / float64(qualifying)
	ev.Holds = ev.Score >= threshold

	return ev
}
