// SPDX-License-Identifier: MIT
// File: codec.go
// Role: pair-keyed interchange form of an AdjacencyMatrix (JSON and YAML).
// Format:
//   activities: [a, b, c]
//   relations:  {"a,b": both, "a,c": none, ...}   (every off-diagonal pair)
//   thresholds: {temporal: 0.9, existential: 1}    (discovered matrices only)
// Labels containing ',' or '\' are escaped inside keys ("a\,b,c" is the pair
// ("a,b", "c")), so every ordered pair has its own key.
// Decoding treats an absent pair as none.

package matrix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
)

// pairSep joins the two labels of an ordered pair key.
const pairSep = ","

var labelEscaper = strings.NewReplacer(`\`, `\\`, pairSep, `\`+pairSep)

// PairKey returns the interchange key of the ordered pair (from, to).
// Separators and backslashes inside labels are backslash-escaped.
func PairKey(from, to eventlog.Activity) string {
	return labelEscaper.Replace(from) + pairSep + labelEscaper.Replace(to)
}

// PairEvidence carries both checker outcomes of one pair.
type PairEvidence struct {
	Temporal    dependency.Evidence `json:"temporal" yaml:"temporal"`
	Existential dependency.Evidence `json:"existential" yaml:"existential"`
}

// Document is the serialisable form of a matrix.
type Document struct {
	Activities []eventlog.Activity       `json:"activities" yaml:"activities"`
	Relations  map[string]dependency.Tag `json:"relations" yaml:"relations"`
	Thresholds *Thresholds               `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Evidence   map[string]PairEvidence   `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Document converts am into its interchange form. withEvidence adds the
// per-pair checker counts.
// Complexity: O(n²).
func (am *AdjacencyMatrix) Document(withEvidence bool) Document {
	doc := Document{
		Activities: am.Activities(),
		Relations:  make(map[string]dependency.Tag, am.Size()*am.Size()),
	}
	if th, ok := am.Thresholds(); ok {
		doc.Thresholds = &th
	}
	if withEvidence {
		doc.Evidence = make(map[string]PairEvidence, am.Size()*am.Size())
	}
	n := am.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			key := PairKey(am.activities[i], am.activities[j])
			c := am.cells[i*n+j]
			doc.Relations[key] = c.Relation.Tag()
			if withEvidence {
				doc.Evidence[key] = PairEvidence{Temporal: c.Temporal, Existential: c.Existential}
			}
		}
	}

	return doc
}

// FromDocument rebuilds a matrix from doc. Evidence, when present, is
// restored into the cells.
//
// Errors: ErrBadPairKey, dependency.ErrUnknownTag, plus FromRelations errors.
func FromDocument(doc Document) (*AdjacencyMatrix, error) {
	known := make(map[eventlog.Activity]struct{}, len(doc.Activities))
	for _, a := range doc.Activities {
		known[a] = struct{}{}
	}

	rels := make(map[[2]eventlog.Activity]dependency.Relation, len(doc.Relations))
	for key, tag := range doc.Relations {
		pair, err := SplitPairKey(key, known)
		if err != nil {
			return nil, err
		}
		rel, err := dependency.ParseTag(string(tag))
		if err != nil {
			return nil, fmt.Errorf("matrix: pair %q: %w", key, err)
		}
		rels[pair] = rel
	}

	am, err := FromRelations(doc.Activities, rels)
	if err != nil {
		return nil, err
	}
	if doc.Thresholds != nil {
		th := *doc.Thresholds
		am.thresholds = &th
	}
	n := am.Size()
	for key, ev := range doc.Evidence {
		pair, err := SplitPairKey(key, known)
		if err != nil {
			return nil, err
		}
		i, j := am.index[pair[0]], am.index[pair[1]]
		if i == j {
			continue
		}
		am.cells[i*n+j].Temporal = ev.Temporal
		am.cells[i*n+j].Existential = ev.Existential
	}

	return am, nil
}

// SplitPairKey splits a key produced by PairKey into its two labels. When
// known is non-nil both labels must belong to it.
//
// Hand-written keys may leave commas inside labels unescaped ("x,y,z"); such
// a key is resolved against known by trying every split point, and exactly
// one must produce two known labels.
//
// Errors: ErrBadPairKey.
func SplitPairKey(key string, known map[eventlog.Activity]struct{}) ([2]eventlog.Activity, error) {
	parts, escaped, ok := splitEscaped(key)
	if !ok {
		return [2]eventlog.Activity{}, fmt.Errorf("%w: %q", ErrBadPairKey, key)
	}
	if len(parts) != 2 && !escaped && known != nil {
		return resolveUnescaped(key, known)
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return [2]eventlog.Activity{}, fmt.Errorf("%w: %q", ErrBadPairKey, key)
	}
	pair := [2]eventlog.Activity{parts[0], parts[1]}
	if known != nil {
		for _, a := range pair {
			if _, ok := known[a]; !ok {
				return [2]eventlog.Activity{}, fmt.Errorf("%w: %q: unknown activity %q", ErrBadPairKey, key, a)
			}
		}
	}

	return pair, nil
}

// splitEscaped cuts key at unescaped separators and unescapes the parts.
// escaped reports whether any escape was seen; ok is false for a dangling
// or unknown escape.
func splitEscaped(key string) (parts []string, escaped, ok bool) {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '\\':
			if i+1 == len(key) || (key[i+1] != '\\' && key[i+1] != pairSep[0]) {
				return nil, true, false
			}
			i++
			b.WriteByte(key[i])
			escaped = true
		case pairSep[0]:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}

	return append(parts, b.String()), escaped, true
}

func resolveUnescaped(key string, known map[eventlog.Activity]struct{}) ([2]eventlog.Activity, error) {
	var (
		found [2]eventlog.Activity
		hits  int
	)
	for i := 0; i < len(key); i++ {
		if key[i] != pairSep[0] {
			continue
		}
		from, to := key[:i], key[i+1:]
		_, okFrom := known[from]
		_, okTo := known[to]
		if okFrom && okTo {
			found = [2]eventlog.Activity{from, to}
			hits++
		}
	}
	if hits != 1 {
		return [2]eventlog.Activity{}, fmt.Errorf("%w: %q", ErrBadPairKey, key)
	}

	return found, nil
}

// MarshalJSON implements json.Marshaler (relations only, no evidence).
func (am *AdjacencyMatrix) MarshalJSON() ([]byte, error) {
	if am == nil {
		return []byte("null"), nil
	}

	return json.Marshal(am.Document(false))
}

// UnmarshalJSON implements json.Unmarshaler.
func (am *AdjacencyMatrix) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("matrix: decode json: %w", err)
	}
	out, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*am = *out

	return nil
}

// EncodeYAML renders the matrix document as YAML.
func (am *AdjacencyMatrix) EncodeYAML(withEvidence bool) ([]byte, error) {
	if am == nil {
		return nil, ErrNilMatrix
	}
	out, err := yaml.Marshal(am.Document(withEvidence))
	if err != nil {
		return nil, fmt.Errorf("matrix: encode yaml: %w", err)
	}

	return out, nil
}

// DecodeYAML parses a YAML matrix document.
func DecodeYAML(data []byte) (*AdjacencyMatrix, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("matrix: decode yaml: %w", err)
	}

	return FromDocument(doc)
}
