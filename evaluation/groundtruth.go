// SPDX-License-Identifier: MIT
// File: groundtruth.go
// Role: hand-labelled expectations and their two on-disk formats.

package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/anonymoushlmnop/matrix-discovery/dependency"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// activitiesHeader introduces an explicit alphabet in the line format.
const activitiesHeader = "activities:"

// GroundTruth is a set of labelled ordered pairs plus an optional explicit
// alphabet. Activities named only in relations are added implicitly.
type GroundTruth struct {
	Activities []eventlog.Activity
	Relations  map[[2]eventlog.Activity]dependency.Relation
}

// Set labels the ordered pair (from, to).
func (g *GroundTruth) Set(from, to eventlog.Activity, rel dependency.Relation) {
	if g.Relations == nil {
		g.Relations = make(map[[2]eventlog.Activity]dependency.Relation)
	}
	g.Relations[[2]eventlog.Activity{from, to}] = rel
}

// merge ORs rel into the label of (from, to).
func (g *GroundTruth) merge(from, to eventlog.Activity, rel dependency.Relation) {
	cur := g.Relations[[2]eventlog.Activity{from, to}]
	cur.Temporal = cur.Temporal || rel.Temporal
	cur.Existential = cur.Existential || rel.Existential
	g.Set(from, to, cur)
}

// Alphabet returns the sorted union of the explicit alphabet, the labels in
// relations and extra.
func (g GroundTruth) Alphabet(extra ...eventlog.Activity) []eventlog.Activity {
	set := make(map[eventlog.Activity]struct{}, len(g.Activities)+len(extra))
	for _, a := range g.Activities {
		set[a] = struct{}{}
	}
	for pair := range g.Relations {
		set[pair[0]] = struct{}{}
		set[pair[1]] = struct{}{}
	}
	for _, a := range extra {
		set[a] = struct{}{}
	}
	out := make([]eventlog.Activity, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	slices.Sort(out)

	return out
}

// Matrix materialises the ground truth over Alphabet(extra...). Passing the
// discovered alphabet as extra makes both matrices evaluable even when the
// truth only labels a subset of the activities.
func (g GroundTruth) Matrix(extra ...eventlog.Activity) (*matrix.AdjacencyMatrix, error) {
	am, err := matrix.FromRelations(g.Alphabet(extra...), g.Relations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadGroundTruth, err)
	}

	return am, nil
}

// ParseLines reads the line format: "from,to:tag" per line, blank lines and
// lines starting with '#' ignored, optional "activities: a, b, c" header.
//
// The tag may also be given as dependency codes, "from,to:T,D X[,D]":
//
//	T  temporal type: d (direct), e (eventual) or -
//	D  direction: f labels (from, to), b labels (to, from), - drops the part
//	X  existential type: i (implication), e (equivalence), ne, n, o or -
//
// A missing existential direction means both. Equivalence always labels both
// cells. ne, n and o have no counterpart in the matrix and label nothing.
// Code lines OR into the cells they touch, so "a,b:d,f -" and "b,a:- i,b"
// together give (a, b) both.
//
// Errors: ErrBadGroundTruth (wrapped with the line number).
func ParseLines(r io.Reader) (GroundTruth, error) {
	var (
		gt     GroundTruth
		known  map[eventlog.Activity]struct{}
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, activitiesHeader); ok {
			for _, a := range strings.Split(rest, ",") {
				if a = strings.TrimSpace(a); a != "" {
					gt.Activities = append(gt.Activities, a)
				}
			}
			known = toSet(gt.Activities)
			continue
		}

		sep := strings.LastIndexByte(line, ':')
		if sep < 0 {
			return GroundTruth{}, fmt.Errorf("%w: line %d: missing ':tag'", ErrBadGroundTruth, lineNo)
		}
		pair, err := splitPair(strings.TrimSpace(line[:sep]), known)
		if err != nil {
			return GroundTruth{}, fmt.Errorf("%w: line %d: %w", ErrBadGroundTruth, lineNo, err)
		}
		tail := strings.TrimSpace(line[sep+1:])
		if rel, err := dependency.ParseTag(tail); err == nil {
			gt.Set(pair[0], pair[1], rel)
			continue
		}
		fwd, bwd, err := parseCodes(tail)
		if err != nil {
			return GroundTruth{}, fmt.Errorf("%w: line %d: %w", ErrBadGroundTruth, lineNo, err)
		}
		gt.merge(pair[0], pair[1], fwd)
		gt.merge(pair[1], pair[0], bwd)
	}
	if err := sc.Err(); err != nil {
		return GroundTruth{}, fmt.Errorf("evaluation: read ground truth: %w", err)
	}

	return gt, nil
}

// parseCodes decodes dependency codes into the labels of (from, to) and
// (to, from).
// Errors: dependency.ErrUnknownTag.
func parseCodes(codes string) (fwd, bwd dependency.Relation, err error) {
	f := strings.FieldsFunc(codes, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(f) < 3 || len(f) > 4 {
		return fwd, bwd, fmt.Errorf("%w: %q", dependency.ErrUnknownTag, codes)
	}
	bad := func(code string) error {
		return fmt.Errorf("%w: %q: code %q", dependency.ErrUnknownTag, codes, code)
	}

	switch f[0] {
	case "d", "e", "-":
	default:
		return fwd, bwd, bad(f[0])
	}
	switch f[1] {
	case "f":
		fwd.Temporal = f[0] != "-"
	case "b":
		bwd.Temporal = f[0] != "-"
	case "-":
	default:
		return fwd, bwd, bad(f[1])
	}

	dir := ""
	if len(f) == 4 {
		dir = f[3]
	}
	switch dir {
	case "f", "b", "-", "":
	default:
		return fwd, bwd, bad(dir)
	}
	switch f[2] {
	case "i":
		fwd.Existential = dir == "f" || dir == ""
		bwd.Existential = dir == "b" || dir == ""
	case "e":
		fwd.Existential = dir != "-"
		bwd.Existential = dir != "-"
	case "ne", "n", "o", "-":
	default:
		return fwd, bwd, bad(f[2])
	}

	return fwd, bwd, nil
}

// yamlTruth is the YAML layout; it mirrors matrix.Document without evidence.
type yamlTruth struct {
	Activities []eventlog.Activity `yaml:"activities"`
	Relations  map[string]string   `yaml:"relations"`
}

// ParseYAML reads a YAML ground truth:
//
//	activities: [a, b, c]
//	relations:
//	  "a,b": both
//	  "b,c": existential
//
// Errors: ErrBadGroundTruth.
func ParseYAML(data []byte) (GroundTruth, error) {
	var doc yamlTruth
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return GroundTruth{}, fmt.Errorf("%w: %w", ErrBadGroundTruth, err)
	}

	return FromPairs(doc.Activities, doc.Relations)
}

// FromPairs builds a ground truth from pair keys ("from,to") mapped to
// relation tags. When activities is non-empty, keys are resolved against
// it, which allows labels containing commas.
// Errors: ErrBadGroundTruth.
func FromPairs(activities []eventlog.Activity, relations map[string]string) (GroundTruth, error) {
	gt := GroundTruth{Activities: activities}
	var known map[eventlog.Activity]struct{}
	if len(activities) > 0 {
		known = toSet(activities)
	}
	for key, tag := range relations {
		rel, err := dependency.ParseTag(tag)
		if err != nil {
			return GroundTruth{}, fmt.Errorf("%w: pair %q: %w", ErrBadGroundTruth, key, err)
		}
		pair, err := splitPair(key, known)
		if err != nil {
			return GroundTruth{}, fmt.Errorf("%w: %w", ErrBadGroundTruth, err)
		}
		gt.Set(pair[0], pair[1], rel)
	}

	return gt, nil
}

// Load reads a ground truth file, choosing YAML for .yaml/.yml and the
// line format otherwise.
func Load(path string) (GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GroundTruth{}, fmt.Errorf("evaluation: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseLines(strings.NewReader(string(data)))
	}
}

// splitPair resolves "from,to" against known labels when an alphabet was
// given. Without one the key must split at exactly one unescaped comma, and
// surrounding spaces are trimmed.
func splitPair(key string, known map[eventlog.Activity]struct{}) ([2]eventlog.Activity, error) {
	if known != nil {
		return matrix.SplitPairKey(key, known)
	}
	pair, err := matrix.SplitPairKey(key, nil)
	if err != nil {
		return pair, err
	}
	pair[0], pair[1] = strings.TrimSpace(pair[0]), strings.TrimSpace(pair[1])
	if pair[0] == "" || pair[1] == "" {
		return [2]eventlog.Activity{}, fmt.Errorf("%w: %q", matrix.ErrBadPairKey, key)
	}

	return pair, nil
}

func toSet(acts []eventlog.Activity) map[eventlog.Activity]struct{} {
	set := make(map[eventlog.Activity]struct{}, len(acts))
	for _, a := range acts {
		set[a] = struct{}{}
	}

	return set
}
