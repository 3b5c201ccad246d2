// SPDX-License-Identifier: MIT

package matrix

import "github.com/anonymoushlmnop/matrix-discovery/dependency"

// Metrics summarises the relations held by a matrix. Only off-diagonal
// pairs are counted.
type Metrics struct {
	// Activities is the matrix size n.
	Activities int `json:"activities" yaml:"activities"`
	// Pairs is n·(n-1), the number of evaluated ordered pairs.
	Pairs int `json:"pairs" yaml:"pairs"`
	// FullIndependences counts pairs holding neither relation.
	FullIndependences int `json:"full_independences" yaml:"full_independences"`
	// PureExistences counts pairs without a temporal relation.
	PureExistences int `json:"pure_existences" yaml:"pure_existences"`
	// ByTag counts pairs per relation tag.
	ByTag map[dependency.Tag]int `json:"by_tag" yaml:"by_tag"`
}

// Metrics computes relation counts in a single row-major pass.
// Complexity: O(n²).
func (am *AdjacencyMatrix) Metrics() Metrics {
	m := Metrics{
		Activities: am.Size(),
		ByTag: map[dependency.Tag]int{
			dependency.TagNone:        0,
			dependency.TagTemporal:    0,
			dependency.TagExistential: 0,
			dependency.TagBoth:        0,
		},
	}
	for _, p := range am.Pairs() {
		m.Pairs++
		m.ByTag[p.Relation.Tag()]++
		if !p.Relation.Temporal {
			m.PureExistences++
		}
		if p.Relation.IsNone() {
			m.FullIndependences++
		}
	}

	return m
}
