// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"io"
	"strings"
)

// CellWidth is the fixed column width of the text grid.
const CellWidth = 15

// Render writes am as a fixed-width text grid: a header row of activities,
// then one row per antecedent with cells "T,E", "T,-", "-,E", "None" and
// "-" on the diagonal. Labels longer than CellWidth-1 are truncated so
// columns stay aligned; trailing padding is trimmed from every line.
// Complexity: O(n²).
func (am *AdjacencyMatrix) Render(w io.Writer) error {
	if am == nil {
		return ErrNilMatrix
	}
	n := am.Size()
	var sb strings.Builder
	sb.Grow((n + 1) * (n + 1) * CellWidth)

	row := make([]string, n+1)
	writeRow := func() {
		sb.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		sb.WriteByte('\n')
	}

	row[0] = pad("")
	for j, a := range am.activities {
		row[j+1] = pad(a)
	}
	writeRow()

	for i, from := range am.activities {
		row[0] = pad(from)
		for j := 0; j < n; j++ {
			if i == j {
				row[j+1] = pad("-")
				continue
			}
			row[j+1] = pad(am.cells[i*n+j].Relation.String())
		}
		writeRow()
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("matrix: render: %w", err)
	}

	return nil
}

// String renders the grid; it is Render into a builder.
func (am *AdjacencyMatrix) String() string {
	var sb strings.Builder
	if err := am.Render(&sb); err != nil {
		return err.Error()
	}

	return sb.String()
}

func pad(s string) string {
	if r := []rune(s); len(r) > CellWidth-1 {
		s = string(r[:CellWidth-1])
	}

	return fmt.Sprintf("%-*s", CellWidth, s)
}
