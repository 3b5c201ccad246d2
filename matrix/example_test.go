// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"
	"os"

	"github.com/anonymoushlmnop/matrix-discovery/eventlog"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

// ExampleDiscover shows a two-activity process where b always follows a.
func ExampleDiscover() {
	l := eventlog.NewLog(
		eventlog.Trace{"a", "b"},
		eventlog.Trace{"a", "b"},
		eventlog.Trace{"b"},
	)
	am, err := matrix.Discover(l, 1.0, 1.0)
	if err != nil {
		fmt.Println(err)
		return
	}
	ab, _ := am.Relation("a", "b")
	ba, _ := am.Relation("b", "a")
	fmt.Println("a→b:", ab.Tag())
	fmt.Println("b→a:", ba.Tag())
	// Output:
	// a→b: both
	// b→a: none
}

// ExampleAdjacencyMatrix_Render prints the fixed-width grid.
func ExampleAdjacencyMatrix_Render() {
	l := eventlog.NewLog(eventlog.Trace{"x", "y"})
	am, _ := matrix.Discover(l, 1, 1)
	_ = am.Render(os.Stdout)
	// Output:
	//                x              y
	// x              -              T,E
	// y              -,E            -
}
