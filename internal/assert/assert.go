// Package assert provides cheap invariant checks that abort the program.
//
// Object-system invariants (count non-negativity, roster consistency, lock
// state reachability) are cheap to check and their violation implies a
// defect elsewhere that would otherwise corrupt memory silently.
package assert

import "fmt"

// That panics with a formatted message if cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("safetypes2: invariant violated: "+format, args...))
	}
}
