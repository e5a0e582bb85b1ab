// Package matrix expands a model's parameter matrix into the ordered
// sequence of concrete argument tuples.
package matrix

// Expand returns the cartesian product of the given value columns as the
// ordered list of all tuples formed by picking one value per column. The
// first column varies slowest and the last column varies fastest, and each
// column's own value order is preserved.
//
// An empty (or nil) matrix yields exactly one empty tuple. A matrix
// containing a zero-length column yields no tuples at all.
func Expand(columns [][]string) [][]string {
	tuples := [][]string{{}}
	for _, column := range columns {
		next := make([][]string, 0, len(tuples)*len(column))
		for _, prefix := range tuples {
			for _, value := range column {
				tuple := make([]string, len(prefix), len(prefix)+1)
				copy(tuple, prefix)
				next = append(next, append(tuple, value))
			}
		}
		tuples = next
	}
	return tuples
}
