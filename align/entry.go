package align

// dpEntry is one cell of the DP matrix: the accumulated edit cost to reach
// it along the best path under the tie-breaking rule, the number of
// matching character pairs along that path, and the origin encoding where
// the path entered the matrix.
//
// origin packs a coordinate pair into a signed integer instead of a struct:
// positive values name the query column the alignment entered at, negative
// values name the negated reference row it entered at, and zero means the
// alignment entered at the matrix's top-left corner. It is propagated
// unchanged along diagonal/insertion/deletion transitions.
type dpEntry struct {
	cost    int
	matches int
	origin  int
}
