// Package refimpl is a brute-force, unbanded semi-global aligner used only
// as a test oracle for align.Aligner.Locate. It computes the full (m+1) x
// (n+1) matrix with no Ukkonen banding and no in-loop early exit, so it can
// cross-check Locate's banding and early-exit logic on small inputs.
//
// The matrix layout and row-major storage are adapted from
// util/distance.go's Levenshtein matrix (reshaped here to the semi-global
// boundary-flag model instead of fixed-length barcode edit distance).
package refimpl

// cell mirrors align's dpEntry; kept independent on purpose so a bug in one
// package's struct doesn't mask the same bug in the other's.
type cell struct {
	cost, matches, origin int
}

// matrix is a (m+1) x (n+1) row-major array of cells.
type matrix struct {
	nRow, nCol int
	data       []cell
}

func newMatrix(nRow, nCol int) matrix {
	return matrix{nRow: nRow, nCol: nCol, data: make([]cell, nRow*nCol)}
}

func (mx matrix) at(i, j int) cell     { return mx.data[i*mx.nCol+j] }
func (mx matrix) set(i, j int, c cell) { mx.data[i*mx.nCol+j] = c }

// Config mirrors align.Config's boundary/cost fields.
type Config struct {
	MinOverlap                   int
	InsertionCost, DeletionCost  int
	StartInReference, StartInQuery, StopInReference, StopInQuery bool
}

// Result mirrors align.Result.
type Result struct {
	RefStart, RefStop, QueryStart, QueryStop, Matches, Errors int
}

// Locate computes the full DP matrix between ref and query (as raw bytes,
// compared with ==, i.e. align's ASCII mode only; IUPAC wildcard matching is
// not supported) and returns the best exit per the
// same acceptance/tie-break rules as spec.md §4.2, without banding.
func Locate(ref, query []byte, maxErrorRate float64, cfg Config) (Result, bool) {
	m, n := len(ref), len(query)
	mx := newMatrix(m+1, n+1)

	for i := 0; i <= m; i++ {
		var cost, origin int
		switch {
		case !cfg.StartInReference && !cfg.StartInQuery:
			cost, origin = i*cfg.InsertionCost, 0
		case cfg.StartInReference && !cfg.StartInQuery:
			cost, origin = 0, -i
		case !cfg.StartInReference && cfg.StartInQuery:
			cost, origin = i*cfg.InsertionCost, 0
		default:
			cost, origin = 0, -i
		}
		mx.set(i, 0, cell{cost: cost, origin: origin})
	}

	for j := 1; j <= n; j++ {
		if cfg.StartInQuery {
			mx.set(0, j, cell{cost: 0, origin: j})
		} else {
			mx.set(0, j, cell{cost: j * cfg.InsertionCost, origin: 0})
		}
		for i := 1; i <= m; i++ {
			diag := mx.at(i-1, j-1)
			equal := ref[i-1] == query[j-1]
			var c cell
			if equal {
				c = cell{cost: diag.cost, matches: diag.matches + 1, origin: diag.origin}
			} else {
				up := mx.at(i-1, j)
				left := mx.at(i, j-1)
				costMM := diag.cost + 1
				costDel := left.cost + cfg.DeletionCost
				costIns := up.cost + cfg.InsertionCost
				switch {
				case costMM <= costDel && costMM <= costIns:
					c = cell{cost: costMM, matches: diag.matches, origin: diag.origin}
				case costIns <= costDel:
					c = cell{cost: costIns, matches: up.matches, origin: up.origin}
				default:
					c = cell{cost: costDel, matches: left.matches, origin: left.origin}
				}
			}
			mx.set(i, j, c)
		}
	}

	var best Result
	found := false
	consider := func(i, j int, c cell) {
		length := i
		if c.origin < 0 {
			length = i - (-c.origin)
		}
		if length < cfg.MinOverlap {
			return
		}
		if float64(c.cost) > float64(length)*maxErrorRate {
			return
		}
		if found && c.matches < best.Matches {
			return
		}
		if found && c.matches == best.Matches && c.cost >= best.Errors {
			return
		}
		var start1, start2 int
		if c.origin >= 0 {
			start1, start2 = 0, c.origin
		} else {
			start1, start2 = -c.origin, 0
		}
		best = Result{
			RefStart: start1, RefStop: i,
			QueryStart: start2, QueryStop: j,
			Matches: c.matches, Errors: c.cost,
		}
		found = true
	}

	if cfg.StopInQuery {
		for j := 0; j <= n; j++ {
			consider(m, j, mx.at(m, j))
		}
	}
	if cfg.StopInReference {
		for i := 0; i <= m; i++ {
			consider(i, n, mx.at(i, n))
		}
	} else {
		consider(m, n, mx.at(m, n))
	}

	return best, found
}
