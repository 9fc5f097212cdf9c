package align

import (
	"strconv"
	"strings"
)

// DPMatrix is a sparse (m+1)x(n+1) array of optional costs, populated by
// Locate when the Aligner's Debug flag is set. It is a pure tracing aid: no
// part of Locate's result depends on it, and it is not allocated unless
// debug is enabled.
type DPMatrix struct {
	m, n   int
	ref    string
	query  string
	values map[[2]int]int
	set    map[[2]int]bool
}

func newDPMatrix(ref, query string) *DPMatrix {
	return &DPMatrix{
		m:      len(ref),
		n:      len(query),
		ref:    ref,
		query:  query,
		values: make(map[[2]int]int),
		set:    make(map[[2]int]bool),
	}
}

// setCell records the cost computed for cell (i, j).
func (d *DPMatrix) setCell(i, j, cost int) {
	key := [2]int{i, j}
	d.values[key] = cost
	d.set[key] = true
}

// Get returns the cost recorded at (i, j), and whether any cost was ever
// recorded there.
func (d *DPMatrix) Get(i, j int) (cost int, ok bool) {
	key := [2]int{i, j}
	ok = d.set[key]
	cost = d.values[key]
	return
}

// String renders the matrix as a human-readable table, rows labeled by
// reference characters and columns by query characters. Absent cells render
// blank.
func (d *DPMatrix) String() string {
	var b strings.Builder
	b.WriteString("     ")
	for j := 0; j < d.n; j++ {
		b.WriteString(strconv.QuoteRune(rune(d.query[j]))[1:2])
		b.WriteString("    ")
	}
	b.WriteByte('\n')
	for i := 0; i <= d.m; i++ {
		if i == 0 {
			b.WriteString("  ")
		} else {
			b.WriteString(" ")
			b.WriteString(strconv.QuoteRune(rune(d.ref[i-1]))[1:2])
			b.WriteString(" ")
		}
		for j := 0; j <= d.n; j++ {
			if cost, ok := d.Get(i, j); ok {
				b.WriteString(padInt(cost, 5))
			} else {
				b.WriteString("     ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func padInt(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
