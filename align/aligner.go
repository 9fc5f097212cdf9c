package align

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Config holds the boundary and cost parameters an Aligner is constructed
// or mutated with. See spec.md §6 for the external contract each field
// implements.
type Config struct {
	// MinOverlap is the minimum aligned-reference length Locate will
	// report. Must be >= 1.
	MinOverlap int
	// IndelCost sets both InsertionCost and DeletionCost. Must be >= 1.
	// Mismatch cost is fixed at 1; match cost is fixed at 0.
	IndelCost int
	// StartInReference, StartInQuery, StopInReference, and StopInQuery are
	// the four semi-global boundary flags. All true gives the standard
	// semi-global overlap alignment cutadapt-style trimmers expect.
	StartInReference bool
	StartInQuery     bool
	StopInReference  bool
	StopInQuery      bool
	// WildcardRef and WildcardQuery select IUPAC-ambiguity-aware
	// comparison for the reference and/or the query, per the table in
	// spec.md §4.1.
	WildcardRef   bool
	WildcardQuery bool
	// Debug, when true, causes Locate to populate a DPMatrix with every
	// computed cell's cost.
	Debug bool
}

// DefaultConfig is the standard semi-global configuration: both ends of
// both strings may be skipped for free, indel cost 1, minimum overlap 1,
// no wildcards, no debug matrix.
var DefaultConfig = Config{
	MinOverlap:       1,
	IndelCost:        1,
	StartInReference: true,
	StartInQuery:     true,
	StopInReference:  true,
	StopInQuery:      true,
}

// Result is the outcome of a successful Locate or ComparePrefixes call.
// At least one of RefStart, QueryStart is zero. For Locate, RefStop >
// RefStart is guaranteed (no empty alignments); ComparePrefixes returns
// RefStop == RefStart == 0 when ref or query is empty.
type Result struct {
	RefStart, RefStop     int
	QueryStart, QueryStop int
	Matches, Errors       int
}

// Aligner is a configured, reusable semi-global aligner bound to one
// reference string. Construct it once per worker (it is not safe for
// concurrent use on itself; spec.md §5) and call Locate for every query.
type Aligner struct {
	MaxErrorRate float64

	referenceStr string
	referenceBuf []byte
	m            int

	minOverlap     int
	insertionCost  int
	deletionCost   int
	startInRef     bool
	startInQuery   bool
	stopInRef      bool
	stopInQuery    bool
	wildcardRef    bool
	wildcardQuery  bool
	debug          bool

	mode       compareMode
	refTable   *[256]byte
	queryTable *[256]byte

	column   []dpEntry
	dpMatrix *DPMatrix

	// columnsProcessed and maxBandReached are additive diagnostics beyond
	// spec.md, exposed read-only via Stats for callers' logging.
	// They do not influence Locate's result.
	columnsProcessed int
	maxBandReached   int
}

// NewAligner constructs an Aligner bound to reference, configured per cfg.
// It returns a validation error if cfg.MinOverlap < 1 or cfg.IndelCost < 1,
// and an allocation error if the column buffer cannot be sized for
// reference.
func NewAligner(reference string, maxErrorRate float64, cfg Config) (*Aligner, error) {
	if cfg.MinOverlap < 1 {
		return nil, errors.E(fmt.Sprintf("align: min_overlap must be >= 1, got %d", cfg.MinOverlap))
	}
	if cfg.IndelCost < 1 {
		return nil, errors.E(fmt.Sprintf("align: indel_cost must be >= 1, got %d", cfg.IndelCost))
	}
	mode, refTable, queryTable := selectCompareMode(cfg.WildcardRef, cfg.WildcardQuery)
	a := &Aligner{
		MaxErrorRate:  maxErrorRate,
		minOverlap:    cfg.MinOverlap,
		insertionCost: cfg.IndelCost,
		deletionCost:  cfg.IndelCost,
		startInRef:    cfg.StartInReference,
		startInQuery:  cfg.StartInQuery,
		stopInRef:     cfg.StopInReference,
		stopInQuery:   cfg.StopInQuery,
		wildcardRef:   cfg.WildcardRef,
		wildcardQuery: cfg.WildcardQuery,
		debug:         cfg.Debug,
		mode:          mode,
		refTable:      refTable,
		queryTable:    queryTable,
	}
	if err := a.SetReference(reference); err != nil {
		return nil, err
	}
	return a, nil
}

// SetReference replaces the Aligner's reference, reallocating the column
// buffer. On allocation failure the Aligner's previous reference and
// column remain valid and usable.
func (a *Aligner) SetReference(reference string) error {
	buf := []byte(reference)
	if a.mode == compareBits {
		translate(buf, a.refTable)
	}
	column, err := allocateColumn(len(reference))
	if err != nil {
		return errors.E(err, "align: failed to allocate column buffer for reference of length", len(reference))
	}
	a.referenceStr = reference
	a.referenceBuf = buf
	a.m = len(reference)
	a.column = column
	a.dpMatrix = nil
	return nil
}

// Reference returns the original (untranslated) reference string.
func (a *Aligner) Reference() string { return a.referenceStr }

// MinOverlap returns the current minimum aligned-reference length.
func (a *Aligner) MinOverlap() int { return a.minOverlap }

// SetMinOverlap sets the minimum aligned-reference length Locate will
// report. It rejects values < 1, leaving the previous value intact.
func (a *Aligner) SetMinOverlap(n int) error {
	if n < 1 {
		return errors.E(fmt.Sprintf("align: min_overlap must be >= 1, got %d", n))
	}
	a.minOverlap = n
	return nil
}

// SetIndelCost sets both the insertion and deletion cost. It rejects
// values < 1, leaving the previous value intact.
func (a *Aligner) SetIndelCost(c int) error {
	if c < 1 {
		return errors.E(fmt.Sprintf("align: indel_cost must be >= 1, got %d", c))
	}
	a.insertionCost = c
	a.deletionCost = c
	return nil
}

// DPMatrix returns the debug matrix populated by the most recent Locate
// call, or nil if Debug is not set or Locate has not been called.
func (a *Aligner) DPMatrix() *DPMatrix { return a.dpMatrix }

// Stats reports columnsProcessed (number of DP columns computed by the
// most recent Locate call) and maxBandReached (the widest the Ukkonen
// band grew to). These are observational only; see SPEC_FULL.md.
func (a *Aligner) Stats() (columnsProcessed, maxBandReached int) {
	return a.columnsProcessed, a.maxBandReached
}

// allocateColumn sizes a fresh column buffer, translating the Go runtime's
// out-of-memory panic on pathologically large references into an error so
// a failed reallocation cannot take down the caller.
func allocateColumn(m int) (column []dpEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	column = make([]dpEntry, m+1)
	return column, nil
}

func (a *Aligner) charactersMatch(refByte, queryByte byte) bool {
	if a.mode == compareASCII {
		return refByte == queryByte
	}
	return refByte&queryByte != 0
}

// Locate runs the banded semi-global DP engine described in spec.md §4.2
// and returns the best-scoring alignment of query against the Aligner's
// reference, or false if no alignment satisfies min_overlap and the error
// rate budget.
func (a *Aligner) Locate(query string) (Result, bool) {
	m := a.m
	n := len(query)
	k := int(a.MaxErrorRate * float64(m))

	queryBuf := []byte(query)
	if a.mode == compareBits {
		translate(queryBuf, a.queryTable)
	}

	var matrix *DPMatrix
	if a.debug {
		matrix = newDPMatrix(a.referenceStr, query)
	}
	a.dpMatrix = matrix

	minN := 0
	if !a.stopInQuery {
		minN = n - m - k
		if minN < 0 {
			minN = 0
		}
	}
	maxN := n
	if !a.startInQuery {
		maxN = m + k
		if maxN > n {
			maxN = n
		}
	}

	column := a.column
	seedCost := func(i int) int {
		switch {
		case !a.startInRef && !a.startInQuery:
			return max(i, minN) * a.insertionCost
		case a.startInRef && !a.startInQuery:
			return minN * a.insertionCost
		case !a.startInRef && a.startInQuery:
			return i * a.insertionCost
		default:
			return min(i, minN) * a.insertionCost
		}
	}
	seedOrigin := func(i int) int {
		switch {
		case !a.startInRef && !a.startInQuery:
			return 0
		case a.startInRef && !a.startInQuery:
			return min(0, minN-i)
		case !a.startInRef && a.startInQuery:
			return max(0, minN-i)
		default:
			return minN - i
		}
	}
	for i := 0; i <= m; i++ {
		column[i] = dpEntry{cost: seedCost(i), matches: 0, origin: seedOrigin(i)}
		if matrix != nil {
			matrix.setCell(i, minN, column[i].cost)
		}
	}

	last := m
	if !a.startInRef {
		last = min(m, k+1)
	}

	type best struct {
		cost, matches, origin int
		refStop, queryStop    int
		found                 bool
	}
	b := best{cost: m + n}

	ref := a.referenceBuf
	columnsProcessed := 1
	maxBand := last

	for j := minN + 1; j <= maxN; j++ {
		diagEntry := column[0]
		if a.startInQuery {
			column[0].origin = j
		} else {
			column[0].cost = j * a.insertionCost
		}
		if matrix != nil {
			matrix.setCell(0, j, column[0].cost)
		}

		for i := 1; i <= last; i++ {
			equal := a.charactersMatch(ref[i-1], queryBuf[j-1])
			oldColI := column[i]

			var newEntry dpEntry
			if equal {
				newEntry = dpEntry{cost: diagEntry.cost, matches: diagEntry.matches + 1, origin: diagEntry.origin}
			} else {
				costMM, matchesMM, originMM := diagEntry.cost+1, diagEntry.matches, diagEntry.origin
				costDel, matchesDel, originDel := oldColI.cost+a.deletionCost, oldColI.matches, oldColI.origin
				costIns, matchesIns, originIns := column[i-1].cost+a.insertionCost, column[i-1].matches, column[i-1].origin
				switch {
				case costMM <= costDel && costMM <= costIns:
					newEntry = dpEntry{cost: costMM, matches: matchesMM, origin: originMM}
				case costIns <= costDel:
					newEntry = dpEntry{cost: costIns, matches: matchesIns, origin: originIns}
				default:
					newEntry = dpEntry{cost: costDel, matches: matchesDel, origin: originDel}
				}
			}
			diagEntry = oldColI
			column[i] = newEntry
			if matrix != nil {
				matrix.setCell(i, j, newEntry.cost)
			}
		}

		for last >= 0 && column[last].cost > k {
			last--
		}
		if last < m {
			last++
		}
		if last > maxBand {
			maxBand = last
		}
		columnsProcessed++

		if last == m && a.stopInQuery {
			length := m + min(column[m].origin, 0)
			if length >= a.minOverlap && float64(column[m].cost) <= float64(length)*a.MaxErrorRate {
				if !b.found || column[m].matches > b.matches || (column[m].matches == b.matches && column[m].cost < b.cost) {
					b = best{
						cost:      column[m].cost,
						matches:   column[m].matches,
						origin:    column[m].origin,
						refStop:   m,
						queryStop: j,
						found:     true,
					}
				}
			}
			if column[m].cost == 0 && column[m].matches == m {
				break
			}
		}
	}
	a.columnsProcessed = columnsProcessed
	a.maxBandReached = maxBand

	if maxN == n {
		firstI := m
		if a.stopInRef {
			firstI = 0
		}
		for i := firstI; i <= m; i++ {
			length := i + min(column[i].origin, 0)
			if length < a.minOverlap {
				continue
			}
			if float64(column[i].cost) > float64(length)*a.MaxErrorRate {
				continue
			}
			if !b.found || column[i].matches > b.matches || (column[i].matches == b.matches && column[i].cost < b.cost) {
				b = best{
					cost:      column[i].cost,
					matches:   column[i].matches,
					origin:    column[i].origin,
					refStop:   i,
					queryStop: n,
					found:     true,
				}
			}
		}
	}

	if !b.found {
		if log.At(log.Debug) {
			log.Debug.Printf("align: Locate found no alignment for query of length %d against reference of length %d", n, m)
		}
		return Result{}, false
	}

	var start1, start2 int
	if b.origin >= 0 {
		start1, start2 = 0, b.origin
	} else {
		start1, start2 = -b.origin, 0
	}

	return Result{
		RefStart:   start1,
		RefStop:    b.refStop,
		QueryStart: start2,
		QueryStop:  b.queryStop,
		Matches:    b.matches,
		Errors:     b.cost,
	}, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
