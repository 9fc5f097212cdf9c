package align

// CompareConfig is the configuration for ComparePrefixes. It mirrors the
// Aligner's wildcard flags so callers that only need the indel-free fast
// path aren't forced to remember two positional booleans.
type CompareConfig struct {
	WildcardRef   bool
	WildcardQuery bool
}

// DefaultCompareConfig disables both wildcard tables, comparing raw ASCII.
var DefaultCompareConfig = CompareConfig{}

// ComparePrefixes compares ref and query position-by-position with no
// indels considered, using the same character model as Aligner.Locate
// (spec.md §4.1), and returns a Result with the same shape Locate uses.
// length = min(len(ref), len(query)); ComparePrefixes always succeeds.
func ComparePrefixes(ref, query string, cfg CompareConfig) Result {
	mode, refTable, queryTable := selectCompareMode(cfg.WildcardRef, cfg.WildcardQuery)

	length := len(ref)
	if len(query) < length {
		length = len(query)
	}

	matches := 0
	for i := 0; i < length; i++ {
		rb, qb := ref[i], query[i]
		if mode == compareBits {
			rb = refTable[rb]
			qb = queryTable[qb]
			if rb&qb != 0 {
				matches++
			}
			continue
		}
		if rb == qb {
			matches++
		}
	}

	return Result{
		RefStart:   0,
		RefStop:    length,
		QueryStart: 0,
		QueryStop:  length,
		Matches:    matches,
		Errors:     length - matches,
	}
}
