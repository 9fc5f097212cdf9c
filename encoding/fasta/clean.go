package fasta

// CleanASCIISeqInplace uppercases seq and replaces any byte outside the
// IUPAC nucleotide alphabet with 'N', in place. This used to be handled by
// a SIMD routine in biosimd; the pack this module ships with dropped
// biosimd's backing assembly (see DESIGN.md), so this is a plain byte loop
// doing the same job.
func CleanASCIISeqInplace(seq []byte) {
	for i, b := range seq {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if !isIUPAC[b] {
			b = 'N'
		}
		seq[i] = b
	}
}

var isIUPAC [256]bool

func init() {
	for _, b := range []byte("ACGTURYSWKMBDHVN") {
		isIUPAC[b] = true
	}
}
