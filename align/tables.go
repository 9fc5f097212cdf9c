package align

// acgtTable and iupacTable are 256-byte lookup tables translating an ASCII
// nucleotide byte into a 4-bit set of {A,C,G,T}. Two translated bytes
// "match" under the bit model iff their bitwise AND is nonzero; bytes
// outside the relevant alphabet translate to 0 and therefore match nothing.
// This is the same shape as the base/simd NibbleLookupTable machinery the
// teacher uses to translate packed sequence nibbles, minus the SIMD.
const (
	bitA = 1 << 0
	bitC = 1 << 1
	bitG = 1 << 2
	bitT = 1 << 3
)

var acgtTable [256]byte
var iupacTable [256]byte

func init() {
	set := func(t *[256]byte, upper byte, bits byte) {
		t[upper] = bits
		t[upper-'A'+'a'] = bits
	}
	set(&acgtTable, 'A', bitA)
	set(&acgtTable, 'C', bitC)
	set(&acgtTable, 'G', bitG)
	set(&acgtTable, 'T', bitT)
	set(&acgtTable, 'U', bitT)

	iupac := map[byte]byte{
		'A': bitA,
		'C': bitC,
		'G': bitG,
		'T': bitT,
		'U': bitT,
		'R': bitA | bitG,
		'Y': bitC | bitT,
		'S': bitC | bitG,
		'W': bitA | bitT,
		'K': bitG | bitT,
		'M': bitA | bitC,
		'B': bitC | bitG | bitT,
		'D': bitA | bitG | bitT,
		'H': bitA | bitC | bitT,
		'V': bitA | bitC | bitG,
		'N': bitA | bitC | bitG | bitT,
		'X': 0,
	}
	for upper, bits := range iupac {
		set(&iupacTable, upper, bits)
	}
}

// translate rewrites seq in place through table, mapping any byte absent
// from the table (including anything not in the IUPAC alphabet) to 0.
func translate(seq []byte, table *[256]byte) {
	for i, b := range seq {
		seq[i] = table[b]
	}
}

// compareMode selects how characters_match is evaluated for one Locate
// call, per spec.md §4.1's table of the four (wildcard_ref, wildcard_query)
// combinations.
type compareMode int

const (
	compareASCII compareMode = iota
	compareBits
)

func selectCompareMode(wildcardRef, wildcardQuery bool) (mode compareMode, refTable, queryTable *[256]byte) {
	switch {
	case !wildcardRef && !wildcardQuery:
		return compareASCII, nil, nil
	case wildcardRef && !wildcardQuery:
		return compareBits, &iupacTable, &acgtTable
	case !wildcardRef && wildcardQuery:
		return compareBits, &acgtTable, &iupacTable
	default:
		return compareBits, &iupacTable, &iupacTable
	}
}
