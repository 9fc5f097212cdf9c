package align

import "testing"

func TestACGTTable(t *testing.T) {
	cases := []struct {
		b    byte
		bits byte
	}{
		{'A', bitA}, {'a', bitA},
		{'C', bitC}, {'c', bitC},
		{'G', bitG}, {'g', bitG},
		{'T', bitT}, {'t', bitT},
		{'U', bitT}, {'u', bitT},
		{'N', 0}, {'X', 0}, {'-', 0},
	}
	for _, c := range cases {
		if got := acgtTable[c.b]; got != c.bits {
			t.Errorf("acgtTable[%q] = %d, want %d", c.b, got, c.bits)
		}
	}
}

func TestIUPACTable(t *testing.T) {
	cases := []struct {
		b    byte
		bits byte
	}{
		{'R', bitA | bitG},
		{'Y', bitC | bitT},
		{'N', bitA | bitC | bitG | bitT},
		{'X', 0},
		{'-', 0},
		{'n', bitA | bitC | bitG | bitT},
	}
	for _, c := range cases {
		if got := iupacTable[c.b]; got != c.bits {
			t.Errorf("iupacTable[%q] = %d, want %d", c.b, got, c.bits)
		}
	}
}

func TestSelectCompareMode(t *testing.T) {
	mode, refT, queryT := selectCompareMode(false, false)
	if mode != compareASCII || refT != nil || queryT != nil {
		t.Fatalf("ascii mode: got %v %v %v", mode, refT, queryT)
	}
	mode, refT, queryT = selectCompareMode(true, false)
	if mode != compareBits || refT != &iupacTable || queryT != &acgtTable {
		t.Fatalf("wildcard_ref mode: got %v %p %p", mode, refT, queryT)
	}
	mode, refT, queryT = selectCompareMode(false, true)
	if mode != compareBits || refT != &acgtTable || queryT != &iupacTable {
		t.Fatalf("wildcard_query mode: got %v %p %p", mode, refT, queryT)
	}
	mode, refT, queryT = selectCompareMode(true, true)
	if mode != compareBits || refT != &iupacTable || queryT != &iupacTable {
		t.Fatalf("wildcard_both mode: got %v %p %p", mode, refT, queryT)
	}
}
