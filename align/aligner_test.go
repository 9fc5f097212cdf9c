package align

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/seqalign/align/internal/refimpl"
)

// TestLocateScenarios exercises the concrete scenarios from spec.md §8,
// including the canonical MISSISSIPPI/SISSI example from the source
// documentation.
func TestLocateScenarios(t *testing.T) {
	tests := []struct {
		name         string
		reference    string
		query        string
		cfg          Config
		maxErrorRate float64
		want         Result
		found        bool
	}{
		{
			name:         "MISSISSIPPI/SISSI",
			reference:    "MISSISSIPPI",
			query:        "SISSI",
			cfg:          DefaultConfig,
			maxErrorRate: 0.1,
			want:         Result{RefStart: 3, RefStop: 8, QueryStart: 0, QueryStop: 5, Matches: 5, Errors: 0},
			found:        true,
		},
		{
			name:         "exact match",
			reference:    "ACGTACGT",
			query:        "ACGTACGT",
			cfg:          DefaultConfig,
			maxErrorRate: 0,
			want:         Result{RefStart: 0, RefStop: 8, QueryStart: 0, QueryStop: 8, Matches: 8, Errors: 0},
			found:        true,
		},
		{
			name:         "single mismatch within budget",
			reference:    "ACGTACGT",
			query:        "ACGTTCGT",
			cfg:          DefaultConfig,
			maxErrorRate: 0.2,
			want:         Result{RefStart: 0, RefStop: 8, QueryStart: 0, QueryStop: 8, Matches: 7, Errors: 1},
			found:        true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAligner(tt.reference, tt.maxErrorRate, tt.cfg)
			require.NoError(t, err)
			got, ok := a.Locate(tt.query)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLocateWildcardRef(t *testing.T) {
	cfg := DefaultConfig
	cfg.WildcardRef = true
	a, err := NewAligner("ACGT", 0, cfg)
	require.NoError(t, err)
	got, ok := a.Locate("ACGT")
	require.True(t, ok)
	assert.Equal(t, 4, got.Matches)
	assert.Equal(t, 0, got.Errors)
}

func TestLocateWildcardRefAllN(t *testing.T) {
	cfg := DefaultConfig
	cfg.WildcardRef = true
	a, err := NewAligner("NNNN", 0, cfg)
	require.NoError(t, err)
	got, ok := a.Locate("ACGT")
	require.True(t, ok)
	assert.Equal(t, 4, got.Matches)
	assert.Equal(t, 0, got.Errors)
}

func TestLocateWildcardQueryNoMatch(t *testing.T) {
	cfg := DefaultConfig
	cfg.WildcardQuery = true
	a, err := NewAligner("ACGT", 0, cfg)
	require.NoError(t, err)
	_, ok := a.Locate("XXXX")
	assert.False(t, ok)
}

func TestLocateExactMatchRequiredWhenZeroErrorRate(t *testing.T) {
	a, err := NewAligner("GATTACA", 0, DefaultConfig)
	require.NoError(t, err)
	got, ok := a.Locate("GATTACA")
	require.True(t, ok)
	assert.Equal(t, 0, got.Errors)
	assert.Equal(t, got.RefStop-got.RefStart, got.Matches)

	_, ok = a.Locate("GATTATA")
	assert.False(t, ok)
}

func TestComparePrefixesASCIIIdentity(t *testing.T) {
	s := "ACGTACGTNNNN"
	got := ComparePrefixes(s, s, DefaultCompareConfig)
	assert.Equal(t, Result{RefStart: 0, RefStop: len(s), QueryStart: 0, QueryStop: len(s), Matches: len(s), Errors: 0}, got)
}

func TestComparePrefixesIUPAC(t *testing.T) {
	got := ComparePrefixes("RGNX", "AGCA", CompareConfig{WildcardRef: true})
	// R matches A, G matches G, N matches C, X matches nothing.
	assert.Equal(t, 3, got.Matches)
	assert.Equal(t, 1, got.Errors)
}

func TestSetReferenceIsolatesSubsequentLocate(t *testing.T) {
	a, err := NewAligner("AAAA", 0, DefaultConfig)
	require.NoError(t, err)
	_, ok := a.Locate("AAAA")
	require.True(t, ok)

	require.NoError(t, a.SetReference("CCCC"))
	assert.Equal(t, 4, a.m)
	assert.Equal(t, "CCCC", a.Reference())

	got, ok := a.Locate("CCCC")
	require.True(t, ok)
	assert.Equal(t, 4, got.Matches)

	_, ok = a.Locate("AAAA")
	assert.False(t, ok)
}

func TestSetMinOverlapRejectsBelowOne(t *testing.T) {
	a, err := NewAligner("ACGT", 0.5, DefaultConfig)
	require.NoError(t, err)
	assert.Error(t, a.SetMinOverlap(0))
	assert.Equal(t, 1, a.MinOverlap())
	require.NoError(t, a.SetMinOverlap(2))
	assert.Equal(t, 2, a.MinOverlap())
}

func TestSetIndelCostRejectsBelowOne(t *testing.T) {
	a, err := NewAligner("ACGT", 0.5, DefaultConfig)
	require.NoError(t, err)
	assert.Error(t, a.SetIndelCost(0))
	require.NoError(t, a.SetIndelCost(3))
	assert.Equal(t, 3, a.insertionCost)
	assert.Equal(t, 3, a.deletionCost)
}

func TestNewAlignerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig
	cfg.MinOverlap = 0
	_, err := NewAligner("ACGT", 0.1, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig
	cfg.IndelCost = 0
	_, err = NewAligner("ACGT", 0.1, cfg)
	assert.Error(t, err)
}

func TestLocateDeterministic(t *testing.T) {
	a, err := NewAligner("GATTACAGATTACA", 0.25, DefaultConfig)
	require.NoError(t, err)
	first, ok1 := a.Locate("ATTACAG")
	second, ok2 := a.Locate("ATTACAG")
	require.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestLocateDebugMatrixRecordsComputedCosts(t *testing.T) {
	cfg := DefaultConfig
	cfg.Debug = true
	a, err := NewAligner("ACGT", 0.5, cfg)
	require.NoError(t, err)
	_, ok := a.Locate("ACGT")
	require.True(t, ok)
	m := a.DPMatrix()
	require.NotNil(t, m)
	cost, present := m.Get(4, 4)
	require.True(t, present)
	assert.Equal(t, 0, cost)
	_, present = m.Get(4, 4)
	assert.True(t, present)
	s := m.String()
	assert.NotEmpty(t, s)
}

// TestLocateAgreesWithBruteForce cross-checks the banded engine against an
// unbanded full-matrix implementation (align/internal/refimpl) for random
// small inputs under the default (all boundary flags true) configuration,
// where Ukkonen's window is guaranteed to cover the same candidate space as
// a full scan.
func TestLocateAgreesWithBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	alphabet := []byte("ACGT")
	randSeq := func(n int) []byte {
		s := make([]byte, n)
		for i := range s {
			s[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		return s
	}

	for trial := 0; trial < 200; trial++ {
		refLen := 1 + rnd.Intn(12)
		queryLen := 1 + rnd.Intn(12)
		ref := randSeq(refLen)
		query := randSeq(queryLen)
		maxErrorRate := []float64{0, 0.1, 0.2, 0.34, 0.5}[rnd.Intn(5)]

		a, err := NewAligner(string(ref), maxErrorRate, DefaultConfig)
		require.NoError(t, err)
		got, ok := a.Locate(string(query))

		want, wantOK := refimpl.Locate(ref, query, maxErrorRate, refimpl.Config{
			MinOverlap:       1,
			InsertionCost:    1,
			DeletionCost:     1,
			StartInReference: true,
			StartInQuery:     true,
			StopInReference:  true,
			StopInQuery:      true,
		})

		require.Equalf(t, wantOK, ok, "ref=%s query=%s rate=%v", ref, query, maxErrorRate)
		if ok {
			assert.Equalf(t, refimpl.Result{
				RefStart: want.RefStart, RefStop: want.RefStop,
				QueryStart: want.QueryStart, QueryStop: want.QueryStop,
				Matches: want.Matches, Errors: want.Errors,
			}, refimpl.Result{
				RefStart: got.RefStart, RefStop: got.RefStop,
				QueryStart: got.QueryStart, QueryStop: got.QueryStop,
				Matches: got.Matches, Errors: got.Errors,
			}, "ref=%s query=%s rate=%v", ref, query, maxErrorRate)
		}
	}
}

// TestLocateInvariants checks the property list in spec.md §8 over random
// inputs: when Locate returns a result, its fields satisfy the documented
// bounds regardless of whether refimpl agrees on the exact optimum.
func TestLocateInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	alphabet := []byte("ACGTN")
	randSeq := func(n int) string {
		s := make([]byte, n)
		for i := range s {
			s[i] = alphabet[rnd.Intn(len(alphabet))]
		}
		return string(s)
	}

	for trial := 0; trial < 500; trial++ {
		reference := randSeq(1 + rnd.Intn(30))
		query := randSeq(1 + rnd.Intn(30))
		maxErrorRate := rnd.Float64()

		a, err := NewAligner(reference, maxErrorRate, DefaultConfig)
		require.NoError(t, err)
		got, ok := a.Locate(query)
		if !ok {
			continue
		}
		m, n := len(reference), len(query)
		assert.True(t, got.RefStart >= 0 && got.RefStart < got.RefStop && got.RefStop <= m)
		assert.True(t, got.QueryStart >= 0 && got.QueryStart < got.QueryStop && got.QueryStop <= n)
		assert.True(t, got.RefStart == 0 || got.QueryStart == 0)
		assert.True(t, float64(got.Errors) <= float64(got.RefStop-got.RefStart)*maxErrorRate+1e-9)
		assert.True(t, got.Matches >= 0)
	}
}
