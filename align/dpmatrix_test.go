package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDPMatrixAbsentCellsBlank(t *testing.T) {
	m := newDPMatrix("AC", "AC")
	_, ok := m.Get(1, 1)
	assert.False(t, ok)
	m.setCell(1, 1, 0)
	cost, ok := m.Get(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, cost)
}

func TestDPMatrixStringRendersRowsAndColumns(t *testing.T) {
	m := newDPMatrix("AC", "GT")
	m.setCell(0, 0, 0)
	m.setCell(1, 1, 3)
	s := m.String()
	assert.Contains(t, s, "A")
	assert.Contains(t, s, "C")
	assert.Contains(t, s, "G")
	assert.Contains(t, s, "T")
	assert.Contains(t, s, "3")
}
