package costmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treesimjoin/simjoin/internal/label"
)

func TestUnitDelIns(t *testing.T) {
	var u Unit
	assert.Equal(t, 1.0, u.Del(label.ID(3)))
	assert.Equal(t, 1.0, u.Ins(label.ID(7)))
}

func TestUnitRen(t *testing.T) {
	var u Unit
	assert.Equal(t, 0.0, u.Ren(label.ID(1), label.ID(1)))
	assert.Equal(t, 1.0, u.Ren(label.ID(1), label.ID(2)))
}

func TestWeightedFallsBackToOne(t *testing.T) {
	w := Weighted{DelCost: map[label.ID]float64{1: 5}}
	assert.Equal(t, 5.0, w.Del(label.ID(1)))
	assert.Equal(t, 1.0, w.Del(label.ID(2)))
	assert.Equal(t, 1.0, w.Ins(label.ID(9)))
}

func TestWeightedRenSameLabel(t *testing.T) {
	w := Weighted{DelCost: map[label.ID]float64{1: 5}}
	assert.Equal(t, 0.0, w.Ren(label.ID(1), label.ID(1)))
}

func TestWeightedRenAveragesDelIns(t *testing.T) {
	w := Weighted{
		DelCost: map[label.ID]float64{1: 3},
		InsCost: map[label.ID]float64{2: 5},
	}
	assert.Equal(t, 4.0, w.Ren(label.ID(1), label.ID(2)))
}

func TestModelInterfaceSatisfiedByUnitAndWeighted(t *testing.T) {
	var _ Model = Unit{}
	var _ Model = Weighted{}
}
