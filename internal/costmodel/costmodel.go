// Package costmodel defines the per-label edit costs the TED kernels read
// on every cell update: del(l), ins(l), ren(l1,l2).
package costmodel

import "github.com/treesimjoin/simjoin/internal/label"

// Model provides deletion, insertion and rename costs over label ids.
// Kernels are generic in Model so a caller can plug in a weighted cost
// table without touching the DP code.
type Model interface {
	Del(l label.ID) float64
	Ins(l label.ID) float64
	Ren(l1, l2 label.ID) float64
}

// Unit is the default cost model: 1 for every delete/insert, 1 for a
// rename between different labels, 0 for ren(l,l).
type Unit struct{}

// Del implements Model.
func (Unit) Del(label.ID) float64 { return 1 }

// Ins implements Model.
func (Unit) Ins(label.ID) float64 { return 1 }

// Ren implements Model.
func (Unit) Ren(l1, l2 label.ID) float64 {
	if l1 == l2 {
		return 0
	}
	return 1
}

// Weighted is a per-label cost table for callers that need something
// other than unit costs; labels absent from the maps fall back to 1.
type Weighted struct {
	DelCost map[label.ID]float64
	InsCost map[label.ID]float64
}

// Del implements Model.
func (w Weighted) Del(l label.ID) float64 {
	if c, ok := w.DelCost[l]; ok {
		return c
	}
	return 1
}

// Ins implements Model.
func (w Weighted) Ins(l label.ID) float64 {
	if c, ok := w.InsCost[l]; ok {
		return c
	}
	return 1
}

// Ren implements Model.
func (w Weighted) Ren(l1, l2 label.ID) float64 {
	if l1 == l2 {
		return 0
	}
	return (w.Del(l1) + w.Ins(l2)) / 2
}
