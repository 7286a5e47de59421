// Package jsonted implements the JSON-aware TED upper bounds: JEDI's
// ordered-array / unordered-object alignment (with Hungarian matching),
// JOFilter's threshold-bounded favorable-child variant, and the DPJED /
// ModPJED dynamic-programming upper bounds from original_source/.
package jsonted

import "math"

// hungarianMinCost solves the square minimum-cost assignment problem
// with the classic O(n^3) Kuhn-Munkres algorithm using row/column
// potentials (the idiomatic Jonker-Volgenant-style alternative spec.md
// §9 accepts in place of a monolithic seven-step state machine). cost is
// read-only; the caller pads it to square beforehand.
func hungarianMinCost(cost [][]float64) float64 {
	n := len(cost)
	if n == 0 {
		return 0
	}
	const inf = math.MaxFloat64 / 4

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j] = row (1-based) assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for k := range minv {
			minv[k] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	var total float64
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			total += cost[p[j]-1][j-1]
		}
	}
	return total
}
