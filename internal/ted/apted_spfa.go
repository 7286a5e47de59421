package ted

import (
	"math"

	"github.com/treesimjoin/simjoin/internal/matrix"
)

// spfA is the general single-path function for inner paths (and the
// boundary paths of subtrees hanging off them): it walks the chosen
// path bottom-up and, per path node, resolves the forests to the left
// and to the right of the path against every relevant subforest of G.
// The s and t matrices carry distances between the current F forests
// and G forests; q caches one column of s per left/right switch; fn/ft
// encode, per G node, the next node in the leaf-delimited traversal
// order of the current G subforest.
func (r *aptedRun) spfA(f *aptedSide, fRoot int, g *aptedSide, gRoot int, pathID, pathType int, treesSwapped bool) float64 {
	t1, t2 := f.idx, g.idx
	it2labels := t2.PrelToLabelID
	it1sizes := t1.PrelToSize
	it2sizes := t2.PrelToSize
	it1parents := t1.PrelToParent
	it2parents := t2.PrelToParent
	it1preLToPreR := t1.PrelToPrer
	it2preLToPreR := t2.PrelToPrer
	it1preRToPreL := t1.PrerToPrel
	it2preRToPreL := t2.PrerToPrel
	currentSubtreePreL1 := fRoot
	currentSubtreePreL2 := gRoot

	currentForestSize1 := 0
	currentForestSize2 := 0
	tmpForestSize1 := 0
	currentForestCost1 := 0.0
	currentForestCost2 := 0.0
	tmpForestCost1 := 0.0

	subtreeSize2 := it2sizes[currentSubtreePreL2]
	subtreeSize1 := it1sizes[currentSubtreePreL1]
	t := matrix.New[float64](subtreeSize2+1, subtreeSize2+1)
	s := matrix.New[float64](subtreeSize1+1, subtreeSize2+1)

	minCost := -1.0
	var sp1, sp2, sp3 float64
	startPathNode := -1
	endPathNode := pathID
	it1PreLoff := endPathNode
	it2PreLoff := currentSubtreePreL2
	it1PreRoff := it1preLToPreR[endPathNode]
	it2PreRoff := it2preLToPreR[it2PreLoff]
	fnSentinel := len(r.fn) - 1
	intMax := math.MaxInt32

	// Loop A - walk up the path.
	for endPathNode >= currentSubtreePreL1 {
		it1PreLoff = endPathNode
		it1PreRoff = it1preLToPreR[endPathNode]
		rFlast := -1
		lFlast := -1
		endPathNodeInPreR := it1preLToPreR[endPathNode]
		startPathNodeInPreR := intMax
		if startPathNode != -1 {
			startPathNodeInPreR = it1preLToPreR[startPathNode]
		}
		parentOfEndPathNode := it1parents[endPathNode]
		parentOfEndPathNodeInPreR := intMax
		if parentOfEndPathNode != -1 {
			parentOfEndPathNodeInPreR = it1preLToPreR[parentOfEndPathNode]
		}
		leftPart := startPathNode-endPathNode > 1
		rightPart := startPathNode != -1 && startPathNodeInPreR-endPathNodeInPreR > 1

		// Deal with nodes to the left of the path.
		if pathType == 1 || (pathType == 2 && leftPart) {
			var rFfirst, lFfirst int
			if startPathNode == -1 {
				rFfirst = endPathNodeInPreR
				lFfirst = endPathNode
			} else {
				rFfirst = startPathNodeInPreR
				lFfirst = startPathNode - 1
			}
			if !rightPart {
				rFlast = endPathNodeInPreR
			}
			rGlast := it2preLToPreR[currentSubtreePreL2]
			rGfirst := rGlast + subtreeSize2 - 1
			if rightPart {
				lFlast = endPathNode + 1
			} else {
				lFlast = endPathNode
			}
			r.fn[fnSentinel] = -1
			for i := currentSubtreePreL2; i < currentSubtreePreL2+subtreeSize2; i++ {
				r.fn[i] = -1
				r.ft[i] = -1
			}
			tmpForestSize1 = currentForestSize1
			tmpForestCost1 = currentForestCost1
			// Loop B - for all nodes in G.
			for rG := rGfirst; rG >= rGlast; rG-- {
				lGfirst := it2preRToPreL[rG]
				rGInPreL := it2preRToPreL[rG]
				rGminus1InPreL := intMax
				if rG > it2preLToPreR[currentSubtreePreL2] {
					rGminus1InPreL = it2preRToPreL[rG-1]
				}
				parentOfRGInPreL := it2parents[rGInPreL]
				var lGlast int
				if pathType == 1 {
					if lGfirst == currentSubtreePreL2 || rGminus1InPreL != parentOfRGInPreL {
						lGlast = lGfirst
					} else {
						lGlast = it2parents[lGfirst] + 1
					}
				} else {
					if lGfirst == currentSubtreePreL2 {
						lGlast = lGfirst
					} else {
						lGlast = currentSubtreePreL2 + 1
					}
				}
				r.updateFnArray(t2.PrelToLn[lGfirst], lGfirst, currentSubtreePreL2)
				r.updateFtArray(t2.PrelToLn[lGfirst], lGfirst)
				rF := rFfirst
				currentForestSize1 = tmpForestSize1
				currentForestCost1 = tmpForestCost1
				// Loop C - for all nodes to the left of the path node.
				for lF := lFfirst; lF >= lFlast; lF-- {
					if lF == lFlast && !rightPart {
						rF = rFlast
					}
					lFNodeLabel := t1.PrelToLabelID[lF]
					currentForestSize1++
					currentForestCost1 += r.opCost(treesSwapped, lFNodeLabel, true)
					currentForestSize2 = it2sizes[lGfirst]
					if treesSwapped {
						currentForestCost2 = g.subDel[lGfirst]
					} else {
						currentForestCost2 = g.subIns[lGfirst]
					}
					lFInPreR := it1preLToPreR[lF]
					fForestIsTree := lFInPreR == rF
					lFSubtreeSize := it1sizes[lF]
					lFIsConsecutiveNodeOfCurrentPathNode := startPathNode-lF == 1
					lFIsLeftSiblingOfCurrentPathNode := lF+lFSubtreeSize == startPathNode

					sp1spointer := (lF + 1) - it1PreLoff
					sp2spointer := lF - it1PreLoff
					sp3spointer := 0
					sp3deltapointer := lF
					if treesSwapped {
						sp3deltapointer = 0
					}
					swritepointer := lF - it1PreLoff

					sp1source := 1
					sp3source := 1
					if fForestIsTree {
						if lFSubtreeSize == 1 {
							sp1source = 3
						} else if lFIsConsecutiveNodeOfCurrentPathNode {
							sp1source = 2
						}
						sp3 = 0
						sp3source = 2
					} else {
						if lFIsConsecutiveNodeOfCurrentPathNode {
							sp1source = 2
						}
						if treesSwapped {
							sp3 = currentForestCost1 - f.subIns[lF]
						} else {
							sp3 = currentForestCost1 - f.subDel[lF]
						}
						if lFIsLeftSiblingOfCurrentPathNode {
							sp3source = 3
						}
					}
					if sp3source == 1 {
						sp3spointer = (lF + lFSubtreeSize) - it1PreLoff
					}
					lG := lGfirst
					// First node of Loop D.
					switch sp1source {
					case 1:
						sp1 = s.MustAt(sp1spointer, lG-it2PreLoff)
					case 2:
						sp1 = t.MustAt(lG-it2PreLoff, rG-it2PreRoff)
					case 3:
						sp1 = currentForestCost2
					}
					sp1 += r.opCost(treesSwapped, lFNodeLabel, true)
					minCost = sp1
					if currentForestSize2 == 1 {
						sp2 = currentForestCost1
					} else {
						sp2 = r.q[lF]
					}
					sp2 += r.opCost(treesSwapped, it2labels[lG], false)
					if sp2 < minCost {
						minCost = sp2
					}
					if sp3 < minCost {
						if treesSwapped {
							sp3 += r.delta.MustAt(lG, lF)
						} else {
							sp3 += r.delta.MustAt(sp3deltapointer, lG)
						}
						if sp3 < minCost {
							if treesSwapped {
								sp3 += r.model.Ren(it2labels[lG], lFNodeLabel)
							} else {
								sp3 += r.model.Ren(lFNodeLabel, it2labels[lG])
							}
							if sp3 < minCost {
								minCost = sp3
							}
						}
					}
					s.MustSet(swritepointer, lG-it2PreLoff, minCost)
					lG = r.ft[lG]
					r.kernel.subproblems++
					// Loop D - for all nodes to the left of rG.
					for lG >= lGlast {
						currentForestSize2++
						currentForestCost2 += r.opCost(treesSwapped, it2labels[lG], false)
						switch sp1source {
						case 1:
							sp1 = s.MustAt(sp1spointer, lG-it2PreLoff) + r.opCost(treesSwapped, lFNodeLabel, true)
						case 2:
							sp1 = t.MustAt(lG-it2PreLoff, rG-it2PreRoff) + r.opCost(treesSwapped, lFNodeLabel, true)
						case 3:
							sp1 = currentForestCost2 + r.opCost(treesSwapped, lFNodeLabel, true)
						}
						sp2 = s.MustAt(sp2spointer, r.fn[lG]-it2PreLoff) + r.opCost(treesSwapped, it2labels[lG], false)
						minCost = sp1
						if sp2 < minCost {
							minCost = sp2
						}
						if treesSwapped {
							sp3 = r.delta.MustAt(lG, lF)
						} else {
							sp3 = r.delta.MustAt(sp3deltapointer, lG)
						}
						if sp3 < minCost {
							switch sp3source {
							case 1:
								sp3 += s.MustAt(sp3spointer, r.fn[(lG+it2sizes[lG])-1]-it2PreLoff)
							case 2:
								if treesSwapped {
									sp3 += currentForestCost2 - g.subDel[lG]
								} else {
									sp3 += currentForestCost2 - g.subIns[lG]
								}
							case 3:
								sp3 += t.MustAt(r.fn[(lG+it2sizes[lG])-1]-it2PreLoff, rG-it2PreRoff)
							}
							if sp3 < minCost {
								if treesSwapped {
									sp3 += r.model.Ren(it2labels[lG], lFNodeLabel)
								} else {
									sp3 += r.model.Ren(lFNodeLabel, it2labels[lG])
								}
								if sp3 < minCost {
									minCost = sp3
								}
							}
						}
						s.MustSet(swritepointer, lG-it2PreLoff, minCost)
						lG = r.ft[lG]
						r.kernel.subproblems++
					}
				}
				if rGminus1InPreL == parentOfRGInPreL {
					if !rightPart {
						if leftPart {
							if treesSwapped {
								r.delta.MustSet(parentOfRGInPreL, endPathNode, s.MustAt((lFlast+1)-it1PreLoff, (rGminus1InPreL+1)-it2PreLoff))
							} else {
								r.delta.MustSet(endPathNode, parentOfRGInPreL, s.MustAt((lFlast+1)-it1PreLoff, (rGminus1InPreL+1)-it2PreLoff))
							}
						}
						if endPathNode > 0 && endPathNode == parentOfEndPathNode+1 && endPathNodeInPreR == parentOfEndPathNodeInPreR+1 {
							if treesSwapped {
								r.delta.MustSet(parentOfRGInPreL, parentOfEndPathNode, s.MustAt(lFlast-it1PreLoff, (rGminus1InPreL+1)-it2PreLoff))
							} else {
								r.delta.MustSet(parentOfEndPathNode, parentOfRGInPreL, s.MustAt(lFlast-it1PreLoff, (rGminus1InPreL+1)-it2PreLoff))
							}
						}
					}
					for lF := lFfirst; lF >= lFlast; lF-- {
						r.q[lF] = s.MustAt(lF-it1PreLoff, (parentOfRGInPreL+1)-it2PreLoff)
					}
				}
				for lG := lGfirst; lG >= lGlast; lG = r.ft[lG] {
					t.MustSet(lG-it2PreLoff, rG-it2PreRoff, s.MustAt(lFlast-it1PreLoff, lG-it2PreLoff))
				}
			}
		}

		// Deal with nodes to the right of the path.
		if pathType == 0 || (pathType == 2 && rightPart) || (pathType == 2 && !leftPart && !rightPart) {
			var lFfirst, rFfirst int
			if startPathNode == -1 {
				lFfirst = endPathNode
				rFfirst = it1preLToPreR[endPathNode]
			} else {
				rFfirst = it1preLToPreR[startPathNode] - 1
				lFfirst = endPathNode + 1
			}
			lFlast = endPathNode
			lGlast := currentSubtreePreL2
			lGfirst := (lGlast + subtreeSize2) - 1
			rFlast = it1preLToPreR[endPathNode]
			r.fn[fnSentinel] = -1
			for i := currentSubtreePreL2; i < currentSubtreePreL2+subtreeSize2; i++ {
				r.fn[i] = -1
				r.ft[i] = -1
			}
			tmpForestSize1 = currentForestSize1
			tmpForestCost1 = currentForestCost1
			// Loop B' - for all nodes in G.
			for lG := lGfirst; lG >= lGlast; lG-- {
				rGfirst := it2preLToPreR[lG]
				r.updateFnArray(t2.PrerToLn[rGfirst], rGfirst, it2preLToPreR[currentSubtreePreL2])
				r.updateFtArray(t2.PrerToLn[rGfirst], rGfirst)
				lF := lFfirst
				lGminus1InPreR := intMax
				if lG > currentSubtreePreL2 {
					lGminus1InPreR = it2preLToPreR[lG-1]
				}
				parentOfLG := it2parents[lG]
				parentOfLGInPreR := -1
				if parentOfLG != -1 {
					parentOfLGInPreR = it2preLToPreR[parentOfLG]
				}
				currentForestSize1 = tmpForestSize1
				currentForestCost1 = tmpForestCost1
				var rGlast int
				if pathType == 0 {
					if lG == currentSubtreePreL2 {
						rGlast = rGfirst
					} else if t2.PrelToChildren[parentOfLG][0] != lG {
						rGlast = rGfirst
					} else {
						rGlast = it2preLToPreR[parentOfLG] + 1
					}
				} else {
					if rGfirst == it2preLToPreR[currentSubtreePreL2] {
						rGlast = rGfirst
					} else {
						rGlast = it2preLToPreR[currentSubtreePreL2]
					}
				}
				// Loop C' - for all nodes to the right of the path node.
				for rF := rFfirst; rF >= rFlast; rF-- {
					if rF == rFlast {
						lF = lFlast
					}
					rFInPreL := it1preRToPreL[rF]
					currentForestSize1++
					currentForestCost1 += r.opCost(treesSwapped, t1.PrelToLabelID[rFInPreL], true)
					currentForestSize2 = it2sizes[lG]
					if treesSwapped {
						currentForestCost2 = g.subDel[lG]
					} else {
						currentForestCost2 = g.subIns[lG]
					}
					rFSubtreeSize := it1sizes[rFInPreL]
					rFIsConsecutiveNodeOfCurrentPathNode := false
					rFIsRightSiblingOfCurrentPathNode := false
					if startPathNode > 0 {
						rFIsConsecutiveNodeOfCurrentPathNode = startPathNodeInPreR-rF == 1
						rFIsRightSiblingOfCurrentPathNode = rF+rFSubtreeSize == startPathNodeInPreR
					}
					fForestIsTree := rFInPreL == lF
					rFNodeLabel := t1.PrelToLabelID[rFInPreL]
					sp1spointer := (rF + 1) - it1PreRoff
					sp2spointer := rF - it1PreRoff
					sp3spointer := 0
					sp3deltapointer := rFInPreL
					if treesSwapped {
						sp3deltapointer = 0
					}
					swritepointer := rF - it1PreRoff
					sp1tpointer := lG - it2PreLoff
					sp3tpointer := lG - it2PreLoff
					sp1source := 1
					sp3source := 1
					if fForestIsTree {
						if rFSubtreeSize == 1 {
							sp1source = 3
						} else if rFIsConsecutiveNodeOfCurrentPathNode {
							sp1source = 2
						}
						sp3 = 0
						sp3source = 2
					} else {
						if rFIsConsecutiveNodeOfCurrentPathNode {
							sp1source = 2
						}
						if treesSwapped {
							sp3 = currentForestCost1 - f.subIns[rFInPreL]
						} else {
							sp3 = currentForestCost1 - f.subDel[rFInPreL]
						}
						if rFIsRightSiblingOfCurrentPathNode {
							sp3source = 3
						}
					}
					if sp3source == 1 {
						sp3spointer = (rF + rFSubtreeSize) - it1PreRoff
					}
					if currentForestSize2 == 1 {
						sp2 = currentForestCost1
					} else {
						sp2 = r.q[rF]
					}
					rG := rGfirst
					rGfirstInPreL := it2preRToPreL[rGfirst]
					currentForestSize2++
					switch sp1source {
					case 1:
						sp1 = s.MustAt(sp1spointer, rG-it2PreRoff)
					case 2:
						sp1 = t.MustAt(sp1tpointer, rG-it2PreRoff)
					case 3:
						sp1 = currentForestCost2
					}
					sp1 += r.opCost(treesSwapped, rFNodeLabel, true)
					minCost = sp1
					sp2 += r.opCost(treesSwapped, it2labels[rGfirstInPreL], false)
					if sp2 < minCost {
						minCost = sp2
					}
					if sp3 < minCost {
						if treesSwapped {
							sp3 += r.delta.MustAt(rGfirstInPreL, rFInPreL)
						} else {
							sp3 += r.delta.MustAt(sp3deltapointer, rGfirstInPreL)
						}
						if sp3 < minCost {
							if treesSwapped {
								sp3 += r.model.Ren(it2labels[rGfirstInPreL], rFNodeLabel)
							} else {
								sp3 += r.model.Ren(rFNodeLabel, it2labels[rGfirstInPreL])
							}
							if sp3 < minCost {
								minCost = sp3
							}
						}
					}
					s.MustSet(swritepointer, rG-it2PreRoff, minCost)
					rG = r.ft[rG]
					r.kernel.subproblems++
					// Loop D' - for all nodes to the right of lG.
					for rG >= rGlast {
						rGInPreL := it2preRToPreL[rG]
						currentForestSize2++
						currentForestCost2 += r.opCost(treesSwapped, it2labels[rGInPreL], false)
						switch sp1source {
						case 1:
							sp1 = s.MustAt(sp1spointer, rG-it2PreRoff) + r.opCost(treesSwapped, rFNodeLabel, true)
						case 2:
							sp1 = t.MustAt(sp1tpointer, rG-it2PreRoff) + r.opCost(treesSwapped, rFNodeLabel, true)
						case 3:
							sp1 = currentForestCost2 + r.opCost(treesSwapped, rFNodeLabel, true)
						}
						sp2 = s.MustAt(sp2spointer, r.fn[rG]-it2PreRoff) + r.opCost(treesSwapped, it2labels[rGInPreL], false)
						minCost = sp1
						if sp2 < minCost {
							minCost = sp2
						}
						if treesSwapped {
							sp3 = r.delta.MustAt(rGInPreL, rFInPreL)
						} else {
							sp3 = r.delta.MustAt(sp3deltapointer, rGInPreL)
						}
						if sp3 < minCost {
							switch sp3source {
							case 1:
								sp3 += s.MustAt(sp3spointer, r.fn[(rG+it2sizes[rGInPreL])-1]-it2PreRoff)
							case 2:
								if treesSwapped {
									sp3 += currentForestCost2 - g.subDel[rGInPreL]
								} else {
									sp3 += currentForestCost2 - g.subIns[rGInPreL]
								}
							case 3:
								sp3 += t.MustAt(sp3tpointer, r.fn[(rG+it2sizes[rGInPreL])-1]-it2PreRoff)
							}
							if sp3 < minCost {
								if treesSwapped {
									sp3 += r.model.Ren(it2labels[rGInPreL], rFNodeLabel)
								} else {
									sp3 += r.model.Ren(rFNodeLabel, it2labels[rGInPreL])
								}
								if sp3 < minCost {
									minCost = sp3
								}
							}
						}
						s.MustSet(swritepointer, rG-it2PreRoff, minCost)
						rG = r.ft[rG]
						r.kernel.subproblems++
					}
				}
				if lG > currentSubtreePreL2 && lG-1 == parentOfLG {
					if rightPart {
						if treesSwapped {
							r.delta.MustSet(parentOfLG, endPathNode, s.MustAt((rFlast+1)-it1PreRoff, (lGminus1InPreR+1)-it2PreRoff))
						} else {
							r.delta.MustSet(endPathNode, parentOfLG, s.MustAt((rFlast+1)-it1PreRoff, (lGminus1InPreR+1)-it2PreRoff))
						}
					}
					if endPathNode > 0 && endPathNode == parentOfEndPathNode+1 && endPathNodeInPreR == parentOfEndPathNodeInPreR+1 {
						if treesSwapped {
							r.delta.MustSet(parentOfLG, parentOfEndPathNode, s.MustAt(rFlast-it1PreRoff, (lGminus1InPreR+1)-it2PreRoff))
						} else {
							r.delta.MustSet(parentOfEndPathNode, parentOfLG, s.MustAt(rFlast-it1PreRoff, (lGminus1InPreR+1)-it2PreRoff))
						}
					}
					for rF := rFfirst; rF >= rFlast; rF-- {
						r.q[rF] = s.MustAt(rF-it1PreRoff, (parentOfLGInPreR+1)-it2PreRoff)
					}
				}
				for rG := rGfirst; rG >= rGlast; rG = r.ft[rG] {
					t.MustSet(lG-it2PreLoff, rG-it2PreRoff, s.MustAt(rFlast-it1PreRoff, rG-it2PreRoff))
				}
			}
		}
		// Walk up the path by one node.
		startPathNode = endPathNode
		endPathNode = it1parents[endPathNode]
	}
	return minCost
}
