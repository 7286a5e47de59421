package candidate

// TJoin is the label-set inverted-list candidate generator with
// structural filtering. Sets are processed in input order: Candidates
// probes the prefixes of everything Append-ed so far, then Append makes
// the new set's own prefix visible to later calls. The per-label offset
// cursors advance monotonically as smaller sets fall below the size
// lower bound, so a TJoin belongs to exactly one join invocation and is
// never shared or reused.
//
// Candidate generation is two-staged. The probing prefix of r (entries
// until the accumulated weight exceeds tau+1) is scanned against the
// inverted list; any set with at least one tau-valid occurrence pair
// becomes a pre-candidate. Each pre-candidate then runs the structural
// filter, which resumes the scan where the prefixes left off and counts
// total tau-valid overlap; the pair survives iff that overlap reaches
// |r| - tau.
type TJoin struct {
	Tau int

	invertedList map[int]*ilList // keyed by frequency rank
	sets         []tjSetData

	preCandidates int
	ilLookups     int
}

type tjSetData struct {
	ls     *LabelSet
	prefix int
}

type ilList struct {
	entries []ilEntry
	offset  int
}

type ilEntry struct {
	setIdx int // position in TJoin.sets
	pos    int // entry position within that set
}

// NewTJoin returns an empty TJoin candidate generator for threshold tau.
func NewTJoin(tau int) *TJoin {
	return &TJoin{
		Tau:          tau,
		invertedList: make(map[int]*ilList),
	}
}

// GetNumberOfPreCandidates returns the number of pre-candidates the
// prefix scans produced across all Candidates calls so far.
func (j *TJoin) GetNumberOfPreCandidates() int { return j.preCandidates }

// GetNumberOfILLookups returns the number of inverted-list entries
// scanned across all Candidates calls so far.
func (j *TJoin) GetNumberOfILLookups() int { return j.ilLookups }

func (j *TJoin) il(rank int) *ilList {
	l, ok := j.invertedList[rank]
	if !ok {
		l = &ilList{}
		j.invertedList[rank] = l
	}
	return l
}

// prefixLen is the probing/indexing prefix length of ls: entries up to
// and including the one whose accumulated weight exceeds tau+1.
func prefixLen(ls *LabelSet, tau int) int {
	p := 0
	for p < len(ls.Entries) {
		p++
		if ls.PrefixSize[p-1] > tau+1 {
			break
		}
	}
	return p
}

// Candidates returns the tree ids among already-Append-ed sets that
// survive both the prefix filter and the structural filter against ls.
func (j *TJoin) Candidates(ls *LabelSet) []int {
	overlap := make(map[int]int)
	var preCands []int

	// Small sets need not share a prefix label at all.
	if ls.Size <= j.Tau {
		for idx := range j.sets {
			preCands = append(preCands, idx)
			overlap[idx]++
		}
	}

	prefixR := prefixLen(ls, j.Tau)
	for p := 0; p < prefixR; p++ {
		e := ls.Entries[p]
		list := j.il(e.Rank)
		for list.offset < len(list.entries) &&
			j.sets[list.entries[list.offset].setIdx].ls.Size < ls.Size-j.Tau {
			list.offset++
		}
		for _, ent := range list.entries[list.offset:] {
			j.ilLookups++
			s := j.sets[ent.setIdx]
			tauValid := structuralMapping(e, s.ls.Entries[ent.pos], j.Tau)
			if tauValid != 0 && overlap[ent.setIdx] == 0 {
				preCands = append(preCands, ent.setIdx)
			}
			overlap[ent.setIdx] += tauValid
		}
	}
	j.preCandidates += len(preCands)

	var out []int
	for _, m := range preCands {
		s := j.sets[m]
		if j.structuralFilter(ls, prefixR, s.ls, s.prefix, overlap[m]) {
			out = append(out, s.ls.TreeID)
		}
	}
	return out
}

// Append records ls's prefix entries in the inverted list, making it
// visible to later Candidates calls.
func (j *TJoin) Append(ls *LabelSet) {
	prefix := prefixLen(ls, j.Tau)
	idx := len(j.sets)
	j.sets = append(j.sets, tjSetData{ls: ls, prefix: prefix})
	for p := 0; p < prefix; p++ {
		list := j.il(ls.Entries[p].Rank)
		list.entries = append(list.entries, ilEntry{setIdx: idx, pos: p})
	}
}

// structuralFilter resumes the overlap count past the prefixes and
// reports whether the total tau-valid overlap reaches |r| - tau. maxr
// and maxs track the best overlap still achievable on each side; the
// scan stops as soon as either falls below the requirement.
func (j *TJoin) structuralFilter(r *LabelSet, prefixR int, s *LabelSet, prefixS int, olap int) bool {
	need := r.Size - j.Tau
	if need <= 0 {
		return true
	}
	if len(r.Entries) == 0 || len(s.Entries) == 0 {
		return olap >= need
	}

	// The side whose prefix ended on the larger rank restarts at the
	// overlap point; the other continues right after its prefix.
	var pr, ps int
	if r.Entries[prefixR-1].Rank > s.Entries[prefixS-1].Rank {
		for pr < len(r.Entries) && r.PrefixSize[pr] < olap {
			pr++
		}
		pr++
		ps = prefixS
	} else {
		pr = prefixR
		for ps < len(s.Entries) && s.PrefixSize[ps] < olap {
			ps++
		}
		ps++
	}
	if pr > len(r.Entries) {
		pr = len(r.Entries)
	}
	if ps > len(s.Entries) {
		ps = len(s.Entries)
	}

	maxr := r.Size + olap
	if pr > 0 {
		maxr = r.Size - r.PrefixSize[pr-1] + olap
	}
	maxs := s.Size + olap
	if ps > 0 {
		maxs = s.Size - s.PrefixSize[ps-1] + olap
	}

	for maxr >= need && maxs >= need && olap < need {
		if pr >= len(r.Entries) || ps >= len(s.Entries) {
			break
		}
		re, se := r.Entries[pr], s.Entries[ps]
		switch {
		case re.Rank == se.Rank:
			tauValid := structuralMapping(re, se, j.Tau)
			olap += tauValid
			maxr -= re.Weight - tauValid
			maxs -= se.Weight - tauValid
			pr++
			ps++
		case re.Rank < se.Rank:
			maxr -= re.Weight
			pr++
		default:
			maxs -= se.Weight
			ps++
		}
	}
	return olap >= need
}

// structuralMapping counts tau-valid occurrence pairs between two
// same-labeled entries. Singleton occurrences compare their structural
// vectors directly; duplicate multisets pair greedily in postorder
// within a [post-tau, post+tau] window, iterating the smaller side.
func structuralMapping(a, b LabelOccurrence, tau int) int {
	if a.Weight == 1 && b.Weight == 1 {
		if StructuralMatch(a.Occurrences[0], b.Occurrences[0], tau) {
			return 1
		}
		return 0
	}

	se, le := a, b
	if b.Weight < a.Weight {
		se, le = b, a
	}
	count := 0
	start := 0
	for i := 0; i < len(se.Occurrences); i++ {
		lhd := se.Occurrences[i]
		for start < len(le.Occurrences) && le.Occurrences[start].Postorder < lhd.Postorder-tau {
			start++
		}
		if start == len(le.Occurrences) {
			break
		}
		for k := start; k < len(le.Occurrences); k++ {
			rhd := le.Occurrences[k]
			if rhd.Postorder > lhd.Postorder+tau {
				break
			}
			if StructuralMatch(lhd, rhd, tau) {
				count++
				break
			}
		}
	}
	return count
}
