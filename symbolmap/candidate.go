package symbolmap

import (
	"sort"

	"chafago/symbol"
)

// Candidate is one result from FindCandidates/FindCandidatesWide: the
// index into Symbols()/WideSymbols(), its Hamming distance, and whether
// the match was against the inverted target bitmap.
type Candidate struct {
	Index      int
	Hamming    int
	IsInverted bool
}

// sentinelNarrow/sentinelWide are distances larger than any possible real
// distance (64 bits max for narrow, 128 for wide), used to simplify the
// fixed-size sorted-insert bookkeeping (SPEC_FULL.md design notes).
const (
	sentinelNarrow = 65
	sentinelWide   = 129
)

// FindCandidates returns up to n candidates (n<=8) with the smallest
// Hamming distance to target, considering the inverted target too when
// allowInverse is set. Results are sorted ascending by distance (§8
// property 4). Implemented as a popcount-sorted binary-search window
// expanding outward, matching chafa's find_candidates (see
// SPEC_FULL.md "Supplemented features").
func (m *SymbolMap) FindCandidates(target symbol.Bitmap, allowInverse bool, n int) []Candidate {
	m.Prepare()
	return findCandidates(m.symbols, m.packed, target, allowInverse, n)
}

// FindCandidatesWide is the double-cell variant operating over the wide
// symbol list; target's max Hamming distance is 128.
func (m *SymbolMap) FindCandidatesWide(left, right symbol.Bitmap, allowInverse bool, n int) []Candidate {
	m.Prepare()
	return findCandidatesWide(m.wideSymbols, m.widePacked, left, right, allowInverse, n)
}

func findCandidates(symbols []symbol.Symbol, packed []symbol.Bitmap, target symbol.Bitmap, allowInverse bool, n int) []Candidate {
	if n <= 0 || len(symbols) == 0 {
		return nil
	}
	if n > 8 {
		n = 8
	}

	targetPopcount := target.Popcount()
	// Binary-search the insertion point for targetPopcount in the
	// popcount-sorted array, then expand outward so the search visits
	// symbols in roughly ascending |popcount - target popcount| order
	// instead of a full linear scan.
	start := sort.Search(len(symbols), func(i int) bool { return symbols[i].Popcount >= targetPopcount })

	best := make([]Candidate, 0, n)
	worst := sentinelNarrow

	consider := func(i int, inverted bool) {
		dist := packed[i].Hamming(target)
		if inverted {
			dist = 64 - dist
		}
		if len(best) == n && dist >= worst {
			return
		}
		best = insertSorted(best, Candidate{Index: i, Hamming: dist, IsInverted: inverted}, n)
		if len(best) == n {
			worst = best[len(best)-1].Hamming
		}
	}

	lo, hi := start-1, start
	for lo >= 0 || hi < len(symbols) {
		if lo >= 0 {
			// Skip the un-inverted distance once the popcount gap alone
			// exceeds the current worst kept distance (popcount delta
			// lower-bounds Hamming distance). The gap does not bound the
			// inverted distance, so that one is always computed.
			if len(best) < n || targetPopcount-symbols[lo].Popcount <= worst {
				consider(lo, false)
			}
			if allowInverse {
				consider(lo, true)
			}
			lo--
		}
		if hi < len(symbols) {
			if len(best) < n || symbols[hi].Popcount-targetPopcount <= worst {
				consider(hi, false)
			}
			if allowInverse {
				consider(hi, true)
			}
			hi++
		}
	}

	return best
}

func findCandidatesWide(symbols []symbol.Symbol, packed []widePacked, left, right symbol.Bitmap, allowInverse bool, n int) []Candidate {
	if n <= 0 || len(symbols) == 0 {
		return nil
	}
	if n > 8 {
		n = 8
	}
	best := make([]Candidate, 0, n)
	worst := sentinelWide
	for i := range symbols {
		dist := packed[i].left.Hamming(left) + packed[i].right.Hamming(right)
		if len(best) == n && dist >= worst {
			continue
		}
		best = insertSorted(best, Candidate{Index: i, Hamming: dist}, n)
		if len(best) == n {
			worst = best[len(best)-1].Hamming
		}
	}
	if allowInverse {
		for i := range symbols {
			dist := 128 - (packed[i].left.Hamming(left) + packed[i].right.Hamming(right))
			if len(best) == n && dist >= worst {
				continue
			}
			best = insertSorted(best, Candidate{Index: i, Hamming: dist, IsInverted: true}, n)
			if len(best) == n {
				worst = best[len(best)-1].Hamming
			}
		}
	}
	return best
}

// insertSorted keeps at most cap entries, sorted ascending by Hamming.
func insertSorted(list []Candidate, c Candidate, cap int) []Candidate {
	i := sort.Search(len(list), func(i int) bool { return list[i].Hamming > c.Hamming })
	list = append(list, Candidate{})
	copy(list[i+1:], list[i:])
	list[i] = c
	if len(list) > cap {
		list = list[:cap]
	}
	return list
}

// FindFillCandidate does a binary search in the popcount-sorted narrow
// list for the symbol whose popcount is closest to targetPopcount. If
// allowInverse, 64-targetPopcount is considered too, and whichever is
// nearer wins. Returns (index, found).
func (m *SymbolMap) FindFillCandidate(targetPopcount int, allowInverse bool) (int, bool) {
	m.Prepare()
	if len(m.symbols) == 0 {
		return 0, false
	}
	idx, dist := nearestPopcountIndex(m.symbols, targetPopcount)
	if allowInverse {
		idx2, dist2 := nearestPopcountIndex(m.symbols, 64-targetPopcount)
		if dist2 < dist {
			return idx2, true
		}
	}
	return idx, true
}

func nearestPopcountIndex(symbols []symbol.Symbol, target int) (int, int) {
	i := sort.Search(len(symbols), func(i int) bool { return symbols[i].Popcount >= target })
	bestIdx := 0
	bestDist := 1 << 30
	for _, cand := range []int{i - 1, i} {
		if cand < 0 || cand >= len(symbols) {
			continue
		}
		d := abs(symbols[cand].Popcount - target)
		if d < bestDist {
			bestDist = d
			bestIdx = cand
		}
	}
	return bestIdx, bestDist
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
