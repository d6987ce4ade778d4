/*
 *  merge.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"sort"
	"strings"
)

// MergeSimilarBarcodes clusters the barcodes of one cross-link position so
// that barcodes differing only by sequencing error end up in one group.
// The group is mutated in place in two phases:
//
// Phase 1 resolves ambiguous barcodes (those containing the wildcard),
// fewest wildcards first. Each one is tested against the unambiguous
// barcodes in order of decreasing hit count, recomputed before every
// attempt since earlier merges change the frequencies. The first match
// absorbs the ambiguous barcode's hits; with no match anywhere the
// ambiguous barcode is promoted unchanged.
//
// Phase 2 greedily merges any remaining pair within the mismatch budget:
// barcodes are ranked by decreasing hit count, the first barcode with any
// match downstream absorbs all of its matches, and the ranking restarts.
// The loop stops when a full pass merges nothing, so re-running the merge
// on an already-merged group changes nothing.
//
// The greedy first-match policy is deliberately kept: picking the
// least-distant match instead would change groupings on some inputs.
func MergeSimilarBarcodes(byBc BarcodeGroup, mismatches int) {
	accepted := make(map[string]bool)
	type ambiguous struct {
		wildcards int
		barcode   string
	}
	var ambigs []ambiguous
	for bc := range byBc {
		if n := strings.Count(bc, string(wildcard)); n > 0 {
			ambigs = append(ambigs, ambiguous{wildcards: n, barcode: bc})
		} else {
			accepted[bc] = true
		}
	}
	sort.Slice(ambigs, func(i, j int) bool {
		if ambigs[i].wildcards != ambigs[j].wildcards {
			return ambigs[i].wildcards < ambigs[j].wildcards
		}
		return ambigs[i].barcode < ambigs[j].barcode
	})

	for _, amb := range ambigs {
		matched := false
		for _, bc := range rankByFrequency(byBc, accepted) {
			if Match(bc, amb.barcode, mismatches) {
				byBc[bc] = append(byBc[bc], byBc[amb.barcode]...)
				delete(byBc, amb.barcode)
				matched = true
				break
			}
		}
		if !matched {
			accepted[amb.barcode] = true
		}
	}

	for {
		order := rankByFrequency(byBc, nil)
		merged := false
		for i, bc := range order {
			for _, bc2 := range order[i+1:] {
				if Match(bc, bc2, mismatches) {
					byBc[bc] = append(byBc[bc], byBc[bc2]...)
					delete(byBc, bc2)
					merged = true
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			break
		}
	}
}

// rankByFrequency orders barcodes by decreasing hit count, ties broken by
// reverse-lexicographic barcode order. A non-nil subset restricts the
// ranking to the barcodes it contains.
func rankByFrequency(byBc BarcodeGroup, subset map[string]bool) []string {
	bcs := make([]string, 0, len(byBc))
	for bc := range byBc {
		if subset == nil || subset[bc] {
			bcs = append(bcs, bc)
		}
	}
	sort.Slice(bcs, func(i, j int) bool {
		ci, cj := len(byBc[bcs[i]]), len(byBc[bcs[j]])
		if ci != cj {
			return ci > cj
		}
		return bcs[i] > bcs[j]
	})
	return bcs
}
