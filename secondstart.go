/*
 *  secondstart.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

// SecondStart computes the second-start coordinate of a read from its
// ascending covered positions: the boundary of the largest internal hole,
// taken on the right of the hole on the plus strand and on the left on the
// minus strand. Ties between equally large holes go to the first one in
// position order. A read without holes always has second-start 0.
//
// With a segmentation, the candidate boundary must coincide with an
// annotated segment boundary; otherwise the read is strange and treated as
// unsplit. Without a segmentation every read is treated as unsplit, but
// reads whose largest hole exceeds holesizeTh are still reported strange.
func SecondStart(poss []int, cs ChromStrand, seg *Segmentation, holesizeTh int) (secondStart int, strange bool) {
	biggestHole := 0
	biggestAt := 0
	for i := 1; i < len(poss); i++ {
		if hole := poss[i] - poss[i-1] - 1; hole > biggestHole {
			biggestHole = hole
			biggestAt = i - 1
		}
	}
	if biggestHole == 0 {
		return 0, false
	}

	if seg == nil {
		return 0, biggestHole > holesizeTh
	}

	candidate := poss[biggestAt+1]
	if cs.Strand == '-' {
		candidate = poss[biggestAt]
	}
	if seg.HasBoundary(cs, candidate) {
		return candidate, false
	}
	return 0, true
}
