/*
 *  collapse.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import "fmt"

// GroupBy selects which derived coordinate of a read receives its score
type GroupBy int

// Scores go to the cross-link position by default; middle and end exist
// for diagnostic purposes.
const (
	GroupByStart GroupBy = iota
	GroupByMiddle
	GroupByEnd
)

// ParseGroupBy converts a command-line value into a GroupBy
func ParseGroupBy(s string) (GroupBy, error) {
	switch s {
	case "start":
		return GroupByStart, nil
	case "middle":
		return GroupByMiddle, nil
	case "end":
		return GroupByEnd, nil
	}
	return 0, fmt.Errorf("group_by must be start, middle or end, got %q", s)
}

// SiteCounts accumulates the cDNA weight and read count at one coordinate
type SiteCounts struct {
	CDNA  float64
	Reads int
}

// Collapse turns one merged barcode group into per-coordinate cDNA and
// read counts. Hits under one barcode are sub-partitioned by second-start;
// each sub-group represents an independent cross-link event carrying a
// total cDNA weight of 1, split among its hits proportionally to read
// length and inversely to mapping multiplicity:
//
//	weight = read_len / (num_mapped * sum of eligible read lengths)
//
// Hits mapped to more than multimax places contribute nothing, to the
// denominator included.
func Collapse(xlinkPos int, byBc BarcodeGroup, groupBy GroupBy, multimax int) map[int]SiteCounts {
	counts := make(map[int]SiteCounts)

	for _, hits := range byBc {
		bySecondStart := make(map[int][]Hit)
		for _, h := range hits {
			bySecondStart[h.SecondStart] = append(bySecondStart[h.SecondStart], h)
		}

		for _, group := range bySecondStart {
			sumLen := 0
			for _, h := range group {
				if h.NumMapped <= multimax {
					sumLen += h.ReadLen
				}
			}

			for _, h := range group {
				if h.NumMapped > multimax {
					continue
				}
				pos := xlinkPos
				switch groupBy {
				case GroupByMiddle:
					pos = h.MiddlePos
				case GroupByEnd:
					pos = h.EndPos
				}
				c := counts[pos]
				c.CDNA += float64(h.ReadLen) / float64(h.NumMapped*sumLen)
				c.Reads++
				counts[pos] = c
			}
		}
	}

	return counts
}
