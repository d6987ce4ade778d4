/*
 *  group.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import "sort"

// ChromStrand identifies one independent (chromosome, strand) unit of work
type ChromStrand struct {
	Chrom  string
	Strand byte // '+' or '-'
}

// ReadRecord is a normalized aligned read as delivered by the alignment
// source: reference name, strand, the ascending list of covered genomic
// positions (gaps mark splicing), sequence length, mapping multiplicity
// and the read name carrying the randomer.
type ReadRecord struct {
	Chrom     string
	Strand    byte
	Positions []int
	ReadLen   int
	NumMapped int
	Name      string
}

// ChromStrand returns the grouping key of the read
func (r ReadRecord) ChromStrand() ChromStrand {
	return ChromStrand{Chrom: r.Chrom, Strand: r.Strand}
}

// Hit stores the quantification data derived from a single aligned read,
// kept under its barcode within one cross-link position.
type Hit struct {
	MiddlePos   int
	EndPos      int
	ReadLen     int
	NumMapped   int
	SecondStart int
}

// BarcodeGroup maps a random barcode to the hits collected under one
// cross-link position.
type BarcodeGroup map[string][]Hit

// PositionGroup maps a cross-link position to its barcode groups
type PositionGroup map[int]BarcodeGroup

// GroupedReads is the root container: every read ends up under
// (chromosome, strand) -> cross-link position -> barcode.
type GroupedReads map[ChromStrand]PositionGroup

// DeriveCoords computes the strand-dependent cross-link, middle and end
// coordinates of a read from its ascending covered positions. The
// cross-link site sits one nucleotide before the start of the read (one
// nucleotide after the end on the minus strand). Because reads can be
// spliced, the middle position is the middle covered nucleotide, not the
// middle of the spanned region; on minus-strand reads of even span the
// nucleotide upstream of the exact midpoint is selected.
func DeriveCoords(poss []int, strand byte) (xlinkPos, middlePos, endPos int) {
	if strand == '-' {
		xlinkPos = poss[len(poss)-1] + 1
		endPos = poss[0]
	} else {
		xlinkPos = poss[0] - 1
		endPos = poss[len(poss)-1]
	}

	i := len(poss) / 2
	if len(poss)%2 == 0 && strand == '-' {
		i--
	}
	middlePos = poss[i]

	return xlinkPos, middlePos, endPos
}

// Add derives the coordinates of a read and inserts the resulting Hit into
// the hierarchy. Covered positions are sorted ascending first; cross-link
// derivation is a pure function of strand and positions and is never
// touched by later merging steps.
func (g GroupedReads) Add(r ReadRecord, barcode string, secondStart int) {
	sort.Ints(r.Positions)
	xlinkPos, middlePos, endPos := DeriveCoords(r.Positions, r.Strand)

	cs := r.ChromStrand()
	byPos := g[cs]
	if byPos == nil {
		byPos = make(PositionGroup)
		g[cs] = byPos
	}
	byBc := byPos[xlinkPos]
	if byBc == nil {
		byBc = make(BarcodeGroup)
		byPos[xlinkPos] = byBc
	}
	byBc[barcode] = append(byBc[barcode], Hit{
		MiddlePos:   middlePos,
		EndPos:      endPos,
		ReadLen:     r.ReadLen,
		NumMapped:   r.NumMapped,
		SecondStart: secondStart,
	})
}
