/*
 *  bed.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shenwei356/xopen"
)

// Quant selects which accumulated quantity is written to the output
type Quant int

// The cDNA count estimates distinct source molecules; the read count is
// the raw number of hits.
const (
	QuantCDNA Quant = iota
	QuantReads
)

// ParseQuant converts a command-line value into a Quant
func ParseQuant(s string) (Quant, error) {
	switch s {
	case "cDNA":
		return QuantCDNA, nil
	case "reads":
		return QuantReads, nil
	}
	return 0, fmt.Errorf("quant must be cDNA or reads, got %q", s)
}

// SiteTable maps (chromosome, strand, position) to accumulated counts
type SiteTable map[ChromStrand]map[int]SiteCounts

// Update folds per-position counts into the table by element-wise
// summation. Updates commute, so partial tables from independent buckets
// can be folded in any order.
func (t SiteTable) Update(cs ChromStrand, counts map[int]SiteCounts) {
	byPos := t[cs]
	if byPos == nil {
		byPos = make(map[int]SiteCounts, len(counts))
		t[cs] = byPos
	}
	for pos, c := range counts {
		cur := byPos[pos]
		cur.CDNA += c.CDNA
		cur.Reads += c.Reads
		byPos[pos] = cur
	}
}

// WriteBED saves the table as a BED6 file sorted by chromosome, strand and
// position: chrom, start, end, ".", score, strand. The score column holds
// the quantity selected by quant. Filenames ending in .gz are gzipped.
func (t SiteTable) WriteBED(filename string, quant Quant) error {
	w, err := xopen.Wopen(filename)
	if err != nil {
		return err
	}

	keys := make([]ChromStrand, 0, len(t))
	for cs := range t {
		keys = append(keys, cs)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Chrom != keys[j].Chrom {
			return keys[i].Chrom < keys[j].Chrom
		}
		return keys[i].Strand < keys[j].Strand
	})

	nSites := 0
	for _, cs := range keys {
		byPos := t[cs]
		positions := make([]int, 0, len(byPos))
		for pos := range byPos {
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		for _, pos := range positions {
			c := byPos[pos]
			var score string
			if quant == QuantReads {
				score = strconv.Itoa(c.Reads)
			} else {
				score = strconv.FormatFloat(c.CDNA, 'f', -1, 64)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t.\t%s\t%c\n", cs.Chrom, pos, pos+1, score, cs.Strand)
			nSites++
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	log.Noticef("%d sites written to `%s`", nSites, filename)
	return nil
}
