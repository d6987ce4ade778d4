/*
 *  bam.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

var nhTag = []byte("NH")

// ProcessBAM reads the alignment file into the grouping hierarchy in a
// single pass, filtering unmapped and low-MAPQ records and counting every
// anomaly into metrics. Reads flagged strange by the second-start resolver
// are collected separately but still grouped with second-start 0. The
// input header is returned for writing the strange reads back out.
//
// A record without the NH (number of reported alignments) tag aborts the
// whole run: multi-mapping correction cannot proceed without it.
func ProcessBAM(bamfile string, mapqTh int, seg *Segmentation, holesizeTh int, metrics *Metrics) (GroupedReads, []*sam.Record, *sam.Header, error) {
	fh, err := os.Open(bamfile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening BAM file: %s", bamfile)
	}
	defer fh.Close()

	log.Noticef("Parse bamfile `%s`", bamfile)
	br, err := bam.NewReader(fh, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error opening BAM file %s: %v", bamfile, err)
	}
	defer br.Close()

	grouped := make(GroupedReads)
	var strange []*sam.Record

	// barcode interning keeps one string per distinct randomer
	cache := make(map[string]string)

	for {
		rec, err := br.Read()
		if err != nil {
			if err != io.EOF {
				return nil, nil, nil, err
			}
			break
		}

		metrics.AllRecs++
		if rec.Flags&sam.Unmapped != 0 {
			metrics.NotMappedRecs++
			continue
		}
		metrics.MappedRecs++

		if int(rec.MapQ) < mapqTh {
			metrics.LowMapqRecs++
			continue
		}
		metrics.UsedRecs++

		numMapped, ok := auxInt(rec, nhTag)
		if !ok {
			return nil, nil, nil, fmt.Errorf(`"NH" tag not set for record: %s`, rec.Name)
		}

		bc := ExtractBarcode(rec.Name, metrics)
		if interned, ok := cache[bc]; ok {
			bc = interned
		} else {
			cache[bc] = bc
		}
		metrics.BarcodeCounts[bc]++

		strand := byte('+')
		if rec.Flags&sam.Reverse != 0 {
			strand = '-'
		}
		poss := coveredPositions(rec)
		if len(poss) == 0 {
			// fully clipped alignments cannot be placed
			continue
		}

		cs := ChromStrand{Chrom: rec.Ref.Name(), Strand: strand}
		secondStart, isStrange := SecondStart(poss, cs, seg, holesizeTh)
		if isStrange {
			strange = append(strange, rec)
		}

		grouped.Add(ReadRecord{
			Chrom:     cs.Chrom,
			Strand:    strand,
			Positions: poss,
			ReadLen:   rec.Seq.Length,
			NumMapped: numMapped,
			Name:      rec.Name,
		}, bc, secondStart)
	}

	metrics.StrangeRecs = len(strange)
	return grouped, strange, br.Header(), nil
}

// WriteStrangeBAM saves the diverted reads under the input header
func WriteStrangeBAM(filename string, header *sam.Header, reads []*sam.Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	bw, err := bam.NewWriter(f, header, 1)
	if err != nil {
		f.Close()
		return err
	}
	for _, rec := range reads {
		if err := bw.Write(rec); err != nil {
			bw.Close()
			f.Close()
			return err
		}
	}
	if err := bw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// coveredPositions expands the CIGAR into the ascending list of reference
// positions covered by the read. Deletions and reference skips advance the
// reference without covering it, leaving holes in the list.
func coveredPositions(rec *sam.Record) []int {
	pos := rec.Pos
	poss := make([]int, 0, rec.Seq.Length)
	for _, op := range rec.Cigar {
		consumes := op.Type().Consumes()
		switch {
		case consumes.Query == 1 && consumes.Reference == 1:
			for i := 0; i < op.Len(); i++ {
				poss = append(poss, pos+i)
			}
			pos += op.Len()
		case consumes.Reference == 1:
			pos += op.Len()
		}
	}
	return poss
}

// auxInt fetches an integer aux tag from a record
func auxInt(rec *sam.Record, tag []byte) (int, bool) {
	aux, ok := rec.Tag(tag)
	if !ok {
		return 0, false
	}
	switch v := aux.Value().(type) {
	case int8:
		return int(v), true
	case uint8:
		return int(v), true
	case int16:
		return int(v), true
	case uint16:
		return int(v), true
	case int32:
		return int(v), true
	case uint32:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
