/*
 *  sites.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"sort"

	"github.com/exascience/pargo/parallel"
)

// Quantifier turns a BAM file of mapped iCLIP reads into quantified
// cross-link sites: a BED6 table from uniquely mapped reads, a BED6 table
// including multi-mapped reads, and a BAM file of strange reads.
type Quantifier struct {
	Bamfile      string
	SitesUnique  string
	SitesMulti   string
	SitesStrange string
	Segmentation string
	GroupBy      GroupBy
	Quant        Quant
	Mismatches   int
	MapqTh       int
	Multimax     int
	HolesizeTh   int

	// Results, retained for inspection after Run
	Unique  SiteTable
	Multi   SiteTable
	Metrics *Metrics
}

// Run executes the full xlsites pipeline: group the BAM file, merge and
// collapse every bucket, write the two site tables and the strange reads,
// and report the metrics.
func (r *Quantifier) Run() error {
	var seg *Segmentation
	if r.Segmentation != "" {
		var err error
		if seg, err = LoadSegmentation(r.Segmentation); err != nil {
			return err
		}
	}

	metrics := NewMetrics()
	log.Notice("Processing BAM file to internal structure...")
	grouped, strangeReads, header, err := ProcessBAM(r.Bamfile, r.MapqTh, seg, r.HolesizeTh, metrics)
	if err != nil {
		return err
	}

	log.Notice("Detecting cross-links...")
	unique, multi := DetectSites(grouped, r.GroupBy, r.Mismatches, r.Multimax)

	if err := unique.WriteBED(r.SitesUnique, r.Quant); err != nil {
		return err
	}
	log.Noticef("Saved to BED file (uniquely mapped reads): %s", r.SitesUnique)
	if err := multi.WriteBED(r.SitesMulti, r.Quant); err != nil {
		return err
	}
	log.Noticef("Saved to BED file (multi-mapped reads): %s", r.SitesMulti)

	if len(strangeReads) > 0 {
		if err := WriteStrangeBAM(r.SitesStrange, header, strangeReads); err != nil {
			return err
		}
		log.Noticef("There are %d reads with second-start not falling on annotation. "+
			"They are reported in file: %s", len(strangeReads), r.SitesStrange)
	}

	metrics.Report()
	r.Unique, r.Multi, r.Metrics = unique, multi, metrics
	return nil
}

// DetectSites runs barcode merging and event collapsing over every
// (chromosome, strand) bucket and accumulates the unique-mapping table
// (multimax 1) and the inclusive table. Buckets share no state, so they
// are processed in parallel; each worker fills its own slot and the
// partial tables are folded afterwards.
func DetectSites(grouped GroupedReads, groupBy GroupBy, mismatches, multimax int) (unique, multi SiteTable) {
	keys := make([]ChromStrand, 0, len(grouped))
	for cs := range grouped {
		keys = append(keys, cs)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Chrom != keys[j].Chrom {
			return keys[i].Chrom < keys[j].Chrom
		}
		return keys[i].Strand < keys[j].Strand
	})

	uniqueParts := make([]map[int]SiteCounts, len(keys))
	multiParts := make([]map[int]SiteCounts, len(keys))
	parallel.Range(0, len(keys), 0, func(low, high int) {
		for i := low; i < high; i++ {
			uniqueByPos := make(map[int]SiteCounts)
			multiByPos := make(map[int]SiteCounts)
			for xlinkPos, byBc := range grouped[keys[i]] {
				MergeSimilarBarcodes(byBc, mismatches)
				// count uniquely mapped reads only
				updateCounts(uniqueByPos, Collapse(xlinkPos, byBc, groupBy, 1))
				// count all reads mapped to at most multimax places
				updateCounts(multiByPos, Collapse(xlinkPos, byBc, groupBy, multimax))
			}
			uniqueParts[i] = uniqueByPos
			multiParts[i] = multiByPos
		}
	})

	unique = make(SiteTable, len(keys))
	multi = make(SiteTable, len(keys))
	for i, cs := range keys {
		unique.Update(cs, uniqueParts[i])
		multi.Update(cs, multiParts[i])
	}
	return unique, multi
}

// updateCounts folds one bucket's counts into a per-chromosome table
func updateCounts(cur, add map[int]SiteCounts) {
	for pos, c := range add {
		v := cur[pos]
		v.CDNA += c.CDNA
		v.Reads += c.Reads
		cur[pos] = v
	}
}
