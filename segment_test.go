/*
 *  segment_test.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount_test

import (
	"testing"

	icount "github.com/jiananlin/iCount"
)

const segmentGTF = `# segmentation
chr1	segment	UTR5	101	150	.	+	.	gene_id "G1"; transcript_id "T1";
chr1	segment	CDS	201	260	.	+	.	gene_id "G1"; transcript_id "T1";
chr1	segment	CDS	211	260	.	+	.	gene_id "G1"; transcript_id "T2";
chr1	segment	gene	51	260	.	+	.	gene_id "G1"; transcript_id "gene_segment";
chr2	segment	ncRNA	501	550	.	-	.	gene_id "G2"; transcript_id "T3";
chr2	segment	gene	501	550	.	-	.	gene_id "G2";
`

func TestLoadSegmentationBoundaries(t *testing.T) {
	seg := writeSegmentation(t, segmentGTF)

	plus := icount.ChromStrand{Chrom: "chr1", Strand: '+'}
	if !seg.HasBoundary(plus, 200) {
		t.Error("0-based start 200 of T1 CDS not found")
	}
	if !seg.HasBoundary(plus, 210) {
		t.Error("0-based start 210 of T2 CDS not found")
	}
	if seg.HasBoundary(plus, 201) {
		t.Error("position inside a segment reported as boundary")
	}

	minus := icount.ChromStrand{Chrom: "chr2", Strand: '-'}
	if !seg.HasBoundary(minus, 549) {
		t.Error("0-based stop 549 of T3 not found")
	}
	if seg.HasBoundary(minus, 500) {
		t.Error("minus strand matched a start boundary")
	}
}

func TestLoadSegmentationSkipsGeneSegment(t *testing.T) {
	seg := writeSegmentation(t, segmentGTF)

	plus := icount.ChromStrand{Chrom: "chr1", Strand: '+'}
	// 50 is the gene start, only covered by the synthetic whole-gene entry
	if seg.HasBoundary(plus, 50) {
		t.Error("synthetic gene_segment entry must not answer boundary queries")
	}

	minus := icount.ChromStrand{Chrom: "chr2", Strand: '-'}
	// rows without transcript_id are filed as gene_segment too, so the
	// real T3 segment still answers
	if !seg.HasBoundary(minus, 549) {
		t.Error("per-transcript boundary lost")
	}
}

func TestLoadSegmentationWrongContext(t *testing.T) {
	seg := writeSegmentation(t, segmentGTF)

	if seg.HasBoundary(icount.ChromStrand{Chrom: "chr1", Strand: '-'}, 200) {
		t.Error("boundary reported on the wrong strand")
	}
	if seg.HasBoundary(icount.ChromStrand{Chrom: "chr3", Strand: '+'}, 200) {
		t.Error("boundary reported on an unknown chromosome")
	}
}
