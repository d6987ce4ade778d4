/*
 *  sites_test.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount_test

import (
	"math"
	"testing"

	icount "github.com/jiananlin/iCount"
)

// addRead inserts one unspliced, uniquely mapped read
func addRead(g icount.GroupedReads, start, readLen int, barcode string) {
	poss := make([]int, readLen)
	for i := range poss {
		poss[i] = start + i
	}
	g.Add(icount.ReadRecord{
		Chrom:     "chr14",
		Strand:    '+',
		Positions: poss,
		ReadLen:   readLen,
		NumMapped: 1,
	}, barcode, 0)
}

func TestDetectSitesFiveReadScenario(t *testing.T) {
	// five reads on two start positions: position a holds three reads with
	// two distinct randomers, position b two reads with two randomers, so
	// both cross-link sites count 2 cDNAs regardless of read lengths
	g := make(icount.GroupedReads)
	addRead(g, 10, 18, "AAAA") // R1
	addRead(g, 10, 15, "AAAA") // R2
	addRead(g, 10, 15, "CCCC") // R3
	addRead(g, 14, 28, "AAAA") // R4
	addRead(g, 14, 17, "GGGG") // R5

	unique, multi := icount.DetectSites(g, icount.GroupByStart, 0, icount.DefaultMultimax)

	cs := icount.ChromStrand{Chrom: "chr14", Strand: '+'}
	for name, table := range map[string]icount.SiteTable{"unique": unique, "multi": multi} {
		byPos := table[cs]
		if byPos == nil {
			t.Fatalf("%s table has no chr14/+ entry", name)
		}
		if c := byPos[9]; math.Abs(c.CDNA-2) > tolerance || c.Reads != 3 {
			t.Errorf("%s table at position a: got (%g, %d), want (2, 3)", name, c.CDNA, c.Reads)
		}
		if c := byPos[13]; math.Abs(c.CDNA-2) > tolerance || c.Reads != 2 {
			t.Errorf("%s table at position b: got (%g, %d), want (2, 2)", name, c.CDNA, c.Reads)
		}
	}
}

func TestDetectSitesMultimapSplit(t *testing.T) {
	g := make(icount.GroupedReads)
	g.Add(icount.ReadRecord{
		Chrom:     "chr1",
		Strand:    '+',
		Positions: []int{20, 21, 22},
		ReadLen:   3,
		NumMapped: 3,
	}, "AAAA", 0)

	unique, multi := icount.DetectSites(g, icount.GroupByStart, 0, icount.DefaultMultimax)

	cs := icount.ChromStrand{Chrom: "chr1", Strand: '+'}
	if c := unique[cs][19]; c.CDNA != 0 || c.Reads != 0 {
		t.Errorf("multimapped hit leaked into unique table: %+v", c)
	}
	// sole eligible hit: weight len/(num_mapped*len) = 1/3
	if c := multi[cs][19]; math.Abs(c.CDNA-1.0/3) > tolerance || c.Reads != 1 {
		t.Errorf("inclusive table: got (%g, %d), want (1/3, 1)", c.CDNA, c.Reads)
	}
}

func TestDetectSitesMergesBarcodes(t *testing.T) {
	g := make(icount.GroupedReads)
	addRead(g, 10, 20, "AAAA")
	addRead(g, 10, 20, "AAAT")

	unique, _ := icount.DetectSites(g, icount.GroupByStart, 1, icount.DefaultMultimax)

	cs := icount.ChromStrand{Chrom: "chr14", Strand: '+'}
	if c := unique[cs][9]; math.Abs(c.CDNA-1) > tolerance || c.Reads != 2 {
		t.Errorf("got (%g, %d), want one merged cDNA with 2 reads", c.CDNA, c.Reads)
	}
}

func TestSiteTableUpdateCommutes(t *testing.T) {
	cs := icount.ChromStrand{Chrom: "chr1", Strand: '-'}
	a := map[int]icount.SiteCounts{5: {CDNA: 1, Reads: 2}, 7: {CDNA: 0.5, Reads: 1}}
	b := map[int]icount.SiteCounts{5: {CDNA: 0.25, Reads: 1}}

	ab := make(icount.SiteTable)
	ab.Update(cs, a)
	ab.Update(cs, b)
	ba := make(icount.SiteTable)
	ba.Update(cs, b)
	ba.Update(cs, a)

	for pos, want := range ab[cs] {
		got := ba[cs][pos]
		if math.Abs(got.CDNA-want.CDNA) > tolerance || got.Reads != want.Reads {
			t.Errorf("position %d: %v vs %v", pos, got, want)
		}
	}
	if c := ab[cs][5]; math.Abs(c.CDNA-1.25) > tolerance || c.Reads != 3 {
		t.Errorf("folded counts at 5: got (%g, %d), want (1.25, 3)", c.CDNA, c.Reads)
	}
}

func TestMetricsMerge(t *testing.T) {
	a := icount.NewMetrics()
	a.AllRecs = 10
	a.UsedRecs = 8
	a.BarcodeCounts["AAAA"] = 5

	b := icount.NewMetrics()
	b.AllRecs = 4
	b.UsedRecs = 3
	b.StrangeRecs = 1
	b.BarcodeCounts["AAAA"] = 2
	b.BarcodeCounts["CCCC"] = 3

	a.Merge(b)
	if a.AllRecs != 14 || a.UsedRecs != 11 || a.StrangeRecs != 1 {
		t.Errorf("merged counters wrong: %+v", a)
	}
	if a.BarcodeCounts["AAAA"] != 7 || a.BarcodeCounts["CCCC"] != 3 {
		t.Errorf("merged barcode counts wrong: %v", a.BarcodeCounts)
	}
}

func TestMetricsTop(t *testing.T) {
	m := icount.NewMetrics()
	m.BarcodeCounts["AAAA"] = 3
	m.BarcodeCounts["CCCC"] = 5
	m.BarcodeCounts["GGGG"] = 1

	top := m.Top(2)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	if top[0].Barcode != "CCCC" || top[0].Count != 5 {
		t.Errorf("top barcode = %+v, want CCCC:5", top[0])
	}
	if top[1].Barcode != "AAAA" {
		t.Errorf("second barcode = %+v, want AAAA", top[1])
	}
}
