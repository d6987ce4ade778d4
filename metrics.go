/*
 *  metrics.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import "sort"

// Metrics stores the counters collected during a single xlsites run. All
// per-record anomalies end up here; only a missing NH tag aborts a run.
type Metrics struct {
	AllRecs            int // all records in the BAM file
	NotMappedRecs      int
	MappedRecs         int
	LowMapqRecs        int
	UsedRecs           int // all - unmapped - low MAPQ
	InvalidBarcodeRecs int
	NoBarcodeRecs      int
	StrangeRecs        int
	BarcodeCounts      map[string]int
}

// NewMetrics returns an empty Metrics ready for counting
func NewMetrics() *Metrics {
	return &Metrics{BarcodeCounts: make(map[string]int)}
}

// Merge folds counters from another Metrics into this one. The operation is
// commutative and associative, so partial Metrics from independent workers
// can be combined in any order.
func (m *Metrics) Merge(other *Metrics) {
	m.AllRecs += other.AllRecs
	m.NotMappedRecs += other.NotMappedRecs
	m.MappedRecs += other.MappedRecs
	m.LowMapqRecs += other.LowMapqRecs
	m.UsedRecs += other.UsedRecs
	m.InvalidBarcodeRecs += other.InvalidBarcodeRecs
	m.NoBarcodeRecs += other.NoBarcodeRecs
	m.StrangeRecs += other.StrangeRecs
	for bc, cn := range other.BarcodeCounts {
		m.BarcodeCounts[bc] += cn
	}
}

// BarcodeCount pairs a random barcode with its number of occurrences
type BarcodeCount struct {
	Barcode string
	Count   int
}

// Top returns the n most frequent barcodes, most frequent first. Ties are
// broken by reverse-lexicographic barcode order.
func (m *Metrics) Top(n int) []BarcodeCount {
	counts := make([]BarcodeCount, 0, len(m.BarcodeCounts))
	for bc, cn := range m.BarcodeCounts {
		counts = append(counts, BarcodeCount{Barcode: bc, Count: cn})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Barcode > counts[j].Barcode
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Report writes the collected counters through the package logger
func (m *Metrics) Report() {
	log.Noticef("All records in BAM file: %d", m.AllRecs)
	log.Noticef("Reads not mapped: %d", m.NotMappedRecs)
	log.Noticef("Mapped reads records (hits): %d", m.MappedRecs)
	log.Noticef("Hits ignored because of low MAPQ: %d", m.LowMapqRecs)
	log.Noticef("Records used for quantification: %d", m.UsedRecs)
	log.Noticef("Records with invalid randomer info in header: %d", m.InvalidBarcodeRecs)
	log.Noticef("Records with no randomer info: %d", m.NoBarcodeRecs)
	log.Notice("Ten most frequent randomers:")
	for _, bc := range m.Top(10) {
		log.Noticef("    %s: %d", bc.Barcode, bc.Count)
	}
}
