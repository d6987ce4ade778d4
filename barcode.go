/*
 *  barcode.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import "strings"

// wildcard is the ambiguous base call; it matches any nucleotide when
// comparing barcodes.
const wildcard = 'N'

// rbcMarker is the explicit randomer token in a read name
const rbcMarker = ":rbc:"

var validNucleotides = map[byte]bool{
	'A': true,
	'C': true,
	'G': true,
	'T': true,
	'N': true,
}

// ExtractBarcode pulls the random barcode (randomer) out of a read name.
// Reads demultiplexed by iCount carry an explicit ":rbc:" token; otherwise
// the token after the last colon is taken, but only if it spells a valid
// nucleotide sequence. Extraction never fails a read: when no barcode can
// be recovered the empty string is returned and the matching counter in
// metrics is incremented. Barcodes are normalized to upper case.
func ExtractBarcode(name string, m *Metrics) string {
	if i := strings.LastIndex(name, rbcMarker); i >= 0 {
		bc := name[i+len(rbcMarker):]
		if j := strings.IndexByte(bc, ':'); j >= 0 {
			bc = bc[:j]
		}
		return strings.ToUpper(bc)
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		bc := strings.ToUpper(name[i+1:])
		for k := 0; k < len(bc); k++ {
			if !validNucleotides[bc[k]] {
				m.InvalidBarcodeRecs++
				return ""
			}
		}
		return bc
	}
	m.NoBarcodeRecs++
	return ""
}

// Match reports whether two barcodes differ by at most the given number of
// mismatches. Positions are compared up to the shorter length; the wildcard
// matches anything. Any length difference counts towards the mismatches,
// so the effective distance is max(len1, len2) - matches. Inputs are
// expected upper case, as produced by ExtractBarcode.
func Match(s1, s2 string, mismatches int) bool {
	n := min(len(s1), len(s2))
	matches := 0
	for i := 0; i < n; i++ {
		if s1[i] == s2[i] || s1[i] == wildcard || s2[i] == wildcard {
			matches++
		}
	}
	return max(len(s1), len(s2))-matches <= mismatches
}
