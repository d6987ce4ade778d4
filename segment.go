/*
 *  segment.go
 *  icount
 *
 *  Created by Jianan Lin on 03/14/21
 */

package icount

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// GeneSegment is the synthetic transcript entry spanning a whole gene. It
// is kept in the structure but never consulted for boundary queries.
const GeneSegment = "gene_segment"

// Segment is one annotated transcript segment. Start is the 0-based first
// position and Stop the 0-based last position, so both ends name covered
// nucleotides and can be compared against read coordinates directly.
type Segment struct {
	Start int
	Stop  int
}

// Segmentation is the annotation collaborator: per (chromosome, strand),
// a gene -> transcript -> ordered segments hierarchy used to validate
// second-start coordinates.
type Segmentation struct {
	genes map[ChromStrand]map[string]map[string][]Segment
}

// LoadSegmentation parses a segment GTF file (as produced by iCount
// segment) into the gene/transcript/segment hierarchy. Rows without a
// transcript_id attribute are filed under the synthetic gene_segment
// entry. Gzipped files are handled transparently.
func LoadSegmentation(filename string) (*Segmentation, error) {
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening segmentation file %s: %v", filename, err)
	}
	defer fh.Close()

	seg := &Segmentation{genes: make(map[ChromStrand]map[string]map[string][]Segment)}
	nSegments := 0
	for {
		line, err := fh.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if line != "" && !strings.HasPrefix(line, "#") {
				if err := seg.addLine(line); err != nil {
					return nil, err
				}
				nSegments++
			}
		}
		if err != nil {
			break
		}
	}
	log.Noticef("Loaded %d segments from `%s`", nSegments, filename)

	return seg, nil
}

// addLine files one GTF row into the hierarchy
func (s *Segmentation) addLine(line string) error {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return fmt.Errorf("segmentation line has %d columns, expected 9: %s", len(fields), line)
	}
	strand := fields[6]
	if strand != "+" && strand != "-" {
		return nil
	}
	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return fmt.Errorf("bad segment start in line: %s", line)
	}
	stop, err := strconv.Atoi(fields[4])
	if err != nil {
		return fmt.Errorf("bad segment stop in line: %s", line)
	}

	gene := gtfAttribute(fields[8], "gene_id")
	transcript := gtfAttribute(fields[8], "transcript_id")
	if transcript == "" {
		transcript = GeneSegment
	}

	cs := ChromStrand{Chrom: fields[0], Strand: strand[0]}
	byGene := s.genes[cs]
	if byGene == nil {
		byGene = make(map[string]map[string][]Segment)
		s.genes[cs] = byGene
	}
	byTranscript := byGene[gene]
	if byTranscript == nil {
		byTranscript = make(map[string][]Segment)
		byGene[gene] = byTranscript
	}
	// GTF coordinates are 1-based inclusive
	byTranscript[transcript] = append(byTranscript[transcript], Segment{Start: start - 1, Stop: stop - 1})
	return nil
}

// HasBoundary reports whether any annotated segment in the given
// (chromosome, strand) context has a boundary equal to pos: the segment
// start on the plus strand, the segment stop on the minus strand. The
// synthetic whole-gene entry is skipped.
func (s *Segmentation) HasBoundary(cs ChromStrand, pos int) bool {
	for _, byTranscript := range s.genes[cs] {
		for transcript, segments := range byTranscript {
			if transcript == GeneSegment {
				continue
			}
			for _, segment := range segments {
				if cs.Strand == '+' {
					if pos == segment.Start {
						return true
					}
				} else if pos == segment.Stop {
					return true
				}
			}
		}
	}
	return false
}

// gtfAttribute extracts one key "value" pair from a GTF attribute column
func gtfAttribute(attributes, key string) string {
	for _, field := range strings.Split(attributes, ";") {
		field = strings.TrimSpace(field)
		if strings.HasPrefix(field, key+" ") {
			return strings.Trim(field[len(key)+1:], `"`)
		}
	}
	return ""
}
