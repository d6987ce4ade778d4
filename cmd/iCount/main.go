/*
 *  main.go
 *  cmd
 *
 *  Created by Jianan Lin on 03/14/21
 */

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	icount "github.com/jiananlin/iCount"
	logging "github.com/op/go-logging"
	"github.com/urfave/cli"
)

var log = logging.MustGetLogger("main")

// checkExt validates the extension of an output filename
func checkExt(filename string, exts ...string) error {
	for _, ext := range exts {
		if strings.HasSuffix(filename, ext) {
			return nil
		}
	}
	return fmt.Errorf("%s must end with one of %s", filename, strings.Join(exts, ", "))
}

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(icount.BackendFormatter)

	app := cli.NewApp()
	app.Compiled = time.Now()
	app.Name = "iCount"
	app.Usage = "Analysis of iCLIP protein-RNA interaction data"
	app.Version = icount.Version

	xlsitesFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "mapq_th",
			Usage: "Ignore hits with MAPQ lower than this threshold",
			Value: icount.DefaultMapqTh,
		},
		cli.IntFlag{
			Name:  "multimax",
			Usage: "Ignore reads mapped to more than this many places",
			Value: icount.DefaultMultimax,
		},
		cli.IntFlag{
			Name:  "mismatches",
			Usage: "Merge randomers on the same position differing by at most this many mismatches",
			Value: icount.DefaultMismatches,
		},
		cli.IntFlag{
			Name:  "holesize_th",
			Usage: "Splits with holes this size or smaller are treated as unsplit",
			Value: icount.DefaultHolesizeTh,
		},
		cli.StringFlag{
			Name:  "group_by",
			Usage: "Assign the score of a read to its start, middle or end nucleotide",
			Value: "start",
		},
		cli.StringFlag{
			Name:  "quant",
			Usage: "Report number of cDNA or number of reads",
			Value: "cDNA",
		},
		cli.StringFlag{
			Name:  "segmentation",
			Usage: "GTF file with segmentation (obtained by iCount segment)",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:  "xlsites",
			Usage: "Identify and quantify cross-linked sites",
			UsageText: `
	iCount xlsites bamfile sites_unique.bed sites_multi.bed sites_strange.bam [options]

Xlsites function:
Given a BAM file with mapped iCLIP reads, quantify cross-link events at the
genomic positions one nucleotide upstream of the read starts. Random barcodes
embedded in the read names distinguish distinct cDNA molecules from PCR
duplicates; barcodes on the same position differing only by sequencing error
are merged. Two BED6 tables are produced, one from uniquely mapped reads and
one also counting multi-mapped reads, plus a BAM file of reads whose
second-start does not fall on the segmentation.
`,
			Flags: xlsitesFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 4 {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("Must specify bamfile, sites_unique, sites_multi and sites_strange", 1)
				}

				bamfile := c.Args().Get(0)
				sitesUnique := c.Args().Get(1)
				sitesMulti := c.Args().Get(2)
				sitesStrange := c.Args().Get(3)
				for _, bedfile := range []string{sitesUnique, sitesMulti} {
					if err := checkExt(bedfile, ".bed", ".bed.gz"); err != nil {
						return cli.NewExitError(err.Error(), 1)
					}
				}
				if err := checkExt(sitesStrange, ".bam"); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}

				groupBy, err := icount.ParseGroupBy(c.String("group_by"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				quant, err := icount.ParseQuant(c.String("quant"))
				if err != nil {
					return cli.NewExitError(err.Error(), 1)
				}

				p := icount.Quantifier{
					Bamfile:      bamfile,
					SitesUnique:  sitesUnique,
					SitesMulti:   sitesMulti,
					SitesStrange: sitesStrange,
					Segmentation: c.String("segmentation"),
					GroupBy:      groupBy,
					Quant:        quant,
					Mismatches:   c.Int("mismatches"),
					MapqTh:       c.Int("mapq_th"),
					Multimax:     c.Int("multimax"),
					HolesizeTh:   c.Int("holesize_th"),
				}
				if err := p.Run(); err != nil {
					return cli.NewExitError(err.Error(), 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
