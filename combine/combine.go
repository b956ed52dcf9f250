// Package combine joins an expression matrix with gene coordinates taken from
// a GTF annotation, and writes the result filtered by chromosome and ordered
// by genomic position.
//
// The stages run strictly in sequence, each consuming the complete output of
// the previous one:
//
//   annotation.ReadIndex -> matrix.JoinFile -> (region restriction) ->
//   locus.Filter -> locus.Sort -> table.WriteFile
//
// All joined rows are held in memory, since the sort needs the complete set.
package combine

import (
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/gtftpm/annotation"
	"github.com/grailbio/gtftpm/interval"
	"github.com/grailbio/gtftpm/locus"
	"github.com/grailbio/gtftpm/matrix"
	"github.com/grailbio/gtftpm/table"
	"github.com/pkg/errors"
)

// LoadRegions builds the union of opts.RegionsPath and opts.Regions. It
// returns nil if neither is set.
func LoadRegions(ctx context.Context, opts Opts) (*interval.BEDUnion, error) {
	if !opts.hasRegions() {
		return nil, nil
	}
	var entries []interval.Entry
	if opts.RegionsPath != "" {
		e, err := interval.ReadBEDEntriesFromPath(ctx, opts.RegionsPath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e...)
	}
	if opts.Regions != "" {
		for _, region := range strings.Split(opts.Regions, ",") {
			e, err := interval.ParseRegionString(strings.TrimSpace(region))
			if err != nil {
				return nil, errors.Wrapf(err, "region %q", region)
			}
			entries = append(entries, e)
		}
	}
	u, err := interval.NewBEDUnionFromEntries(entries)
	if err != nil {
		return nil, err
	}
	log.Printf("Restricting output to %d region(s)", u.NumIntervals())
	return &u, nil
}

// overlaps reports whether the gene of row, a 1-based closed interval,
// overlaps regions. Rows without well-formed coordinates never overlap.
func overlaps(row *matrix.EnrichedRow, regions *interval.BEDUnion) bool {
	start, err := strconv.ParseInt(row.Start, 10, 32)
	if err != nil || start < 1 {
		return false
	}
	end, err := strconv.ParseInt(row.End, 10, 32)
	if err != nil || end < start {
		return false
	}
	return regions.IntersectsByName(row.Chrom, interval.PosType(start-1), interval.PosType(end))
}

// restrict removes the rows that don't overlap regions, compacting rows in
// place. It returns the retained prefix and the number of rows removed.
func restrict(rows []matrix.EnrichedRow, regions *interval.BEDUnion) ([]matrix.EnrichedRow, int) {
	k := 0
	for i := range rows {
		if overlaps(&rows[i], regions) {
			rows[k] = rows[i]
			k++
		}
	}
	return rows[:k], len(rows) - k
}

// Process applies the region restriction (if regions is non-nil), the tier
// filter and the genomic sort to the rows of tbl. tbl.Rows is reused for the
// result. Process never fails.
func Process(tbl *matrix.Table, regions *interval.BEDUnion, opts Opts) ([]matrix.EnrichedRow, Stats) {
	stats := Stats{Tier: int(opts.Tier), Join: tbl.Stats}
	rows := tbl.Rows
	if regions != nil {
		rows, stats.OutsideRegions = restrict(rows, regions)
		log.Printf("Stats: %d rows remaining after removing %d outside the regions", len(rows), stats.OutsideRegions)
	}
	rows, counts := locus.Filter(rows, opts.Tier)
	stats.Classes = newClassStats(counts)
	log.Printf("Stats: %d rows remaining after tier-%d filter (%d missing, %d non-chromosomal, %d X/Y/M, %d non-standard, %d autosomal)",
		len(rows), opts.Tier, counts[locus.Missing], counts[locus.NonChromosomal], counts[locus.Special],
		counts[locus.NonStandard], counts[locus.Autosomal])
	locus.Sort(rows, opts.Parallelism)
	stats.Written = len(rows)
	return rows, stats
}

// Run reads the GTF at gtfPath and the matrix at matrixPath, and writes the
// combined table to outputPath. Any error is fatal to the run; the output may
// be partially written if it happens while writing.
func Run(ctx context.Context, gtfPath, matrixPath, outputPath string, opts Opts) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}
	regions, err := LoadRegions(ctx, opts)
	if err != nil {
		return Stats{}, err
	}
	index, err := annotation.ReadIndex(ctx, gtfPath, annotation.Opts{Feature: opts.Feature})
	if err != nil {
		return Stats{}, err
	}
	tbl, err := matrix.JoinFile(ctx, matrixPath, index)
	if err != nil {
		return Stats{}, err
	}
	rows, stats := Process(tbl, regions, opts)
	stats.Genes = index.Len()
	stats.Annotation = index.Stats()
	if err := table.WriteFile(ctx, outputPath, tbl.Header, rows); err != nil {
		return stats, err
	}
	log.Printf("Stats: wrote %d rows to %s", stats.Written, outputPath)
	if opts.StatsPath != "" {
		if err := WriteStats(ctx, opts.StatsPath, stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
