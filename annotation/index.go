// Package annotation builds a gene_id -> genomic location index from a GTF
// annotation. Coordinates are kept exactly as written in the annotation; no
// numeric validation is done here.
//
// A GTF line has nine tab-separated columns:
//
//   chr7  HAVANA  gene  100  200  .  +  .  gene_id "ENSG1.1"; gene_type "...";
//
// The gene_id is taken from the first attribute of column 9.
package annotation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/gtftpm/util"
)

const (
	// DefaultFeature is the GTF feature type (column 3) that populates an Index.
	DefaultFeature = "gene"

	nGTFColumns = 9
	colChrom    = 0
	colFeature  = 2
	colStart    = 3
	colEnd      = 4
	colAttrs    = 8
)

// Locus is the location of a gene. Start and End are the literal strings from
// the annotation.
type Locus struct {
	Chrom string
	Start string
	End   string
}

// Opts controls index construction.
type Opts struct {
	// Feature selects the records that populate the index. If empty,
	// DefaultFeature is used.
	Feature string
}

// Stats counts what happened to the annotation lines.
type Stats struct {
	// Lines is the number of non-comment lines read.
	Lines int `yaml:"lines"`
	// Malformed is the number of lines with fewer than nine columns.
	Malformed int `yaml:"malformed"`
	// OtherFeatures is the number of lines whose feature type was not selected.
	OtherFeatures int `yaml:"other_features"`
	// MissingID is the number of selected lines without a usable gene_id.
	MissingID int `yaml:"missing_id"`
	// Records is the number of lines inserted into the index.
	Records int `yaml:"records"`
	// Duplicates is the number of records that replaced an earlier record for
	// the same gene_id.
	Duplicates int `yaml:"duplicates"`
}

// Index maps gene_id to Locus. When a gene_id appears more than once, the last
// record wins. An Index is read-only once built and safe for concurrent
// lookups.
type Index struct {
	genes map[string]Locus
	stats Stats
}

// Lookup returns the locus of the given gene.
func (x *Index) Lookup(geneID string) (Locus, bool) {
	loc, ok := x.genes[geneID]
	return loc, ok
}

// Len returns the number of distinct genes in the index.
func (x *Index) Len() int { return len(x.genes) }

// Stats reports line counts gathered while building the index.
func (x *Index) Stats() Stats { return x.stats }

// geneID extracts the gene_id from a GTF attribute column. Only the first
// attribute is examined: the value starts after its first double quote and
// runs up to the next one (or the end of the attribute if unterminated).
func geneID(attrs string) string {
	if i := strings.IndexByte(attrs, ';'); i >= 0 {
		attrs = attrs[:i]
	}
	i := strings.IndexByte(attrs, '"')
	if i < 0 {
		return ""
	}
	v := attrs[i+1:]
	if j := strings.IndexByte(v, '"'); j >= 0 {
		v = v[:j]
	}
	return v
}

func (x *Index) addLine(line, feature string) {
	x.stats.Lines++
	cols := strings.SplitN(line, "\t", nGTFColumns+1)
	if len(cols) < nGTFColumns {
		x.stats.Malformed++
		return
	}
	if cols[colFeature] != feature {
		x.stats.OtherFeatures++
		return
	}
	id := geneID(cols[colAttrs])
	if id == "" {
		x.stats.MissingID++
		return
	}
	if _, ok := x.genes[id]; ok {
		x.stats.Duplicates++
	}
	x.genes[id] = Locus{
		Chrom: cols[colChrom],
		Start: cols[colStart],
		End:   cols[colEnd],
	}
	x.stats.Records++
}

// NewIndex reads a GTF stream and builds an Index. Comment lines, lines with
// fewer than nine columns, records of other feature types and records without
// a gene_id are skipped. Any read error is returned and no index is produced.
func NewIndex(r io.Reader, opts Opts) (*Index, error) {
	feature := opts.Feature
	if feature == "" {
		feature = DefaultFeature
	}
	x := &Index{genes: map[string]Locus{}}
	lr := util.NewLineReader(r)
	for lr.Scan() {
		line := lr.Line()
		if strings.HasPrefix(line, "#") {
			continue
		}
		x.addLine(line, feature)
	}
	if err := lr.Err(); err != nil {
		return nil, errors.E(err, fmt.Sprintf("read annotation line %d", lr.LineNum()+1))
	}
	return x, nil
}

// ReadIndex builds an Index from the GTF file at path. Compressed files are
// decompressed transparently.
func ReadIndex(ctx context.Context, path string, opts Opts) (x *Index, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = e
		}
	}()
	log.Print("GTF: " + path)
	if x, err = NewIndex(in, opts); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("Read %d genes from %d annotation lines (%d malformed, %d without gene_id, %d duplicates)",
		x.Len(), x.stats.Lines, x.stats.Malformed, x.stats.MissingID, x.stats.Duplicates)
	return x, nil
}
