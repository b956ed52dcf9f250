// Package matrix joins an expression matrix against a gene annotation index.
//
// The matrix is a TSV whose first line is a header and whose first column is
// the gene_id. Every non-blank data line produces exactly one EnrichedRow,
// whether or not the gene is annotated.
package matrix

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/gtftpm/annotation"
	"github.com/grailbio/gtftpm/util"
	"github.com/pkg/errors"
)

// EnrichedRow is a matrix data row plus the coordinates of its gene. Chrom,
// Start and End are empty if the gene was not found in the annotation.
type EnrichedRow struct {
	Chrom string
	Start string
	End   string
	// Columns is the original matrix row, gene_id first.
	Columns []string
}

// GeneID returns the join key of the row.
func (r *EnrichedRow) GeneID() string {
	if len(r.Columns) == 0 {
		return ""
	}
	return r.Columns[0]
}

// Index is the subset of annotation.Index used by Join.
type Index interface {
	Lookup(geneID string) (annotation.Locus, bool)
}

// Stats counts the outcome of a join.
type Stats struct {
	// Rows is the number of non-blank data lines.
	Rows int `yaml:"rows"`
	// Blank is the number of blank data lines skipped.
	Blank int `yaml:"blank"`
	// Matched is the number of rows whose gene_id was found in the index.
	Matched int `yaml:"matched"`
	// Unmatched is Rows - Matched.
	Unmatched int `yaml:"unmatched"`
}

// Table is the result of a join.
type Table struct {
	// Header is the matrix header line, split on tabs, unmodified.
	Header []string
	Rows   []EnrichedRow
	Stats  Stats
}

// Join reads a matrix from r and looks up every data row in index. It fails
// if r is empty or cannot be read.
func Join(r io.Reader, index Index) (*Table, error) {
	lr := util.NewLineReader(r)
	if !lr.Scan() {
		if err := lr.Err(); err != nil {
			return nil, errors.Wrap(err, "read matrix header")
		}
		return nil, errors.New("empty matrix: no header line")
	}
	t := &Table{Header: strings.Split(lr.Line(), "\t")}
	for lr.Scan() {
		line := lr.Line()
		if strings.TrimSpace(line) == "" {
			t.Stats.Blank++
			continue
		}
		row := EnrichedRow{Columns: strings.Split(line, "\t")}
		if loc, ok := index.Lookup(row.Columns[0]); ok {
			row.Chrom, row.Start, row.End = loc.Chrom, loc.Start, loc.End
			t.Stats.Matched++
		} else {
			t.Stats.Unmatched++
		}
		t.Rows = append(t.Rows, row)
		t.Stats.Rows++
	}
	if err := lr.Err(); err != nil {
		return nil, errors.Wrapf(err, "read matrix line %d", lr.LineNum()+1)
	}
	return t, nil
}

// JoinFile is a wrapper for Join that takes a path instead of an io.Reader.
// Compressed files are decompressed transparently.
func JoinFile(ctx context.Context, path string, index Index) (t *Table, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = e
		}
	}()
	log.Print("Matrix: " + path)
	if t, err = Join(in, index); err != nil {
		return nil, errors.Wrap(err, path)
	}
	log.Printf("Stats: joined %d matrix rows, %d matched, %d unmatched, %d blank lines skipped",
		t.Stats.Rows, t.Stats.Matched, t.Stats.Unmatched, t.Stats.Blank)
	return t, nil
}
