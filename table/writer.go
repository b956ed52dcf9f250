// Package table writes coordinate-annotated expression tables.
//
// The output is a TSV. Its header line is "#Chr<TAB>start<TAB>end" followed by
// the matrix header columns; each data line is the row's chromosome, start and
// end followed by the original matrix columns.
package table

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/gtftpm/matrix"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// CoordColumns are the column names prepended to the matrix header.
var CoordColumns = []string{"Chr", "start", "end"}

// Writer emits a table. Call WriteHeader once, WriteRow for every row, then
// Flush.
type Writer struct {
	w *tsv.Writer
}

// NewWriter creates a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: tsv.NewWriter(w)}
}

// WriteHeader writes the '#'-prefixed header line.
func (w *Writer) WriteHeader(matrixHeader []string) error {
	for i, col := range CoordColumns {
		if i == 0 {
			col = "#" + col
		}
		w.w.WriteString(col)
	}
	for _, col := range matrixHeader {
		w.w.WriteString(col)
	}
	return w.w.EndLine()
}

// WriteRow writes one data line.
func (w *Writer) WriteRow(row *matrix.EnrichedRow) error {
	w.w.WriteString(row.Chrom)
	w.w.WriteString(row.Start)
	w.w.WriteString(row.End)
	for _, col := range row.Columns {
		w.w.WriteString(col)
	}
	return w.w.EndLine()
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Write writes a complete table to out.
func Write(out io.Writer, header []string, rows []matrix.EnrichedRow) error {
	w := NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i := range rows {
		if err := w.WriteRow(&rows[i]); err != nil {
			return errors.Wrapf(err, "write row %d", i)
		}
	}
	return w.Flush()
}

// Output is a file opened by Create.
type Output struct {
	io.Writer
	ctx context.Context
	out file.File
	gz  *gzip.Writer
}

// Create creates the file at path, truncating it if it exists. If path ends in
// ".gz", data is gzip-compressed.
func Create(ctx context.Context, path string) (*Output, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	o := &Output{Writer: out.Writer(ctx), ctx: ctx, out: out}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.Writer)
		o.Writer = o.gz
	}
	return o, nil
}

// Close flushes the compressor, if any, and closes the file. It must be called
// exactly once. The file is complete only if Close returns nil.
func (o *Output) Close() error {
	var err error
	if o.gz != nil {
		err = o.gz.Close()
	}
	if e := o.out.Close(o.ctx); e != nil && err == nil {
		err = e
	}
	return errors.Wrapf(err, "close %s", o.out.Name())
}

// WriteFile writes a complete table to path.
func WriteFile(ctx context.Context, path string, header []string, rows []matrix.EnrichedRow) (err error) {
	out, err := Create(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if err = Write(out, header, rows); err != nil {
		return errors.Wrap(err, path)
	}
	return nil
}
