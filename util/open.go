package util

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Reader is an input stream opened by Open.
type Reader struct {
	io.Reader
	ctx  context.Context
	in   file.File
	gunz io.ReadCloser
}

// Open opens path for reading. The path may name any file implementation
// registered with grailbio/base/file (local, s3, ...). Compressed inputs are
// decompressed transparently based on the file name.
func Open(ctx context.Context, path string) (*Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	var r io.Reader = in.Reader(ctx)
	gunz := compress.NewReaderPath(r, in.Name())
	if gunz != nil {
		r = gunz
	}
	return &Reader{
		Reader: bufio.NewReaderSize(r, 64<<10),
		ctx:    ctx,
		in:     in,
		gunz:   gunz,
	}, nil
}

// Name returns the path passed to Open.
func (r *Reader) Name() string { return r.in.Name() }

// Close releases the decompressor, if any, and the underlying file. It must be
// called exactly once.
func (r *Reader) Close() error {
	var err error
	if r.gunz != nil {
		err = r.gunz.Close()
	}
	if e := r.in.Close(r.ctx); e != nil && err == nil {
		err = errors.E(e, "close", r.in.Name())
	}
	return err
}
