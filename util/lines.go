package util

import (
	"bufio"
	"io"
	"strings"
)

// LineReader reads newline-terminated lines of arbitrary length. Unlike
// bufio.Scanner it has no maximum token size, which matters for expression
// matrices with many thousands of sample columns.
type LineReader struct {
	r    *bufio.Reader
	line string
	n    int
	eof  bool
	err  error
}

// NewLineReader creates a LineReader that reads from r.
func NewLineReader(r io.Reader) *LineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 64<<10)
	}
	return &LineReader{r: br}
}

// Scan advances to the next line. It returns false at EOF or on error; Err
// distinguishes the two. The final line need not be newline-terminated.
func (l *LineReader) Scan() bool {
	if l.eof || l.err != nil {
		return false
	}
	s, err := l.r.ReadString('\n')
	if err == io.EOF {
		l.eof = true
		if len(s) == 0 {
			return false
		}
	} else if err != nil {
		l.err = err
		return false
	}
	s = strings.TrimSuffix(s, "\n")
	l.line = strings.TrimSuffix(s, "\r")
	l.n++
	return true
}

// Line returns the current line, without its "\n" or "\r\n" terminator.
//
// REQUIRES: the last call to Scan returned true.
func (l *LineReader) Line() string { return l.line }

// LineNum returns the 1-based number of the current line.
func (l *LineReader) LineNum() int { return l.n }

// Err returns the first non-EOF error encountered.
func (l *LineReader) Err() error { return l.err }
