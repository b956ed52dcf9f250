package util

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func readAll(t *testing.T, l *LineReader) []string {
	var got []string
	for l.Scan() {
		got = append(got, l.Line())
	}
	if err := l.Err(); err != nil {
		t.Fatal(err)
	}
	return got
}

func TestLineReader(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"\n\nx\n", []string{"", "", "x"}},
		{"a\tb\t\n", []string{"a\tb\t"}},
	}
	for _, test := range tests {
		got := readAll(t, NewLineReader(strings.NewReader(test.in)))
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%q: got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestLineReaderLongLine(t *testing.T) {
	long := strings.Repeat("0.5\t", 100000)
	got := readAll(t, NewLineReader(strings.NewReader("id\n" + long + "\n")))
	if len(got) != 2 || got[1] != long {
		t.Errorf("long line was not read back intact (%d lines)", len(got))
	}
}

func TestLineReaderError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLineReader(io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(boom)))
	if !l.Scan() || l.Line() != "a" {
		t.Fatal("expected to read the first line")
	}
	if l.Scan() {
		t.Fatal("expected Scan to fail")
	}
	if !errors.Is(l.Err(), boom) {
		t.Errorf("got %v, want %v", l.Err(), boom)
	}
	if l.Scan() {
		t.Error("Scan must keep returning false after an error")
	}
}
