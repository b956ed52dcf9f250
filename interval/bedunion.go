package interval

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// PosType is BEDUnion's coordinate type.
type PosType int32

const posTypeMax = math.MaxInt32

// searchPosType returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInt(), except for PosType.
func searchPosType(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// BEDUnion is a collection of length-2N sequences, one per chromosome, where N
// is the number of disjoint intervals on the chromosome.  The (0-based) start
// of interval #k is in element [2k] and its end in element [2k+1], in
// increasing order.  Touching and overlapping intervals are merged.
type BEDUnion struct {
	nameMap map[string][]PosType
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// ContainsByName checks whether the (0-based) position pos is contained within
// the BEDUnion.
func (u *BEDUnion) ContainsByName(chrName string, pos PosType) bool {
	return searchPosType(u.nameMap[chrName], pos+1)&1 == 1
}

// IntersectsByName checks whether the 0-based half-open interval [start0, end)
// on chrName overlaps the BEDUnion.
func (u *BEDUnion) IntersectsByName(chrName string, start0, end PosType) bool {
	chrIntervals := u.nameMap[chrName]
	idx := searchPosType(chrIntervals, start0+1)
	if idx&1 == 1 {
		return true
	}
	return idx != len(chrIntervals) && end > chrIntervals[idx]
}

// NumIntervals returns the number of disjoint intervals in the union.
func (u *BEDUnion) NumIntervals() int {
	n := 0
	for _, chrIntervals := range u.nameMap {
		n += len(chrIntervals) / 2
	}
	return n
}

func isBEDHeader(line []byte) bool {
	return len(line) == 0 || line[0] == '#' ||
		bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser"))
}

// ReadBEDEntries reads the first three columns of every interval line of a
// BED.  Comment, "track" and "browser" lines are skipped.  The intervals need
// not be sorted.
func ReadBEDEntries(reader io.Reader) (entries []Entry, err error) {
	scanner := bufio.NewScanner(reader)
	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if isBEDHeader(curLine) {
			continue
		}
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			return nil, fmt.Errorf("interval.ReadBEDEntries: line %d has fewer tokens than expected", lineIdx)
		}
		var start, end int
		if start, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return nil, fmt.Errorf("interval.ReadBEDEntries: line %d: %v", lineIdx, err)
		}
		if end, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return nil, fmt.Errorf("interval.ReadBEDEntries: line %d: %v", lineIdx, err)
		}
		if start < 0 || end < start || end >= posTypeMax {
			return nil, fmt.Errorf("interval.ReadBEDEntries: invalid coordinate pair on line %d", lineIdx)
		}
		entries = append(entries, Entry{
			ChrName: string(tokens[0]),
			Start0:  PosType(start),
			End:     PosType(end),
		})
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadBEDEntriesFromPath is a wrapper for ReadBEDEntries that takes a path
// instead of an io.Reader.  Gzipped BEDs are supported.
func ReadBEDEntriesFromPath(ctx context.Context, path string) (entries []Entry, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer gz.Close()
		reader = gz
	}
	if entries, err = ReadBEDEntries(reader); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	log.Printf("BED %s: %d interval(s)", path, len(entries))
	return entries, nil
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a contig ID and 0-based interval boundaries.  The interval
// [0, posTypeMax - 1] is returned if there is no positional restriction.
func ParseRegionString(region string) (result Entry, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		result.ChrName = region
		result.Start0 = 0
		result.End = posTypeMax - 1
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	result.ChrName = region[0:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		result.Start0 = PosType(pos1 - 1)
		result.End = PosType(pos1)
		return
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	var end0 int
	if end0, err = strconv.Atoi(endStr); err != nil {
		return
	}
	// end0 == posTypeMax is prohibited so that the interval-array is
	// guaranteed to contain no repeats.
	if end0 < start1 || end0 >= posTypeMax {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	result.Start0 = PosType(start1 - 1)
	result.End = PosType(end0)
	return
}

// NewBEDUnionFromEntries initializes a BEDUnion from entries in any order.
// Empty intervals are dropped.  The entries slice is not modified.
func NewBEDUnionFromEntries(entries []Entry) (bedUnion BEDUnion, err error) {
	sorted := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Start0 < 0 {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: negative start coordinate")
			return
		}
		if (entry.End < entry.Start0) || (entry.End >= posTypeMax) {
			err = fmt.Errorf("interval.NewBEDUnionFromEntries: invalid coordinate pair [%d, %d)", entry.Start0, entry.End)
			return
		}
		if entry.End > entry.Start0 {
			sorted = append(sorted, entry)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ChrName != sorted[j].ChrName {
			return sorted[i].ChrName < sorted[j].ChrName
		}
		return sorted[i].Start0 < sorted[j].Start0
	})

	bedUnion.nameMap = make(map[string][]PosType)
	prevChr := ""
	var prevStart, prevEnd PosType
	var chrIntervals []PosType
	for _, entry := range sorted {
		if entry.ChrName != prevChr {
			if prevChr != "" {
				bedUnion.nameMap[prevChr] = append(chrIntervals, prevStart, prevEnd)
			}
			prevChr = entry.ChrName
			chrIntervals = nil
			prevStart = entry.Start0
			prevEnd = entry.End
			continue
		}
		if entry.Start0 > prevEnd {
			// New interval doesn't overlap or touch the previous one, so we can
			// save the previous one.
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			prevStart = entry.Start0
			prevEnd = entry.End
		} else if entry.End > prevEnd {
			// Intervals overlap, merge them.
			prevEnd = entry.End
		}
	}
	if prevChr != "" {
		bedUnion.nameMap[prevChr] = append(chrIntervals, prevStart, prevEnd)
	}
	return
}
