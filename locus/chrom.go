// Package locus classifies, filters and orders joined expression rows by
// their chromosome.
//
// Chromosome names are interpreted relative to the UCSC "chr" prefix: the
// suffix of "chr7" is "7", of "chrX" is "X". Names without the prefix (e.g.
// "scaffold_9", or Ensembl-style "7") are non-chromosomal for filtering, but
// are still ranked by their suffix when sorting.
package locus

import (
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/gtftpm/matrix"
)

const chrPrefix = "chr"

// Class is the relevance category of a row. The numeric value of each
// non-autosomal class is the lowest Tier that discards it.
type Class int

const (
	// Autosomal rows are on chr1..chr22 (or any chrN with N <= 22). They are
	// never discarded.
	Autosomal Class = iota
	// Missing rows lack at least one of chromosome, start or end.
	Missing
	// NonChromosomal rows have a chromosome without the "chr" prefix.
	NonChromosomal
	// Special rows are on chrX, chrY or chrM.
	Special
	// NonStandard rows have a non-numeric suffix, or a numeric one above 22.
	NonStandard

	// NumClasses is the number of distinct classes.
	NumClasses = int(NonStandard) + 1
)

var classNames = [NumClasses]string{"autosomal", "missing", "non_chromosomal", "special", "non_standard"}

func (c Class) String() string {
	if c < 0 || int(c) >= NumClasses {
		return "class(" + strconv.Itoa(int(c)) + ")"
	}
	return classNames[c]
}

const maxAutosome = 22

const (
	rankX = maxAutosome + 1 + iota
	rankY
	rankM
	rankOther = math.MaxInt
)

// Suffix returns chrom with a leading "chr" removed.
func Suffix(chrom string) string {
	return strings.TrimPrefix(chrom, chrPrefix)
}

// parseNonNegative parses a decimal integer without sign. Values that don't
// fit in an int are rejected.
func parseNonNegative(s string) (int, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isSpecial(suffix string) bool {
	return suffix == "X" || suffix == "Y" || suffix == "M"
}

// Classify returns the relevance class of a row. Conditions are checked in
// order of increasing tier, and the first that holds determines the class.
func Classify(row *matrix.EnrichedRow) Class {
	if row.Chrom == "" || row.Start == "" || row.End == "" {
		return Missing
	}
	if !strings.HasPrefix(row.Chrom, chrPrefix) {
		return NonChromosomal
	}
	suffix := Suffix(row.Chrom)
	if isSpecial(suffix) {
		return Special
	}
	if v, ok := parseNonNegative(suffix); !ok || v > maxAutosome {
		return NonStandard
	}
	return Autosomal
}

// Rank returns the canonical sort position of a chromosome: the number itself
// for numeric names, 23, 24 and 25 for X, Y and M, and math.MaxInt for
// everything else. A "chr" prefix is ignored.
func Rank(chrom string) int {
	suffix := Suffix(chrom)
	if v, ok := parseNonNegative(suffix); ok {
		return v
	}
	switch suffix {
	case "X":
		return rankX
	case "Y":
		return rankY
	case "M":
		return rankM
	}
	return rankOther
}

// StartPos parses a start coordinate. Empty or unparseable values yield 0.
func StartPos(start string) int64 {
	v, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
