package locus

import (
	"strconv"

	"github.com/grailbio/gtftpm/matrix"
	"github.com/pkg/errors"
)

// Tier is the filter stringency. Each tier discards everything the previous
// one does, plus:
//
//   0  nothing
//   1  rows without coordinates
//   2  rows whose chromosome lacks the "chr" prefix
//   3  chrX, chrY and chrM
//   4  chromosomes other than chr1..chr22
//
// At tier 4 the "chr" prefix is also stripped from the retained rows.
type Tier int

const (
	KeepAll Tier = iota
	DropMissing
	DropNonChromosomal
	DropSpecial
	AutosomesOnly

	// MaxTier is the most stringent tier.
	MaxTier = AutosomesOnly
)

// ParseTier parses a tier number in [0, MaxTier].
func ParseTier(s string) (Tier, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "filter tier %q", s)
	}
	t := Tier(v)
	if err := t.Validate(); err != nil {
		return 0, err
	}
	return t, nil
}

// Validate checks that t is in [0, MaxTier].
func (t Tier) Validate() error {
	if t < KeepAll || t > MaxTier {
		return errors.Errorf("filter tier %d out of range [0, %d]", int(t), int(MaxTier))
	}
	return nil
}

// Keeps reports whether rows of class c survive tier t.
func (t Tier) Keeps(c Class) bool {
	return c == Autosomal || int(c) > int(t)
}

// Counts[c] is the number of rows of class c.
type Counts [NumClasses]int

// Filter removes the rows discarded by tier, compacting rows in place, and
// returns the retained prefix. At AutosomesOnly, retained chromosomes are
// rewritten without their "chr" prefix. The second result counts the class of
// every input row, retained or not.
func Filter(rows []matrix.EnrichedRow, tier Tier) ([]matrix.EnrichedRow, Counts) {
	var (
		counts Counts
		k      int
	)
	for _, row := range rows {
		c := Classify(&row)
		counts[c]++
		if !tier.Keeps(c) {
			continue
		}
		if tier == AutosomesOnly {
			row.Chrom = Suffix(row.Chrom)
		}
		rows[k] = row
		k++
	}
	return rows[:k], counts
}
