package combine

import (
	"github.com/grailbio/gtftpm/annotation"
	"github.com/grailbio/gtftpm/locus"
	"github.com/pkg/errors"
)

// Opts controls a run.
type Opts struct {
	// Tier is the stringency of the chromosome filter. See locus.Tier.
	Tier locus.Tier
	// Parallelism is the number of goroutines used to sort the joined rows. It
	// never changes the output.
	Parallelism int
	// Feature is the GTF feature type whose records populate the gene index.
	Feature string

	// RegionsPath, if nonempty, is a BED file. Only genes overlapping one of its
	// intervals are kept.
	RegionsPath string
	// Regions is a comma-separated list of "chr:start-end" region strings
	// (1-based, closed), combined with RegionsPath.
	Regions string

	// StatsPath, if nonempty, receives a YAML summary of the run.
	StatsPath string
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Tier:        locus.MaxTier,             // -filter
	Parallelism: 1,                         // -threads
	Feature:     annotation.DefaultFeature, // -feature
}

// Validate checks the option values.
func (o Opts) Validate() error {
	if err := o.Tier.Validate(); err != nil {
		return err
	}
	if o.Parallelism < 1 {
		return errors.Errorf("parallelism must be positive, got %d", o.Parallelism)
	}
	if o.Feature == "" {
		return errors.New("empty GTF feature type")
	}
	return nil
}

// hasRegions reports whether the output is restricted to a set of regions.
func (o Opts) hasRegions() bool {
	return o.RegionsPath != "" || o.Regions != ""
}
