package combine

import (
	"context"

	"github.com/grailbio/base/file"
	"github.com/grailbio/gtftpm/annotation"
	"github.com/grailbio/gtftpm/locus"
	"github.com/grailbio/gtftpm/matrix"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ClassStats counts joined rows by locus.Class.
type ClassStats struct {
	Autosomal      int `yaml:"autosomal"`
	Missing        int `yaml:"missing"`
	NonChromosomal int `yaml:"non_chromosomal"`
	Special        int `yaml:"special"`
	NonStandard    int `yaml:"non_standard"`
}

func newClassStats(c locus.Counts) ClassStats {
	return ClassStats{
		Autosomal:      c[locus.Autosomal],
		Missing:        c[locus.Missing],
		NonChromosomal: c[locus.NonChromosomal],
		Special:        c[locus.Special],
		NonStandard:    c[locus.NonStandard],
	}
}

// Stats summarizes a run.
type Stats struct {
	Tier int `yaml:"tier"`
	// Genes is the number of distinct gene_ids in the annotation index.
	Genes      int              `yaml:"genes"`
	Annotation annotation.Stats `yaml:"annotation"`
	Join       matrix.Stats     `yaml:"join"`
	// OutsideRegions is the number of joined rows dropped because they don't
	// overlap the requested regions.
	OutsideRegions int `yaml:"outside_regions"`
	// Classes counts the rows that reached the filter, by class.
	Classes ClassStats `yaml:"classes"`
	// Written is the number of data rows in the output.
	Written int `yaml:"written"`
}

// WriteStats writes s as YAML to path.
func WriteStats(ctx context.Context, path string, s Stats) (err error) {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return errors.Wrap(err, "marshal stats")
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = errors.Wrapf(e, "close %s", path)
		}
	}()
	if _, err = out.Writer(ctx).Write(data); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
