package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gtftpm/combine"
	"github.com/grailbio/gtftpm/locus"
	"github.com/pkg/errors"
)

// Collection of paths set via cmdline flags.
type gtfTPMFlags struct {
	gtfPath    string
	matrixPath string
	outputPath string
}

const defaultOutputPath = "./output.tsv"

// tierValue adapts locus.Tier to flag.Value, so that out-of-range tiers are
// rejected while parsing.
type tierValue struct{ t *locus.Tier }

func (v tierValue) String() string {
	if v.t == nil {
		return ""
	}
	return strconv.Itoa(int(*v.t))
}

func (v tierValue) Set(s string) error {
	t, err := locus.ParseTier(s)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

// registerFlags binds every option of the command to fs. Short and long
// names share a destination.
func registerFlags(fs *flag.FlagSet, f *gtfTPMFlags, opts *combine.Opts) {
	for _, name := range []string{"gtf", "g"} {
		fs.StringVar(&f.gtfPath, name, "", "GTF annotation file. Compressed files are accepted.")
	}
	for _, name := range []string{"tpm", "m"} {
		fs.StringVar(&f.matrixPath, name, "", "Expression matrix, tab-separated, with a header line and gene_id in the first column.")
	}
	for _, name := range []string{"output", "o"} {
		fs.StringVar(&f.outputPath, name, defaultOutputPath, `Output table. A ".gz" suffix selects gzip compression.`)
	}
	for _, name := range []string{"threads", "t"} {
		fs.IntVar(&opts.Parallelism, name, combine.DefaultOpts.Parallelism, "Number of goroutines used to sort the output.")
	}
	for _, name := range []string{"filter", "f"} {
		fs.Var(tierValue{&opts.Tier}, name, fmt.Sprintf("Filter tier, 0 (keep all) to %d (autosomes only).", int(locus.MaxTier)))
	}
	fs.StringVar(&opts.Feature, "feature", combine.DefaultOpts.Feature, "GTF feature type that defines gene coordinates.")
	fs.StringVar(&opts.RegionsPath, "regions", "", "If set, a BED file. Only genes overlapping its intervals are written.")
	fs.StringVar(&opts.Regions, "region", "", `Comma-separated regions of the form "chr1:100-200", "chr1:100" or "chr1". Combined with -regions.`)
	fs.StringVar(&opts.StatsPath, "stats", "", "If set, a YAML summary of the run is written to this path.")
}

func (f gtfTPMFlags) validate() error {
	if f.gtfPath == "" {
		return errors.New("-gtf is required")
	}
	if f.matrixPath == "" {
		return errors.New("-tpm is required")
	}
	if f.outputPath == "" {
		return errors.New("-output must not be empty")
	}
	return nil
}

// Combine runs the command with the given flags.
func Combine(ctx context.Context, f gtfTPMFlags, opts combine.Opts) (combine.Stats, error) {
	if err := f.validate(); err != nil {
		return combine.Stats{}, err
	}
	log.Printf("Threads: %d", opts.Parallelism)
	log.Printf("GTF: %s", f.gtfPath)
	log.Printf("Matrix: %s", f.matrixPath)
	log.Printf("Output: %s", f.outputPath)
	log.Printf("Filter tier: %d", opts.Tier)
	return combine.Run(ctx, f.gtfPath, f.matrixPath, f.outputPath, opts)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s -gtf annotation.gtf -tpm matrix.tsv [OPTIONS]

Writes the rows of the matrix prefixed by the coordinates of their gene,
filtered by chromosome and sorted by genomic position.

Options:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	opts := combine.DefaultOpts
	flags := gtfTPMFlags{}
	registerFlags(flag.CommandLine, &flags, &opts)

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flag.NArg() > 0 {
		log.Fatalf("unexpected arguments: %v", flag.Args())
	}
	if _, err := Combine(ctx, flags, opts); err != nil {
		log.Fatal(err)
	}
	log.Printf("All done")
}
