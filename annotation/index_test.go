package annotation

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const testGTF = `##description: test annotation
#!genome-build GRCh38
chr7	HAVANA	gene	100	200	.	+	.	gene_id "G1"; gene_type "protein_coding";
chr7	HAVANA	transcript	100	200	.	+	.	gene_id "G1"; transcript_id "T1";
chr7	HAVANA	exon	100	150	.	+	.	gene_id "G1"; transcript_id "T1";
chrX	HAVANA	gene	5000	6000	.	-	.	gene_id "G2";
scaffold_9	ENSEMBL	gene	7	9	.	+	.	gene_id "G3";
chr1	HAVANA	gene	1	2	.	+
chr2	HAVANA	gene	10	20	.	+	.	gene_name NOID
chr2	HAVANA	gene	10	20	.	+	.	gene_id "";
chr3	HAVANA	gene	30	40	.	+	.	gene_id "G4"; extra
chr4	HAVANA	gene	1e3	x	.	+	.	gene_id "G4";
`

func TestGeneID(t *testing.T) {
	tests := []struct {
		attrs, want string
	}{
		{`gene_id "ENSG1.1"; gene_type "protein_coding";`, "ENSG1.1"},
		{`gene_id "G1"`, "G1"},
		{`gene_id "G1`, "G1"},
		{`gene_id G1; gene_name "X";`, ""},
		{`gene_id "";`, ""},
		{``, ""},
		{`transcript_id "T1"; gene_id "G1";`, "T1"},
	}
	for _, test := range tests {
		if got := geneID(test.attrs); got != test.want {
			t.Errorf("geneID(%q): got %q, want %q", test.attrs, got, test.want)
		}
	}
}

func TestNewIndex(t *testing.T) {
	x, err := NewIndex(strings.NewReader(testGTF), Opts{})
	assert.NoError(t, err)
	expect.EQ(t, x.Len(), 4)

	loc, ok := x.Lookup("G1")
	expect.True(t, ok)
	expect.EQ(t, loc, Locus{Chrom: "chr7", Start: "100", End: "200"})

	loc, ok = x.Lookup("G2")
	expect.True(t, ok)
	expect.EQ(t, loc, Locus{Chrom: "chrX", Start: "5000", End: "6000"})

	loc, ok = x.Lookup("G3")
	expect.True(t, ok)
	expect.EQ(t, loc.Chrom, "scaffold_9")

	// The later record for G4 overwrites the earlier one, coordinates verbatim.
	loc, ok = x.Lookup("G4")
	expect.True(t, ok)
	expect.EQ(t, loc, Locus{Chrom: "chr4", Start: "1e3", End: "x"})

	_, ok = x.Lookup("T1")
	expect.False(t, ok)
	_, ok = x.Lookup("NOID")
	expect.False(t, ok)

	expect.EQ(t, x.Stats(), Stats{
		Lines:         10,
		Malformed:     1,
		OtherFeatures: 2,
		MissingID:     2,
		Records:       5,
		Duplicates:    1,
	})
}

func TestNewIndexFeature(t *testing.T) {
	x, err := NewIndex(strings.NewReader(testGTF), Opts{Feature: "transcript"})
	assert.NoError(t, err)
	expect.EQ(t, x.Len(), 1)
	loc, ok := x.Lookup("G1")
	expect.True(t, ok)
	expect.EQ(t, loc.Start, "100")
}

func TestNewIndexCRLF(t *testing.T) {
	gtf := "chr1\ts\tgene\t1\t2\t.\t+\t.\tgene_id \"A\";\r\n" +
		"chr2\ts\tgene\t3\t4\t.\t+\t.\tgene_id \"B\"\r\n"
	x, err := NewIndex(strings.NewReader(gtf), Opts{})
	assert.NoError(t, err)
	loc, ok := x.Lookup("B")
	expect.True(t, ok)
	expect.EQ(t, loc, Locus{Chrom: "chr2", Start: "3", End: "4"})
}

func TestReadIndex(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	path := filepath.Join(tempDir, "annotation.gtf")
	assert.NoError(t, ioutil.WriteFile(path, []byte(testGTF), 0600))
	x, err := ReadIndex(ctx, path, Opts{})
	assert.NoError(t, err)
	expect.EQ(t, x.Len(), 4)

	_, err = ReadIndex(ctx, filepath.Join(tempDir, "missing.gtf"), Opts{})
	assert.NotNil(t, err)
	expect.HasSubstr(t, err.Error(), "missing.gtf")
}
