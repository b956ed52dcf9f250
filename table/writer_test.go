package table

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/gtftpm/matrix"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

var (
	testHeader = []string{"gene_id", "sample1"}
	testRows   = []matrix.EnrichedRow{
		{Chrom: "chr7", Start: "100", End: "200", Columns: []string{"G1", "5.2"}},
		{Columns: []string{"G2", "3.1"}},
	}
)

const wantTable = "#Chr\tstart\tend\tgene_id\tsample1\n" +
	"chr7\t100\t200\tG1\t5.2\n" +
	"\t\t\tG2\t3.1\n"

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, testHeader, testRows))
	expect.EQ(t, buf.String(), wantTable)
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, []string{"gene_id"}, nil))
	expect.EQ(t, buf.String(), "#Chr\tstart\tend\tgene_id\n")
}

func TestWriteFile(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	path := filepath.Join(tempDir, "out.tsv")
	assert.NoError(t, WriteFile(ctx, path, testHeader, testRows))
	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	expect.EQ(t, string(data), wantTable)

	gzPath := filepath.Join(tempDir, "out.tsv.gz")
	assert.NoError(t, WriteFile(ctx, gzPath, testHeader, testRows))
	f, err := os.Open(gzPath)
	assert.NoError(t, err)
	defer f.Close()
	r, err := gzip.NewReader(f)
	assert.NoError(t, err)
	data, err = ioutil.ReadAll(r)
	assert.NoError(t, err)
	expect.EQ(t, string(data), wantTable)
}

func TestWriteFileBadPath(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	// A regular file can't be used as a directory.
	blocker := filepath.Join(tempDir, "blocker")
	assert.NoError(t, ioutil.WriteFile(blocker, nil, 0600))
	err := WriteFile(context.Background(), filepath.Join(blocker, "out.tsv"), testHeader, testRows)
	expect.NotNil(t, err)
}
