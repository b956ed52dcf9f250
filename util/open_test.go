package util

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func TestOpenPlainAndGzip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	plain := filepath.Join(tempDir, "m.tsv")
	assert.NoError(t, ioutil.WriteFile(plain, []byte("gene_id\ts1\nG1\t1\n"), 0600))

	gz := filepath.Join(tempDir, "m.tsv.gz")
	f, err := os.Create(gz)
	assert.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte("gene_id\ts1\nG1\t1\n"))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, f.Close())

	for _, path := range []string{plain, gz} {
		r, err := Open(ctx, path)
		assert.NoError(t, err)
		data, err := ioutil.ReadAll(r)
		assert.NoError(t, err)
		expect.EQ(t, string(data), "gene_id\ts1\nG1\t1\n")
		expect.EQ(t, r.Name(), path)
		assert.NoError(t, r.Close())
	}
}

func TestOpenMissing(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := Open(context.Background(), filepath.Join(tempDir, "nonexistent.gtf"))
	expect.HasSubstr(t, err.Error(), "nonexistent.gtf")
}
