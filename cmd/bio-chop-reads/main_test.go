package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/chopreads/chopper"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBAM(t *testing.T, path string, header *sam.Header, recs []*sam.Record) {
	out, err := os.Create(path)
	require.NoError(t, err)
	w, err := bam.NewWriter(out, header, 1)
	require.NoError(t, err)
	for _, rec := range recs {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	require.NoError(t, out.Close())
}

func readBAM(t *testing.T, path string) (*sam.Header, []*sam.Record) {
	in, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, in.Close())
	}()
	r, err := bam.NewReader(in, 1)
	require.NoError(t, err)
	recs := []*sam.Record{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return r.Header(), recs
}

func TestEndToEnd(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	ref, err := sam.NewReference("chr1", "", "", 10000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{ref})
	require.NoError(t, err)

	mapped := chopper.NewRecordSeq("read1", ref, 100, 0,
		sam.Cigar{
			sam.NewCigarOp(sam.CigarMatch, 4),
			sam.NewCigarOp(sam.CigarDeletion, 2),
			sam.NewCigarOp(sam.CigarMatch, 4),
		}, "ACGTACGT", "IIIIIIII")
	mapped.AuxFields = []sam.Aux{chopper.NewAux("RG", "original")}
	unmapped := chopper.NewUnmappedRecord("read2", "ACGTA", "IIIII")

	inPath := filepath.Join(tempDir, "in.bam")
	outPath := filepath.Join(tempDir, "out.bam")
	writeBAM(t, inPath, header, []*sam.Record{mapped, unmapped})

	opts := chopper.Opts{ChunkSize: 4, ReadGroup: "chopped"}
	require.NoError(t, run(opts, inPath, outPath, "sample1", gzip.DefaultCompression))

	outHeader, recs := readBAM(t, outPath)
	foundRG := false
	for _, rg := range outHeader.RGs() {
		if rg.Name() == "chopped" {
			foundRG = true
		}
	}
	assert.True(t, foundRG, "output header should gain the @RG line")

	require.Equal(t, 4, len(recs))
	assert.Equal(t, "read1_0", recs[0].Name)
	assert.Equal(t, 100, recs[0].Pos)
	assert.Equal(t, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 4),
		sam.NewCigarOp(sam.CigarDeletion, 2),
	}, recs[0].Cigar)
	assert.Equal(t, "ACGT", string(recs[0].Seq.Expand()))

	assert.Equal(t, "read1_1", recs[1].Name)
	assert.Equal(t, 106, recs[1].Pos)
	assert.Equal(t, sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 4)}, recs[1].Cigar)

	assert.Equal(t, "read2_0", recs[2].Name)
	assert.Equal(t, "ACGT", string(recs[2].Seq.Expand()))
	assert.Equal(t, "read2_1", recs[3].Name)
	assert.Equal(t, "A", string(recs[3].Seq.Expand()))

	for _, rec := range recs {
		aux, ok := rec.Tag([]byte("RG"))
		assert.True(t, ok, "%s: missing RG tag", rec.Name)
		assert.Equal(t, "chopped", aux.Value())
	}
}

func TestRunValidation(t *testing.T) {
	assert.Error(t, run(chopper.Opts{ChunkSize: 10}, "", "", "", gzip.DefaultCompression))
	assert.Error(t, run(chopper.Opts{ChunkSize: 10}, "in.bam", "", "sample-without-rg", gzip.DefaultCompression))
	assert.Error(t, run(chopper.Opts{ChunkSize: 0}, "in.bam", "", "", gzip.DefaultCompression))
}
