// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

// See doc.go for documentation.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/chopreads/chopper"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
)

var (
	input            = flag.String("input", "", "Input BAM filename")
	output           = flag.String("output", "", "Output BAM filename. Writes to stdout if empty")
	chunkSize        = flag.Int("chunk-size", 0, "Number of read bases per chunk. Must be positive")
	minLength        = flag.Int("min-length", 0, "Drop the final chunk of a record when it is shorter than this many bases")
	readGroup        = flag.String("read-group", "", "Read group ID to stamp on the split records")
	sampleName       = flag.String("sample-name", "", "Sample name for the new read group. Requires -read-group")
	skipClippedBases = flag.Bool("skip-clipped-bases", false, "Drop clipped bases at the edges of each record before splitting")
	compressionLevel = flag.Int("compression-level", gzip.DefaultCompression, "Compression level of the output BAM")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	opts := chopper.Opts{
		ChunkSize:        *chunkSize,
		MinLength:        *minLength,
		SkipClippedBases: *skipClippedBases,
		ReadGroup:        *readGroup,
	}
	if err := run(opts, *input, *output, *sampleName, *compressionLevel); err != nil {
		log.Fatalf("bio-chop-reads: %v", err)
	}
}

func run(opts chopper.Opts, inPath, outPath, sampleName string, compressionLevel int) (err error) {
	if inPath == "" {
		return errors.E("no input file, use -input")
	}
	if sampleName != "" && opts.ReadGroup == "" {
		return errors.E("-sample-name requires -read-group")
	}
	c, err := chopper.New(opts)
	if err != nil {
		return err
	}

	ctx := vcontext.Background()
	in, err := file.Open(ctx, inPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	r, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		return errors.E(err, fmt.Sprintf("opening BAM %s", inPath))
	}

	header := r.Header().Clone()
	if opts.ReadGroup != "" {
		rg, err := sam.NewReadGroup(opts.ReadGroup, "", "", "", "", "", "", sampleName, "", "", time.Time{}, 0)
		if err != nil {
			return errors.E(err, "creating read group")
		}
		if err := header.AddReadGroup(rg); err != nil {
			return errors.E(err, fmt.Sprintf("adding read group %s to header", opts.ReadGroup))
		}
	}

	outStream := io.Writer(os.Stdout)
	if outPath != "" {
		out, err := file.Create(ctx, outPath)
		if err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, out, &err)
		outStream = out.Writer(ctx)
	}
	w, err := bam.NewWriterLevel(outStream, header, compressionLevel, 1)
	if err != nil {
		return errors.E(err, "creating BAM writer")
	}

	var nRecords, nPieces, nSkipped int64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.E(err, fmt.Sprintf("reading %s", inPath))
		}
		nRecords++
		pieces, err := c.Chop(rec)
		if err != nil {
			log.Error.Printf("skipping record: %v", err)
			nSkipped++
			sam.PutInFreePool(rec)
			continue
		}
		for _, p := range pieces {
			if err := w.Write(p); err != nil {
				return errors.E(err, fmt.Sprintf("writing %s", p.Name))
			}
			sam.PutInFreePool(p)
			nPieces++
		}
		sam.PutInFreePool(rec)
	}
	if err := w.Close(); err != nil {
		return errors.E(err, "closing BAM writer")
	}
	log.Printf("chopped %d records into %d (%d records skipped)", nRecords, nPieces, nSkipped)
	return nil
}
