// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package chopper

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

var rgTag = sam.NewTag("RG")

// Opts configures a Chopper.
type Opts struct {
	// ChunkSize is the maximum number of read bases per sub-record. Must be
	// positive.
	ChunkSize int

	// MinLength drops the final sub-record of a read when its sequence is
	// shorter than this many bases. All earlier sub-records are exactly
	// ChunkSize long and always pass. 0 keeps everything.
	MinLength int

	// SkipClippedBases removes clip operations at the edges of each record
	// before splitting. Soft-clipped bases are not emitted in any sub-record.
	SkipClippedBases bool

	// ReadGroup, when nonempty, replaces the RG tag on every sub-record.
	ReadGroup string
}

// Chopper splits alignment records according to Opts. Thread compatible.
type Chopper struct {
	opts  Opts
	rgAux sam.Aux
}

// New creates a Chopper. It fails if opts.ChunkSize is not positive.
func New(opts Opts) (*Chopper, error) {
	if opts.ChunkSize <= 0 {
		return nil, errors.E(fmt.Sprintf("chunk size must be positive, got %d", opts.ChunkSize))
	}
	c := &Chopper{opts: opts}
	if opts.ReadGroup != "" {
		aux, err := sam.NewAux(rgTag, opts.ReadGroup)
		if err != nil {
			return nil, errors.E(err, "creating RG aux tag")
		}
		c.rgAux = aux
	}
	return c, nil
}

// Chop splits rec into sub-records of at most ChunkSize read bases each, in
// read-coordinate order. rec is not modified. The returned records are
// allocated from the sam free pool; callers that are done with one should
// return it with sam.PutInFreePool.
//
// An error is returned when the CIGAR's read-base consumption does not match
// the sequence length; rec is then rejected as a whole and no sub-records are
// produced. An unmapped record with no CIGAR is split on sequence alone.
//
// A nil, nil return is valid: it means rec contributed no output (for
// example, a short read whose only chunk fell below MinLength).
func (c *Chopper) Chop(rec *sam.Record) ([]*sam.Record, error) {
	seq := rec.Seq.Expand()
	if len(rec.Qual) != len(seq) {
		return nil, errors.E(fmt.Sprintf("%s: %d quality values for %d bases",
			rec.Name, len(rec.Qual), len(seq)))
	}
	cigar := rec.Cigar
	if len(cigar) > 0 {
		qlen, err := queryLength(cigar)
		if err != nil {
			return nil, errors.E(err, rec.Name)
		}
		if qlen != len(seq) {
			return nil, errors.E(fmt.Sprintf("%s: CIGAR %v consumes %d read bases, sequence has %d",
				rec.Name, cigar, qlen, len(seq)))
		}
	}
	lo, hi := 0, len(seq)
	if c.opts.SkipClippedBases {
		cigar, lo, hi = trimClips(cigar, len(seq))
	}
	span := hi - lo
	if span <= 0 {
		return nil, nil
	}
	nChunks := (span + c.opts.ChunkSize - 1) / c.opts.ChunkSize
	pieces := make([]*sam.Record, 0, nChunks)
	for i := 0; i < nChunks; i++ {
		wlo := i * c.opts.ChunkSize
		whi := min(wlo+c.opts.ChunkSize, span)
		var w cigarWindow
		if len(cigar) > 0 {
			w = windowCigar(cigar, wlo, whi)
		}
		pieces = append(pieces, c.newPiece(rec, i, seq[lo+wlo:lo+whi], rec.Qual[lo+wlo:lo+whi], w))
	}
	if n := len(pieces); c.opts.MinLength > 0 && pieces[n-1].Seq.Length < c.opts.MinLength {
		sam.PutInFreePool(pieces[n-1])
		pieces = pieces[:n-1]
	}
	if len(pieces) == 0 {
		return nil, nil
	}
	return pieces, nil
}

// newPiece materializes the sub-record for one window. seq and qual alias the
// caller's buffers and are copied here.
func (c *Chopper) newPiece(rec *sam.Record, idx int, seq, qual []byte, w cigarWindow) *sam.Record {
	p := sam.GetFromFreePool()
	p.Name = fmt.Sprintf("%s_%d", rec.Name, idx)
	p.Ref = rec.Ref
	p.Pos = rec.Pos
	if rec.Flags&sam.Unmapped == 0 {
		p.Pos = rec.Pos + w.refBefore
	}
	p.MapQ = rec.MapQ
	p.Cigar = w.ops
	p.Flags = rec.Flags
	p.MateRef = rec.MateRef
	p.MatePos = rec.MatePos
	p.TempLen = rec.TempLen
	p.Seq = sam.NewSeq(seq)
	p.Qual = append(p.Qual[:0], qual...)
	p.AuxFields = c.copyAux(p.AuxFields[:0], rec.AuxFields)
	return p
}

// copyAux appends rec's aux fields to dst, replacing any RG tag with the
// configured override.
func (c *Chopper) copyAux(dst, src []sam.Aux) []sam.Aux {
	for _, aux := range src {
		if c.rgAux != nil && aux.Tag() == rgTag {
			continue
		}
		dst = append(dst, aux)
	}
	if c.rgAux != nil {
		dst = append(dst, c.rgAux)
	}
	return dst
}
