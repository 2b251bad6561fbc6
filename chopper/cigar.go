// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package chopper

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// cigarWindow is the projection of a CIGAR onto one read-coordinate window.
type cigarWindow struct {
	// ops covers exactly the window, with the operations at the window edges
	// truncated as needed. Every op has length > 0.
	ops sam.Cigar
	// refBefore is the number of reference bases consumed strictly before the
	// window. The sub-record position is the record position plus refBefore.
	refBefore int
	// refWithin is the number of reference bases consumed by ops.
	refWithin int
}

// windowCigar projects cigar onto the read-coordinate window [lo, hi).
//
// Query-consuming operations are clipped to the window. A read-silent
// operation located at read coordinate c belongs to the window with
// lo < c <= hi, so it travels with the read base immediately preceding it;
// an operation before the first read base belongs to the first window, and an
// operation after the last read base of the record is dropped.
//
// The window must satisfy 0 <= lo <= hi <= query length of cigar. Violations
// are caller bugs, not data errors.
func windowCigar(cigar sam.Cigar, lo, hi int) cigarWindow {
	if lo < 0 || hi < lo {
		vlog.Panicf("invalid read window [%d, %d)", lo, hi)
	}
	lastQuery := -1
	for i, co := range cigar {
		if co.Type().Consumes().Query > 0 {
			lastQuery = i
		}
	}
	var w cigarWindow
	readPos := 0
	for i, co := range cigar {
		con := co.Type().Consumes()
		if con.Query > 0 {
			n := co.Len()
			start := max(readPos, lo)
			end := min(readPos+n, hi)
			if end > start {
				w.ops = append(w.ops, sam.NewCigarOp(co.Type(), end-start))
				if con.Reference > 0 {
					w.refWithin += end - start
				}
			}
			if con.Reference > 0 {
				if before := min(readPos+n, lo) - readPos; before > 0 {
					w.refBefore += before
				}
			}
			readPos += n
			continue
		}
		ref := co.Len() * con.Reference
		switch {
		case i > lastQuery:
			// Read-silent ops after the last read base are dropped.
		case (readPos > lo && readPos <= hi) || (readPos == 0 && lo == 0):
			w.ops = append(w.ops, co)
			w.refWithin += ref
		case readPos <= lo:
			w.refBefore += ref
		}
	}
	if hi > readPos {
		vlog.Panicf("read window [%d, %d) exceeds query length %d", lo, hi, readPos)
	}
	return w
}

// trimClips drops leading and trailing clip runs from cigar and returns the
// remaining operations along with the read-coordinate range [lo, hi) they
// cover.
func trimClips(cigar sam.Cigar, readLen int) (sam.Cigar, int, int) {
	lo, hi := 0, readLen
	i, j := 0, len(cigar)
leading:
	for i < j {
		switch cigar[i].Type() {
		case sam.CigarSoftClipped:
			lo += cigar[i].Len()
		case sam.CigarHardClipped:
		default:
			break leading
		}
		i++
	}
trailing:
	for j > i {
		switch cigar[j-1].Type() {
		case sam.CigarSoftClipped:
			hi -= cigar[j-1].Len()
		case sam.CigarHardClipped:
		default:
			break trailing
		}
		j--
	}
	return cigar[i:j], lo, hi
}

// queryLength is the number of read bases consumed by cigar. An error is
// returned for operations this package cannot split, such as CigarBack.
func queryLength(cigar sam.Cigar) (int, error) {
	n := 0
	for _, co := range cigar {
		con := co.Type().Consumes()
		if con.Query < 0 || con.Reference < 0 {
			return 0, errors.E(fmt.Sprintf("unsupported CIGAR op %v", co))
		}
		n += co.Len() * con.Query
	}
	return n, nil
}

func min(x, y int) int {
	if y < x {
		return y
	}
	return x
}

func max(x, y int) int {
	if y > x {
		return y
	}
	return x
}
