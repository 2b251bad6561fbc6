package chopper

// Record builders shared by the chopper and bio-chop-reads tests.

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// NewRecordSeq returns a mapped record with the given name, position, CIGAR,
// sequence, and quality string.
func NewRecordSeq(name string, ref *sam.Reference, pos int, flags sam.Flags, cigar sam.Cigar, seq, qual string) *sam.Record {
	if len(seq) != len(qual) {
		panic("seq and qual must be equal length")
	}
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MapQ = 60
	r.Flags = flags
	r.Cigar = cigar
	r.MateRef = nil
	r.MatePos = -1
	r.Seq = sam.NewSeq([]byte(seq))
	r.Qual = []byte(qual)
	r.AuxFields = nil
	return r
}

// NewUnmappedRecord returns an unmapped record with no CIGAR.
func NewUnmappedRecord(name, seq, qual string) *sam.Record {
	r := NewRecordSeq(name, nil, -1, sam.Unmapped, nil, seq, qual)
	r.MapQ = 0
	return r
}

// NewAux creates an aux field, panicking on invalid input.
func NewAux(name string, val interface{}) sam.Aux {
	aux, err := sam.NewAux(sam.NewTag(name), val)
	if err != nil {
		panic(fmt.Sprintf("error creating %s %v tag: %v", name, val, err))
	}
	return aux
}
