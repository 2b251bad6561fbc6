/*Package chopper splits alignment records into fixed-length sub-records.

  Given a chunk size N, each input record is partitioned into sub-records
  of at most N read bases. Every sub-record carries a CIGAR, alignment
  position, sequence, qualities, and auxiliary tags that describe exactly
  its slice of the original read:

    - The CIGAR is the sub-sequence of the original operations covering
      the sub-record's read-coordinate window, with operations at the
      window edges truncated so that concatenating the sub-records'
      query-consuming operations reproduces the original CIGAR.

    - An operation that consumes reference but no read bases (deletion,
      reference skip) travels with the read base immediately preceding
      it. An operation before the first read base goes with the first
      sub-record; an operation after the last read base of the record is
      dropped rather than attached to a nonexistent next sub-record.

    - The position of each mapped sub-record is the original position
      plus the reference bases consumed before its window.

  Sub-records are named <original name>_<chunk index>, with 0-based
  indices. Flags, mate coordinates, and auxiliary tags are carried over
  unchanged; the chopper makes no attempt to maintain proper-pair or
  mate consistency across chunks. The one exception is the RG tag, which
  is rewritten when Opts.ReadGroup is set.
*/
package chopper
