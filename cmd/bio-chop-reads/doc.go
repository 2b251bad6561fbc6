/*Command bio-chop-reads splits each record of a .bam file into
  sub-records of a fixed number of read bases.

  Every input record is chopped into chunks of -chunk-size read bases.
  Each chunk becomes its own record whose CIGAR, position, sequence,
  qualities, and aux tags describe only that slice of the original
  read; chunks of one record are named <name>_0, <name>_1, and so on.
  The final chunk of a record holds the remainder and may be dropped
  with -min-length. See the chopper package for the exact splitting
  semantics.

  Sample usage:

    bio-chop-reads \
        -input in.bam \
        -output out.bam \
        -chunk-size 150 \
        -min-length 30 \
        -read-group chopped -sample-name sample1

  When -read-group is given, an @RG line is added to the output header
  and the RG tag of every output record is rewritten to match. Input
  records whose CIGAR disagrees with their sequence length are skipped
  with a warning. Output is written to stdout when -output is empty.
*/
package main
