// Package align implements a banded, semi-global sequence aligner used to
// locate an approximate occurrence of a short query (typically an adapter)
// inside a longer reference (typically a sequencing read), or the other way
// around (cmd/bio-align-trim binds the adapter as the reference and passes
// each read as the query), tolerating a bounded rate of substitutions,
// insertions, and deletions.
//
// The package has two entry points: Aligner, a reusable object bound to one
// reference string, whose Locate method runs the banded DP described below;
// and ComparePrefixes, a stateless indel-free fast path sharing the same
// character model and result shape.
//
// Neither entry point reconstructs an alignment. Both return interval
// endpoints and scalar match/error counts only; callers that need a CIGAR
// string or traceback must build it themselves from the surrounding context.
package align
