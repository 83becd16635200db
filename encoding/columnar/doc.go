// Package columnar converts between genomic interval files and the
// struct-of-arrays interval.Set used by package interval.
//
// Chromosome names are interned into a Dict, so groups are small integer
// codes.  Readers that must be joined (for example the two inputs of an
// overlap join) have to share one Dict.  Writers restore the names.
package columnar
