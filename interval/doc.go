/*Package interval implements set-algebra operations on genomic intervals
  supplied as struct-of-arrays columns: overlap joins, k-nearest-neighbor
  joins, merges, clusters, complements, subtraction and max-disjoint
  selection.

  Every operation is a single pass over a stream of endpoint events, sorted
  by (group, position, is-start) with ends placed before starts at equal
  positions.  This encodes half-open [start, end) semantics: an interval
  ending at p does not touch one starting at p unless slack was applied.

  Inputs are never modified; outputs are freshly allocated parallel slices
  whose row indices refer back to the caller's input order.  Nothing is
  cached across calls.

  The group key can be any integer type and positions any signed integer
  type; all algorithms are generic over both.
*/
package interval
