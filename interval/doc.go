/*Package interval implements interval-union operations in a manner optimized
  for sets of genomic coordinates represented by BED files or region strings.
  (Note the 'union'.  Overlapping intervals are merged, not tracked
  separately.)
  It assumes every position fits in a PosType, which is currently defined as
  int32; no human chromosome exceeds that.
*/
package interval
