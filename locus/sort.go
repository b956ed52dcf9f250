package locus

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/gtftpm/matrix"
)

// minShardRows is the smallest shard worth sorting on its own goroutine.
var minShardRows = 1 << 14

type sortKey struct {
	rank  int
	start int64
	// ord is the position of the row in the input. It makes the order total, so
	// the result doesn't depend on how the input was sharded.
	ord int
}

func (a sortKey) less(b sortKey) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.start != b.start {
		return a.start < b.start
	}
	return a.ord < b.ord
}

// Less reports whether a sorts before b, ignoring ties: by chromosome Rank, then
// by numeric start.
func Less(a, b *matrix.EnrichedRow) bool {
	ra, rb := Rank(a.Chrom), Rank(b.Chrom)
	if ra != rb {
		return ra < rb
	}
	return StartPos(a.Start) < StartPos(b.Start)
}

// Sort orders rows by chromosome Rank, then numeric start. Rows that compare
// equal keep their input order.
//
// Up to parallelism shards are sorted concurrently and then merged. The result
// is identical for every parallelism value.
func Sort(rows []matrix.EnrichedRow, parallelism int) {
	keys := make([]sortKey, len(rows))
	for i := range rows {
		keys[i] = sortKey{rank: Rank(rows[i].Chrom), start: StartPos(rows[i].Start), ord: i}
	}
	nShard := parallelism
	if limit := len(keys) / minShardRows; nShard > limit {
		nShard = limit
	}
	if nShard < 1 {
		nShard = 1
	}
	log.Debug.Printf("sorting %d rows in %d shard(s)", len(keys), nShard)
	shards := make([][]sortKey, nShard)
	for i := range shards {
		shards[i] = keys[(i*len(keys))/nShard : ((i+1)*len(keys))/nShard]
	}
	// The callback never fails.
	_ = traverse.Each(nShard, func(i int) error {
		shard := shards[i]
		sort.Slice(shard, func(a, b int) bool { return shard[a].less(shard[b]) })
		return nil
	})
	for len(shards) > 1 {
		merged := make([][]sortKey, 0, (len(shards)+1)/2)
		for i := 0; i < len(shards); i += 2 {
			if i+1 == len(shards) {
				merged = append(merged, shards[i])
				continue
			}
			merged = append(merged, mergeKeys(shards[i], shards[i+1]))
		}
		shards = merged
	}
	sorted := make([]matrix.EnrichedRow, len(rows))
	for i, k := range shards[0] {
		sorted[i] = rows[k.ord]
	}
	copy(rows, sorted)
}

func mergeKeys(a, b []sortKey) []sortKey {
	out := make([]sortKey, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		if b[0].less(a[0]) {
			out = append(out, b[0])
			b = b[1:]
		} else {
			out = append(out, a[0])
			a = a[1:]
		}
	}
	out = append(out, a...)
	return append(out, b...)
}
