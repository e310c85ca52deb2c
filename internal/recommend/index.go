// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// minRowsPerWorker keeps small catalogs on a single goroutine.
const minRowsPerWorker = 2048

// Neighbor is one query hit: a FeatureSet row and its Euclidean distance.
type Neighbor struct {
	Row      int
	Distance float64
}

// NeighborIndex answers Euclidean k-nearest-neighbor queries over one FeatureSet.
// It is immutable after Train and safe for concurrent queries.
type NeighborIndex struct {
	set       *FeatureSet
	workers   int
	trainedAt time.Time
}

// Train fits an index to set. The index stays bound to that exact set.
func Train(set *FeatureSet, workers int) (*NeighborIndex, error) {
	if set == nil {
		return nil, ErrNotReady
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStaleIndex, err)
	}
	if workers < 1 {
		workers = 1
	}
	return &NeighborIndex{
		set:       set,
		workers:   workers,
		trainedAt: time.Now(),
	}, nil
}

// FeatureSet returns the set the index was trained on.
func (idx *NeighborIndex) FeatureSet() *FeatureSet {
	return idx.set
}

// TrainedAt returns when the index was fitted.
func (idx *NeighborIndex) TrainedAt() time.Time {
	return idx.trainedAt
}

// Query returns up to k rows closest to profile, ordered by increasing
// distance and then by row. A profile whose dimension differs from the index
// is ErrStaleIndex.
func (idx *NeighborIndex) Query(profile []float64, k int) ([]Neighbor, error) {
	if len(profile) != idx.set.Dimensions() {
		return nil, fmt.Errorf("%w: profile has %d dimensions, index has %d",
			ErrStaleIndex, len(profile), idx.set.Dimensions())
	}
	n := len(idx.set.Matrix)
	if k <= 0 || n == 0 {
		return nil, nil
	}
	if k > n {
		k = n
	}

	workers := idx.workers
	if maxWorkers := (n + minRowsPerWorker - 1) / minRowsPerWorker; workers > maxWorkers {
		workers = maxWorkers
	}

	var candidates []Neighbor
	if workers <= 1 {
		candidates = idx.scan(profile, 0, n, k)
	} else {
		chunk := (n + workers - 1) / workers
		partial := make([][]Neighbor, workers)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := lo + chunk
			if hi > n {
				hi = n
			}
			if lo >= hi {
				continue
			}
			wg.Add(1)
			go func(w, lo, hi int) {
				defer wg.Done()
				partial[w] = idx.scan(profile, lo, hi, k)
			}(w, lo, hi)
		}
		wg.Wait()
		for _, p := range partial {
			candidates = append(candidates, p...)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return closer(candidates[i], candidates[j])
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	for i := range candidates {
		candidates[i].Distance = math.Sqrt(candidates[i].Distance)
	}
	return candidates, nil
}

// scan returns the k closest rows in [lo, hi) by squared distance.
func (idx *NeighborIndex) scan(profile []float64, lo, hi, k int) []Neighbor {
	h := make(farthestFirst, 0, k)
	for row := lo; row < hi; row++ {
		cand := Neighbor{Row: row, Distance: squaredDistance(profile, idx.set.Matrix[row])}
		if len(h) < k {
			heap.Push(&h, cand)
			continue
		}
		if closer(cand, h[0]) {
			h[0] = cand
			heap.Fix(&h, 0)
		}
	}
	return h
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// closer orders neighbors by distance, then row, so results are deterministic.
func closer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Row < b.Row
}

// farthestFirst is a max-heap of neighbors; the root is the worst kept candidate.
type farthestFirst []Neighbor

func (h farthestFirst) Len() int           { return len(h) }
func (h farthestFirst) Less(i, j int) bool { return closer(h[j], h[i]) }
func (h farthestFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *farthestFirst) Push(x any) { *h = append(*h, x.(Neighbor)) }

func (h *farthestFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
