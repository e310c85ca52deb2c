// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RecommendForRoom builds one shared candidate list for a room. Every member
// is recommended k items concurrently and the lists are merged with
// AggregateRanks. Members whose lookup fails are skipped; the call fails only
// when no member produced a list.
func (e *Engine) RecommendForRoom(ctx context.Context, members []string, k int) (*Result, error) {
	start := time.Now()
	k = e.config.clampK(k)

	lists := make([]*Result, len(members))
	errs := make([]error, len(members))

	var wg sync.WaitGroup
	for i, member := range members {
		wg.Add(1)
		go func(i int, member string) {
			defer wg.Done()
			lists[i], errs[i] = e.Recommend(ctx, member, k)
		}(i, member)
	}
	wg.Wait()

	var firstErr error
	ok := make([]*Result, 0, len(lists))
	for i, l := range lists {
		if errs[i] != nil {
			e.logger.Warn().Err(errs[i]).Str("user_id", members[i]).Msg("Skipping member in room aggregation")
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		ok = append(ok, l)
	}

	var err error
	if len(ok) == 0 && firstErr != nil {
		err = fmt.Errorf("room recommendations: %w", firstErr)
	}
	if e.hooks.OnRecommend != nil {
		e.hooks.OnRecommend(ModeRoom, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	return AggregateRanks(ok, k), nil
}

type aggregateEntry struct {
	id       string
	score    float64
	distance float64
}

// AggregateRanks merges ranked lists into one. An item at rank r (0-based) in
// a list scores 1/(1+r); scores are summed across lists. Ties go to the lower
// summed distance and then the lexically smaller ID. The merged list is cold
// start only if every input was.
func AggregateRanks(lists []*Result, k int) *Result {
	entries := make(map[string]*aggregateEntry)
	coldStart := len(lists) > 0
	for _, l := range lists {
		if l == nil {
			continue
		}
		if !l.ColdStart {
			coldStart = false
		}
		for rank, id := range l.IDs {
			ent, ok := entries[id]
			if !ok {
				ent = &aggregateEntry{id: id}
				entries[id] = ent
			}
			ent.score += 1 / float64(1+rank)
			if rank < len(l.Distances) {
				ent.distance += l.Distances[rank]
			}
		}
	}

	ranked := make([]*aggregateEntry, 0, len(entries))
	for _, ent := range entries {
		ranked = append(ranked, ent)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.id < b.id
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	res := &Result{
		IDs:       make([]string, len(ranked)),
		Distances: make([]float64, len(ranked)),
		Scores:    make([]float64, len(ranked)),
		ColdStart: coldStart,
	}
	for i, ent := range ranked {
		res.IDs[i] = ent.id
		res.Distances[i] = ent.distance
		res.Scores[i] = ent.score
	}
	return res
}
