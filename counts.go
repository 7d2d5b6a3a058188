package codeorg

import "sort"

// CountMap accumulates integer counts per key, remembering the order in which
// keys were first seen. Rankings and vocabulary ids derived from it are
// therefore reproducible run over run, which plain Go maps cannot offer.
type CountMap struct {
	keys   []string
	counts map[string]int
}

// NewCountMap returns an empty CountMap.
func NewCountMap() *CountMap {
	return &CountMap{counts: make(map[string]int)}
}

// Add accumulates n into the count for key, registering key at the end of the
// insertion order if it is new.
func (cm *CountMap) Add(key string, n int) {
	if _, found := cm.counts[key]; !found {
		cm.keys = append(cm.keys, key)
	}
	cm.counts[key] += n
}

// Count returns the accumulated count for key, and whether key was ever seen.
func (cm *CountMap) Count(key string) (count int, found bool) {
	count, found = cm.counts[key]
	return
}

// Len returns the number of distinct keys.
func (cm *CountMap) Len() int { return len(cm.keys) }

// Keys returns the distinct keys in first-seen order. The returned slice is
// owned by the CountMap, don't modify it.
func (cm *CountMap) Keys() []string { return cm.keys }

// AggregateCounts canonicalizes every source program and sums its observed
// occurrence count into a CountMap keyed by canonical program string.
// Several source ids may canonicalize to the same program; their counts add
// up, and an id missing from counts contributes zero. Ids are visited in
// ascending order, so the result (including key order) is identical run over
// run.
func AggregateCounts(sources map[int]*AST, counts map[int]int) *CountMap {
	ids := make([]int, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cm := NewCountMap()
	for _, id := range ids {
		cm.Add(sources[id].Canonical(), counts[id])
	}
	return cm
}
