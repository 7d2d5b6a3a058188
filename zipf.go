package codeorg

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Class is the frequency-rarity class of a program, derived from its
// corpus-wide occurrence count and frequency rank.
type Class int32

const (
	// Head programs are the most frequent ones (top of the rank).
	Head Class = iota

	// Body is the default class for typical programs.
	Body

	// Tail programs are rare, observed fewer than Config.TailThreshold times.
	Tail
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case Head:
		return "head"
	case Body:
		return "body"
	case Tail:
		return "tail"
	}
	return "invalid"
}

// RankMap maps a canonical program string to its frequency rank: rank 0 is
// the most frequent program.
type RankMap map[string]int

// BuildRankMap ranks every program of cm by count, descending, rank 0 being
// the most frequent. Ties keep the relative order in which the programs were
// first seen (cm's insertion order) -- a reproducibility contract, so that
// two runs over the same input always agree.
func BuildRankMap(cm *CountMap) RankMap {
	keys := cm.Keys()
	order := make([]int, len(keys))
	for ii := range order {
		order[ii] = ii
	}
	sort.SliceStable(order, func(i, j int) bool {
		ci, _ := cm.Count(keys[order[i]])
		cj, _ := cm.Count(keys[order[j]])
		return ci > cj
	})

	ranks := make(RankMap, len(keys))
	for rank, idx := range order {
		ranks[keys[idx]] = rank
	}
	return ranks
}

// ZipfMap maps a canonical program string to its frequency Class.
type ZipfMap map[string]Class

// BuildZipfMap classifies every program of cm. Rules, later ones overriding
// earlier ones:
//
//  1. Everything defaults to Body.
//  2. Count < cfg.TailThreshold -> Tail.
//  3. Rank <= cfg.HeadRank -> Head, even if the count is below the
//     tail threshold.
//
// With fewer than cfg.HeadRank+1 distinct programs every rank qualifies for
// rule 3, so everything ends up Head. That is the intended behavior.
func BuildZipfMap(cm *CountMap, ranks RankMap, cfg *Config) ZipfMap {
	zm := make(ZipfMap, cm.Len())
	for _, program := range cm.Keys() {
		class := Body
		if count, _ := cm.Count(program); count < cfg.TailThreshold {
			class = Tail
		}
		if ranks[program] <= cfg.HeadRank {
			class = Head
		}
		zm[program] = class
	}
	return zm
}

// ZipfSlope fits count = C * (rank+1)^slope by least squares in log-log space
// and returns the slope. A perfectly Zipfian corpus gives slope close to -1.
// Programs with non-positive counts are skipped; fewer than two usable
// programs give NaN.
func ZipfSlope(cm *CountMap, ranks RankMap) float64 {
	xs := make([]float64, 0, cm.Len())
	ys := make([]float64, 0, cm.Len())
	for _, program := range cm.Keys() {
		count, _ := cm.Count(program)
		if count <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(ranks[program]+1)))
		ys = append(ys, math.Log(float64(count)))
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope
}
