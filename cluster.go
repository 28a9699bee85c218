// Package histcluster implements greedy clustering of the per-block
// symbol histograms produced during entropy-coded compression.
//
// An encoder that splits its input into many blocks could build one
// Huffman code per block, but transmitting all of those codes usually
// costs more than sharing codes between blocks with similar symbol
// statistics. Cluster greedily merges the most similar histograms until
// no merge pays for itself and the number of surviving clusters fits the
// limit the output format can address. The resulting assignment of
// blocks to shared histograms is what a compressor's entropy-coding
// stage consumes and serializes as its context map.
package histcluster

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Functions for clustering similar histograms together. */

import "math"

// A histogramPair is a candidate merge of the clusters idx1 and idx2,
// with idx1 < idx2. costDiff ranks the merge (lower is more beneficial);
// costCombo is the population cost of the combined histogram, kept so an
// accepted merge doesn't have to recompute it.
type histogramPair struct {
	idx1      uint32
	idx2      uint32
	costCombo float64
	costDiff  float64
}

// histogramPairIsLess reports whether p1 ranks below p2: the lower
// costDiff wins, and on an exact tie the pair spanning the larger index
// gap wins.
func histogramPairIsLess(p1, p2 *histogramPair) bool {
	if p1.costDiff != p2.costDiff {
		return p1.costDiff > p2.costDiff
	}
	return p1.idx2-p1.idx1 < p2.idx2-p2.idx1
}

// clusterCostDiff computes the entropy reduction in the context map from
// pointing sizeA+sizeB blocks at one shared cluster instead of two
// separate ones.
func clusterCostDiff(sizeA, sizeB uint) float64 {
	sizeC := sizeA + sizeB
	return float64(sizeA)*fastLog2(sizeA) +
		float64(sizeB)*fastLog2(sizeB) -
		float64(sizeC)*fastLog2(sizeC)
}

// A pairQueue holds merge candidates with the best-ranked pair at the
// front; the rest are unordered. It is bounded: once full, a new
// candidate is kept only if it displaces the front.
type pairQueue struct {
	pairs    []histogramPair
	maxPairs int
}

func (q *pairQueue) reset(maxPairs int) {
	q.maxPairs = max(maxPairs, 1)
	q.pairs = q.pairs[:0]
}

func (q *pairQueue) empty() bool {
	return len(q.pairs) == 0
}

func (q *pairQueue) best() *histogramPair {
	return &q.pairs[0]
}

func (q *pairQueue) push(p histogramPair) {
	if len(q.pairs) > 0 && histogramPairIsLess(&q.pairs[0], &p) {
		/* Replace the top of the queue if needed. */
		if len(q.pairs) < q.maxPairs {
			q.pairs = append(q.pairs, q.pairs[0])
		}
		q.pairs[0] = p
	} else if len(q.pairs) < q.maxPairs {
		q.pairs = append(q.pairs, p)
	}
}

// invalidate drops every candidate referencing either of the two just
// merged clusters, promoting the best survivor to the front.
func (q *pairQueue) invalidate(idx1, idx2 uint32) {
	n := 0
	for i := range q.pairs {
		p := q.pairs[i]
		if p.idx1 == idx1 || p.idx2 == idx1 || p.idx1 == idx2 || p.idx2 == idx2 {
			continue
		}
		if histogramPairIsLess(&q.pairs[0], &p) {
			front := q.pairs[0]
			q.pairs[0] = p
			q.pairs[n] = front
		} else {
			q.pairs[n] = p
		}
		n++
	}
	q.pairs = q.pairs[:n]
}

// A combiner runs the greedy merge loop over one working set of
// clusters. The histogram, size and symbol tables are indexed by cluster
// id and shared across combiners; clusters lists the ids still alive in
// this working set, in ascending order.
type combiner struct {
	histograms  []Histogram
	clusterSize []uint32 // blocks merged into each cluster
	symbols     []uint32 // block -> cluster currently holding it
	clusters    []uint32
	queue       pairQueue
}

// compareAndPush evaluates merging the clusters idx1 and idx2 and offers
// the result to the queue if it can compete with the current best.
func (c *combiner) compareAndPush(idx1, idx2 uint32) {
	if idx1 == idx2 {
		return
	}
	if idx2 < idx1 {
		idx1, idx2 = idx2, idx1
	}
	h1 := &c.histograms[idx1]
	h2 := &c.histograms[idx2]

	p := histogramPair{idx1: idx1, idx2: idx2}
	p.costDiff = 0.5 * clusterCostDiff(uint(c.clusterSize[idx1]), uint(c.clusterSize[idx2]))
	p.costDiff -= h1.bitCost
	p.costDiff -= h2.bitCost

	switch {
	case h1.Total == 0:
		p.costCombo = h2.bitCost
	case h2.Total == 0:
		p.costCombo = h1.bitCost
	default:
		threshold := 1e99
		if !c.queue.empty() {
			threshold = max(0.0, c.queue.best().costDiff)
		}
		combo := h1.clone()
		combo.AddHistogram(h2)
		costCombo := PopulationCost(&combo)
		if costCombo >= threshold-p.costDiff {
			return
		}
		p.costCombo = costCombo
	}

	p.costDiff += p.costCombo
	c.queue.push(p)
}

// rescan rebuilds the candidate queue by examining all distinct pairs of
// alive clusters.
func (c *combiner) rescan() {
	for i := 0; i < len(c.clusters); i++ {
		for j := i + 1; j < len(c.clusters); j++ {
			c.compareAndPush(c.clusters[i], c.clusters[j])
		}
	}
}

// merge applies the winning pair: idx1 absorbs idx2, idx2 dies, and the
// candidates touching either cluster are recomputed.
func (c *combiner) merge(p histogramPair) {
	c.histograms[p.idx1].AddHistogram(&c.histograms[p.idx2])
	c.histograms[p.idx1].bitCost = p.costCombo
	c.clusterSize[p.idx1] += c.clusterSize[p.idx2]

	// Rewriting the absorbed id here keeps the block->cluster table
	// transitive across chained merges.
	for i, s := range c.symbols {
		if s == p.idx2 {
			c.symbols[i] = p.idx1
		}
	}

	for i, cl := range c.clusters {
		if cl == p.idx2 {
			c.clusters = append(c.clusters[:i], c.clusters[i+1:]...)
			break
		}
	}

	c.queue.invalidate(p.idx1, p.idx2)
	for _, cl := range c.clusters {
		c.compareAndPush(p.idx1, cl)
	}
}

// combine greedily merges clusters until no merge is beneficial and the
// alive set fits under maxClusters. Merges that pay for themselves are
// taken regardless of the cap; once none remain, merges are forced only
// while the alive set still exceeds the cap.
func (c *combiner) combine(maxClusters, maxPairs int) {
	c.queue.reset(maxPairs)
	c.rescan()

	costDiffThreshold := 0.0
	minClusterSize := 1
	for len(c.clusters) > minClusterSize {
		if c.queue.empty() {
			// Cold path: rebuild the candidates from scratch. By the time
			// the queue can run dry the alive set has shrunk enough that
			// checking all residual pairs is cheap.
			c.rescan()
		}
		if c.queue.empty() || c.queue.best().costDiff >= costDiffThreshold {
			if costDiffThreshold == 1e99 {
				break
			}
			costDiffThreshold = 1e99
			minClusterSize = maxClusters
			continue
		}
		c.merge(*c.queue.best())
	}
}

// An Assignment is the result of a clustering pass. Map[i] is the final
// cluster for block i, and Histograms[Map[i]] is that cluster's combined
// histogram, the symbol-wise sum of the histograms of exactly the blocks
// mapped to it.
type Assignment struct {
	Histograms []Histogram
	Map        []uint32
}

// NumClusters returns the number of distinct clusters in the assignment.
func (a *Assignment) NumClusters() int {
	return len(a.Histograms)
}

// maxInputHistograms bounds the chunk size of the first combining pass,
// keeping the initial all-pairs scans affordable for long block
// sequences.
const maxInputHistograms = 64

// Cluster greedily merges similar histograms, minimizing the total
// entropy-coding cost of representing all blocks with at most
// maxClusters shared histograms. The input histograms must all be over
// the same alphabet; they are not modified.
func Cluster(in []Histogram, maxClusters int) Assignment {
	assert(maxClusters > 0)
	switch len(in) {
	case 0:
		return Assignment{}
	case 1:
		h := in[0].clone()
		h.bitCost = PopulationCost(&h)
		return Assignment{Histograms: []Histogram{h}, Map: []uint32{0}}
	}

	out := make([]Histogram, len(in))
	clusterSize := make([]uint32, len(in))
	symbols := make([]uint32, len(in))
	for i := range in {
		out[i] = in[i].clone()
		out[i].bitCost = PopulationCost(&out[i])
		clusterSize[i] = 1
		symbols[i] = uint32(i)
	}

	// First pass: combine the histograms in chunks.
	var clusters []uint32
	pairsCap := maxInputHistograms * maxInputHistograms / 2
	for i := 0; i < len(in); i += maxInputHistograms {
		n := min(len(in)-i, maxInputHistograms)
		chunk := make([]uint32, n)
		for j := range chunk {
			chunk[j] = uint32(i + j)
		}
		c := combiner{
			histograms:  out,
			clusterSize: clusterSize,
			symbols:     symbols[i : i+n],
			clusters:    chunk,
		}
		c.combine(maxClusters, pairsCap)
		clusters = append(clusters, c.clusters...)
	}

	// Second pass: collapse similar histograms across chunks, with a
	// limited total number of histogram pairs.
	maxPairs := min(64*len(clusters), len(clusters)/2*len(clusters))
	c := combiner{
		histograms:  out,
		clusterSize: clusterSize,
		symbols:     symbols,
		clusters:    clusters,
	}
	c.combine(maxClusters, maxPairs)

	return remap(out, c.clusters, symbols)
}

// remap renumbers the surviving clusters densely, preserving their
// original relative order, and resolves every block to the renumbered id
// of the cluster that ultimately absorbed it.
func remap(histograms []Histogram, clusters []uint32, symbols []uint32) Assignment {
	const invalidIndex = math.MaxUint32
	newIndex := make([]uint32, len(histograms))
	for i := range newIndex {
		newIndex[i] = invalidIndex
	}
	final := make([]Histogram, len(clusters))
	for i, cl := range clusters {
		newIndex[cl] = uint32(i)
		final[i] = histograms[cl]
	}
	m := make([]uint32, len(symbols))
	for i, s := range symbols {
		assert(newIndex[s] != invalidIndex)
		m[i] = newIndex[s]
	}
	return Assignment{Histograms: final, Map: m}
}
