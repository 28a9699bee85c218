package histcluster

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

import "math"

// Symbol counts of the three alphabets an encoder produces histograms
// over. The distance count is the one effectively used by "Large Window
// Brotli" (32-bit).
const (
	NumLiteralSymbols  = 256
	NumCommandSymbols  = 704
	NumDistanceSymbols = 544
)

// A Histogram is a frequency table of symbol occurrences over one block.
// The alphabet size is the length of Counts; histograms of different
// alphabets must not be mixed within one clustering pass.
type Histogram struct {
	Counts []uint32
	Total  uint

	// bitCost caches the population cost of Counts during a clustering
	// pass. It is not kept up to date by Add.
	bitCost float64
}

// NewHistogram returns an empty histogram over an alphabet of the given
// number of symbols.
func NewHistogram(symbols int) Histogram {
	return Histogram{
		Counts:  make([]uint32, symbols),
		bitCost: math.MaxFloat64,
	}
}

// NewLiteralHistogram returns an empty histogram over the literal (byte)
// alphabet.
func NewLiteralHistogram() Histogram { return NewHistogram(NumLiteralSymbols) }

// NewCommandHistogram returns an empty histogram over the insert-and-copy
// command alphabet.
func NewCommandHistogram() Histogram { return NewHistogram(NumCommandSymbols) }

// NewDistanceHistogram returns an empty histogram over the distance code
// alphabet.
func NewDistanceHistogram() Histogram { return NewHistogram(NumDistanceSymbols) }

// Clear resets h to the empty histogram, keeping its alphabet.
func (h *Histogram) Clear() {
	for i := range h.Counts {
		h.Counts[i] = 0
	}
	h.Total = 0
	h.bitCost = math.MaxFloat64
}

// Add records one occurrence of the given symbol.
func (h *Histogram) Add(symbol int) {
	h.Counts[symbol]++
	h.Total++
}

// AddBytes records one occurrence of each byte in p. It is only
// meaningful for histograms over the literal alphabet.
func (h *Histogram) AddBytes(p []byte) {
	for _, b := range p {
		h.Counts[b]++
	}
	h.Total += uint(len(p))
}

// AddHistogram accumulates v's counts into h. Both histograms must be
// over the same alphabet.
func (h *Histogram) AddHistogram(v *Histogram) {
	assert(len(h.Counts) == len(v.Counts))
	h.Total += v.Total
	for i, c := range v.Counts {
		h.Counts[i] += c
	}
}

// clone returns a copy of h that shares no state with it.
func (h *Histogram) clone() Histogram {
	c := *h
	c.Counts = make([]uint32, len(h.Counts))
	copy(c.Counts, h.Counts)
	return c
}
