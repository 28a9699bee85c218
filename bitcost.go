package histcluster

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

/* Functions to estimate the bit cost of Huffman trees. */

const (
	codeLengthCodes      = 18
	repeatZeroCodeLength = 17
)

func shannonEntropy(population []uint32) (entropy float64, total uint) {
	for _, p := range population {
		total += uint(p)
		entropy -= float64(p) * fastLog2(uint(p))
	}
	if total != 0 {
		entropy += float64(total) * fastLog2(total)
	}
	return entropy, total
}

// BitsEntropy returns the number of bits an ideal entropy coder would
// spend on the given symbol population, floored at one bit per symbol
// occurrence.
func BitsEntropy(population []uint32) float64 {
	entropy, total := shannonEntropy(population)
	if entropy < float64(total) {
		/* At least one bit per literal is needed. */
		entropy = float64(total)
	}
	return entropy
}

const (
	kOneSymbolHistogramCost   = 12
	kTwoSymbolHistogramCost   = 20
	kThreeSymbolHistogramCost = 28
	kFourSymbolHistogramCost  = 37
)

// PopulationCost estimates the cost in bits of encoding h's block with a
// Huffman code built for h, including the cost of transmitting the code
// itself.
func PopulationCost(h *Histogram) float64 {
	if h.Total == 0 {
		return kOneSymbolHistogramCost
	}

	var s [5]int
	count := 0
	for i, c := range h.Counts {
		if c > 0 {
			s[count] = i
			count++
			if count > 4 {
				break
			}
		}
	}

	switch count {
	case 1:
		return kOneSymbolHistogramCost
	case 2:
		return kTwoSymbolHistogramCost + float64(h.Total)
	case 3:
		histo0 := h.Counts[s[0]]
		histo1 := h.Counts[s[1]]
		histo2 := h.Counts[s[2]]
		histomax := max(histo0, histo1, histo2)
		return kThreeSymbolHistogramCost + 2*(float64(histo0)+float64(histo1)+float64(histo2)) - float64(histomax)
	case 4:
		var histo [4]uint32
		for i := 0; i < 4; i++ {
			histo[i] = h.Counts[s[i]]
		}

		/* Sort */
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if histo[j] > histo[i] {
					histo[j], histo[i] = histo[i], histo[j]
				}
			}
		}

		h23 := histo[2] + histo[3]
		histomax := max(h23, histo[0])
		return kFourSymbolHistogramCost + 3*float64(h23) + 2*(float64(histo[0])+float64(histo[1])) - float64(histomax)
	}

	var bits float64
	maxDepth := uint(1)
	var depthHisto [codeLengthCodes]uint32

	/* In this loop we compute the entropy of the histogram and
	   simultaneously build a simplified histogram of the code length
	   codes where we use the zero repeat code 17, but we don't use the
	   non-zero repeat code 16. */
	log2total := fastLog2(h.Total)
	for i := 0; i < len(h.Counts); {
		if h.Counts[i] > 0 {
			/* Compute -log2(P(symbol)) = -log2(count(symbol)/total_count) =
			   = log2(total_count) - log2(count(symbol)) */
			log2p := log2total - fastLog2(uint(h.Counts[i]))

			/* Approximate the bit depth by round(-log2(P(symbol))) */
			depth := uint(log2p + 0.5)
			bits += float64(h.Counts[i]) * log2p
			if depth > 15 {
				depth = 15
			}
			if depth > maxDepth {
				maxDepth = depth
			}
			depthHisto[depth]++
			i++
		} else {
			/* Compute the run length of zeros and add the appropriate
			   number of 0 and 17 code length codes to the code length
			   code histogram. */
			reps := uint32(1)
			for k := i + 1; k < len(h.Counts) && h.Counts[k] == 0; k++ {
				reps++
			}
			i += int(reps)
			if i == len(h.Counts) {
				/* Don't add any cost for the last zero run, since these
				   are encoded only implicitly. */
				break
			}

			if reps < 3 {
				depthHisto[0] += reps
			} else {
				reps -= 2
				for reps > 0 {
					depthHisto[repeatZeroCodeLength]++

					/* Add the 3 extra bits for the 17 code length code. */
					bits += 3

					reps >>= 3
				}
			}
		}
	}

	/* Add the estimated encoding cost of the code length code histogram. */
	bits += float64(18 + 2*maxDepth)

	/* Add the entropy of the code length code histogram. */
	bits += BitsEntropy(depthHisto[:])

	return bits
}
