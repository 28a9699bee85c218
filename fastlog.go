package histcluster

/* Copyright 2013 Google Inc. All Rights Reserved.

   Distributed under MIT license.
   See file LICENSE for detail or copy at https://opensource.org/licenses/MIT
*/

import "math"

// log2Table caches log2 of the small integers, which dominate the symbol
// counts seen during cost estimation. It is built once at startup and
// read-only thereafter.
var log2Table [256]float32

func init() {
	for i := 1; i < len(log2Table); i++ {
		log2Table[i] = float32(math.Log2(float64(i)))
	}
}

// fastLog2 returns an approximation of log2(v). It is monotonic but not
// exact: values below the table size go through a float32 round trip.
// fastLog2(0) is 0, which is the convention the cost formulas rely on
// (a zero-count term contributes nothing).
func fastLog2(v uint) float64 {
	if v < uint(len(log2Table)) {
		return float64(log2Table[v])
	}
	return math.Log2(float64(v))
}
