package histcluster

import (
	"math/rand"
	"testing"

	"github.com/xyproto/randomstring"
)

func literalBlocks(numBlocks, blockLen int) []Histogram {
	randomstring.Seed()
	in := make([]Histogram, numBlocks)
	for i := range in {
		in[i] = NewLiteralHistogram()
		in[i].AddBytes([]byte(randomstring.EnglishFrequencyString(blockLen)))
	}
	return in
}

func symbolBlocks(numBlocks, alphabetSize int) []Histogram {
	rng := rand.New(rand.NewSource(7))
	in := make([]Histogram, numBlocks)
	for i := range in {
		in[i] = NewHistogram(alphabetSize)
		base := rng.Intn(alphabetSize)
		for k := 0; k < 1000; k++ {
			in[i].Add((base + rng.Intn(32)) % alphabetSize)
		}
	}
	return in
}

func benchmarkCluster(b *testing.B, in []Histogram, maxClusters int) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Cluster(in, maxClusters)
	}
}

func BenchmarkClusterLiteral64(b *testing.B) {
	benchmarkCluster(b, literalBlocks(64, 4096), 16)
}

func BenchmarkClusterLiteral256(b *testing.B) {
	benchmarkCluster(b, literalBlocks(256, 4096), 16)
}

func BenchmarkClusterCommand(b *testing.B) {
	benchmarkCluster(b, symbolBlocks(128, NumCommandSymbols), 16)
}

func BenchmarkClusterDistance(b *testing.B) {
	benchmarkCluster(b, symbolBlocks(128, NumDistanceSymbols), 16)
}

func BenchmarkPopulationCost(b *testing.B) {
	in := literalBlocks(1, 65536)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PopulationCost(&in[0])
	}
}
