package minkowski

import (
	"math"
	"math/rand"
)

// NegativeTableSize is the target length of the negative-sampling table.
const NegativeTableSize = 100000000

// NegativeTable is a precomputed array of word ids from which negative
// samples are drawn uniformly.  Id i occupies a share of the table
// proportional to count[i]^power, rounded down; very rare words may
// therefore receive no slots at all and are never sampled.
type NegativeTable struct {
	table []int32
}

// NewNegativeTable builds a negative-sampling table of approximately the
// given size from the word occurrence counts.
func NewNegativeTable(counts []int64, power float64, size int) *NegativeTable {
	z := 0.0
	for _, c := range counts {
		z += math.Pow(float64(c), power)
	}
	table := make([]int32, 0, size)
	for i, c := range counts {
		slots := int(math.Pow(float64(c), power) * float64(size) / z)
		for j := 0; j < slots; j++ {
			table = append(table, int32(i))
		}
	}
	return &NegativeTable{table: table}
}

// Len returns the number of slots in the table.
func (t *NegativeTable) Len() int {
	return len(t.table)
}

// Sample returns a word id drawn uniformly at random from the table.
func (t *NegativeTable) Sample(rng *rand.Rand) int32 {
	return t.table[rng.Intn(len(t.table))]
}
