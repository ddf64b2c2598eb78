package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miberk/balda/matrix"
)

const (
	river uint32 = iota
	stream
	bank
	money
	loan
)

// riverBankDocs is the 16 document river/bank corpus: the first six
// documents only talk about money, the last ones drift to the river
func riverBankDocs() [][]uint32 {
	counts := [][5]int{
		// river, stream, bank, money, loan
		{0, 0, 4, 6, 6},
		{0, 0, 5, 7, 4},
		{0, 0, 7, 5, 4},
		{0, 0, 7, 6, 3},
		{0, 0, 7, 2, 7},
		{0, 0, 9, 3, 4},
		{1, 0, 4, 6, 5},
		{1, 2, 6, 4, 3},
		{1, 3, 6, 4, 2},
		{2, 3, 6, 1, 4},
		{2, 3, 7, 3, 1},
		{3, 6, 6, 1, 0},
		{6, 3, 6, 0, 1},
		{2, 8, 6, 0, 0},
		{4, 7, 5, 0, 0},
		{5, 7, 4, 0, 0},
	}
	docs := make([][]uint32, len(counts))
	for d, c := range counts {
		for w, n := range c {
			for i := 0; i < n; i += 1 {
				docs[d] = append(docs[d], uint32(w))
			}
		}
	}
	return docs
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func assertRowsSumToOne(t *testing.T, m *matrix.Float64Matrix) {
	t.Helper()
	r, _ := m.Shape()
	for i := uint32(0); i < r; i += 1 {
		assert.InDelta(t, 1.0, m.RowSum(i), 1e-9, "row %d", i)
		for _, v := range m.RowView(i) {
			assert.True(t, v >= 0, "row %d holds %v", i, v)
		}
	}
}

// predictive is p(w|d) = sum_t theta[d][t] * phi[t][w], which does not
// depend on how topics are labelled
func predictive(theta, phi *matrix.Float64Matrix) [][]float64 {
	docNum, topicNum := theta.Shape()
	_, vocabSize := phi.Shape()
	p := make([][]float64, docNum)
	for d := uint32(0); d < docNum; d += 1 {
		p[d] = make([]float64, vocabSize)
		for w := uint32(0); w < vocabSize; w += 1 {
			for t := uint32(0); t < topicNum; t += 1 {
				p[d][w] += theta.Get(d, t) * phi.Get(t, w)
			}
		}
	}
	return p
}

func totalVariation(p, q []float64) float64 {
	tv := 0.0
	for i := range p {
		tv += math.Abs(p[i] - q[i])
	}
	return tv / 2
}
