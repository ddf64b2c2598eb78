package model

import (
	"github.com/pkg/errors"

	"github.com/miberk/balda/matrix"
	"github.com/miberk/balda/sstable"
	"github.com/miberk/balda/util"
)

// wordTopicCounts is the nw table, dense for the reference sampler and
// a SortedMap for the sparse one
type wordTopicCounts interface {
	Get(w, t uint32) uint32
	Incr(w, t uint32)
	Decr(w, t uint32) error
	// DenseRow writes the topic counts of word w into out
	DenseRow(w uint32, out []uint32)
}

// denseCounts adapts a Uint32Matrix to wordTopicCounts
type denseCounts struct {
	*matrix.Uint32Matrix
}

func (c denseCounts) Incr(w, t uint32) {
	c.Uint32Matrix.Incr(w, t, 1)
}

func (c denseCounts) Decr(w, t uint32) error {
	return c.Uint32Matrix.Decr(w, t, 1)
}

func (c denseCounts) DenseRow(w uint32, out []uint32) {
	copy(out, c.RowView(w))
}

var (
	_ wordTopicCounts = denseCounts{}
	_ wordTopicCounts = (*sstable.SortedMap)(nil)
)

// state holds the topic assignments of one training run and the count
// tables derived from them
type state struct {
	docs      [][]uint32
	vocabSize uint32
	topicNum  uint32
	alpha     float64
	beta      float64
	vBeta     float64
	tokens    int

	z     [][]uint32           // topic of every token
	nd    *matrix.Uint32Matrix // doc-topic counts
	ndSum []uint32             // doc lengths
	nw    wordTopicCounts      // word-topic counts
	nwSum []uint32             // topic totals

	// run the full consistency check after every token update
	verify bool
}

func newState(docs [][]uint32, vocabSize, topicNum uint32, nw wordTopicCounts) *state {
	st := &state{
		docs:      docs,
		vocabSize: vocabSize,
		topicNum:  topicNum,
		alpha:     Alpha(topicNum),
		beta:      Beta,
		vBeta:     float64(vocabSize) * Beta,
		z:         make([][]uint32, len(docs)),
		nd:        matrix.NewUint32Matrix(uint32(len(docs)), topicNum),
		ndSum:     make([]uint32, len(docs)),
		nw:        nw,
		nwSum:     make([]uint32, topicNum),
	}
	for d, doc := range docs {
		st.ndSum[d] = uint32(len(doc))
		st.z[d] = make([]uint32, len(doc))
		st.tokens += len(doc)
	}
	return st
}

// initialize assigns every token a uniformly drawn topic
func (st *state) initialize(rng Source) {
	for d, doc := range st.docs {
		for i, w := range doc {
			k := uniformTopic(rng, st.topicNum)
			st.z[d][i] = k
			st.nw.Incr(w, k)
			st.nd.Incr(uint32(d), k, 1)
			st.nwSum[k] += 1
		}
	}
}

// retract removes the i-th token of document d from the counts and
// returns its current topic
func (st *state) retract(d uint32, i int) (uint32, error) {
	w, k := st.docs[d][i], st.z[d][i]
	if err := st.nw.Decr(w, k); err != nil {
		return k, errors.Wrapf(err, "retract word %d of document %d", i, d)
	}
	if err := st.nd.Decr(d, k, 1); err != nil {
		return k, errors.Wrapf(sstable.ErrInvalidState, "retract word %d of document %d: %v", i, d, err)
	}
	if st.nwSum[k] == 0 {
		return k, errors.Wrapf(sstable.ErrInvalidState, "topic %d total is zero", k)
	}
	st.nwSum[k] -= 1
	return k, nil
}

// reinstate assigns topic k to the i-th token of document d
func (st *state) reinstate(d uint32, i int, k uint32) error {
	st.nw.Incr(st.docs[d][i], k)
	st.nd.Incr(d, k, 1)
	st.nwSum[k] += 1
	st.z[d][i] = k
	if st.verify {
		return st.validate()
	}
	return nil
}

// validate rebuilds every count from z and compares it with the tables
func (st *state) validate() error {
	nwSum := make([]uint32, st.topicNum)
	nw := make([][]uint32, st.vocabSize)
	for w := range nw {
		nw[w] = make([]uint32, st.topicNum)
	}
	nd := make([]uint32, st.topicNum)
	for d, doc := range st.docs {
		for t := range nd {
			nd[t] = 0
		}
		for i, w := range doc {
			k := st.z[d][i]
			nd[k] += 1
			nw[w][k] += 1
			nwSum[k] += 1
		}
		for t := uint32(0); t < st.topicNum; t += 1 {
			if got := st.nd.Get(uint32(d), t); got != nd[t] {
				return errors.Wrapf(sstable.ErrInvalidState, "nd[%d][%d] = %d, want %d", d, t, got, nd[t])
			}
		}
		if sum := util.VectorSum(nd); sum != st.ndSum[d] {
			return errors.Wrapf(sstable.ErrInvalidState, "document %d sums to %d, want %d", d, sum, st.ndSum[d])
		}
	}

	row := make([]uint32, st.topicNum)
	total := 0
	for w := uint32(0); w < st.vocabSize; w += 1 {
		st.nw.DenseRow(w, row)
		for t, c := range row {
			if c != nw[w][t] {
				return errors.Wrapf(sstable.ErrInvalidState, "nw[%d][%d] = %d, want %d", w, t, c, nw[w][t])
			}
		}
		if m, ok := st.nw.(*sstable.SortedMap); ok {
			if got, want := m.Total(w), util.VectorSum(nw[w]); got != want {
				return errors.Wrapf(sstable.ErrInvalidState, "row %d totals %d, want %d", w, got, want)
			}
		}
	}
	for t, c := range st.nwSum {
		if c != nwSum[t] {
			return errors.Wrapf(sstable.ErrInvalidState, "nwSum[%d] = %d, want %d", t, c, nwSum[t])
		}
		total += int(c)
	}
	if total != st.tokens {
		return errors.Wrapf(sstable.ErrInvalidState, "topics hold %d tokens, want %d", total, st.tokens)
	}
	if m, ok := st.nw.(*sstable.SortedMap); ok {
		return m.Validate()
	}
	return nil
}
