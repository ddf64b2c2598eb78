package model

import (
	log "github.com/golang/glog"

	"github.com/miberk/balda/sstable"
)

func init() {
	Register("sparselda", func(cfg Config) Model { return NewSparseLDA(cfg) })
}

// NewSparseLDA creates a LDA instance with the time and memory efficient
// bucketed sampler of Yao, Mimno and McCallum (KDD 2009). It draws from
// the same conditional as NewLDA.
func NewSparseLDA(cfg Config) *LDA {
	return &LDA{
		cfg:     cfg,
		sampler: &sparseSampler{},
	}
}

// sparseSampler splits the unnormalized conditional of topic t into
//
//	s_t = alpha * beta / (nwSum[t] + V*beta)             smoothing bucket
//	r_t = beta * nd[d][t] / (nwSum[t] + V*beta)          document bucket
//	q_t = nw[w][t] * (alpha + nd[d][t]) / (nwSum[t] + V*beta)  topic-word bucket
//
// r_t is nonzero only for topics present in the document and q_t only for
// topics present in the word's SortedMap row. The bucket totals s and r
// are updated by the difference of the factor of each topic that changes.
// s is rebuilt at the start of every iteration and r at the start of every
// document so rounding error never outlives a sweep.
type sparseSampler struct {
	nw *sstable.SortedMap

	s       float64
	r       float64
	sFactor []float64
	rFactor []float64
	// (alpha + nd[d][t]) / (nwSum[t] + V*beta), with nd of the current
	// document for its topics and zero elsewhere
	coeff []float64
	// q_t of the entries of the current word row
	qFactor []float64
}

func (s *sparseSampler) name() string {
	return "sparselda"
}

func (s *sparseSampler) newWordTopic(vocabSize, topicNum uint32) wordTopicCounts {
	s.nw = sstable.NewSortedMap(vocabSize, topicNum)
	return s.nw
}

func (s *sparseSampler) init(st *state) {
	s.sFactor = make([]float64, st.topicNum)
	s.rFactor = make([]float64, st.topicNum)
	s.coeff = make([]float64, st.topicNum)
	s.qFactor = s.qFactor[:0]
	log.V(1).Infof("word-topic rows keyed on %d topic bits", s.nw.TopicBits())
}

// beginIteration rebuilds the smoothing bucket and the topic coefficients
// from the counts
func (s *sparseSampler) beginIteration(st *state) {
	s.s = 0
	for t := range s.sFactor {
		denom := float64(st.nwSum[t]) + st.vBeta
		s.sFactor[t] = st.alpha * st.beta / denom
		s.rFactor[t] = 0
		s.coeff[t] = st.alpha / denom
		s.s += s.sFactor[t]
	}
}

// beginDocument builds the document bucket of d
func (s *sparseSampler) beginDocument(st *state, nd []uint32) {
	s.r = 0
	for t, c := range nd {
		if c == 0 {
			continue
		}
		denom := float64(st.nwSum[t]) + st.vBeta
		s.rFactor[t] = st.beta * float64(c) / denom
		s.coeff[t] = (st.alpha + float64(c)) / denom
		s.r += s.rFactor[t]
	}
}

// endDocument restores the document independent coefficients
func (s *sparseSampler) endDocument(st *state, nd []uint32) {
	for t, c := range nd {
		if c == 0 {
			continue
		}
		s.rFactor[t] = 0
		s.coeff[t] = st.alpha / (float64(st.nwSum[t]) + st.vBeta)
	}
}

// refresh replaces the bucket contributions of topic t after its counts
// changed by one
func (s *sparseSampler) refresh(st *state, nd []uint32, t uint32) {
	s.s -= s.sFactor[t]
	s.r -= s.rFactor[t]

	denom := float64(st.nwSum[t]) + st.vBeta
	c := float64(nd[t])
	s.sFactor[t] = st.alpha * st.beta / denom
	s.rFactor[t] = st.beta * c / denom
	s.coeff[t] = (st.alpha + c) / denom

	s.s += s.sFactor[t]
	s.r += s.rFactor[t]
}

// topicWordMass fills qFactor for the row of w and returns the bucket total
func (s *sparseSampler) topicWordMass(w uint32) float64 {
	row := s.nw.Row(w)
	if cap(s.qFactor) < len(row) {
		s.qFactor = make([]float64, len(row), 2*len(row))
	}
	s.qFactor = s.qFactor[:len(row)]

	q := 0.0
	for i, tc := range row {
		s.qFactor[i] = s.coeff[tc.Topic] * float64(tc.Count)
		q += s.qFactor[i]
	}
	return q
}

// draw resolves u in [0, q+r+s) to a topic, the topic-word bucket first
func (s *sparseSampler) draw(st *state, nd []uint32, w uint32, u, q float64) uint32 {
	if u < q {
		// largest counts sit at the tail of the row
		row := s.nw.Row(w)
		for i := len(row) - 1; i >= 0; i -= 1 {
			u -= s.qFactor[i]
			if u < 0 {
				return row[i].Topic
			}
		}
		return row[0].Topic
	}

	u -= q
	if u < s.r {
		last := -1
		for t, c := range nd {
			if c == 0 {
				continue
			}
			last = t
			u -= s.rFactor[t]
			if u < 0 {
				return uint32(t)
			}
		}
		if last >= 0 {
			return uint32(last)
		}
		u = 0
	} else {
		u -= s.r
	}

	for t, f := range s.sFactor {
		u -= f
		if u < 0 {
			return uint32(t)
		}
	}
	return st.topicNum - 1
}

func (s *sparseSampler) sampleDocument(st *state, d uint32, rng Source) error {
	nd := st.nd.RowView(d)
	s.beginDocument(st, nd)

	for i, w := range st.docs[d] {
		old, err := st.retract(d, i)
		if err != nil {
			return err
		}
		s.refresh(st, nd, old)

		q := s.topicWordMass(w)
		u := rng.Float64() * (q + s.r + s.s)
		k := s.draw(st, nd, w, u, q)

		if err := st.reinstate(d, i, k); err != nil {
			return err
		}
		s.refresh(st, nd, k)
	}

	s.endDocument(st, nd)
	return nil
}
