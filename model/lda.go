package model

import (
	"math"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/miberk/balda/matrix"
	"github.com/miberk/balda/util"
)

func init() {
	Register("lda", func(cfg Config) Model { return NewLDA(cfg) })
}

// progress is logged every logEvery iterations
const logEvery = 100

// resampler is one strategy for drawing the new topic of every token
// of a document from the collapsed conditional
//
//	p(t) ∝ (nw[w][t] + beta) / (nwSum[t] + V*beta) * (nd[d][t] + alpha)
type resampler interface {
	name() string
	// allocate the word-topic table for a run
	newWordTopic(vocabSize, topicNum uint32) wordTopicCounts
	// called once the random assignment has been counted
	init(st *state)
	// called before every sweep over the corpus
	beginIteration(st *state)
	// resample every token of document d, one uniform draw per token
	sampleDocument(st *state, d uint32, rng Source) error
}

// LDA trains latent Dirichlet allocation with a collapsed gibbs sampler.
// Each call to Execute is an independent run; only the averaged phi and
// theta of the last successful run are kept.
type LDA struct {
	cfg     Config
	sampler resampler

	phi        *matrix.Float64Matrix // topic-word distribution
	theta      *matrix.Float64Matrix // doc-topic distribution
	perplexity float64
	iterations int
	samples    int
	converged  bool

	// consistency check after every token, used by tests
	verify bool
}

// NewLDA creates a LDA instance with the dense reference sampler, which
// evaluates the conditional for every topic of every token
func NewLDA(cfg Config) *LDA {
	return &LDA{
		cfg:     cfg,
		sampler: &denseSampler{},
	}
}

func (this *LDA) Name() string {
	return this.sampler.name()
}

// validateCorpus rejects input the sampler cannot work on before any
// state is allocated
func validateCorpus(docs [][]uint32, vocabSize uint32) error {
	if len(docs) == 0 {
		return errors.Wrap(ErrInvalidInput, "no documents")
	}
	if vocabSize == 0 {
		return errors.Wrap(ErrInvalidInput, "empty vocabulary")
	}
	for d, doc := range docs {
		// a single token carries no co-occurrence information
		if len(doc) < 2 {
			return errors.Wrapf(ErrInvalidInput, "too few tokens (%d) in document #%d", len(doc), d)
		}
		for i, w := range doc {
			if w >= vocabSize {
				return errors.Wrapf(ErrInvalidInput, "token %d at position %d of document #%d outside vocabulary of %d",
					w, i, d, vocabSize)
			}
		}
	}
	return nil
}

// Execute runs the sampler on docs for the configured number of
// iterations, or until the perplexity settles when a threshold is set
func (this *LDA) Execute(docs [][]uint32, vocabSize uint32, rng Source) error {
	if err := this.cfg.Validate(); err != nil {
		return err
	}
	if err := validateCorpus(docs, vocabSize); err != nil {
		return err
	}

	topicNum := this.cfg.NumberOfTopics
	log.Infof("initializing %s sampler, %d documents, vocabulary size %d, %d topics",
		this.Name(), len(docs), vocabSize, topicNum)

	st := newState(docs, vocabSize, topicNum, this.sampler.newWordTopic(vocabSize, topicNum))
	st.verify = this.verify
	st.initialize(rng)
	this.sampler.init(st)

	thetaSum := matrix.NewFloat64Matrix(uint32(len(docs)), topicNum)
	phiSum := matrix.NewFloat64Matrix(topicNum, vocabSize)
	samples := 0
	perplexity := 0.0
	converged := false
	step := 0

	log.Infof("initialization complete, %d tokens", st.tokens)
	last := this.cfg.NumberOfIterations - 1
	for ; step <= last; step += 1 {
		this.sampler.beginIteration(st)
		for d := range docs {
			if err := this.sampler.sampleDocument(st, uint32(d), rng); err != nil {
				return errors.Wrapf(err, "iteration %d", step)
			}
		}

		if (step > this.cfg.BurnIn && step%this.cfg.SampleLag == 0) || step == last {
			collectStats(st, thetaSum, phiSum)
			samples += 1
			if this.cfg.PerplexityThreshold > 0 {
				pp := computePerplexity(st)
				log.V(1).Infof("iter %5d, sample %d, perplexity %f", step, samples, pp)
				converged = math.Abs(pp-perplexity) < this.cfg.PerplexityThreshold*pp
				perplexity = pp
				if converged {
					log.Infof("terminating at iteration %d since perplexity has converged", step)
					step += 1
					break
				}
			}
		}
		if step%logEvery == 0 {
			log.Infof("iter %5d of %d, %d samples", step, this.cfg.NumberOfIterations, samples)
		}
	}

	if this.cfg.PerplexityThreshold == 0 {
		perplexity = computePerplexity(st)
	}

	thetaSum.Scale(1 / float64(samples))
	phiSum.Scale(1 / float64(samples))
	this.theta = thetaSum
	this.phi = phiSum
	this.perplexity = perplexity
	this.iterations = step
	this.samples = samples
	this.converged = converged

	log.Infof("simulation complete after %d iterations, %d samples, perplexity %f",
		step, samples, perplexity)
	return nil
}

// collectStats adds the current point estimates of theta and phi to the
// running sums
func collectStats(st *state, thetaSum, phiSum *matrix.Float64Matrix) {
	kAlpha := float64(st.topicNum) * st.alpha
	for d := range st.docs {
		nd := st.nd.RowView(uint32(d))
		row := thetaSum.RowView(uint32(d))
		norm := float64(st.ndSum[d]) + kAlpha
		for t, c := range nd {
			row[t] += (float64(c) + st.alpha) / norm
		}
	}

	counts := make([]uint32, st.topicNum)
	for w := uint32(0); w < st.vocabSize; w += 1 {
		st.nw.DenseRow(w, counts)
		for t, c := range counts {
			phiSum.Add(uint32(t), w,
				(float64(c)+st.beta)/(float64(st.nwSum[t])+st.vBeta))
		}
	}
}

// computePerplexity is the in-sample perplexity of the current counts
//
//	exp(-sum_d sum_w log(sum_t theta[d][t] * phi[t][w]) / tokens)
func computePerplexity(st *state) float64 {
	kAlpha := float64(st.topicNum) * st.alpha
	theta := make([]float64, st.topicNum)
	counts := make([]uint32, st.topicNum)

	loglik := 0.0
	for d, doc := range st.docs {
		nd := st.nd.RowView(uint32(d))
		norm := float64(st.ndSum[d]) + kAlpha
		for t, c := range nd {
			theta[t] = (float64(c) + st.alpha) / norm
		}
		for _, w := range doc {
			st.nw.DenseRow(w, counts)
			p := 0.0
			for t, c := range counts {
				p += theta[t] * (float64(c) + st.beta) / (float64(st.nwSum[t]) + st.vBeta)
			}
			loglik += math.Log(p)
		}
	}
	return math.Exp(-loglik / float64(st.tokens))
}

// Phi returns a copy of the averaged topic-word distribution, nil before
// the first successful Execute
func (this *LDA) Phi() *matrix.Float64Matrix {
	if this.phi == nil {
		return nil
	}
	return this.phi.Clone()
}

// Theta returns a copy of the averaged document-topic distribution, nil
// before the first successful Execute
func (this *LDA) Theta() *matrix.Float64Matrix {
	if this.theta == nil {
		return nil
	}
	return this.theta.Clone()
}

func (this *LDA) Perplexity() float64 {
	return this.perplexity
}

// number of iterations the last run performed
func (this *LDA) Iterations() int {
	return this.iterations
}

// number of samples averaged into phi and theta
func (this *LDA) Samples() int {
	return this.samples
}

// whether the last run stopped on the perplexity threshold
func (this *LDA) Converged() bool {
	return this.converged
}

// denseSampler materializes the conditional over all topics for every
// token. It is the reference the sparse sampler is checked against.
type denseSampler struct {
	cumsum []float64
	counts []uint32
}

func (s *denseSampler) name() string {
	return "lda"
}

func (s *denseSampler) newWordTopic(vocabSize, topicNum uint32) wordTopicCounts {
	return denseCounts{matrix.NewUint32Matrix(vocabSize, topicNum)}
}

func (s *denseSampler) init(st *state) {
	s.cumsum = make([]float64, st.topicNum)
	s.counts = make([]uint32, st.topicNum)
}

func (s *denseSampler) beginIteration(st *state) {}

func (s *denseSampler) sampleDocument(st *state, d uint32, rng Source) error {
	nd := st.nd.RowView(d)
	for i, w := range st.docs[d] {
		if _, err := st.retract(d, i); err != nil {
			return err
		}

		st.nw.DenseRow(w, s.counts)
		for t := range s.cumsum {
			s.cumsum[t] = (float64(s.counts[t]) + st.beta) /
				(float64(st.nwSum[t]) + st.vBeta) *
				(float64(nd[t]) + st.alpha)
		}
		u := rng.Float64() * util.Cumulate(s.cumsum)
		k := uint32(util.SearchCumulative(s.cumsum, u))

		if err := st.reinstate(d, i, k); err != nil {
			return err
		}
	}
	return nil
}
