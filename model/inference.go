package model

import (
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/miberk/balda/matrix"
	"github.com/miberk/balda/util"
)

// InferConfig controls fold-in inference on unseen documents
type InferConfig struct {
	NumberOfTopics     uint32
	NumberOfIterations int
}

func (c InferConfig) Validate() error {
	if c.NumberOfTopics == 0 {
		return errors.Wrap(ErrInvalidConfig, "number of topics must be positive")
	}
	if c.NumberOfIterations < 1 {
		return errors.Wrapf(ErrInvalidConfig, "number of iterations %d", c.NumberOfIterations)
	}
	return nil
}

// Inference assigns topic mixtures to new documents against a trained,
// read-only phi. Only document-topic counts are sampled, so the
// conditional reduces to p(t) ∝ phi[t][w] * (nd[d][t] + alpha).
type Inference struct {
	cfg   InferConfig
	alpha float64
}

func NewInference(cfg InferConfig) *Inference {
	return &Inference{
		cfg:   cfg,
		alpha: Alpha(cfg.NumberOfTopics),
	}
}

// SampleOne infers the topic mixture of a single document, the result
// is a 1 x topicNum matrix
func (this *Inference) SampleOne(doc []uint32, phi *matrix.Float64Matrix, rng Source) (*matrix.Float64Matrix, error) {
	return this.Sample([][]uint32{doc}, phi, rng)
}

// Sample infers the topic mixtures of docs. theta is averaged over every
// iteration; phi is never written.
func (this *Inference) Sample(docs [][]uint32, phi *matrix.Float64Matrix, rng Source) (*matrix.Float64Matrix, error) {
	if err := this.cfg.Validate(); err != nil {
		return nil, err
	}
	if phi == nil {
		return nil, errors.Wrap(ErrInvalidInput, "phi is nil")
	}
	if len(docs) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no documents")
	}
	topicNum, vocabSize := phi.Shape()
	if topicNum != this.cfg.NumberOfTopics {
		return nil, errors.Wrapf(ErrInvalidInput, "phi holds %d topics, want %d",
			topicNum, this.cfg.NumberOfTopics)
	}
	for d, doc := range docs {
		for i, w := range doc {
			if w >= vocabSize {
				return nil, errors.Wrapf(ErrInvalidInput, "token %d at position %d of document #%d outside vocabulary of %d",
					w, i, d, vocabSize)
			}
		}
	}

	log.V(1).Infof("initializing inference, %d documents", len(docs))
	phiRows := make([][]float64, topicNum)
	for t := range phiRows {
		phiRows[t] = phi.RowView(uint32(t))
	}

	docNum := uint32(len(docs))
	nd := matrix.NewUint32Matrix(docNum, topicNum)
	z := make([][]uint32, docNum)
	for d, doc := range docs {
		z[d] = make([]uint32, len(doc))
		for i := range doc {
			k := uniformTopic(rng, topicNum)
			z[d][i] = k
			nd.Incr(uint32(d), k, 1)
		}
	}

	thetaSum := matrix.NewFloat64Matrix(docNum, topicNum)
	kAlpha := float64(topicNum) * this.alpha
	cumsum := make([]float64, topicNum)
	for step := 0; step < this.cfg.NumberOfIterations; step += 1 {
		for d, doc := range docs {
			ndRow := nd.RowView(uint32(d))
			for i, w := range doc {
				k := z[d][i]
				if err := nd.Decr(uint32(d), k, 1); err != nil {
					return nil, err
				}
				for t := range cumsum {
					cumsum[t] = phiRows[t][w] * (float64(ndRow[t]) + this.alpha)
				}
				u := rng.Float64() * util.Cumulate(cumsum)
				k = uint32(util.SearchCumulative(cumsum, u))
				nd.Incr(uint32(d), k, 1)
				z[d][i] = k
			}
		}

		for d, doc := range docs {
			ndRow := nd.RowView(uint32(d))
			row := thetaSum.RowView(uint32(d))
			norm := float64(len(doc)) + kAlpha
			for t, c := range ndRow {
				row[t] += (float64(c) + this.alpha) / norm
			}
		}
	}

	thetaSum.Scale(1 / float64(this.cfg.NumberOfIterations))
	log.V(1).Infof("inference complete after %d iterations", this.cfg.NumberOfIterations)
	return thetaSum, nil
}
