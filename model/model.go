package model

import (
	"fmt"
	"sort"

	"github.com/miberk/balda/matrix"
)

var constructors = make(map[string]ModelCtor)

// the common interface LDA samplers should follow
type Model interface {
	// name the model is registered under
	Name() string
	// train the model on documents of token ids in [0, vocabSize)
	Execute(docs [][]uint32, vocabSize uint32, rng Source) error
	// get topic-word distribution, topicNum x vocabSize
	Phi() *matrix.Float64Matrix
	// get document-topic distribution, docNum x topicNum
	Theta() *matrix.Float64Matrix
	// get the last in-sample perplexity
	Perplexity() float64
}

// new LDA samplers should register themselves using this function
func Register(modelType string, m ModelCtor) {
	constructors[modelType] = m
}

type ModelCtor func(cfg Config) Model

func GetModel(modelType string) (ModelCtor, error) {
	if _, ok := constructors[modelType]; !ok {
		return nil, fmt.Errorf("model %s not registered", modelType)
	}
	return constructors[modelType], nil
}

// Models lists the registered model types in lexical order
func Models() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
