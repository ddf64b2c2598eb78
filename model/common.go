package model

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrInvalidInput  = errors.New("model: invalid input")
	ErrInvalidConfig = errors.New("model: invalid config")
)

const (
	// topic-word smoothing
	Beta = 0.01

	DefaultIterations          = 10000
	DefaultBurnIn              = 1000
	DefaultSampleLag           = 100
	DefaultPerplexityThreshold = 5e-4
)

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Alpha is the document-topic smoothing used for topicNum topics
func Alpha(topicNum uint32) float64 {
	return math.Min(1.0, 50.0/float64(topicNum))
}

// Config controls a training run
type Config struct {
	NumberOfTopics     uint32
	NumberOfIterations int
	// iterations discarded before statistics are collected
	BurnIn int
	// iterations between two collected samples
	SampleLag int
	// relative perplexity change under which sampling stops early,
	// zero disables the check
	PerplexityThreshold float64
}

// DefaultConfig returns the default schedule for topicNum topics
func DefaultConfig(topicNum uint32) Config {
	return Config{
		NumberOfTopics:      topicNum,
		NumberOfIterations:  DefaultIterations,
		BurnIn:              DefaultBurnIn,
		SampleLag:           DefaultSampleLag,
		PerplexityThreshold: DefaultPerplexityThreshold,
	}
}

func (c Config) Validate() error {
	switch {
	case c.NumberOfTopics == 0:
		return errors.Wrap(ErrInvalidConfig, "number of topics must be positive")
	case c.NumberOfIterations < 1:
		return errors.Wrapf(ErrInvalidConfig, "number of iterations %d", c.NumberOfIterations)
	case c.BurnIn < 0:
		return errors.Wrapf(ErrInvalidConfig, "burn-in %d", c.BurnIn)
	case c.SampleLag < 1:
		return errors.Wrapf(ErrInvalidConfig, "sample lag %d", c.SampleLag)
	case c.PerplexityThreshold < 0 || math.IsNaN(c.PerplexityThreshold):
		return errors.Wrapf(ErrInvalidConfig, "perplexity threshold %v", c.PerplexityThreshold)
	}
	return nil
}

// draw a topic uniformly in [0, topicNum)
func uniformTopic(rng Source, topicNum uint32) uint32 {
	k := uint32(rng.Float64() * float64(topicNum))
	if k >= topicNum {
		k = topicNum - 1
	}
	return k
}
