package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlpha(t *testing.T) {
	assert.Equal(t, 1.0, Alpha(2))
	assert.Equal(t, 1.0, Alpha(50))
	assert.Equal(t, 0.5, Alpha(100))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig(10).Validate())

	bad := []Config{
		{NumberOfTopics: 0, NumberOfIterations: 10, SampleLag: 1},
		{NumberOfTopics: 2, NumberOfIterations: 0, SampleLag: 1},
		{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 0},
		{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 1, BurnIn: -1},
		{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 1, PerplexityThreshold: -1},
	}
	for i, cfg := range bad {
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig), "config %d", i)
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"lda", "sparselda"}, Models())

	ctor, err := GetModel("sparselda")
	require.NoError(t, err)
	assert.Equal(t, "sparselda", ctor(DefaultConfig(2)).Name())

	_, err = GetModel("hdp")
	assert.Error(t, err)
}

func TestRiverBankScenario(t *testing.T) {
	cfg := Config{
		NumberOfTopics:      2,
		NumberOfIterations:  10000,
		BurnIn:              100,
		SampleLag:           10,
		PerplexityThreshold: DefaultPerplexityThreshold,
	}
	for _, m := range []*LDA{NewLDA(cfg), NewSparseLDA(cfg)} {
		require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(10000000000001)), m.Name())

		phi, theta := m.Phi(), m.Theta()
		r, c := phi.Shape()
		assert.Equal(t, uint32(2), r)
		assert.Equal(t, uint32(5), c)
		r, c = theta.Shape()
		assert.Equal(t, uint32(16), r)
		assert.Equal(t, uint32(2), c)

		assertRowsSumToOne(t, phi)
		assertRowsSumToOne(t, theta)
		assert.True(t, m.Samples() > 0)
		assert.True(t, m.Perplexity() > 1 && m.Perplexity() < 5, "perplexity %v", m.Perplexity())
	}
}

func TestExecuteKeepsCountsConsistent(t *testing.T) {
	cfg := Config{NumberOfTopics: 3, NumberOfIterations: 15, BurnIn: 2, SampleLag: 3}
	for _, m := range []*LDA{NewLDA(cfg), NewSparseLDA(cfg)} {
		m.verify = true
		require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(7)), m.Name())
		assert.Equal(t, 15, m.Iterations())
	}
}

func TestExecuteRejectsShortDocument(t *testing.T) {
	docs := riverBankDocs()
	docs[3] = []uint32{bank}

	m := NewSparseLDA(Config{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 1})
	err := m.Execute(docs, 5, newRand(1))
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "document #3")
	assert.Nil(t, m.Phi())
	assert.Nil(t, m.Theta())
	assert.Equal(t, 0, m.Iterations())
	assert.Equal(t, []uint32{bank}, docs[3])
}

func TestFailedExecuteKeepsPreviousResult(t *testing.T) {
	m := NewLDA(Config{NumberOfTopics: 2, NumberOfIterations: 20, SampleLag: 5})
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(3)))
	before := m.Phi()

	err := m.Execute([][]uint32{{loan}}, 5, newRand(3))
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, before.Dense().RawMatrix().Data, m.Phi().Dense().RawMatrix().Data)
	assert.Equal(t, 20, m.Iterations())
}

func TestExecuteRejectsBadInput(t *testing.T) {
	m := NewLDA(Config{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 1})
	assert.True(t, errors.Is(m.Execute(nil, 5, newRand(1)), ErrInvalidInput))
	assert.True(t, errors.Is(m.Execute([][]uint32{{0, 1}}, 0, newRand(1)), ErrInvalidInput))
	assert.True(t, errors.Is(m.Execute([][]uint32{{0, 5}}, 5, newRand(1)), ErrInvalidInput))

	m = NewLDA(Config{NumberOfTopics: 2})
	assert.True(t, errors.Is(m.Execute(riverBankDocs(), 5, newRand(1)), ErrInvalidConfig))
}

func TestExecuteIsReproducible(t *testing.T) {
	cfg := Config{NumberOfTopics: 2, NumberOfIterations: 200, BurnIn: 20, SampleLag: 10}
	for _, ctor := range []func(Config) *LDA{NewLDA, NewSparseLDA} {
		a, b := ctor(cfg), ctor(cfg)
		require.NoError(t, a.Execute(riverBankDocs(), 5, newRand(99)))
		require.NoError(t, b.Execute(riverBankDocs(), 5, newRand(99)))
		assert.Equal(t, a.Phi().Dense().RawMatrix().Data, b.Phi().Dense().RawMatrix().Data, a.Name())
		assert.Equal(t, a.Theta().Dense().RawMatrix().Data, b.Theta().Dense().RawMatrix().Data, a.Name())
	}
}

func TestPhiIsSnapshot(t *testing.T) {
	m := NewLDA(Config{NumberOfTopics: 2, NumberOfIterations: 10, SampleLag: 1})
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(5)))

	phi := m.Phi()
	phi.Set(0, 0, 42)
	assert.NotEqual(t, 42.0, m.Phi().Get(0, 0))
}

func TestFinalIterationIsAlwaysSampled(t *testing.T) {
	m := NewSparseLDA(Config{NumberOfTopics: 2, NumberOfIterations: 5, BurnIn: 100, SampleLag: 10})
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(5)))
	assert.Equal(t, 1, m.Samples())
	assertRowsSumToOne(t, m.Phi())
}

func TestSampleSchedule(t *testing.T) {
	// samples at 20, 30, 40 and the final iteration 44
	m := NewLDA(Config{NumberOfTopics: 2, NumberOfIterations: 45, BurnIn: 10, SampleLag: 10})
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(5)))
	assert.Equal(t, 4, m.Samples())
	assert.False(t, m.Converged())
}

func TestPerplexityThresholdStopsEarly(t *testing.T) {
	cfg := Config{
		NumberOfTopics:      2,
		NumberOfIterations:  5000,
		BurnIn:              10,
		SampleLag:           5,
		PerplexityThreshold: 0.5,
	}
	m := NewSparseLDA(cfg)
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(11)))
	assert.True(t, m.Converged())
	assert.True(t, m.Iterations() < cfg.NumberOfIterations)
	assert.True(t, m.Samples() >= 2)
	assertRowsSumToOne(t, m.Theta())
}

func TestTopicsSeparateRiverFromMoney(t *testing.T) {
	m := NewSparseLDA(Config{NumberOfTopics: 2, NumberOfIterations: 1000, BurnIn: 100, SampleLag: 10})
	require.NoError(t, m.Execute(riverBankDocs(), 5, newRand(2024)))

	phi := m.Phi()
	riverTopic := uint32(0)
	if phi.Get(1, river) > phi.Get(0, river) {
		riverTopic = 1
	}
	moneyTopic := 1 - riverTopic
	assert.True(t, phi.Get(riverTopic, stream) > phi.Get(moneyTopic, stream))
	assert.True(t, phi.Get(moneyTopic, money) > phi.Get(riverTopic, money))
	assert.True(t, phi.Get(moneyTopic, loan) > phi.Get(riverTopic, loan))

	theta := m.Theta()
	assert.True(t, theta.Get(0, moneyTopic) > theta.Get(0, riverTopic))
	assert.True(t, theta.Get(15, riverTopic) > theta.Get(15, moneyTopic))
}
