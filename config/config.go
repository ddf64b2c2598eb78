package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/miberk/balda/model"
	"github.com/miberk/balda/summary"
)

var ErrInvalidConfig = errors.New("config: invalid config")

const (
	DefaultModel            = "sparselda"
	DefaultTopics           = 20
	DefaultInferIterations  = 100
	DefaultSeed       int64 = 1
	DefaultFormat           = "text"
)

type Config struct {
	Train  TrainConfig  `toml:"train"`
	Infer  InferConfig  `toml:"infer"`
	Report ReportConfig `toml:"report"`
}

type TrainConfig struct {
	Model               string  `toml:"model"`
	Topics              uint32  `toml:"topics"`
	Iterations          int     `toml:"iterations"`
	BurnIn              int     `toml:"burn_in"`
	SampleLag           int     `toml:"sample_lag"`
	PerplexityThreshold float64 `toml:"perplexity_threshold"`
	Seed                int64   `toml:"seed"`
	// documents shorter than this are dropped before training
	MinDocumentLength int `toml:"min_document_length"`
}

type InferConfig struct {
	Iterations int   `toml:"iterations"`
	Seed       int64 `toml:"seed"`
}

type ReportConfig struct {
	TopWords int    `toml:"top_words"`
	Format   string `toml:"format"`
}

func Default() *Config {
	return &Config{
		Train: TrainConfig{
			Model:               DefaultModel,
			Topics:              DefaultTopics,
			Iterations:          model.DefaultIterations,
			BurnIn:              model.DefaultBurnIn,
			SampleLag:           model.DefaultSampleLag,
			PerplexityThreshold: model.DefaultPerplexityThreshold,
			Seed:                DefaultSeed,
			MinDocumentLength:   2,
		},
		Infer: InferConfig{
			Iterations: DefaultInferIterations,
			Seed:       DefaultSeed,
		},
		Report: ReportConfig{
			TopWords: summary.DefaultTopWords,
			Format:   DefaultFormat,
		},
	}
}

// Load reads the TOML file at path on top of the defaults. An empty
// path yields the defaults, a path that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := model.GetModel(c.Train.Model); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "train: %v", err)
	}
	if err := c.ModelConfig().Validate(); err != nil {
		return errors.Wrap(err, "train")
	}
	if c.Train.MinDocumentLength < 2 {
		return errors.Wrapf(ErrInvalidConfig, "train: min document length %d", c.Train.MinDocumentLength)
	}
	if err := c.InferConfig().Validate(); err != nil {
		return errors.Wrap(err, "infer")
	}
	if c.Report.TopWords < 1 {
		return errors.Wrapf(ErrInvalidConfig, "report: top words %d", c.Report.TopWords)
	}
	if c.Report.Format != "text" && c.Report.Format != "yaml" {
		return errors.Wrapf(ErrInvalidConfig, "report: unknown format %q", c.Report.Format)
	}
	return nil
}

// ModelConfig is the training schedule of the [train] section
func (c *Config) ModelConfig() model.Config {
	return model.Config{
		NumberOfTopics:      c.Train.Topics,
		NumberOfIterations:  c.Train.Iterations,
		BurnIn:              c.Train.BurnIn,
		SampleLag:           c.Train.SampleLag,
		PerplexityThreshold: c.Train.PerplexityThreshold,
	}
}

// InferConfig is the fold-in schedule, the number of topics comes from
// the [train] section
func (c *Config) InferConfig() model.InferConfig {
	return model.InferConfig{
		NumberOfTopics:     c.Train.Topics,
		NumberOfIterations: c.Infer.Iterations,
	}
}
