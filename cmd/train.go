package cmd

import (
	"math/rand"
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/miberk/balda/config"
	"github.com/miberk/balda/corpus"
	"github.com/miberk/balda/model"
	"github.com/miberk/balda/sstable"
	"github.com/miberk/balda/summary"
)

type trainOptions struct {
	input     string
	output    string
	vocab     string
	model     string
	topics    uint32
	iter      int
	burnIn    int
	lag       int
	threshold float64
	seed      int64
}

func TrainCmd(loadConfig configLoader) *cobra.Command {
	opts := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a topic model, writes <output>.phi, <output>.theta and <output>.docs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTrain(cmd, opts, cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "training file, one [docId wordId:count ...] per line")
	flags.StringVar(&opts.output, "output", "", "output path prefix")
	flags.StringVar(&opts.vocab, "vocab", "", "vocabulary file, prints the topics when set")
	flags.StringVar(&opts.model, "model", defaults.Train.Model,
		"model type, one of "+strings.Join(model.Models(), ", "))
	flags.Uint32VarP(&opts.topics, "topics", "k", defaults.Train.Topics, "number of topics")
	flags.IntVar(&opts.iter, "iter", defaults.Train.Iterations, "number of iterations")
	flags.IntVar(&opts.burnIn, "burn-in", defaults.Train.BurnIn, "iterations before statistics are collected")
	flags.IntVar(&opts.lag, "lag", defaults.Train.SampleLag, "iterations between two samples")
	flags.Float64Var(&opts.threshold, "threshold", defaults.Train.PerplexityThreshold, "perplexity convergence threshold, 0 disables")
	flags.Int64Var(&opts.seed, "seed", defaults.Train.Seed, "random seed")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

// apply copies the flags set on the command line over the config file
func (o *trainOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Train.Model = o.model
	}
	if flags.Changed("topics") {
		cfg.Train.Topics = o.topics
	}
	if flags.Changed("iter") {
		cfg.Train.Iterations = o.iter
	}
	if flags.Changed("burn-in") {
		cfg.Train.BurnIn = o.burnIn
	}
	if flags.Changed("lag") {
		cfg.Train.SampleLag = o.lag
	}
	if flags.Changed("threshold") {
		cfg.Train.PerplexityThreshold = o.threshold
	}
	if flags.Changed("seed") {
		cfg.Train.Seed = o.seed
	}
}

func runTrain(cmd *cobra.Command, opts *trainOptions, cfg *config.Config) error {
	data, err := corpus.LoadFile(opts.input)
	if err != nil {
		return err
	}

	var vocab corpus.Vocabulary
	if opts.vocab != "" {
		if vocab, err = corpus.LoadVocabularyFile(opts.vocab); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(cfg.Train.Seed))
	corpus.Shuffle(data.Docs, rng)
	docs, dropped := corpus.FilterShort(data.Docs, cfg.Train.MinDocumentLength)
	for _, d := range dropped {
		log.Warningf("document %d has %d tokens, skipped", data.DocIds[d], len(data.Docs[d]))
	}
	log.Infof("training on %d of %d documents, %d tokens", len(docs), data.DocNum(), data.TokenNum())

	ctor, err := model.GetModel(cfg.Train.Model)
	if err != nil {
		return err
	}
	m := ctor(cfg.ModelConfig())
	if err := m.Execute(docs, data.VocabSize, rng); err != nil {
		return errors.Wrapf(err, "train %s", m.Name())
	}

	if err := sstable.SaveFloat64(opts.output+".phi", m.Phi()); err != nil {
		return err
	}
	if err := sstable.SaveFloat64(opts.output+".theta", m.Theta()); err != nil {
		return err
	}
	// theta rows only cover the kept documents
	if err := corpus.SaveDocIds(opts.output+".docs", corpus.KeptIds(data.DocIds, dropped)); err != nil {
		return err
	}
	log.Infof("model written to %s.phi, %s.theta and %s.docs, perplexity %f",
		opts.output, opts.output, opts.output, m.Perplexity())

	if vocab == nil {
		return nil
	}
	topics, err := summary.TopWords(m.Phi(), vocab, cfg.Report.TopWords)
	if err != nil {
		return err
	}
	return writeTopics(cmd, topics, cfg.Report.Format)
}
