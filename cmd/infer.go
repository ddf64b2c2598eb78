package cmd

import (
	"math/rand"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/miberk/balda/config"
	"github.com/miberk/balda/corpus"
	"github.com/miberk/balda/model"
	"github.com/miberk/balda/sstable"
)

type inferOptions struct {
	input  string
	phi    string
	output string
	iter   int
	seed   int64
}

func InferCmd(loadConfig configLoader) *cobra.Command {
	opts := &inferOptions{}
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Infer topic mixtures of new documents against a trained phi",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("iter") {
				cfg.Infer.Iterations = opts.iter
			}
			if cmd.Flags().Changed("seed") {
				cfg.Infer.Seed = opts.seed
			}
			return runInfer(opts, cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "documents, one [docId wordId:count ...] per line")
	flags.StringVar(&opts.phi, "phi", "", "trained topic-word distribution")
	flags.StringVar(&opts.output, "output", "", "file the document-topic distribution is written to, row ids go to <output>.docs")
	flags.IntVar(&opts.iter, "iter", defaults.Infer.Iterations, "number of iterations")
	flags.Int64Var(&opts.seed, "seed", defaults.Infer.Seed, "random seed")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("phi")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runInfer(opts *inferOptions, cfg *config.Config) error {
	phi, err := sstable.LoadFloat64(opts.phi)
	if err != nil {
		return err
	}
	data, err := corpus.LoadFile(opts.input)
	if err != nil {
		return err
	}

	// the topic count is fixed by the trained model
	ic := cfg.InferConfig()
	ic.NumberOfTopics, _ = phi.Shape()
	if err := ic.Validate(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Infer.Seed))
	theta, err := model.NewInference(ic).Sample(data.Docs, phi, rng)
	if err != nil {
		return err
	}
	if err := sstable.SaveFloat64(opts.output, theta); err != nil {
		return err
	}
	if err := corpus.SaveDocIds(opts.output+".docs", data.DocIds); err != nil {
		return err
	}
	log.Infof("topic mixtures of %d documents written to %s, document ids to %s.docs",
		data.DocNum(), opts.output, opts.output)
	return nil
}
