package cmd

import (
	log "github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/miberk/balda/config"
	"github.com/miberk/balda/corpus"
	"github.com/miberk/balda/sstable"
	"github.com/miberk/balda/summary"
)

type topicsOptions struct {
	phi    string
	vocab  string
	top    int
	format string
}

func TopicsCmd(loadConfig configLoader) *cobra.Command {
	opts := &topicsOptions{}
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Print the top words of every topic of a trained phi",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top") {
				cfg.Report.TopWords = opts.top
			}
			if cmd.Flags().Changed("format") {
				cfg.Report.Format = opts.format
			}
			return runTopics(cmd, opts, cfg)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&opts.phi, "phi", "", "trained topic-word distribution")
	flags.StringVar(&opts.vocab, "vocab", "", "vocabulary file, one word per line")
	flags.IntVar(&opts.top, "top", defaults.Report.TopWords, "number of words per topic")
	flags.StringVar(&opts.format, "format", defaults.Report.Format, "output format, text or yaml")
	cmd.MarkFlagRequired("phi")
	cmd.MarkFlagRequired("vocab")
	return cmd
}

func runTopics(cmd *cobra.Command, opts *topicsOptions, cfg *config.Config) error {
	phi, err := sstable.LoadFloat64(opts.phi)
	if err != nil {
		return err
	}
	vocab, err := corpus.LoadVocabularyFile(opts.vocab)
	if err != nil {
		return err
	}
	if _, cols := phi.Shape(); vocab.Size() < cols {
		log.Warningf("vocabulary holds %d words, phi has %d columns", vocab.Size(), cols)
	}
	topics, err := summary.TopWords(phi, vocab, cfg.Report.TopWords)
	if err != nil {
		return err
	}
	return writeTopics(cmd, topics, cfg.Report.Format)
}

func writeTopics(cmd *cobra.Command, topics []summary.Topic, format string) error {
	switch format {
	case "text":
		return summary.WriteText(cmd.OutOrStdout(), topics)
	case "yaml":
		return summary.WriteYAML(cmd.OutOrStdout(), topics)
	}
	return errors.Wrapf(config.ErrInvalidConfig, "unknown format %q", format)
}
