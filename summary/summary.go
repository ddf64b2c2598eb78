package summary

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/miberk/balda/corpus"
	"github.com/miberk/balda/matrix"
)

// number of words listed per topic unless asked otherwise
const DefaultTopWords = 10

var ErrInvalidInput = errors.New("summary: invalid input")

type WordScore struct {
	Word  string  `yaml:"word"`
	Score float64 `yaml:"score"`
}

// Topic lists the highest weighted words of one row of phi
type Topic struct {
	ID    uint32      `yaml:"id"`
	Words []WordScore `yaml:"words"`
}

// TopWords picks the n heaviest words of every topic of phi, heaviest
// first. Equal weights are ordered by reverse lexical order of the word.
// Fewer than n words are returned when phi has fewer columns. Ids past
// the end of vocab are shown as #id.
func TopWords(phi *matrix.Float64Matrix, vocab corpus.Vocabulary, n int) ([]Topic, error) {
	if phi == nil {
		return nil, errors.Wrap(ErrInvalidInput, "phi is nil")
	}
	if n <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "number of top words %d", n)
	}
	topicNum, _ := phi.Shape()

	topics := make([]Topic, topicNum)
	for t := uint32(0); t < topicNum; t += 1 {
		row := phi.RowView(t)
		words := make([]WordScore, len(row))
		for w, score := range row {
			words[w] = WordScore{Word: vocab.Word(uint32(w)), Score: score}
		}
		sort.Slice(words, func(i, j int) bool {
			if words[i].Score != words[j].Score {
				return words[i].Score > words[j].Score
			}
			return words[i].Word > words[j].Word
		})
		if len(words) > n {
			words = words[:n]
		}
		topics[t] = Topic{ID: t, Words: words}
	}
	return topics, nil
}

// WriteText prints one topic per line
//
//	0:	[river->0.312] [stream->0.250] ...
func WriteText(w io.Writer, topics []Topic) error {
	for _, topic := range topics {
		if _, err := fmt.Fprintf(w, "%d:\t", topic.ID); err != nil {
			return err
		}
		for _, ws := range topic.Words {
			if _, err := fmt.Fprintf(w, "[%s->%.3f] ", ws.Word, ws.Score); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func WriteYAML(w io.Writer, topics []Topic) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(topics); err != nil {
		return errors.Wrap(err, "encode topics")
	}
	return enc.Close()
}
