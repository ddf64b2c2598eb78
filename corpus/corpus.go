package corpus

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"
)

var ErrInvalidWordId = errors.New("corpus: invalid word id")

// Corpus is a bag-of-words training set. Docs holds the expanded token
// ids of every document in the order documents first appear.
type Corpus struct {
	VocabSize uint32
	DocIds    []uint32
	Docs      [][]uint32
}

type WordCount struct {
	WordId uint32
	Count  uint32
}

func ExpandWords(wcs []WordCount) []uint32 {
	var words []uint32
	for _, wc := range wcs {
		for i := uint32(0); i < wc.Count; i += 1 {
			words = append(words, wc.WordId)
		}
	}
	return words
}

// DocNum is the number of documents
func (this *Corpus) DocNum() int {
	return len(this.Docs)
}

// TokenNum is the number of token occurrences in all documents
func (this *Corpus) TokenNum() int {
	n := 0
	for _, doc := range this.Docs {
		n += len(doc)
	}
	return n
}

// Load reads training data, one document per line:
// [docId wordId:wordCount wordId:wordCount ... wordId:wordCount]
// Lines without word counts and malformed pairs are logged and skipped,
// ids that do not fit uint32 are an error.
func Load(in io.Reader) (*Corpus, error) {
	c := &Corpus{}
	index := make(map[uint32]int)
	vocabMaxId := -1

	lineIdx := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineIdx += 1
		doc := strings.TrimSpace(scanner.Text())
		if doc == "" {
			continue
		}
		vals := strings.Fields(doc)
		if len(vals) < 2 {
			log.Warningf("bad document on line %d: %s", lineIdx, doc)
			continue
		}

		docId, err := strconv.ParseUint(vals[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: document id", lineIdx)
		}

		var wcs []WordCount
		for _, kv := range vals[1:] {
			wc := strings.Split(kv, ":")
			if len(wc) != 2 {
				log.Warningf("bad word count on line %d: %s", lineIdx, kv)
				continue
			}

			wordId, err := strconv.ParseUint(wc[0], 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: word id", lineIdx)
			}
			// the vocabulary size must fit uint32 too
			if wordId == math.MaxUint32 {
				return nil, errors.Wrapf(ErrInvalidWordId, "line %d: word id %d", lineIdx, wordId)
			}

			count, err := strconv.ParseUint(wc[1], 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: word count", lineIdx)
			}

			wcs = append(wcs, WordCount{
				WordId: uint32(wordId),
				Count:  uint32(count),
			})
			if int(wordId) > vocabMaxId {
				vocabMaxId = int(wordId)
			}
		}

		idx, ok := index[uint32(docId)]
		if !ok {
			idx = len(c.Docs)
			index[uint32(docId)] = idx
			c.DocIds = append(c.DocIds, uint32(docId))
			c.Docs = append(c.Docs, nil)
		}
		c.Docs[idx] = append(c.Docs[idx], ExpandWords(wcs)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	c.VocabSize = uint32(vocabMaxId + 1)

	log.Infof("number of documents %d", c.DocNum())
	log.Infof("vocabulary size %d", c.VocabSize)
	return c, nil
}

// load training data from file, see Load for the format
func LoadFile(fn string) (*Corpus, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fn)
	}
	return c, nil
}
