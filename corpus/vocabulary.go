package corpus

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Vocabulary maps a token id to its word, the id is the line number of
// the word in the vocabulary file starting at zero
type Vocabulary []string

// Word returns the word of id, or the id itself when it is unknown
func (v Vocabulary) Word(id uint32) string {
	if int(id) < len(v) {
		return v[id]
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

func (v Vocabulary) Size() uint32 {
	return uint32(len(v))
}

// LoadVocabulary reads one word per line
func LoadVocabulary(in io.Reader) (Vocabulary, error) {
	var v Vocabulary
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		v = append(v, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func LoadVocabularyFile(fn string) (Vocabulary, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := LoadVocabulary(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fn)
	}
	return v, nil
}
