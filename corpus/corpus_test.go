package corpus

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWords(t *testing.T) {
	words := ExpandWords([]WordCount{{WordId: 3, Count: 2}, {WordId: 1, Count: 1}})
	assert.Equal(t, []uint32{3, 3, 1}, words)
}

func TestLoad(t *testing.T) {
	data := `7 0:2 4:1
3 1:1 2:3

9 bad
5
7 2:1
`
	c, err := Load(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint32(5), c.VocabSize)
	assert.Equal(t, []uint32{7, 3, 9}, c.DocIds)
	assert.Equal(t, []uint32{0, 0, 4, 2}, c.Docs[0])
	assert.Equal(t, []uint32{1, 2, 2, 2}, c.Docs[1])
	assert.Empty(t, c.Docs[2])
	assert.Equal(t, 3, c.DocNum())
	assert.Equal(t, 8, c.TokenNum())
}

func TestLoadBadIds(t *testing.T) {
	_, err := Load(strings.NewReader("x 0:1\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("1 0:-1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsLargestWordId(t *testing.T) {
	_, err := Load(strings.NewReader("1 0:1 4294967295:1\n"))
	assert.ErrorIs(t, err, ErrInvalidWordId)

	c, err := Load(strings.NewReader("1 0:1 4294967294:1\n"))
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), c.VocabSize)
}

func TestLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(fn, []byte("0 0:1 1:1\n"), 0644))

	c, err := LoadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.VocabSize)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestShuffleKeepsTokens(t *testing.T) {
	docs := [][]uint32{{0, 1, 2, 3, 4, 5, 6, 7}, {9}, nil}
	Shuffle(docs, rand.New(rand.NewSource(1)))

	got := append([]uint32(nil), docs[0]...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5, 6, 7}, got)
	assert.Equal(t, []uint32{9}, docs[1])
}

func TestShuffleIsReproducible(t *testing.T) {
	a := [][]uint32{{0, 1, 2, 3, 4, 5, 6, 7}}
	b := [][]uint32{{0, 1, 2, 3, 4, 5, 6, 7}}
	Shuffle(a, rand.New(rand.NewSource(5)))
	Shuffle(b, rand.New(rand.NewSource(5)))
	assert.Equal(t, a, b)
}

func TestFilterShort(t *testing.T) {
	docs := [][]uint32{{1, 2}, {3}, {}, {4, 5, 6}}
	kept, dropped := FilterShort(docs, 2)
	assert.Equal(t, [][]uint32{{1, 2}, {4, 5, 6}}, kept)
	assert.Equal(t, []int{1, 2}, dropped)
}

func TestVocabulary(t *testing.T) {
	v, err := LoadVocabulary(strings.NewReader("river\nstream\n bank \n"))
	require.NoError(t, err)
	assert.Equal(t, Vocabulary{"river", "stream", "bank"}, v)
	assert.Equal(t, uint32(3), v.Size())
	assert.Equal(t, "bank", v.Word(2))
	assert.Equal(t, "#7", v.Word(7))
}
