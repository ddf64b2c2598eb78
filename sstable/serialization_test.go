package sstable

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miberk/balda/matrix"
)

func TestFloat64SerializeRoundTrip(t *testing.T) {
	m := matrix.NewFloat64Matrix(2, 3)
	m.Set(0, 0, 0.25)
	m.Set(0, 2, 0.75)
	m.Set(1, 1, 1.0/3.0)

	var buf bytes.Buffer
	require.NoError(t, Float64Serialize(m, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "2,3\n"))
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))

	got, err := Float64Deserialize(&buf)
	require.NoError(t, err)
	r, c := got.Shape()
	assert.Equal(t, uint32(2), r)
	assert.Equal(t, uint32(3), c)
	assert.Equal(t, 0.25, got.Get(0, 0))
	assert.Equal(t, 0.0, got.Get(0, 1))
	assert.Equal(t, 1.0/3.0, got.Get(1, 1))
}

func TestFloat64DeserializeSkipsBadLines(t *testing.T) {
	got, err := Float64Deserialize(strings.NewReader("1,2\n0,1,0.5\ngarbage\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Get(0, 1))
}

func TestFloat64DeserializeCorrupted(t *testing.T) {
	_, err := Float64Deserialize(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrCorrupted))

	_, err = Float64Deserialize(strings.NewReader("2\n"))
	assert.True(t, errors.Is(err, ErrCorrupted))

	_, err = Float64Deserialize(strings.NewReader("1,1\n3,0,0.5\n"))
	assert.True(t, errors.Is(err, ErrCorrupted))
}

func TestSaveLoadFloat64(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "model.phi")
	m := matrix.NewFloat64Matrix(1, 2)
	m.Set(0, 1, 1)

	require.NoError(t, SaveFloat64(fn, m))
	got, err := LoadFloat64(fn)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Get(0, 1))

	_, err = LoadFloat64(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
