package sstable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/miberk/balda/matrix"
)

var ErrCorrupted = errors.New("sstable: data corrupted")

// Float64Serialize writes m as a shape line "rows,cols" followed by one
// "row,col,value" line per nonzero element
func Float64Serialize(m *matrix.Float64Matrix, w io.Writer) error {
	out := bufio.NewWriter(w)

	r, c := m.Shape()
	// write the matrix shape
	if _, err := fmt.Fprintf(out, "%d,%d\n", r, c); err != nil {
		return err
	}

	var val float64
	for ridx := uint32(0); ridx < r; ridx += 1 {
		for cidx := uint32(0); cidx < c; cidx += 1 {
			val = m.Get(ridx, cidx)
			if val != 0 { // only write out nonzero value
				if _, err := fmt.Fprintf(out, "%d,%d,%.17e\n", ridx, cidx, val); err != nil {
					return err
				}
			}
		}
	}
	return out.Flush()
}

// Float64Deserialize reads a matrix written by Float64Serialize. Lines
// that do not hold three fields are logged and skipped.
func Float64Deserialize(in io.Reader) (*matrix.Float64Matrix, error) {
	lineIdx := 0
	var tmp *matrix.Float64Matrix

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		txt := strings.TrimSpace(scanner.Text())
		lineIdx += 1
		if txt == "" {
			continue
		}
		if tmp == nil {
			shape := strings.Split(txt, ",")
			if len(shape) != 2 {
				return nil, errors.Wrapf(ErrCorrupted, "shape not found: %s", txt)
			}
			row, err := strconv.ParseUint(shape[0], 10, 32)
			if err != nil {
				return nil, errors.Wrap(err, "parse row count")
			}
			col, err := strconv.ParseUint(shape[1], 10, 32)
			if err != nil {
				return nil, errors.Wrap(err, "parse column count")
			}
			if row == 0 || col == 0 {
				return nil, errors.Wrapf(ErrCorrupted, "empty shape %s", txt)
			}
			tmp = matrix.NewFloat64Matrix(uint32(row), uint32(col))
			continue
		}

		value := strings.Split(txt, ",")
		if len(value) != 3 {
			log.Warningf("data corrupted, line %d, data %s", lineIdx, txt)
			continue
		}
		ridx, err := strconv.ParseUint(value[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineIdx)
		}
		cidx, err := strconv.ParseUint(value[1], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineIdx)
		}
		val, err := strconv.ParseFloat(value[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineIdx)
		}
		r, c := tmp.Shape()
		if uint32(ridx) >= r || uint32(cidx) >= c {
			return nil, errors.Wrapf(ErrCorrupted, "line %d: [%d, %d] outside %dx%d",
				lineIdx, ridx, cidx, r, c)
		}
		tmp.Set(uint32(ridx), uint32(cidx), val)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if tmp == nil {
		return nil, errors.Wrap(ErrCorrupted, "shape not found")
	}

	return tmp, nil
}

// serialize matrix to file
func SaveFloat64(fn string, m *matrix.Float64Matrix) error {
	out, err := os.OpenFile(fn, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	if err := Float64Serialize(m, out); err != nil {
		out.Close()
		return errors.Wrapf(err, "write %s", fn)
	}
	return out.Close()
}

// deserialize matrix from file
func LoadFloat64(fn string) (*matrix.Float64Matrix, error) {
	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m, err := Float64Deserialize(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", fn)
	}
	return m, nil
}
