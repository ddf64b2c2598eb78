package corpus

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// WriteDocIds writes one document id per line, line i names row i of
// the matching theta matrix
func WriteDocIds(w io.Writer, ids []uint32) error {
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		if _, err := bw.WriteString(strconv.FormatUint(uint64(id), 10) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func SaveDocIds(fn string, ids []uint32) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteDocIds(f, ids); err != nil {
		return errors.Wrapf(err, "save %s", fn)
	}
	return f.Close()
}

// KeptIds returns the ids of the documents FilterShort kept, in order
func KeptIds(ids []uint32, dropped []int) []uint32 {
	kept := make([]uint32, 0, len(ids)-len(dropped))
	next := 0
	for d, id := range ids {
		if next < len(dropped) && dropped[next] == d {
			next += 1
			continue
		}
		kept = append(kept, id)
	}
	return kept
}
