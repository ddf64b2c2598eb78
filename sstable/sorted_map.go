package sstable

import (
	"math/bits"

	"github.com/pkg/errors"
)

var (
	ErrIndexOutOfRange = errors.New("sstable: index out of range")
	ErrInvalidState    = errors.New("sstable: invalid state")
)

// TopicCount is one non-zero entry of a SortedMap row
type TopicCount struct {
	Topic uint32
	Count uint32
}

// less orders entries by count, then by topic id
func (a TopicCount) less(b TopicCount) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Topic < b.Topic
}

// SortedMap caches the nonzero topic counts of every row (a word type in
// the sampler). Each row is kept sorted by count in ascending order with
// the topic id as tie breaker, and never holds a zero count.
type SortedMap struct {
	rows     [][]TopicCount
	topicNum uint32
}

// NewSortedMap creates a SortedMap with rowNum empty rows accepting
// topic ids in [0, topicNum)
func NewSortedMap(rowNum, topicNum uint32) *SortedMap {
	return &SortedMap{
		rows:     make([][]TopicCount, rowNum),
		topicNum: topicNum,
	}
}

// get the number of rows and the topic id bound
func (this *SortedMap) Shape() (uint32, uint32) {
	return uint32(len(this.rows)), this.topicNum
}

// TopicBits is the minimum number of bits needed to hold a topic id,
// i.e. 2^TopicBits is the smallest power of two >= topicNum
func (this *SortedMap) TopicBits() uint32 {
	if this.topicNum <= 1 {
		return 0
	}
	return uint32(bits.Len32(this.topicNum - 1))
}

func (this *SortedMap) check(row, topic uint32) {
	if int(row) >= len(this.rows) || topic >= this.topicNum {
		panic(ErrIndexOutOfRange)
	}
}

// Row returns the entries of row in ascending count order. The slice
// is owned by the map and must not be modified.
func (this *SortedMap) Row(row uint32) []TopicCount {
	if int(row) >= len(this.rows) {
		panic(ErrIndexOutOfRange)
	}
	return this.rows[row]
}

// get the number of nonzero entries in row
func (this *SortedMap) Len(row uint32) int {
	return len(this.Row(row))
}

// get the sum of counts in row
func (this *SortedMap) Total(row uint32) uint32 {
	sum := uint32(0)
	for _, tc := range this.Row(row) {
		sum += tc.Count
	}
	return sum
}

// DenseRow writes the counts of row into out, indexed by topic
func (this *SortedMap) DenseRow(row uint32, out []uint32) {
	for i := range out {
		out[i] = 0
	}
	for _, tc := range this.Row(row) {
		out[tc.Topic] = tc.Count
	}
}

// get the count of topic in row, zero if absent
func (this *SortedMap) Get(row, topic uint32) uint32 {
	this.check(row, topic)
	if idx := this.find(row, topic); idx >= 0 {
		return this.rows[row][idx].Count
	}
	return 0
}

func (this *SortedMap) find(row, topic uint32) int {
	// larger counts are probed more often, scan from the tail
	r := this.rows[row]
	for i := len(r) - 1; i >= 0; i -= 1 {
		if r[i].Topic == topic {
			return i
		}
	}
	return -1
}

// Incr adds one to the count of topic in row
func (this *SortedMap) Incr(row, topic uint32) {
	this.check(row, topic)

	r := this.rows[row]
	idx := this.find(row, topic)
	if idx == -1 {
		// a fresh entry has the smallest possible count, walk it
		// backwards to its slot
		r = append(r, TopicCount{Topic: topic, Count: 1})
		for k := len(r) - 1; k > 0 && r[k].less(r[k-1]); k -= 1 {
			r[k], r[k-1] = r[k-1], r[k]
		}
		this.rows[row] = r
		return
	}

	r[idx].Count += 1
	for k := idx; k < len(r)-1 && r[k+1].less(r[k]); k += 1 {
		r[k], r[k+1] = r[k+1], r[k]
	}
}

// Decr subtracts one from the count of topic in row and removes the
// entry once it reaches zero. Decrementing an absent topic returns
// ErrInvalidState and leaves the row untouched.
func (this *SortedMap) Decr(row, topic uint32) error {
	this.check(row, topic)

	r := this.rows[row]
	if len(r) == 0 {
		return errors.Wrapf(ErrInvalidState, "row %d is empty", row)
	}
	idx := this.find(row, topic)
	if idx == -1 {
		return errors.Wrapf(ErrInvalidState, "topic %d not found in row %d", topic, row)
	}

	if r[idx].Count == 1 {
		copy(r[idx:], r[idx+1:])
		this.rows[row] = r[:len(r)-1]
		return nil
	}

	r[idx].Count -= 1
	for k := idx; k > 0 && r[k].less(r[k-1]); k -= 1 {
		r[k], r[k-1] = r[k-1], r[k]
	}
	return nil
}

// Validate checks that every row is strictly ascending, holds unique
// topics and no zero counts
func (this *SortedMap) Validate() error {
	for row, r := range this.rows {
		seen := make(map[uint32]struct{}, len(r))
		for i, tc := range r {
			if tc.Count == 0 {
				return errors.Wrapf(ErrInvalidState, "row %d holds zero count for topic %d", row, tc.Topic)
			}
			if tc.Topic >= this.topicNum {
				return errors.Wrapf(ErrInvalidState, "row %d holds topic %d out of range", row, tc.Topic)
			}
			if _, ok := seen[tc.Topic]; ok {
				return errors.Wrapf(ErrInvalidState, "row %d holds topic %d twice", row, tc.Topic)
			}
			seen[tc.Topic] = struct{}{}
			if i > 0 && !r[i-1].less(tc) {
				return errors.Wrapf(ErrInvalidState, "row %d is not sorted at %d", row, i)
			}
		}
	}
	return nil
}
