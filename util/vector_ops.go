package util

import "sort"

// sum the vector
func VectorSum(data []uint32) uint32 {
	sum := uint32(0)
	for _, d := range data {
		sum += d
	}
	return sum
}

// Cumulate turns p into its running sum in place and returns the total
func Cumulate(p []float64) float64 {
	for i := 1; i < len(p); i += 1 {
		p[i] += p[i-1]
	}
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// SearchCumulative returns the first index i with u < cumsum[i]. When
// rounding pushes u past the last bucket the last index is returned.
func SearchCumulative(cumsum []float64, u float64) int {
	i := sort.Search(len(cumsum), func(i int) bool { return u < cumsum[i] })
	if i == len(cumsum) {
		return len(cumsum) - 1
	}
	return i
}
