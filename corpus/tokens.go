package corpus

// Source supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Shuffle randomizes the token order inside every document in place.
// Token order carries no meaning for the sampler beyond co-occurrence.
func Shuffle(docs [][]uint32, rng Source) {
	for _, doc := range docs {
		for i := len(doc) - 1; i > 0; i -= 1 {
			j := int(rng.Float64() * float64(i+1))
			if j > i {
				j = i
			}
			doc[i], doc[j] = doc[j], doc[i]
		}
	}
}

// FilterShort drops documents with fewer than minLen tokens and returns
// the kept documents with the indices of the dropped ones
func FilterShort(docs [][]uint32, minLen int) ([][]uint32, []int) {
	kept := make([][]uint32, 0, len(docs))
	var dropped []int
	for d, doc := range docs {
		if len(doc) < minLen {
			dropped = append(dropped, d)
			continue
		}
		kept = append(kept, doc)
	}
	return kept, dropped
}
