package compare

import "iter"

// Result is the ordered, read-only outcome of Compare.
type Result struct {
	verdicts []Verdict
}

// Stats counts verdicts per kind.
type Stats struct {
	Matches    int
	Mismatches int
	LeftOnly   int
	RightOnly  int
}

// Differences is the number of indices that are not a Match.
func (s Stats) Differences() int {
	return s.Mismatches + s.LeftOnly + s.RightOnly
}

func (r Result) Len() int {
	return len(r.verdicts)
}

// At returns the verdict at index i. It panics when i is out of range, like
// slice indexing.
func (r Result) At(i int) Verdict {
	return r.verdicts[i]
}

// Verdicts returns a copy of all verdicts in index order.
func (r Result) Verdicts() []Verdict {
	out := make([]Verdict, len(r.verdicts))
	copy(out, r.verdicts)
	return out
}

// All iterates over index/verdict pairs in order.
func (r Result) All() iter.Seq2[int, Verdict] {
	return func(yield func(int, Verdict) bool) {
		for i, v := range r.verdicts {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (r Result) Stats() Stats {
	var s Stats
	for _, v := range r.verdicts {
		switch v.Kind {
		case Match:
			s.Matches++
		case Mismatch:
			s.Mismatches++
		case LeftOnly:
			s.LeftOnly++
		case RightOnly:
			s.RightOnly++
		}
	}
	return s
}

// Equal reports whether every index matched. An empty result is equal.
func (r Result) Equal() bool {
	for _, v := range r.verdicts {
		if v.Kind != Match {
			return false
		}
	}
	return true
}
