package compare

// Kind classifies one aligned index of a comparison.
type Kind int

const (
	Match Kind = iota
	Mismatch
	LeftOnly
	RightOnly
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case LeftOnly:
		return "left-only"
	case RightOnly:
		return "right-only"
	default:
		return "unknown"
	}
}

// Verdict is the classification of a single index. Left is unset for
// RightOnly verdicts and Right is unset for LeftOnly verdicts.
type Verdict struct {
	Kind  Kind
	Left  rune
	Right rune
}

func (v Verdict) HasLeft() bool {
	return v.Kind != RightOnly
}

func (v Verdict) HasRight() bool {
	return v.Kind != LeftOnly
}

// Options are the equivalence rules applied to a pair of runes.
type Options struct {
	IgnoreCase       bool
	IgnoreWhitespace bool
}
