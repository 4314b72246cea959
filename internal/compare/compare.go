// Package compare classifies two rune sequences position by position.
//
// The scan is positional: index i on the left is only ever compared with index
// i on the right. An inserted character therefore shifts every later position
// out of step; callers that need resynchronisation want a real diff algorithm.
package compare

import (
	"unicode"

	"golang.org/x/text/cases"
)

// Compare walks both sequences and returns one verdict per index up to the
// longer length. A single trailing line terminator is trimmed from each side
// first. Neither input is modified.
func Compare(left, right []rune, opts Options) Result {
	left = TrimLineTerminator(left)
	right = TrimLineTerminator(right)

	n := maxInt(len(left), len(right))
	eq := equivalence(opts)

	verdicts := make([]Verdict, 0, n)
	for i := 0; i < n; i++ {
		hasLeft := i < len(left)
		hasRight := i < len(right)

		switch {
		case hasLeft && hasRight:
			kind := Mismatch
			if eq(left[i], right[i]) {
				kind = Match
			}
			verdicts = append(verdicts, Verdict{Kind: kind, Left: left[i], Right: right[i]})
		case hasLeft:
			verdicts = append(verdicts, Verdict{Kind: LeftOnly, Left: left[i]})
		default:
			verdicts = append(verdicts, Verdict{Kind: RightOnly, Right: right[i]})
		}
	}
	return Result{verdicts: verdicts}
}

// Strings is Compare over the runes of two strings.
func Strings(left, right string, opts Options) Result {
	return Compare([]rune(left), []rune(right), opts)
}

// TrimLineTerminator drops one trailing "\r\n", "\n" or "\r". The returned
// slice shares the backing array of s.
func TrimLineTerminator(s []rune) []rune {
	n := len(s)
	switch {
	case n >= 2 && s[n-2] == '\r' && s[n-1] == '\n':
		return s[:n-2]
	case n >= 1 && (s[n-1] == '\n' || s[n-1] == '\r'):
		return s[:n-1]
	}
	return s
}

func equivalence(opts Options) func(a, b rune) bool {
	var fold cases.Caser
	if opts.IgnoreCase {
		fold = cases.Fold()
	}

	return func(a, b rune) bool {
		if opts.IgnoreWhitespace && unicode.IsSpace(a) && unicode.IsSpace(b) {
			return true
		}
		if opts.IgnoreCase {
			if a == b {
				return true
			}
			// Full folding can expand a rune (e.g. 'ß' -> "ss"), so compare strings.
			return fold.String(string(a)) == fold.String(string(b))
		}
		return a == b
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
