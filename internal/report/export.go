// Package report renders sessions and comparison results as plain text for
// the clipboard.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"chardiff/internal/compare"
	"chardiff/internal/session"
)

// MaxListedDifferences caps the per-index lines in Summary.
const MaxListedDifferences = 50

func ExportHistory(entries []session.HistoryEntry, title string) string {
	if title == "" {
		title = "Comparison history"
	}

	lines := []string{title, ""}
	if len(entries) == 0 {
		lines = append(lines, "(no comparisons recorded)")
	}
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d) %s", i+1, e.FormattedTime()))
		lines = append(lines, "   Left:  "+e.LeftSource)
		lines = append(lines, "   Right: "+e.RightSource)
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Summary describes a comparison: the sources, the options, per-kind counts
// and the first differing indices.
func Summary(res compare.Result, left, right session.Buffer, opts compare.Options) string {
	stats := res.Stats()
	lines := []string{
		"Left:  " + sourceLabel(left),
		"Right: " + sourceLabel(right),
		fmt.Sprintf("Options: ignore case=%t, ignore whitespace=%t", opts.IgnoreCase, opts.IgnoreWhitespace),
		fmt.Sprintf("Positions: %d | match %d | mismatch %d | left only %d | right only %d",
			res.Len(), stats.Matches, stats.Mismatches, stats.LeftOnly, stats.RightOnly),
	}
	if stats.Differences() == 0 {
		return strings.Join(append(lines, "Identical."), "\n")
	}

	lines = append(lines, "", "Differences:")
	listed := 0
	for i, v := range res.All() {
		if v.Kind == compare.Match {
			continue
		}
		if listed == MaxListedDifferences {
			lines = append(lines, fmt.Sprintf("  ... %d more", stats.Differences()-listed))
			break
		}
		lines = append(lines, fmt.Sprintf("  %d: %s", i, describe(v)))
		listed++
	}
	return strings.Join(lines, "\n")
}

func describe(v compare.Verdict) string {
	switch v.Kind {
	case compare.Mismatch:
		return fmt.Sprintf("%s != %s", quote(v.Left), quote(v.Right))
	case compare.LeftOnly:
		return "left only " + quote(v.Left)
	case compare.RightOnly:
		return "right only " + quote(v.Right)
	}
	return v.Kind.String()
}

func quote(r rune) string {
	return strconv.QuoteRune(r)
}

func sourceLabel(b session.Buffer) string {
	if b.SourceID == "" {
		return "(unsaved text)"
	}
	return b.SourceID
}
