package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type Styles struct {
	Plain        lipgloss.Style
	LeftChanged  lipgloss.Style
	RightChanged lipgloss.Style
	Missing      lipgloss.Style
	Gutter       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Plain:        lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"}),
		LeftChanged:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		RightChanged: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Missing:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		Gutter:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func (s Styles) cell(side Side, class CellClass) lipgloss.Style {
	switch class {
	case CellChanged:
		if side == SideLeft {
			return s.LeftChanged
		}
		return s.RightChanged
	case CellMissing:
		return s.Missing
	default:
		return s.Plain
	}
}

// Render draws one pane as exactly width columns per row, starting xOffset
// columns into each line. Rows carry a line-number gutter; padding rows added
// to keep the panes aligned have a blank gutter.
func Render(p Panes, side Side, width, xOffset int, styles Styles) []string {
	if width <= 0 {
		width = 1
	}
	if xOffset < 0 {
		xOffset = 0
	}

	lines := p.Lines(side)
	numbered := p.RealLines(side)
	numW := maxInt(3, digits(numbered))
	gutterW := numW + 1
	textW := maxInt(1, width-gutterW)

	out := make([]string, 0, len(lines))
	lineNo := 0
	for i, line := range lines {
		num := ""
		if i < numbered {
			lineNo++
			num = fmt.Sprintf("%d", lineNo)
		}
		gutter := styles.Gutter.Render(fmt.Sprintf("%*s ", numW, num))
		if gutterW > width {
			gutter = ansi.Truncate(gutter, width, "")
			out = append(out, padRight(gutter, width))
			continue
		}
		out = append(out, gutter+renderCells(line, side, textW, xOffset, styles))
	}
	return out
}

func renderCells(line Line, side Side, width, xOffset int, styles Styles) string {
	var sb strings.Builder
	col := 0
	used := 0
	for _, c := range line {
		w := cellWidth(c)
		start := col
		col += w
		if col <= xOffset {
			continue
		}
		glyph := c.Glyph
		if start < xOffset {
			// Cell straddles the left edge; show only the visible columns.
			glyph = strings.Repeat(" ", col-xOffset)
			w = col - xOffset
		}
		if used+w > width {
			if rest := width - used; rest > 0 {
				sb.WriteString(strings.Repeat(" ", rest))
				used = width
			}
			break
		}
		sb.WriteString(styles.cell(side, c.Class).Render(glyph))
		used += w
	}
	if used < width {
		sb.WriteString(strings.Repeat(" ", width-used))
	}
	return sb.String()
}

func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func digits(n int) int {
	if n <= 0 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
