package diffview

type Side int

const (
	SideLeft Side = iota
	SideRight
)

// CellClass says how a single glyph is presented.
type CellClass int

const (
	CellPlain CellClass = iota
	// CellChanged is a character present on this side that differs from, or
	// has no counterpart on, the other side.
	CellChanged
	// CellMissing is the placeholder drawn where this side has no character.
	CellMissing
)

type Cell struct {
	Glyph string
	Class CellClass
	Index int
}

type Line []Cell

// Panes holds both sides laid out into lines. Left and Right always have the
// same number of lines; the shorter side is padded with empty lines.
type Panes struct {
	Left  []Line
	Right []Line

	leftReal  int
	rightReal int
}

// RealLines is the number of lines on side before alignment padding.
func (p Panes) RealLines(side Side) int {
	if side == SideLeft {
		return p.leftReal
	}
	return p.rightReal
}

func (p Panes) Lines(side Side) []Line {
	if side == SideLeft {
		return p.Left
	}
	return p.Right
}

// Height is the number of rows in each pane.
func (p Panes) Height() int {
	return len(p.Left)
}

// Width is the widest line in columns, ignoring the gutter.
func (p Panes) Width() int {
	w := 0
	for _, lines := range [][]Line{p.Left, p.Right} {
		for _, l := range lines {
			if lw := l.Width(); lw > w {
				w = lw
			}
		}
	}
	return w
}

func (l Line) Width() int {
	w := 0
	for _, c := range l {
		w += cellWidth(c)
	}
	return w
}
