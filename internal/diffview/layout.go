package diffview

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"chardiff/internal/compare"
)

const tabWidth = 4

const (
	newlineMarker = "↵"
	tabMarker     = "→"
	spaceMarker   = "·"
)

// Layout turns a comparison into two panes of cells. Each side breaks lines on
// its own newline characters, so the sides stay index aligned within a line
// but may wrap at different rows when newlines do not line up.
func Layout(res compare.Result, placeholder rune) Panes {
	if placeholder == 0 {
		placeholder = ' '
	}
	left := newLineBuilder()
	right := newLineBuilder()

	for i, v := range res.All() {
		switch v.Kind {
		case compare.Match:
			left.add(i, v.Left, CellPlain)
			right.add(i, v.Right, CellPlain)
		case compare.Mismatch:
			left.add(i, v.Left, CellChanged)
			right.add(i, v.Right, CellChanged)
		case compare.LeftOnly:
			left.add(i, v.Left, CellChanged)
			right.addPlaceholder(i, placeholder)
		case compare.RightOnly:
			left.addPlaceholder(i, placeholder)
			right.add(i, v.Right, CellChanged)
		}
	}

	return align(left.finish(), right.finish())
}

func align(left, right []Line) Panes {
	p := Panes{Left: left, Right: right, leftReal: len(left), rightReal: len(right)}
	for len(p.Left) < len(p.Right) {
		p.Left = append(p.Left, nil)
	}
	for len(p.Right) < len(p.Left) {
		p.Right = append(p.Right, nil)
	}
	return p
}

type lineBuilder struct {
	lines []Line
	cur   Line
}

func newLineBuilder() *lineBuilder {
	return &lineBuilder{}
}

func (b *lineBuilder) add(idx int, r rune, class CellClass) {
	switch r {
	case '\n':
		if class != CellPlain {
			b.cur = append(b.cur, Cell{Glyph: newlineMarker, Class: class, Index: idx})
		}
		b.lines = append(b.lines, b.cur)
		b.cur = nil
		return
	case '\r':
		if class == CellPlain {
			return
		}
		b.cur = append(b.cur, Cell{Glyph: "␍", Class: class, Index: idx})
		return
	case '\t':
		glyph := strings.Repeat(" ", tabWidth)
		if class != CellPlain {
			glyph = tabMarker + strings.Repeat(" ", tabWidth-1)
		}
		b.cur = append(b.cur, Cell{Glyph: glyph, Class: class, Index: idx})
		return
	case ' ':
		if class != CellPlain {
			b.cur = append(b.cur, Cell{Glyph: spaceMarker, Class: class, Index: idx})
			return
		}
	}

	glyph := string(r)
	switch {
	case r < 0x20:
		glyph = string(0x2400 + r)
	case r == 0x7f:
		glyph = "␡"
	}
	b.cur = append(b.cur, Cell{Glyph: glyph, Class: class, Index: idx})
}

func (b *lineBuilder) addPlaceholder(idx int, r rune) {
	b.cur = append(b.cur, Cell{Glyph: string(r), Class: CellMissing, Index: idx})
}

func (b *lineBuilder) finish() []Line {
	if len(b.cur) > 0 || len(b.lines) == 0 {
		b.lines = append(b.lines, b.cur)
		b.cur = nil
	}
	return b.lines
}

func cellWidth(c Cell) int {
	return ansi.StringWidth(c.Glyph)
}

// Plain lays out two texts without comparing them, for showing buffers that
// have not been compared yet.
func Plain(left, right string) Panes {
	build := func(s string) []Line {
		b := newLineBuilder()
		for i, r := range compare.TrimLineTerminator([]rune(s)) {
			b.add(i, r, CellPlain)
		}
		return b.finish()
	}

	return align(build(left), build(right))
}
