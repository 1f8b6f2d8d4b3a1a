// Package ui draws the board onto a character grid.
//
// Layout geometry is expressed in layout units where one unit is one
// terminal column. Terminal cells are roughly twice as tall as they are
// wide, so one row spans CellAspect units vertically.
package ui

import (
	"math"
	"strings"

	"crystal-mem/internal/layout"

	"github.com/charmbracelet/lipgloss"
)

const CellAspect = 2.0

// ToLayout maps a terminal cell to the layout point at its center.
func ToLayout(col, row int) layout.Point {
	return layout.Point{
		X: float64(col) + 0.5,
		Y: (float64(row) + 0.5) * CellAspect,
	}
}

// toCell maps a layout point to the terminal cell containing it.
func toCell(p layout.Point) (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / CellAspect))
}

// box is a rectangle in terminal cells.
type box struct {
	col, row, w, h int
}

// toBox snaps r to whole terminal cells. Non-empty rects always cover at
// least one cell.
func toBox(r layout.Rect) box {
	col, row := toCell(layout.Point{X: r.X, Y: r.Y})
	right := int(math.Ceil(r.X + r.W))
	bottom := int(math.Ceil((r.Y + r.H) / CellAspect))
	b := box{col: col, row: row, w: right - col, h: bottom - row}
	if r.W > 0 && b.w < 1 {
		b.w = 1
	}
	if r.H > 0 && b.h < 1 {
		b.h = 1
	}
	return b
}

type Cell struct {
	Rune    rune
	Color   string
	Reverse bool
	Bold    bool
}

// Canvas is a fixed-size grid of styled runes.
type Canvas struct {
	width, height int
	cells         []Cell
}

func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{width: width, height: height, cells: make([]Cell, width*height)}
	for i := range c.cells {
		c.cells[i].Rune = ' '
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && col < c.width && row >= 0 && row < c.height
}

// Set writes one cell. Writes outside the canvas are clipped.
func (c *Canvas) Set(col, row int, cell Cell) {
	if c.inside(col, row) {
		c.cells[row*c.width+col] = cell
	}
}

func (c *Canvas) At(col, row int) Cell {
	if !c.inside(col, row) {
		return Cell{Rune: ' '}
	}
	return c.cells[row*c.width+col]
}

// Text writes s starting at (col, row) without wrapping.
func (c *Canvas) Text(col, row int, s, color string) {
	for i, r := range []rune(s) {
		c.Set(col+i, row, Cell{Rune: r, Color: color})
	}
}

func (c *Canvas) fill(b box, r rune, color string) {
	for y := b.row; y < b.row+b.h; y++ {
		for x := b.col; x < b.col+b.w; x++ {
			c.Set(x, y, Cell{Rune: r, Color: color})
		}
	}
}

// style applies fn to every cell in b.
func (c *Canvas) style(b box, fn func(*Cell)) {
	for y := b.row; y < b.row+b.h; y++ {
		for x := b.col; x < b.col+b.w; x++ {
			if c.inside(x, y) {
				fn(&c.cells[y*c.width+x])
			}
		}
	}
}

// Plain returns the canvas without styling, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.width; col++ {
			b.WriteRune(c.At(col, row).Rune)
		}
	}
	return b.String()
}

// String renders the canvas with lipgloss, merging runs of equally styled
// cells into a single styled segment.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		var current Cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(cellStyle(current).Render(run.String()))
			run.Reset()
		}
		for col := 0; col < c.width; col++ {
			cell := c.At(col, row)
			if run.Len() > 0 && !sameStyle(cell, current) {
				flush()
			}
			current = cell
			run.WriteRune(cell.Rune)
		}
		flush()
	}
	return b.String()
}

func sameStyle(a, b Cell) bool {
	return a.Color == b.Color && a.Reverse == b.Reverse && a.Bold == b.Bold
}

func cellStyle(cell Cell) lipgloss.Style {
	s := lipgloss.NewStyle()
	if cell.Color != "" {
		s = s.Foreground(lipgloss.Color(cell.Color))
	}
	if cell.Reverse {
		s = s.Reverse(true)
	}
	if cell.Bold {
		s = s.Bold(true)
	}
	return s
}
