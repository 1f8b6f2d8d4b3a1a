// Package layout derives every on-screen position from the viewport width.
//
// All geometry is a fixed proportion of the width, calibrated to the
// game's fixed aspect-ratio artwork, so Compute is linear in its argument.
package layout

import "crystal-mem/internal/crystal"

const (
	gridMarginTop   = 0.0956
	gridMarginLeft  = 0.169
	gridPaddingTop  = 0.0282
	gridPaddingLeft = 0.044
	cellSize        = 0.0974

	barMarginTop  = 0.012
	barMarginLeft = 0.12
	barWidth      = 0.154
	barHeight     = 0.0668

	miniSize        = 0.012
	miniMarginTop   = 0.01585
	miniMarginLeft  = 0.1935
	miniPaddingLeft = 0.00945
	miniBetween     = 0.154

	labelMarginLeft = 0.1756
	labelMarginTop  = 0.035
	labelGap        = 0.1535
	labelFontSize   = 0.014
)

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive so adjacent rectangles never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Label is the anchor of a progress caption.
type Label struct {
	X, Y     float64
	FontSize float64
}

// Frame is the complete geometry for one viewport width.
type Frame struct {
	Width  float64
	Cells  [crystal.TileCount]Rect
	Bars   [crystal.Count]Rect
	Slots  [crystal.Count * crystal.Copies]Rect
	Labels [crystal.Count]Label
}

// Compute returns the frame for the given viewport width. A zero width
// yields all-zero geometry.
func Compute(width float64) Frame {
	f := Frame{Width: width}

	size := cellSize * width
	for i := range f.Cells {
		row, col := i/crystal.Columns, i%crystal.Columns
		f.Cells[i] = Rect{
			X: gridMarginLeft*width + float64(col)*(size+gridPaddingLeft*width),
			Y: gridMarginTop*width + float64(row)*(size+gridPaddingTop*width),
			W: size,
			H: size,
		}
	}

	for p := range f.Bars {
		f.Bars[p] = Rect{
			X: barMarginLeft*width + float64(p)*barWidth*width,
			Y: barMarginTop * width,
			W: barWidth * width,
			H: barHeight * width,
		}
	}

	mini := miniSize * width
	for p := 0; p < crystal.Count; p++ {
		for c := 0; c < crystal.Copies; c++ {
			f.Slots[p*crystal.Copies+c] = Rect{
				X: miniMarginLeft*width + float64(c)*(miniPaddingLeft*width+mini) + float64(p)*miniBetween*width,
				Y: miniMarginTop * width,
				W: mini,
				H: mini,
			}
		}
	}

	for p := range f.Labels {
		f.Labels[p] = Label{
			X:        labelMarginLeft*width + float64(p)*labelGap*width,
			Y:        labelMarginTop * width,
			FontSize: labelFontSize * width,
		}
	}

	return f
}

// SlotIndex is the flat index of the nth mini-crystal slot of type t.
func SlotIndex(t crystal.Type, nth int) int {
	return t.Index()*crystal.Copies + nth
}

// Slot returns the rectangle of the nth mini-crystal slot of type t.
func (f Frame) Slot(t crystal.Type, nth int) Rect {
	return f.Slots[SlotIndex(t, nth)]
}

// Bar returns the progress bar rectangle of type t.
func (f Frame) Bar(t crystal.Type) Rect {
	return f.Bars[t.Index()]
}

// CellAt returns the index of the grid cell containing p.
func (f Frame) CellAt(p Point) (int, bool) {
	for i, r := range f.Cells {
		if r.Contains(p) {
			return i, true
		}
	}
	return 0, false
}

// Engine tracks the current viewport width. It holds no other state.
type Engine struct {
	width float64
}

func NewEngine(width float64) *Engine {
	return &Engine{width: width}
}

func (e *Engine) UpdateWidth(width float64) {
	e.width = width
}

func (e *Engine) Width() float64 {
	return e.width
}

// Frame recomputes the geometry for the current width.
func (e *Engine) Frame() Frame {
	return Compute(e.width)
}
