package ui

import (
	"fmt"
	"math"

	"crystal-mem/internal/anim"
	"crystal-mem/internal/assets"
	"crystal-mem/internal/crystal"
	"crystal-mem/internal/layout"
	"crystal-mem/internal/state"
)

// Scene is everything needed to draw one frame of the board.
type Scene struct {
	Frame    layout.Frame
	Tiles    []state.Tile
	Progress state.Progress
	Assets   *assets.Set
	Flights  []anim.Flight

	// Animating reports whether a progress slot is still waiting for its
	// flight to land.
	Animating func(slot int) bool

	// Cursor is the keyboard-selected tile, or -1.
	Cursor int
}

// Rows is the number of terminal rows the board occupies for f.
func Rows(f layout.Frame) int {
	bottom := 0.0
	for _, r := range f.Cells {
		bottom = math.Max(bottom, r.Y+r.H)
	}
	if bottom == 0 {
		return 0
	}
	return int(math.Ceil(bottom/CellAspect)) + 1
}

// MiniVisible reports whether the nth mini crystal of type t is drawn. A
// slot is filled once its counter covers it and no flight is heading to it.
func MiniVisible(p state.Progress, t crystal.Type, nth int, animating func(int) bool) bool {
	if nth >= p.Of(t) {
		return false
	}
	return animating == nil || !animating(layout.SlotIndex(t, nth))
}

// ProgressLabel is the caption drawn under each progress bar.
func ProgressLabel(n int) string {
	return fmt.Sprintf("PROGRESS %d/%d", n, crystal.WinThreshold)
}

// Render draws the scene onto a canvas as wide as the viewport.
func Render(s Scene) *Canvas {
	c := NewCanvas(int(s.Frame.Width), Rows(s.Frame))
	if s.Assets == nil {
		return c
	}
	set := s.Assets

	drawTiled(c, set.Background)

	for _, t := range crystal.All() {
		drawSprite(c, toBox(s.Frame.Bar(t)), set.Bars[t])
	}

	for _, t := range crystal.All() {
		for nth := 0; nth < crystal.Copies; nth++ {
			if !MiniVisible(s.Progress, t, nth, s.Animating) {
				continue
			}
			mini := set.Minis[t]
			b := toBox(s.Frame.Slot(t, nth))
			c.fill(b, mini.Glyph(), mini.Color)
		}
	}

	for _, t := range crystal.All() {
		l := s.Frame.Labels[t.Index()]
		col, row := toCell(layout.Point{X: l.X, Y: l.Y})
		c.Text(col, row, ProgressLabel(s.Progress.Of(t)), set.Crystals[t].Color)
	}

	for _, tile := range s.Tiles {
		b := toBox(s.Frame.Cells[tile.Index])
		if tile.Revealed {
			drawSprite(c, b, set.Crystals[tile.Crystal])
		} else {
			drawSprite(c, b, set.Plate)
		}
		if tile.Index == s.Cursor {
			c.style(b, func(cell *Cell) { cell.Reverse = true })
		}
	}

	for _, f := range s.Flights {
		mini := set.Minis[f.Crystal]
		col, row := toCell(f.Pos)
		c.Set(col, row, Cell{Rune: mini.Glyph(), Color: mini.Color, Bold: true})
	}

	return c
}

// drawSprite centers the art inside b, or fills b with the sprite's glyph
// when the art does not fit.
func drawSprite(c *Canvas, b box, sp assets.Sprite) {
	if b.w <= 0 || b.h <= 0 {
		return
	}
	if sp.Width() > b.w || sp.Height() > b.h {
		c.fill(b, sp.Glyph(), sp.Color)
		return
	}

	c.fill(b, ' ', sp.Color)
	top := b.row + (b.h-sp.Height())/2
	left := b.col + (b.w-sp.Width())/2
	for i, line := range sp.Art {
		for j, r := range []rune(line) {
			if r == ' ' {
				continue
			}
			c.Set(left+j, top+i, Cell{Rune: r, Color: sp.Color})
		}
	}
}

// drawTiled repeats the art over the whole canvas.
func drawTiled(c *Canvas, sp assets.Sprite) {
	w, h := sp.Width(), sp.Height()
	if w == 0 || h == 0 {
		return
	}
	for row := 0; row < c.height; row++ {
		line := []rune(sp.Art[row%h])
		for col := 0; col < c.width; col++ {
			x := col % w
			if x >= len(line) || line[x] == ' ' {
				continue
			}
			c.Set(col, row, Cell{Rune: line[x], Color: sp.Color})
		}
	}
}
