// Package anim sequences the flight of a collected crystal from the tile
// that revealed it to its slot in the progress row.
//
// The coordinator never touches the authoritative counters; those are
// already updated by the time a flight starts. It only decides when a slot
// counts as visually filled, and guarantees the completion callback for a
// slot runs exactly once per round.
package anim

import (
	"errors"
	"sort"
	"time"

	"crystal-mem/internal/crystal"
	"crystal-mem/internal/layout"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	DefaultFPS      = 60
	DefaultDuration = 600 * time.Millisecond

	springFrequency = 8.0
	springDamping   = 1.0
)

var ErrInvalidSlot = errors.New("invalid slot")

// Request describes one flight. Slot is the flat progress-slot index, so
// completions are matched by identity rather than by position.
type Request struct {
	Origin      layout.Point
	Destination layout.Point
	Crystal     crystal.Type
	Slot        int
	Generation  uint64
}

// Flight is a request in progress.
type Flight struct {
	Request
	Pos   layout.Point
	Frame int

	velX, velY float64
}

// FrameMsg advances the flight for Slot by one frame.
type FrameMsg struct {
	Slot       int
	Generation uint64
}

// Done is called once when a flight lands or fails to start.
type Done func(req Request, err error)

type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type Coordinator struct {
	generation uint64
	interval   time.Duration
	duration   time.Duration
	frames     int
	spring     harmonica.Spring
	check      func(crystal.Type) error
	tick       TickFunc

	flights   map[int]*Flight
	callbacks map[int]Done
	completed map[int]bool
}

type Option func(*Coordinator)

// WithFPS sets the frame rate. Rates that leave no time between frames are
// ignored.
func WithFPS(fps int) Option {
	return func(c *Coordinator) {
		if fps <= 0 {
			return
		}
		if interval := time.Second / time.Duration(fps); interval > 0 {
			c.interval = interval
		}
	}
}

// WithDuration sets how long a flight lasts. Zero disables the transition.
func WithDuration(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.duration = d
		}
	}
}

// WithSpriteCheck installs a check that runs before each flight. If it fails the
// slot is shown immediately and the callback receives the error.
func WithSpriteCheck(fn func(crystal.Type) error) Option {
	return func(c *Coordinator) {
		c.check = fn
	}
}

// WithTick replaces tea.Tick, mainly for tests.
func WithTick(fn TickFunc) Option {
	return func(c *Coordinator) {
		c.tick = fn
	}
}

func NewCoordinator(generation uint64, opts ...Option) *Coordinator {
	c := &Coordinator{
		generation: generation,
		interval:   time.Second / DefaultFPS,
		duration:   DefaultDuration,
		tick:       tea.Tick,
		flights:    map[int]*Flight{},
		callbacks:  map[int]Done{},
		completed:  map[int]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.frames = int(c.duration / c.interval)
	fps := int(time.Second / c.interval)
	c.spring = harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping)
	return c
}

// SetSpriteCheck replaces the sprite check once assets are available.
func (c *Coordinator) SetSpriteCheck(fn func(crystal.Type) error) {
	c.check = fn
}

// Play starts a flight for req. Requests from another generation, for an
// invalid slot, or for a slot that is already flying or filled are
// dropped; only the first request for a slot ever gets its callback run.
func (c *Coordinator) Play(req Request, done Done) tea.Cmd {
	if req.Generation != c.generation {
		return nil
	}
	if req.Slot < 0 || req.Slot >= crystal.Count*crystal.Copies {
		if done != nil {
			done(req, ErrInvalidSlot)
		}
		return nil
	}
	if _, busy := c.flights[req.Slot]; busy || c.completed[req.Slot] {
		return nil
	}

	if c.check != nil {
		if err := c.check(req.Crystal); err != nil {
			c.completed[req.Slot] = true
			if done != nil {
				done(req, err)
			}
			return nil
		}
	}

	f := &Flight{Request: req, Pos: req.Origin}
	c.flights[req.Slot] = f
	c.callbacks[req.Slot] = done

	if c.frames <= 0 {
		c.finish(req.Slot)
		return nil
	}
	return c.next(f)
}

func (c *Coordinator) next(f *Flight) tea.Cmd {
	slot, gen := f.Slot, f.Generation
	return c.tick(c.interval, func(time.Time) tea.Msg {
		return FrameMsg{Slot: slot, Generation: gen}
	})
}

// Update consumes frame messages. Frames from a previous generation or for
// a slot that is no longer flying are ignored.
func (c *Coordinator) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(FrameMsg)
	if !ok || m.Generation != c.generation {
		return nil
	}
	f, ok := c.flights[m.Slot]
	if !ok {
		return nil
	}

	f.Frame++
	if f.Frame >= c.frames {
		c.finish(m.Slot)
		return nil
	}

	f.Pos.X, f.velX = c.spring.Update(f.Pos.X, f.velX, f.Destination.X)
	f.Pos.Y, f.velY = c.spring.Update(f.Pos.Y, f.velY, f.Destination.Y)
	return c.next(f)
}

func (c *Coordinator) finish(slot int) {
	f := c.flights[slot]
	done := c.callbacks[slot]
	delete(c.flights, slot)
	delete(c.callbacks, slot)
	c.completed[slot] = true

	f.Pos = f.Destination
	if done != nil {
		done(f.Request, nil)
	}
}

// Reset starts a new generation. All flights of the previous round are
// forgotten without running their callbacks.
func (c *Coordinator) Reset(generation uint64) {
	c.generation = generation
	c.flights = map[int]*Flight{}
	c.callbacks = map[int]Done{}
	c.completed = map[int]bool{}
}

// Retarget points every in-flight request at a new destination, typically
// after the layout changed.
func (c *Coordinator) Retarget(dest func(Request) layout.Point) {
	for _, f := range c.flights {
		f.Destination = dest(f.Request)
	}
}

func (c *Coordinator) Generation() uint64 {
	return c.generation
}

func (c *Coordinator) Animating(slot int) bool {
	_, ok := c.flights[slot]
	return ok
}

func (c *Coordinator) Completed(slot int) bool {
	return c.completed[slot]
}

// Flights returns a snapshot of the flights in progress, ordered by slot.
func (c *Coordinator) Flights() []Flight {
	out := make([]Flight, 0, len(c.flights))
	for _, f := range c.flights {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// FramesPerFlight is the number of frames a flight takes to land.
func (c *Coordinator) FramesPerFlight() int {
	return c.frames
}
