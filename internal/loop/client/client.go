// Package client runs the animation in a terminal: input bytes become driver
// events and frames are rasterized to half-block ANSI output.
package client

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/input"
	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/loop/config"
)

// layout is the placement of the canvas inside the terminal.
type layout struct {
	cols, rows           int
	offsetCol, offsetRow int
}

// Client handles rendering and input for a single terminal.
type Client struct {
	driver       *loop.Driver
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	reader       io.Reader
	writer       io.Writer
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger

	layout   atomic.Pointer[layout] // Read by the input goroutine
	lastPoll time.Time
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	World        loop.Options
	Logger       *log.Logger
}

// NewClient creates a client reading input from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		driver:       loop.NewDriver(loop.NewWorld(opts.World), logger),
		canvas:       draw.NewCanvas(0, 0),
		chunkWriter:  draw.NewChunkWriter(w),
		reader:       r,
		writer:       w,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
	c.layout.Store(&layout{})
	return c
}

// Driver returns the client's frame driver.
func (c *Client) Driver() *loop.Driver {
	return c.driver
}

// Run takes over the terminal until ctx is cancelled, the user quits or the
// input reaches EOF.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	draw.EnterScreen(c.writer)
	defer draw.LeaveScreen(c.writer)

	c.updateScreen(true)

	stream := input.StartStream(c.reader)
	go c.pumpInput(stream, cancel)

	return c.driver.Run(ctx, c.present)
}

// pumpInput translates terminal events into driver events.
func (c *Client) pumpInput(stream *input.Stream, quit context.CancelFunc) {
	defer quit()
	for ev := range stream.Events() {
		switch ev.Kind {
		case input.KindKey:
			switch input.KeyAction(ev.Key) {
			case input.ActionQuit:
				return
			case input.ActionToggleTheme:
				c.driver.Post(loop.ThemeToggled{})
			case input.ActionRefresh:
				c.driver.Post(loop.Refreshed{})
			}
		case input.KindMove:
			x, y := c.cellToLogical(ev.Col, ev.Row)
			c.driver.Post(loop.PointerMoved{X: x, Y: y})
		case input.KindClick:
			x, y := c.cellToLogical(ev.Col, ev.Row)
			c.driver.Post(loop.Clicked{X: x, Y: y})
		case input.KindFocus:
			c.driver.Post(loop.VisibilityChanged{Hidden: !ev.Focused})
		}
	}
}

// cellToLogical maps a 1-based terminal cell to the logical point at its center.
func (c *Client) cellToLogical(col, row int) (float64, float64) {
	l := c.layout.Load()
	x := (float64(col-1-l.offsetCol) + 0.5) * config.CellWidth
	y := (float64(row-1-l.offsetRow) + 0.5) * config.CellHeight
	return x, y
}

// present runs on the driver goroutine once per tick.
func (c *Client) present(f *draw.Frame) error {
	if time.Since(c.lastPoll) >= config.SizePollEvery {
		c.updateScreen(false)
	}
	c.canvas.Paint(f)
	c.canvas.Render(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// updateScreen polls the terminal size, clamps it to the max render
// resolution and reports changes to the driver. On actual size changes the
// terminal is cleared to remove residual cells outside the new canvas area.
func (c *Client) updateScreen(force bool) {
	c.lastPoll = time.Now()
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		c.logger.Debug("terminal size unavailable", "err", err)
		return
	}
	next := clampTermSize(termWidth, termHeight)
	if !force && next == *c.layout.Load() {
		return
	}

	draw.ClearScreen(c.writer)
	c.canvas.Resize(next.cols, next.rows)
	c.canvas.SetOffset(next.offsetCol, next.offsetRow)
	c.layout.Store(&next)

	c.driver.Handle(loop.Resized{
		Width:  float64(next.cols * config.CellWidth),
		Height: float64(next.rows * config.CellHeight),
		Scale:  config.CellScale,
	})
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) layout {
	cols := min(max(termWidth, 0), config.MaxTermWidth)
	rows := min(max(termHeight, 0), config.MaxTermHeight)
	return layout{
		cols:      cols,
		rows:      rows,
		offsetCol: (max(termWidth, 0) - cols) / 2,
		offsetRow: (max(termHeight, 0) - rows) / 2,
	}
}
