// Package config centralizes the frame driver and host tunables.
package config

import "time"

// Tick rate - the animation advances once per tick.
const (
	TickRate = 60
	TickTime = time.Second / TickRate
)

// Terminal cell geometry in logical units. One cell shows two stacked
// pixels, so each pixel covers CellWidth x CellHeight/2 logical units and the
// simulation's distances keep their meaning on a character grid.
const (
	CellWidth  = 8
	CellHeight = 16
	CellScale  = 1.0 / CellWidth // Device pixels per logical unit reported to the driver
)

// Maximum render resolution for terminal hosts. Larger terminals are
// centered and the surrounding area is left blank.
const (
	MaxTermWidth  = 320 // Columns
	MaxTermHeight = 100 // Rows
)

// MaxSurfaceSize bounds each side of a surface reported by a remote host,
// in logical units.
const MaxSurfaceSize = 16384

// Queues
const (
	EventQueueSize  = 64 // Pending host events per driver
	FrameQueueSize  = 2  // Frames buffered per web session before dropping
	SizePollEvery   = 250 * time.Millisecond
	WebSocketPing   = 25 * time.Second
	WebSocketWait   = 60 * time.Second
	WebSocketWrite  = 5 * time.Second
	WebSocketMaxMsg = 4096 // Bytes per inbound message
)
