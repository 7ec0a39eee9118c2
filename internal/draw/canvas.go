package draw

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Half-block characters used to show two vertically stacked pixels per cell.
const (
	BlockUpperHalf = '▀'
	BlockEmpty     = ' '
)

// cell is the pair of colors last written to one terminal cell.
type cell struct {
	top, bottom Color
}

// Canvas rasterizes frames into a truecolor terminal buffer with 2x vertical
// resolution. The top pixel of each cell is the foreground of '▀' and the
// bottom pixel its background. Commands are alpha-blended in RGB.
type Canvas struct {
	termWidth      int              // Terminal columns covered by the canvas
	termHeight     int              // Terminal rows covered by the canvas
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates, set per frame
	scaleX float64
	scaleY float64

	// Offset for centering the render area when the terminal is larger than
	// the maximum resolution. 0-based columns/rows to skip.
	offsetCol int
	offsetRow int

	// Last rendered cells, for emitting only what changed
	shown     []cell
	shownFull bool

	// Reusable buffers to reduce allocations
	scaledBuf       []Point
	intersectionBuf []float64
}

// NewCanvas creates a canvas for the given terminal dimensions.
func NewCanvas(termWidth, termHeight int) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions. The next Render
// repaints every cell.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]colorful.Color, c.subPixelHeight*termWidth)
		c.shown = make([]cell, termWidth*termHeight)
	}
	c.Invalidate()
}

// Invalidate forces the next Render to repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) Invalidate() {
	c.shownFull = false
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.offsetCol = col
		c.offsetRow = row
		c.Invalidate()
	}
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// TerminalWidth returns the terminal column count covered by the canvas.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the terminal row count covered by the canvas.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Pixel returns the color of a sub-pixel. Out-of-range positions are black.
func (c *Canvas) Pixel(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Color{}
	}
	return toColor(c.pixels[y*c.termWidth+x])
}

// Paint rasterizes a frame, replacing the canvas contents. The frame's logical
// size is stretched over the whole canvas.
func (c *Canvas) Paint(f *Frame) {
	bg := fromColor(f.Background)
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	if f.Width <= 0 || f.Height <= 0 || len(c.pixels) == 0 {
		return
	}
	c.scaleX = float64(c.termWidth) / f.Width
	c.scaleY = float64(c.subPixelHeight) / f.Height

	for i := range f.Commands {
		cmd := &f.Commands[i]
		if cmd.Alpha <= 0 {
			continue
		}
		switch cmd.Op {
		case OpFillCircle:
			c.fillCircle(cmd)
		case OpStrokeCircle:
			c.strokeCircle(cmd)
		case OpLine:
			c.drawLine(cmd.Points[0], cmd.Points[1], cmd.Color, cmd.Alpha)
		case OpFillPolygon:
			c.fillPolygon(cmd.Points[:cmd.N], cmd.Color, cmd.Alpha)
		case OpStrokePolygon:
			pts := cmd.Points[:cmd.N]
			for j := range pts {
				c.drawLine(pts[j], pts[(j+1)%len(pts)], cmd.Color, cmd.Alpha)
			}
		}
	}
}

// blend mixes color into the pixel at pixel coordinates.
func (c *Canvas) blend(x, y int, col Color, alpha float64) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	alpha = math.Min(alpha, 1)
	idx := y*c.termWidth + x
	c.pixels[idx] = c.pixels[idx].BlendRgb(fromColor(col), alpha)
}

// toPixel converts logical coordinates to pixel coordinates.
func (c *Canvas) toPixel(x, y float64) (float64, float64) {
	return x * c.scaleX, y * c.scaleY
}

// pixelScale is the mean logical-to-pixel factor used for radii and widths.
func (c *Canvas) pixelScale() float64 {
	return (c.scaleX + c.scaleY) * 0.5
}

// fillCircle covers every pixel whose center lies in the disc. Discs smaller
// than a pixel still light the pixel under their center.
func (c *Canvas) fillCircle(cmd *Command) {
	cx, cy := c.toPixel(cmd.X, cmd.Y)
	r := cmd.R * c.pixelScale()

	hit := false
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				c.blend(x, y, cmd.Color, cmd.Alpha)
				hit = true
			}
		}
	}
	if !hit {
		c.blend(int(math.Floor(cx)), int(math.Floor(cy)), cmd.Color, cmd.Alpha)
	}
}

// strokeCircle covers pixels whose centers lie within half a stroke width of
// the circle, never thinner than one pixel.
func (c *Canvas) strokeCircle(cmd *Command) {
	s := c.pixelScale()
	cx, cy := c.toPixel(cmd.X, cmd.Y)
	r := cmd.R * s
	half := math.Max(cmd.Width*s*0.5, 0.5)

	if r < half {
		c.blend(int(math.Floor(cx)), int(math.Floor(cy)), cmd.Color, cmd.Alpha)
		return
	}

	outer := r + half
	for y := int(math.Floor(cy - outer)); y <= int(math.Ceil(cy+outer)); y++ {
		for x := int(math.Floor(cx - outer)); x <= int(math.Ceil(cx+outer)); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if math.Abs(math.Sqrt(dx*dx+dy*dy)-r) <= half {
				c.blend(x, y, cmd.Color, cmd.Alpha)
			}
		}
	}
}

// drawLine draws a one-pixel line using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) drawLine(p1, p2 Point, col Color, alpha float64) {
	fx1, fy1 := c.toPixel(p1.X, p1.Y)
	fx2, fy2 := c.toPixel(p2.X, p2.Y)
	x1, y1 := int(math.Floor(fx1)), int(math.Floor(fy1))
	x2, y2 := int(math.Floor(fx2)), int(math.Floor(fy2))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.blend(x1, y1, col, alpha)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillPolygon fills a polygon using a scanline algorithm in pixel space.
func (c *Canvas) fillPolygon(points []Point, col Color, alpha float64) {
	if len(points) < 3 {
		return
	}

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i].X, scaled[i].Y = c.toPixel(p.X, p.Y)
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.blend(x, y, col, alpha)
			}
		}
	}
}

// Render writes the cells that changed since the previous Render. Each cell
// is an upper half block colored with its two pixels.
func (c *Canvas) Render(cw *ChunkWriter) {
	cursorCol, cursorRow := -1, -1
	var fg, bg Color
	hasFg, hasBg := false, false

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			next := cell{
				top:    toColor(c.pixels[topOffset+col]),
				bottom: toColor(c.pixels[bottomOffset+col]),
			}
			idx := row*c.termWidth + col
			if c.shownFull && c.shown[idx] == next {
				continue
			}
			c.shown[idx] = next

			if col != cursorCol || row != cursorRow {
				cw.MoveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			}

			if !hasBg || bg != next.bottom {
				cw.SetBackground(next.bottom)
				bg, hasBg = next.bottom, true
			}
			if next.top == next.bottom {
				cw.WriteRune(BlockEmpty)
			} else {
				if !hasFg || fg != next.top {
					cw.SetForeground(next.top)
					fg, hasFg = next.top, true
				}
				cw.WriteRune(BlockUpperHalf)
			}
			cursorCol, cursorRow = col+1, row
		}
	}
	if hasBg {
		cw.ResetStyle()
	}
	c.shownFull = true
}

func fromColor(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func toColor(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
