package draw

// Point represents a 2D coordinate.
type Point struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
}

// Color is an opaque RGB triple. Transparency travels separately on each
// Command so the same palette entry can be drawn at any alpha.
type Color struct {
	R uint8 `msgpack:"r"`
	G uint8 `msgpack:"g"`
	B uint8 `msgpack:"b"`
}

// RGB builds a Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Op identifies a drawing primitive.
type Op uint8

const (
	OpFillCircle   Op = iota // Filled disc at (X,Y) with radius R
	OpStrokeCircle           // Circle outline at (X,Y) with radius R
	OpLine                   // Segment Points[0]..Points[1]
	OpFillPolygon            // Closed filled polygon over Points[:N]
	OpStrokePolygon          // Closed polygon outline over Points[:N]
)

// MaxPolygonPoints bounds the vertex count of polygon commands so that every
// Command is a fixed-size value.
const MaxPolygonPoints = 4

// Command is one drawing instruction in logical (device-independent) units.
type Command struct {
	Op     Op                      `msgpack:"op"`
	X      float64                 `msgpack:"x,omitempty"`
	Y      float64                 `msgpack:"y,omitempty"`
	R      float64                 `msgpack:"r,omitempty"`
	N      int                     `msgpack:"n,omitempty"`
	Points [MaxPolygonPoints]Point `msgpack:"pts,omitempty"`
	Color  Color                   `msgpack:"c"`
	Alpha  float64                 `msgpack:"a"`
	Width  float64                 `msgpack:"w,omitempty"`
}

// Frame is the ordered list of drawing commands produced by one tick.
// The surface is cleared to Background before Commands are applied.
type Frame struct {
	Tick       uint64    `msgpack:"tick"`
	Width      float64   `msgpack:"w"`
	Height     float64   `msgpack:"h"`
	Scale      float64   `msgpack:"s"`
	Background Color     `msgpack:"bg"`
	Commands   []Command `msgpack:"cmds"`
}

// Reset empties the frame for a new tick while keeping the command buffer.
func (f *Frame) Reset(tick uint64, width, height, scale float64, background Color) {
	f.Tick = tick
	f.Width = width
	f.Height = height
	f.Scale = scale
	f.Background = background
	f.Commands = f.Commands[:0]
}

// FillCircle appends a filled disc.
func (f *Frame) FillCircle(x, y, r float64, c Color, alpha float64) {
	f.Commands = append(f.Commands, Command{Op: OpFillCircle, X: x, Y: y, R: r, Color: c, Alpha: alpha})
}

// StrokeCircle appends a circle outline.
func (f *Frame) StrokeCircle(x, y, r, width float64, c Color, alpha float64) {
	f.Commands = append(f.Commands, Command{Op: OpStrokeCircle, X: x, Y: y, R: r, Width: width, Color: c, Alpha: alpha})
}

// Line appends a line segment.
func (f *Frame) Line(p1, p2 Point, width float64, c Color, alpha float64) {
	cmd := Command{Op: OpLine, N: 2, Width: width, Color: c, Alpha: alpha}
	cmd.Points[0] = p1
	cmd.Points[1] = p2
	f.Commands = append(f.Commands, cmd)
}

// FillPolygon appends a filled polygon. Points beyond MaxPolygonPoints are
// ignored; fewer than three points draw nothing.
func (f *Frame) FillPolygon(points []Point, c Color, alpha float64) {
	f.polygon(OpFillPolygon, points, 0, c, alpha)
}

// StrokePolygon appends a closed polygon outline.
func (f *Frame) StrokePolygon(points []Point, width float64, c Color, alpha float64) {
	f.polygon(OpStrokePolygon, points, width, c, alpha)
}

func (f *Frame) polygon(op Op, points []Point, width float64, c Color, alpha float64) {
	if len(points) < 3 {
		return
	}
	cmd := Command{Op: op, Width: width, Color: c, Alpha: alpha}
	cmd.N = copy(cmd.Points[:], points)
	f.Commands = append(f.Commands, cmd)
}

// Painter draws a frame onto some surface.
type Painter interface {
	Paint(f *Frame)
}
