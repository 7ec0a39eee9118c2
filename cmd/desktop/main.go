package main

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/backdrop/internal/config"
	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/loop"
	loopconfig "github.com/tomz197/backdrop/internal/loop/config"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
)

func main() {
	envErr := config.LoadDotEnv()
	logger := config.NewLogger("desktop")
	if envErr != nil {
		logger.Warn("env file ignored", "err", envErr)
	}

	g := newGame(loop.NewDriver(loop.NewWorld(config.WorldOptions()), logger))

	ebiten.SetWindowTitle("backdrop")
	ebiten.SetWindowSize(config.GetEnvInt("DESKTOP_WIDTH", defaultWidth), config.GetEnvInt("DESKTOP_HEIGHT", defaultHeight))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(loopconfig.TickRate)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("desktop error", "err", err)
	}
}

// game hosts the animation in a window. Update, Draw and Layout all run on
// ebiten's game goroutine, so the driver is used through Handle and Step.
type game struct {
	driver *loop.Driver

	width, height float64 // Window size in device-independent pixels
	scale         float64 // Device pixels per logical unit
	focused       bool
	frame         *draw.Frame // Latest frame, kept while paused

	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

func newGame(driver *loop.Driver) *game {
	return &game{driver: driver, scale: 1, focused: true}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.driver.Handle(loop.ThemeToggled{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.driver.Handle(loop.Refreshed{})
	}

	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		g.driver.Handle(loop.VisibilityChanged{Hidden: !focused})
	}

	g.driver.Handle(loop.Resized{Width: g.width, Height: g.height, Scale: g.scale})

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/g.scale, float64(cy)/g.scale
	if x >= 0 && y >= 0 && x < g.width && y < g.height {
		g.driver.Handle(loop.PointerMoved{X: x, Y: y})
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.driver.Handle(loop.Clicked{X: x, Y: y})
		}
	} else {
		g.driver.Handle(loop.PointerLeft{})
	}

	if f := g.driver.Step(); f != nil {
		g.frame = f
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		screen.Fill(color.Black)
		return
	}
	g.paint(screen, g.frame)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	g.width, g.height, g.scale = float64(outsideWidth), float64(outsideHeight), s
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// paint replays a frame's commands in device pixels.
func (g *game) paint(screen *ebiten.Image, f *draw.Frame) {
	screen.Fill(color.RGBA{R: f.Background.R, G: f.Background.G, B: f.Background.B, A: 255})

	s := f.Scale
	if s <= 0 {
		s = 1
	}
	for i := range f.Commands {
		cmd := &f.Commands[i]
		if cmd.Alpha <= 0 {
			continue
		}
		clr := nrgba(cmd.Color, cmd.Alpha)
		switch cmd.Op {
		case draw.OpFillCircle:
			vector.DrawFilledCircle(screen, float32(cmd.X*s), float32(cmd.Y*s), float32(cmd.R*s), clr, true)
		case draw.OpStrokeCircle:
			vector.StrokeCircle(screen, float32(cmd.X*s), float32(cmd.Y*s), float32(cmd.R*s), float32(cmd.Width*s), clr, true)
		case draw.OpLine:
			p1, p2 := cmd.Points[0], cmd.Points[1]
			vector.StrokeLine(screen, float32(p1.X*s), float32(p1.Y*s), float32(p2.X*s), float32(p2.Y*s), float32(cmd.Width*s), clr, true)
		case draw.OpFillPolygon, draw.OpStrokePolygon:
			g.polygon(screen, cmd, s, clr)
		}
	}
}

func (g *game) polygon(screen *ebiten.Image, cmd *draw.Command, s float64, clr color.NRGBA) {
	if cmd.N < 3 {
		return
	}
	var path vector.Path
	for i, p := range cmd.Points[:cmd.N] {
		if i == 0 {
			path.MoveTo(float32(p.X*s), float32(p.Y*s))
		} else {
			path.LineTo(float32(p.X*s), float32(p.Y*s))
		}
	}
	path.Close()

	if cmd.Op == draw.OpFillPolygon {
		g.vertices, g.indices = path.AppendVerticesAndIndicesForFilling(g.vertices[:0], g.indices[:0])
	} else {
		g.vertices, g.indices = path.AppendVerticesAndIndicesForStroke(g.vertices[:0], g.indices[:0], &vector.StrokeOptions{
			Width:    float32(cmd.Width * s),
			LineJoin: vector.LineJoinRound,
		})
	}

	// Vertex colors are premultiplied
	a := float32(clr.A) / 255
	for i := range g.vertices {
		v := &g.vertices[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(clr.R) / 255 * a
		v.ColorG = float32(clr.G) / 255 * a
		v.ColorB = float32(clr.B) / 255 * a
		v.ColorA = a
	}
	screen.DrawTriangles(g.vertices, g.indices, g.whiteImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// whiteImage is a 1x1 source for solid-color triangles.
func (g *game) whiteImage() *ebiten.Image {
	if g.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		g.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return g.white
}

func nrgba(c draw.Color, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(min(alpha, 1)*255 + 0.5)}
}
