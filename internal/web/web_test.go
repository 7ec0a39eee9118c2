package web

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/loop/config"
	"github.com/tomz197/backdrop/internal/object"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want loop.Event
	}{
		{"resize", `{"t":"resize","p":{"w":800,"h":600,"scale":2}}`, loop.Resized{Width: 800, Height: 600, Scale: 2}},
		{"resize default scale", `{"t":"resize","p":{"w":10,"h":20}}`, loop.Resized{Width: 10, Height: 20, Scale: 1}},
		{"resize negative", `{"t":"resize","p":{"w":-5,"h":20,"scale":1}}`, loop.Resized{Width: 0, Height: 20, Scale: 1}},
		{"resize oversized", `{"t":"resize","p":{"w":1e7,"h":20000,"scale":100}}`, loop.Resized{Width: config.MaxSurfaceSize, Height: config.MaxSurfaceSize, Scale: 8}},
		{"pointer", `{"t":"pointer","p":{"x":3,"y":4}}`, loop.PointerMoved{X: 3, Y: 4}},
		{"pointer left", `{"t":"pointer","p":{"left":true}}`, loop.PointerLeft{}},
		{"click", `{"t":"click","p":{"x":1.5,"y":2.5}}`, loop.Clicked{X: 1.5, Y: 2.5}},
		{"hidden", `{"t":"visibility","p":{"hidden":true}}`, loop.VisibilityChanged{Hidden: true}},
		{"theme", `{"t":"theme","p":{"theme":"light"}}`, loop.ThemeChanged{Theme: object.ThemeLight}},
		{"refresh", `{"t":"refresh"}`, loop.Refreshed{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte(`{"t":"jump"}`)); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("unknown type err = %v", err)
	}
	for _, in := range []string{`not json`, `{"t":"resize"}`, `{"t":"click","p":"x"}`} {
		if _, err := Decode([]byte(in)); err == nil {
			t.Fatalf("Decode(%s) succeeded", in)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(MsgClick, PointerPayload{X: 7, Y: 9})
	if err != nil {
		t.Fatal(err)
	}
	ev, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if ev != (loop.Clicked{X: 7, Y: 9}) {
		t.Fatalf("event %#v", ev)
	}
}

func TestEncodeFrame(t *testing.T) {
	var f draw.Frame
	f.Reset(3, 100, 50, 1, draw.RGB(1, 2, 3))
	f.Line(draw.Point{X: 1, Y: 2}, draw.Point{X: 3, Y: 4}, 1.2, draw.RGB(255, 0, 0), 0.5)

	data, err := EncodeFrame(&f)
	if err != nil {
		t.Fatal(err)
	}
	var got draw.Frame
	if err := msgpack.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Tick != 3 || got.Background != draw.RGB(1, 2, 3) || len(got.Commands) != 1 {
		t.Fatalf("frame %+v", got)
	}
	if c := got.Commands[0]; c.Op != draw.OpLine || c.Points[1] != (draw.Point{X: 3, Y: 4}) {
		t.Fatalf("command %+v", c)
	}
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewHandler(loop.Options{Particles: 30, Seed: 5}, log.New(io.Discard)))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	data, err := Encode(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) draw.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Fatalf("message type %d", msgType)
	}
	var f draw.Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return f
}

func TestSessionStreamsFrames(t *testing.T) {
	conn := dial(t)
	send(t, conn, MsgResize, ResizePayload{W: 640, H: 360, Scale: 2})

	f := readFrame(t, conn)
	if f.Width != 640 || f.Height != 360 || f.Scale != 2 {
		t.Fatalf("frame surface %vx%v@%v", f.Width, f.Height, f.Scale)
	}
	if f.Background != object.ThemeDark.Background() {
		t.Fatalf("background %+v", f.Background)
	}
	if len(f.Commands) == 0 {
		t.Fatal("frame has no commands")
	}

	next := readFrame(t, conn)
	if next.Tick <= f.Tick {
		t.Fatalf("ticks not increasing: %d then %d", f.Tick, next.Tick)
	}
}

func TestSessionAppliesTheme(t *testing.T) {
	conn := dial(t)
	send(t, conn, MsgResize, ResizePayload{W: 320, H: 200, Scale: 1})
	send(t, conn, MsgTheme, ThemePayload{Theme: "light"})

	want := object.ThemeLight.Background()
	for range 30 {
		if f := readFrame(t, conn); f.Background == want {
			return
		}
	}
	t.Fatal("theme change never reached the frames")
}

func TestSessionIgnoresBadMessages(t *testing.T) {
	conn := dial(t)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	send(t, conn, MsgResize, ResizePayload{W: 100, H: 100, Scale: 1})

	if f := readFrame(t, conn); f.Width != 100 {
		t.Fatalf("frame width %v", f.Width)
	}
}
