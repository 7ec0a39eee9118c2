package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/loop/config"
)

// Handler upgrades requests to websockets and runs one independent
// animation per connection.
type Handler struct {
	opts     loop.Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a handler whose sessions start from opts.
func NewHandler(opts loop.Options, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			// The page is served from the same host; any origin may watch.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	logger := h.logger.With("remote", r.RemoteAddr)
	s := &session{
		conn:   conn,
		driver: loop.NewDriver(loop.NewWorld(h.opts), logger),
		frames: make(chan []byte, config.FrameQueueSize),
		logger: logger,
	}

	logger.Info("session started")
	start := time.Now()
	if err := s.run(r.Context()); err != nil {
		logger.Warn("session failed", "err", err)
	}
	logger.Info("session ended", "duration", time.Since(start).Round(time.Second),
		"ticks", s.driver.World().Ticks(), "skipped", s.skipped, "dropped", s.driver.Dropped())
}

// session owns one connection. Only writeLoop writes to conn and only
// readLoop reads from it.
type session struct {
	conn    *websocket.Conn
	driver  *loop.Driver
	frames  chan []byte
	logger  *log.Logger
	skipped int // Frames dropped because the writer fell behind
}

func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readDone := make(chan struct{})
	writeDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer cancel()
		s.readLoop()
	}()
	go func() {
		defer close(writeDone)
		defer cancel()
		s.writeLoop(ctx)
	}()

	err := s.driver.Run(ctx, s.present)
	cancel()
	<-writeDone
	// Unblocks readLoop
	s.conn.Close()
	<-readDone
	return err
}

// present runs on the driver goroutine. Frames are encoded immediately since
// the driver reuses its buffer on the next tick.
func (s *session) present(f *draw.Frame) error {
	data, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	select {
	case s.frames <- data:
	default:
		s.skipped++
	}
	return nil
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(config.WebSocketMaxMsg)
	_ = s.conn.SetReadDeadline(time.Now().Add(config.WebSocketWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(config.WebSocketWait))
		return nil
	})

	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, net.ErrClosed) {
				s.logger.Debug("read", "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		ev, err := Decode(msg)
		if err != nil {
			s.logger.Debug("bad message", "err", err)
			continue
		}
		if !s.driver.Post(ev) {
			s.logger.Debug("event dropped", "event", ev)
		}
	}
}

func (s *session) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(config.WebSocketPing)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(config.WebSocketWrite))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-s.frames:
			_ = s.conn.SetWriteDeadline(time.Now().Add(config.WebSocketWrite))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.logger.Debug("write", "err", err)
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(config.WebSocketWrite))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Debug("ping", "err", err)
				return
			}
		}
	}
}
