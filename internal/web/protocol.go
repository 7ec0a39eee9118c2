// Package web streams the animation to a browser over a websocket. The page
// sends JSON envelopes describing its surface and pointer; the server answers
// every tick with one msgpack-encoded frame.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/backdrop/internal/draw"
	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/loop/config"
	"github.com/tomz197/backdrop/internal/object"
)

// Message types sent by the page.
const (
	MsgResize     = "resize"
	MsgPointer    = "pointer"
	MsgClick      = "click"
	MsgVisibility = "visibility"
	MsgTheme      = "theme"
	MsgRefresh    = "refresh"
)

// maxScale bounds the reported device pixel ratio.
const maxScale = 8

// ErrUnknownMessage is returned by Decode for an unrecognized envelope type.
var ErrUnknownMessage = errors.New("web: unknown message type")

// Envelope wraps every inbound message.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// ResizePayload reports the surface size in CSS pixels and the device pixel ratio.
type ResizePayload struct {
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Scale float64 `json:"scale"`
}

// PointerPayload is the pointer position. Left marks the pointer leaving the page.
type PointerPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Left bool    `json:"left,omitempty"`
}

// VisibilityPayload follows document.hidden.
type VisibilityPayload struct {
	Hidden bool `json:"hidden"`
}

// ThemePayload names the page theme, "dark" or "light".
type ThemePayload struct {
	Theme string `json:"theme"`
}

// Encode builds an envelope of type t around payload.
func Encode(t string, payload any) ([]byte, error) {
	env := Envelope{T: t}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		env.P = raw
	}
	return json.Marshal(env)
}

// Decode turns one inbound message into a driver event.
func Decode(data []byte) (loop.Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.T {
	case MsgResize:
		var p ResizePayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if !finite(p.W) || !finite(p.H) || !finite(p.Scale) {
			return nil, fmt.Errorf("decode %s: non-finite size", env.T)
		}
		if p.Scale <= 0 {
			p.Scale = 1
		}
		return loop.Resized{
			Width:  min(max(p.W, 0), config.MaxSurfaceSize),
			Height: min(max(p.H, 0), config.MaxSurfaceSize),
			Scale:  min(p.Scale, maxScale),
		}, nil
	case MsgPointer:
		var p PointerPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		if p.Left {
			return loop.PointerLeft{}, nil
		}
		return loop.PointerMoved{X: p.X, Y: p.Y}, nil
	case MsgClick:
		var p PointerPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return loop.Clicked{X: p.X, Y: p.Y}, nil
	case MsgVisibility:
		var p VisibilityPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return loop.VisibilityChanged{Hidden: p.Hidden}, nil
	case MsgTheme:
		var p ThemePayload
		if err := unmarshalPayload(env, &p); err != nil {
			return nil, err
		}
		return loop.ThemeChanged{Theme: object.ParseTheme(p.Theme)}, nil
	case MsgRefresh:
		return loop.Refreshed{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.T)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unmarshalPayload(env Envelope, v any) error {
	if len(env.P) == 0 {
		return fmt.Errorf("decode %s: missing payload", env.T)
	}
	if err := json.Unmarshal(env.P, v); err != nil {
		return fmt.Errorf("decode %s: %w", env.T, err)
	}
	return nil
}

// EncodeFrame serializes a frame for the page. The result does not alias f.
func EncodeFrame(f *draw.Frame) ([]byte, error) {
	return msgpack.Marshal(f)
}
