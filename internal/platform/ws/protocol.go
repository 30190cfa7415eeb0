// Package ws serves headless Digger games over websockets.
//
// Each connection to /play gets a private game instance that the server
// advances at a fixed frame rate. The server pushes a Frame whenever the
// simulation ticks or the game state changes; the client sends input
// messages.
package ws

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/digger/internal/core"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

// Message types.
const (
	TypeFrame   = "frame"
	TypeInput   = "input"
	TypeRestart = "restart"
	TypePause   = "pause"
)

// Frame is the state pushed to the client.
type Frame struct {
	Type   string   `json:"type"`
	Tick   uint64   `json:"tick"`
	Score  int      `json:"score"`
	Level  string   `json:"level"`
	Rows   []string `json:"rows"`
	Over   bool     `json:"over"`
	Won    bool     `json:"won"`
	Paused bool     `json:"paused"`
}

// ClientMsg is a message sent by the client.
type ClientMsg struct {
	Type string `json:"type"`
	Dir  string `json:"dir,omitempty"` // For input messages
}

// LevelInfo describes a playable level in the /levels listing.
type LevelInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// decodeClientMsg parses a client message into the platform action it requests.
func decodeClientMsg(b []byte) (core.Action, error) {
	var msg ClientMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return core.ActionNone, err
	}

	switch msg.Type {
	case TypeRestart:
		return core.ActionRestart, nil
	case TypePause:
		return core.ActionPause, nil
	case TypeInput:
		dir, ok := sim.ParseDir(msg.Dir)
		if !ok {
			return core.ActionNone, fmt.Errorf("unknown direction %q", msg.Dir)
		}
		return actionFor(dir), nil
	}
	return core.ActionNone, fmt.Errorf("unknown message type %q", msg.Type)
}

// actionFor maps a simulation direction to the platform action.
func actionFor(d sim.Dir) core.Action {
	switch d {
	case sim.DirUp:
		return core.ActionUp
	case sim.DirDown:
		return core.ActionDown
	case sim.DirLeft:
		return core.ActionLeft
	case sim.DirRight:
		return core.ActionRight
	}
	return core.ActionNone
}
