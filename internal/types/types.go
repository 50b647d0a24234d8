package types

import "github.com/DoyleJ11/mtg-draft-backend/internal/engine"

type ClientMessage struct {
	Type        string `json:"type"`
	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	Human       bool   `json:"human,omitempty"`
	Personality string `json:"personality,omitempty"`
	CardID      string `json:"card_id,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"` // "StateSnapshot" | "Error"
	Version int            `json:"version,omitempty"`
	State   *engine.State  `json:"state,omitempty"`
	Events  []engine.Event `json:"events,omitempty"`
	Error   string         `json:"error,omitempty"`
}
