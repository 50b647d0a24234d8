package engine

// ActionType tags the draft action union.
type ActionType string

const (
	ActionAddPlayer   ActionType = "ADD_PLAYER"
	ActionStartDraft  ActionType = "START_DRAFT"
	ActionMakePick    ActionType = "MAKE_PICK"
	ActionTimeOutPick ActionType = "TIME_OUT_PICK"
	ActionUndo        ActionType = "UNDO_LAST_ACTION"
)

// Action is the only mutation vector. Fields are primitives so every action
// is trivially loggable and replayable.
type Action struct {
	Type        ActionType  `json:"type"`
	PlayerID    string      `json:"playerId,omitempty"`
	PlayerName  string      `json:"playerName,omitempty"`
	Human       bool        `json:"human,omitempty"`
	Personality Personality `json:"personality,omitempty"`
	CardID      string      `json:"cardId,omitempty"`
}

// EventType tags notifications emitted alongside a successful transition.
type EventType string

const (
	EvtPlayerAdded    EventType = "PlayerAdded"
	EvtDraftStarted   EventType = "DraftStarted"
	EvtCardPicked     EventType = "CardPicked"
	EvtRoundAdvanced  EventType = "RoundAdvanced"
	EvtDraftCompleted EventType = "DraftCompleted"
)

// Event describes one observable consequence of an applied action. Events
// are for broadcast only; replay reconstructs state from actions, not events.
type Event struct {
	Type       EventType `json:"type"`
	PlayerID   string    `json:"playerId,omitempty"`
	CardID     string    `json:"cardId,omitempty"`
	Round      int       `json:"round,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}
