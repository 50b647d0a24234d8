package types

// Client -> Server
// AddPlayer:
//   player_id: string
//   player_name: string
//   human: boolean
//   personality: "bronze" | "silver" | "gold" | "mythic" (bots only)
//
// StartDraft: {}
//
// MakePick:
//   player_id: string
//   card_id: string
//
// TimeOutPick:
//   player_id: string
//
// Undo: {}
//
// PrimeTimer: {}

// Server -> Client
// StateSnapshot:
//   version: number
//   state: full draft state (see snapshot.go)
//   events: emitted by the last applied action
//
// Error:
//   error: string
