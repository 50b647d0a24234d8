package engine

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Structured errors below wrap these so callers can
// match with errors.Is and still read the attached context.
var (
	ErrInvalidPick      = errors.New("invalid pick")
	ErrCardNotAvailable = errors.New("card not available")
	ErrWrongTurn        = errors.New("not this player's turn")

	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerExists       = errors.New("player already exists")
	ErrInvalidPlayerCount = errors.New("invalid player count")

	ErrNotActive      = errors.New("draft not active")
	ErrAlreadyStarted = errors.New("draft already started")
	ErrDraftComplete  = errors.New("draft complete")
	ErrInternalState  = errors.New("invalid internal state")

	ErrNoPack    = errors.New("no pack available")
	ErrPackEmpty = errors.New("pack empty")

	ErrUnknownAction    = errors.New("unknown action")
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrValidation       = errors.New("validation failed")

	ErrBot = errors.New("bot error")
)

// CardNotAvailableError reports a pick of a card missing from the player's
// pack, carrying the cards that were available.
type CardNotAvailableError struct {
	CardID    string
	Available []string
}

func (e *CardNotAvailableError) Error() string {
	return fmt.Sprintf("card %s not available (pack holds %d cards)", e.CardID, len(e.Available))
}

func (e *CardNotAvailableError) Unwrap() error { return ErrCardNotAvailable }

// WrongTurnError reports a human pick out of turn.
type WrongTurnError struct {
	PlayerID string
}

func (e *WrongTurnError) Error() string {
	return fmt.Sprintf("player %s has no pack to pick from", e.PlayerID)
}

func (e *WrongTurnError) Unwrap() error { return ErrWrongTurn }

// PlayerNotFoundError reports an action addressed to an unknown player.
type PlayerNotFoundError struct {
	PlayerID string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %s not found", e.PlayerID)
}

func (e *PlayerNotFoundError) Unwrap() error { return ErrPlayerNotFound }

// PlayerCountError reports a player count outside the allowed range.
type PlayerCountError struct {
	Actual, Min, Max int
}

func (e *PlayerCountError) Error() string {
	return fmt.Sprintf("player count %d outside %d..%d", e.Actual, e.Min, e.Max)
}

func (e *PlayerCountError) Unwrap() error { return ErrInvalidPlayerCount }

// NotActiveError reports a mutation attempted outside the active status.
type NotActiveError struct {
	Status Status
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("draft not active (status %s)", e.Status)
}

func (e *NotActiveError) Unwrap() error { return ErrNotActive }

// InternalStateError is reserved for otherwise-unreachable invariant
// violations inside the engine itself.
type InternalStateError struct {
	Detail string
}

func (e *InternalStateError) Error() string {
	return "invalid internal state: " + e.Detail
}

func (e *InternalStateError) Unwrap() error { return ErrInternalState }

// ValidationError reports a single bad field on an action.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s=%q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BotError wraps a failure from the bot adapter with the bot's identity.
// A bot being handed a malformed state is an engine bug and must surface.
type BotError struct {
	BotID string
	Err   error
}

func (e *BotError) Error() string {
	return fmt.Sprintf("bot %s: %v", e.BotID, e.Err)
}

func (e *BotError) Unwrap() error { return ErrBot }
