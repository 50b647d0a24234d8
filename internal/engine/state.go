package engine

import (
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/packs"
)

// Status is the draft lifecycle, strictly forward.
type Status string

const (
	StatusSetup    Status = "setup"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

// Direction is the seat traversal order for pack passing.
type Direction string

const (
	Clockwise        Direction = "clockwise"
	Counterclockwise Direction = "counterclockwise"
)

// NextSeat returns the seat a pack moves to under d with n seats.
func (d Direction) NextSeat(seat, n int) int {
	if d == Counterclockwise {
		return (seat - 1 + n) % n
	}
	return (seat + 1) % n
}

// directionFor gives the pass direction of a round: odd rounds clockwise,
// even rounds counterclockwise.
func directionFor(round int) Direction {
	if round%2 == 0 {
		return Counterclockwise
	}
	return Clockwise
}

const (
	MinPlayers  = 2
	MaxPlayers  = 8
	TotalRounds = 3
)

// Config describes a draft before it exists. Immutable once a session is
// created; fully validated at StartDraft.
type Config struct {
	SetCode       string        `json:"setCode"`
	CardPool      []cards.Card  `json:"cardPool,omitempty"`
	PlayerTarget  int           `json:"playerTarget"`
	HumanPlayerID string        `json:"humanPlayerId"`
	Personalities []Personality `json:"personalities,omitempty"`
}

// Player is one seat in the draft. Seat assignment happens at add-time and
// never changes. Queue holds incoming packs in arrival order; the head is
// the pack the player is currently picking from.
type Player struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Human       bool         `json:"human"`
	Seat        int          `json:"seat"`
	Personality Personality  `json:"personality,omitempty"`
	Picked      []cards.Card `json:"picked"`
	Queue       []packs.Pack `json:"queue"`
	RoundPicks  int          `json:"roundPicks"`
}

// CurrentPack returns the pack the player would pick from, or nil.
func (p *Player) CurrentPack() *packs.Pack {
	if len(p.Queue) == 0 {
		return nil
	}
	return &p.Queue[0]
}

// State is the aggregate draft state. Values are treated as immutable:
// every transition clones before mutating.
type State struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	Players   []Player  `json:"players"`
	Round     int       `json:"round"`
	Pick      int       `json:"pick"`
	Direction Direction `json:"direction"`
	Status    Status    `json:"status"`
	History   []Action  `json:"history"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Packs holds every pack generated for the draft, indexed
	// [round-1][seat]. Populated once, at StartDraft.
	Packs [][]packs.Pack `json:"packs,omitempty"`
}

// PlayerByID returns a pointer into s.Players, or nil.
func (s *State) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// HumanPlayer returns the single human player, or nil before one is added.
func (s *State) HumanPlayer() *Player {
	for i := range s.Players {
		if s.Players[i].Human {
			return &s.Players[i]
		}
	}
	return nil
}

// PacksRemaining reports whether any player still holds cards this round.
func (s *State) PacksRemaining() bool {
	for i := range s.Players {
		for _, p := range s.Players[i].Queue {
			if len(p.Cards) > 0 {
				return true
			}
		}
	}
	return false
}

// clone produces a deep copy of the mutable parts of the state. Cards are
// value types and share backing safely only when slices are copied.
func (s State) clone() State {
	out := s

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cp := p
		cp.Picked = append([]cards.Card(nil), p.Picked...)
		cp.Queue = make([]packs.Pack, len(p.Queue))
		for j, pk := range p.Queue {
			pk.Cards = append([]cards.Card(nil), pk.Cards...)
			cp.Queue[j] = pk
		}
		out.Players[i] = cp
	}

	out.History = append([]Action(nil), s.History...)

	if s.Packs != nil {
		out.Packs = make([][]packs.Pack, len(s.Packs))
		for r, row := range s.Packs {
			out.Packs[r] = make([]packs.Pack, len(row))
			for seat, pk := range row {
				pk.Cards = append([]cards.Card(nil), pk.Cards...)
				out.Packs[r][seat] = pk
			}
		}
	}

	return out
}
