// Package engine implements the draft state machine: a pure, deterministic
// core that validates and applies actions, passes packs between seats,
// advances rounds, and drives bot turns.
//
// Session values are immutable: Submit returns a new Session and never
// touches the receiver. Serializing mutations across callers is the
// caller's job (see the lobby actor).
package engine

import (
	"fmt"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/packs"
	"github.com/google/uuid"
)

// Session wraps the draft state with the bot picker collaborator.
type Session struct {
	state  State
	picker Picker
}

// Option customizes session construction.
type Option func(*Session)

// WithPicker swaps the bot decision adapter.
func WithPicker(p Picker) Option {
	return func(s *Session) { s.picker = p }
}

// NewSession creates a draft in setup status with no players and no packs.
func NewSession(cfg Config, opts ...Option) (Session, error) {
	return newSession(uuid.NewString(), cfg, opts...)
}

func newSession(id string, cfg Config, opts ...Option) (Session, error) {
	if err := ValidateConfig(cfg); err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()
	s := Session{
		state: State{
			ID:        id,
			Config:    cfg,
			Status:    StatusSetup,
			Direction: Clockwise,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.picker == nil {
		p, err := NewHeuristicPicker(id)
		if err != nil {
			return Session{}, err
		}
		s.picker = p
	}
	return s, nil
}

// Replay reconstructs a session by re-applying a recorded history against a
// fresh session built from the same config. Bot picks are part of history,
// so replay never consults the picker; any failure aborts the whole replay.
func Replay(id string, cfg Config, history []Action, opts ...Option) (Session, error) {
	s, err := newSession(id, cfg, opts...)
	if err != nil {
		return Session{}, err
	}
	for i, a := range history {
		st, _, err := apply(s.state, a)
		if err != nil {
			return Session{}, fmt.Errorf("replay action %d (%s): %w", i, a.Type, err)
		}
		s.state = st
	}
	return s, nil
}

// ApplyRecorded applies one already-recorded action without running the
// bot cascade. Replay tooling steps through history with it; recorded bot
// picks replay as ordinary actions.
func (s Session) ApplyRecorded(a Action) (Session, error) {
	st, _, err := apply(s.state, a)
	if err != nil {
		return s, err
	}
	s.state = st
	return s, nil
}

// ID returns the draft id.
func (s Session) ID() string { return s.state.ID }

// State returns the current state. Callers must treat it as read-only.
func (s Session) State() State { return s.state }

// Status returns the lifecycle status.
func (s Session) Status() Status { return s.state.Status }

// History returns the applied action log.
func (s Session) History() []Action { return s.state.History }

// Submit validates and applies one action, returning the resulting session.
// On failure the receiver is returned unchanged. A pick by the human
// triggers the synchronous bot cascade; every bot pick it produces is
// appended to history as its own MakePick action.
func (s Session) Submit(a Action) (Session, []Event, error) {
	if a.Type == ActionUndo {
		return s.undo()
	}

	st, events, err := apply(s.state, a)
	if err != nil {
		return s, nil, err
	}

	if a.Type == ActionMakePick || a.Type == ActionTimeOutPick {
		var cascadeEvents []Event
		st, cascadeEvents, err = runBotCascade(st, s.picker)
		if err != nil {
			return s, nil, err
		}
		events = append(events, cascadeEvents...)
	}

	next := s
	next.state = st
	return next, events, nil
}

// undo rebuilds the session by replaying every action except the last.
// Cost is O(history length); acceptable for draft-sized histories.
func (s Session) undo() (Session, []Event, error) {
	n := len(s.state.History)
	if n == 0 {
		return s, nil, fmt.Errorf("%w: nothing to undo", ErrActionNotAllowed)
	}

	history := append([]Action(nil), s.state.History[:n-1]...)
	rebuilt, err := Replay(s.state.ID, s.state.Config, history, WithPicker(s.picker))
	if err != nil {
		return s, nil, err
	}
	rebuilt.state.CreatedAt = s.state.CreatedAt
	return rebuilt, nil, nil
}

// apply is the raw transition: validate, clone, mutate, append to history.
// It never runs the bot cascade; replay and the cascade itself both route
// through here.
func apply(st State, a Action) (State, []Event, error) {
	switch a.Type {
	case ActionAddPlayer:
		return applyAddPlayer(st, a)
	case ActionStartDraft:
		return applyStartDraft(st, a)
	case ActionMakePick:
		return applyPick(st, a, a.CardID)
	case ActionTimeOutPick:
		return applyTimeOut(st, a)
	default:
		return st, nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}

func applyAddPlayer(st State, a Action) (State, []Event, error) {
	if err := ValidateAddPlayer(&st, a.PlayerID, a.PlayerName, a.Human); err != nil {
		return st, nil, err
	}
	if !a.Human && !a.Personality.Valid() {
		return st, nil, &ValidationError{Field: "personality", Value: string(a.Personality)}
	}

	ns := st.clone()
	player := Player{
		ID:    a.PlayerID,
		Name:  a.PlayerName,
		Human: a.Human,
		Seat:  len(ns.Players),
	}
	if !a.Human {
		player.Personality = a.Personality
	}
	ns.Players = append(ns.Players, player)
	ns.History = append(ns.History, a)
	ns.UpdatedAt = time.Now().UTC()

	return ns, []Event{{Type: EvtPlayerAdded, PlayerID: a.PlayerID}}, nil
}

func applyStartDraft(st State, a Action) (State, []Event, error) {
	if err := ValidateStartDraft(&st); err != nil {
		return st, nil, err
	}
	if len(st.Config.CardPool) == 0 {
		return st, nil, &InternalStateError{Detail: "pack generation requires set data"}
	}

	ns := st.clone()

	// The same draft always regenerates identical packs on reconstruction.
	seed := fmt.Sprintf("%s-%d", ns.ID, len(ns.Players))
	gen, err := packs.NewGenerator(ns.Config.SetCode, ns.Config.CardPool, seed)
	if err != nil {
		return st, nil, &InternalStateError{Detail: "pack generator: " + err.Error()}
	}

	ns.Packs = make([][]packs.Pack, TotalRounds)
	for r := 1; r <= TotalRounds; r++ {
		ns.Packs[r-1] = gen.GenerateRound(r, len(ns.Players))
	}

	dealRound(&ns, 1)
	ns.Status = StatusActive
	ns.History = append(ns.History, a)
	ns.UpdatedAt = time.Now().UTC()

	return ns, []Event{{Type: EvtDraftStarted, Round: 1}}, nil
}

func applyPick(st State, a Action, cardID string) (State, []Event, error) {
	if cardID == "" {
		return st, nil, fmt.Errorf("%w: empty card id", ErrInvalidPick)
	}
	if err := ValidateMakePick(&st, a.PlayerID, cardID); err != nil {
		return st, nil, err
	}

	ns := st.clone()
	player := ns.PlayerByID(a.PlayerID)
	pack := player.Queue[0]

	smaller, card, ok := pack.WithoutCard(cardID)
	if !ok {
		return st, nil, &InternalStateError{Detail: "validated card vanished from pack"}
	}

	player.Picked = append(player.Picked, card)
	player.Queue = player.Queue[1:]
	player.RoundPicks++

	// An emptied pack is dropped, never passed again.
	if len(smaller.Cards) > 0 {
		next := ns.Direction.NextSeat(player.Seat, len(ns.Players))
		receiver := ns.playerBySeat(next)
		if receiver == nil {
			return st, nil, &InternalStateError{Detail: fmt.Sprintf("no player at seat %d", next)}
		}
		receiver.Queue = append(receiver.Queue, smaller)
	}

	events := []Event{{Type: EvtCardPicked, PlayerID: a.PlayerID, CardID: card.ID, Round: ns.Round}}

	minPicks := ns.Players[0].RoundPicks
	for i := range ns.Players {
		if ns.Players[i].RoundPicks < minPicks {
			minPicks = ns.Players[i].RoundPicks
		}
	}
	ns.Pick = minPicks + 1

	if !ns.PacksRemaining() {
		if ns.Round < TotalRounds {
			dealRound(&ns, ns.Round+1)
			events = append(events, Event{Type: EvtRoundAdvanced, Round: ns.Round})
		} else {
			ns.Status = StatusComplete
			events = append(events, Event{Type: EvtDraftCompleted})
		}
	}

	ns.History = append(ns.History, a)
	ns.UpdatedAt = time.Now().UTC()
	return ns, events, nil
}

// applyTimeOut auto-picks the first card of the pack: stable, not random.
func applyTimeOut(st State, a Action) (State, []Event, error) {
	if err := ValidateMakePick(&st, a.PlayerID, ""); err != nil {
		return st, nil, err
	}
	player := st.PlayerByID(a.PlayerID)
	first := player.Queue[0].Cards[0].ID
	return applyPick(st, a, first)
}

// dealRound assigns a round's pre-generated packs to seats and resets the
// per-round counters. Direction alternates strictly by round.
func dealRound(ns *State, round int) {
	ns.Round = round
	ns.Pick = 1
	ns.Direction = directionFor(round)
	for i := range ns.Players {
		ns.Players[i].Queue = []packs.Pack{ns.Packs[round-1][ns.Players[i].Seat]}
		ns.Players[i].RoundPicks = 0
	}
}

// runBotCascade lets bots catch up to the human, in player-list order. A
// bot picks while it holds a non-empty pack and is behind the human's pick
// count for the round; its picks land in history like any other action.
func runBotCascade(st State, picker Picker) (State, []Event, error) {
	var events []Event
	for {
		if st.Status != StatusActive {
			return st, events, nil
		}
		human := st.HumanPlayer()
		if human == nil {
			return st, nil, &InternalStateError{Detail: "active draft without a human player"}
		}

		progressed := false
		for i := range st.Players {
			bot := &st.Players[i]
			if bot.Human {
				continue
			}
			pack := bot.CurrentPack()
			if pack == nil || len(pack.Cards) == 0 {
				continue
			}
			if bot.RoundPicks >= human.RoundPicks {
				continue
			}

			decision, err := picker.Pick(pack.Cards, bot.Picked, PickContext{
				Round:     st.Round,
				Pick:      st.Pick,
				Seat:      bot.Seat,
				Direction: st.Direction,
				Players:   len(st.Players),
			}, bot.Personality)
			if err != nil {
				return st, nil, &BotError{BotID: bot.ID, Err: err}
			}
			if !pack.Contains(decision.Card.ID) {
				return st, nil, &BotError{BotID: bot.ID, Err: fmt.Errorf("picked card %s outside the pack", decision.Card.ID)}
			}

			ns, evts, err := apply(st, Action{Type: ActionMakePick, PlayerID: bot.ID, CardID: decision.Card.ID})
			if err != nil {
				return st, nil, &BotError{BotID: bot.ID, Err: err}
			}
			for e := range evts {
				if evts[e].Type == EvtCardPicked {
					evts[e].Confidence = decision.Confidence
				}
			}
			st = ns
			events = append(events, evts...)
			progressed = true
			break
		}

		if !progressed {
			return st, events, nil
		}
	}
}

func (s *State) playerBySeat(seat int) *Player {
	for i := range s.Players {
		if s.Players[i].Seat == seat {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentPack returns the pack a player would pick from, or nil. The pack
// is a copy; mutating it cannot affect the session.
func (s Session) CurrentPack(playerID string) *packs.Pack {
	player := s.state.PlayerByID(playerID)
	if player == nil {
		return nil
	}
	cur := player.CurrentPack()
	if cur == nil {
		return nil
	}
	cp := *cur
	cp.Cards = append([]cards.Card(nil), cur.Cards...)
	return &cp
}

// PickedCards returns a copy of a player's picked cards, nil for unknown
// players.
func (s Session) PickedCards(playerID string) []cards.Card {
	player := s.state.PlayerByID(playerID)
	if player == nil {
		return nil
	}
	return append([]cards.Card(nil), player.Picked...)
}

// CanMakePick reports pick legality without applying anything.
func (s Session) CanMakePick(playerID, cardID string) bool {
	return ValidateMakePick(&s.state, playerID, cardID) == nil
}

// LegalActions lists the action types a player could currently submit.
func (s Session) LegalActions(playerID string) []ActionType {
	var out []ActionType
	switch s.state.Status {
	case StatusSetup:
		out = append(out, ActionAddPlayer)
		if ValidateStartDraft(&s.state) == nil {
			out = append(out, ActionStartDraft)
		}
	case StatusActive:
		if ValidateMakePick(&s.state, playerID, "") == nil {
			out = append(out, ActionMakePick, ActionTimeOutPick)
		}
	}
	if len(s.state.History) > 0 && s.state.Status != StatusComplete {
		out = append(out, ActionUndo)
	}
	return out
}
