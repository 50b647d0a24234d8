package engine

import (
	"errors"
	"testing"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/packs"
)

func activeState(players ...Player) State {
	return State{
		ID:        "d1",
		Status:    StatusActive,
		Round:     1,
		Pick:      1,
		Direction: Clockwise,
		Players:   players,
	}
}

func packOf(ids ...string) packs.Pack {
	var cs []cards.Card
	for _, id := range ids {
		cs = append(cs, cards.Card{ID: id, Rarity: cards.RarityCommon, Booster: true})
	}
	return packs.Pack{ID: "p", Cards: cs, Round: 1}
}

func TestValidateMakePick(t *testing.T) {
	cases := []struct {
		name     string
		state    State
		playerID string
		cardID   string
		wantErr  error
	}{
		{
			name:     "legal pick",
			state:    activeState(Player{ID: "h", Human: true, Queue: []packs.Pack{packOf("c1", "c2")}}),
			playerID: "h",
			cardID:   "c1",
		},
		{
			name:     "draft not active",
			state:    State{Status: StatusSetup, Players: []Player{{ID: "h", Human: true}}},
			playerID: "h",
			cardID:   "c1",
			wantErr:  ErrNotActive,
		},
		{
			name:     "draft complete",
			state:    State{Status: StatusComplete, Players: []Player{{ID: "h", Human: true}}},
			playerID: "h",
			cardID:   "c1",
			wantErr:  ErrDraftComplete,
		},
		{
			name:     "unknown player",
			state:    activeState(Player{ID: "h", Human: true, Queue: []packs.Pack{packOf("c1")}}),
			playerID: "ghost",
			cardID:   "c1",
			wantErr:  ErrPlayerNotFound,
		},
		{
			name:     "human without a pack is out of turn",
			state:    activeState(Player{ID: "h", Human: true}),
			playerID: "h",
			cardID:   "c1",
			wantErr:  ErrWrongTurn,
		},
		{
			name:     "bot without a pack",
			state:    activeState(Player{ID: "b", Personality: PersonalitySilver}),
			playerID: "b",
			cardID:   "c1",
			wantErr:  ErrNoPack,
		},
		{
			name:     "bot holding an emptied pack",
			state:    activeState(Player{ID: "b", Personality: PersonalitySilver, Queue: []packs.Pack{{ID: "DTK-r1-s1"}}}),
			playerID: "b",
			cardID:   "c1",
			wantErr:  ErrPackEmpty,
		},
		{
			name:     "card not in pack",
			state:    activeState(Player{ID: "h", Human: true, Queue: []packs.Pack{packOf("c1", "c2")}}),
			playerID: "h",
			cardID:   "c9",
			wantErr:  ErrCardNotAvailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateMakePick(&tc.state, tc.playerID, tc.cardID)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateMakePickReportsAvailableCards(t *testing.T) {
	s := activeState(Player{ID: "h", Human: true, Queue: []packs.Pack{packOf("c1", "c2", "c3")}})

	err := ValidateMakePick(&s, "h", "nope")
	var cna *CardNotAvailableError
	if !errors.As(err, &cna) {
		t.Fatalf("want CardNotAvailableError, got %v", err)
	}
	if len(cna.Available) != 3 || cna.CardID != "nope" {
		t.Fatalf("bad error context: %+v", cna)
	}
}

func TestValidateStartDraft(t *testing.T) {
	two := []Player{
		{ID: "h", Human: true, Seat: 0},
		{ID: "b", Seat: 1, Personality: PersonalitySilver},
	}

	cases := []struct {
		name    string
		state   State
		wantErr error
	}{
		{
			name:  "valid",
			state: State{Status: StatusSetup, Players: two},
		},
		{
			name:    "already started",
			state:   State{Status: StatusActive, Players: two},
			wantErr: ErrAlreadyStarted,
		},
		{
			name:    "too few players",
			state:   State{Status: StatusSetup, Players: two[:1]},
			wantErr: ErrInvalidPlayerCount,
		},
		{
			name: "no human",
			state: State{Status: StatusSetup, Players: []Player{
				{ID: "b1", Seat: 0}, {ID: "b2", Seat: 1},
			}},
			wantErr: ErrValidation,
		},
		{
			name: "two humans",
			state: State{Status: StatusSetup, Players: []Player{
				{ID: "h1", Human: true, Seat: 0}, {ID: "h2", Human: true, Seat: 1},
			}},
			wantErr: ErrValidation,
		},
		{
			name: "seat gap",
			state: State{Status: StatusSetup, Players: []Player{
				{ID: "h", Human: true, Seat: 0}, {ID: "b", Seat: 2},
			}},
			wantErr: ErrInternalState,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStartDraft(&tc.state)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAddPlayer(t *testing.T) {
	base := State{Status: StatusSetup, Players: []Player{{ID: "h", Human: true, Seat: 0}}}

	full := State{Status: StatusSetup}
	for i := 0; i < MaxPlayers; i++ {
		full.Players = append(full.Players, Player{ID: string(rune('a' + i)), Seat: i})
	}

	cases := []struct {
		name    string
		state   State
		id      string
		human   bool
		wantErr error
	}{
		{name: "valid bot", state: base, id: "b1"},
		{name: "duplicate id", state: base, id: "h", wantErr: ErrPlayerExists},
		{name: "second human", state: base, id: "h2", human: true, wantErr: ErrActionNotAllowed},
		{name: "table full", state: full, id: "x", wantErr: ErrInvalidPlayerCount},
		{name: "empty id", state: base, id: "", wantErr: ErrValidation},
		{
			name:    "after start",
			state:   State{Status: StatusActive, Players: base.Players},
			id:      "b1",
			wantErr: ErrAlreadyStarted,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddPlayer(&tc.state, tc.id, "name", tc.human)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		SetCode:       "DTK",
		PlayerTarget:  2,
		HumanPlayerID: "h",
		Personalities: []Personality{PersonalitySilver},
	}
	if err := ValidateConfig(valid); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := valid
	bad.PlayerTarget = 9
	if err := ValidateConfig(bad); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Fatalf("want ErrInvalidPlayerCount, got %v", err)
	}

	bad = valid
	bad.Personalities = nil
	if err := ValidateConfig(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}

	bad = valid
	bad.Personalities = []Personality{"diamond"}
	if err := ValidateConfig(bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}
