package engine

import (
	"fmt"
	"strconv"
)

// Validation predicates are pure: they inspect state and report a typed
// failure without touching anything.

// ValidateConfig checks a draft configuration before a session is created.
func ValidateConfig(cfg Config) error {
	if cfg.PlayerTarget < MinPlayers || cfg.PlayerTarget > MaxPlayers {
		return &PlayerCountError{Actual: cfg.PlayerTarget, Min: MinPlayers, Max: MaxPlayers}
	}
	if cfg.HumanPlayerID == "" {
		return &ValidationError{Field: "humanPlayerId", Value: ""}
	}
	if len(cfg.Personalities) != cfg.PlayerTarget-1 {
		return &ValidationError{Field: "personalities", Value: strconv.Itoa(len(cfg.Personalities))}
	}
	for _, p := range cfg.Personalities {
		if !p.Valid() {
			return &ValidationError{Field: "personality", Value: string(p)}
		}
	}
	return nil
}

// ValidateAddPlayer checks whether a player can join the draft.
func ValidateAddPlayer(s *State, id, name string, human bool) error {
	if s.Status != StatusSetup {
		return fmt.Errorf("%w: status is %s", ErrAlreadyStarted, s.Status)
	}
	if id == "" {
		return &ValidationError{Field: "playerId", Value: ""}
	}
	if s.PlayerByID(id) != nil {
		return fmt.Errorf("%w: %s", ErrPlayerExists, id)
	}
	if len(s.Players) >= MaxPlayers {
		return &PlayerCountError{Actual: len(s.Players) + 1, Min: MinPlayers, Max: MaxPlayers}
	}
	if human && s.HumanPlayer() != nil {
		return fmt.Errorf("%w: draft already has a human player", ErrActionNotAllowed)
	}
	return nil
}

// ValidateStartDraft checks whether the draft can leave setup.
func ValidateStartDraft(s *State) error {
	if s.Status != StatusSetup {
		return fmt.Errorf("%w: status is %s", ErrAlreadyStarted, s.Status)
	}
	if len(s.Players) < MinPlayers || len(s.Players) > MaxPlayers {
		return &PlayerCountError{Actual: len(s.Players), Min: MinPlayers, Max: MaxPlayers}
	}

	humans := 0
	for i := range s.Players {
		if s.Players[i].Human {
			humans++
		}
	}
	if humans != 1 {
		return &ValidationError{Field: "humanCount", Value: strconv.Itoa(humans)}
	}

	// Seats must be exactly {0..N-1}. AddPlayer assigns them contiguously,
	// so a gap here means the engine corrupted its own state.
	seen := make([]bool, len(s.Players))
	for i := range s.Players {
		seat := s.Players[i].Seat
		if seat < 0 || seat >= len(s.Players) || seen[seat] {
			return &InternalStateError{Detail: fmt.Sprintf("seat positions not contiguous: seat %d", seat)}
		}
		seen[seat] = true
	}
	return nil
}

// ValidateMakePick checks whether a player may pick a card right now.
func ValidateMakePick(s *State, playerID, cardID string) error {
	if s.Status == StatusComplete {
		return ErrDraftComplete
	}
	if s.Status != StatusActive {
		return &NotActiveError{Status: s.Status}
	}

	player := s.PlayerByID(playerID)
	if player == nil {
		return &PlayerNotFoundError{PlayerID: playerID}
	}

	pack := player.CurrentPack()
	if pack == nil || len(pack.Cards) == 0 {
		// A human without a pack is simply out of turn; a bot in the same
		// spot was addressed by broken pack-passing.
		if player.Human {
			return &WrongTurnError{PlayerID: playerID}
		}
		if pack == nil {
			return fmt.Errorf("%w: player %s", ErrNoPack, playerID)
		}
		return fmt.Errorf("%w: player %s holds %s", ErrPackEmpty, playerID, pack.ID)
	}

	if cardID != "" && !pack.Contains(cardID) {
		available := make([]string, 0, len(pack.Cards))
		for _, c := range pack.Cards {
			available = append(available, c.ID)
		}
		return &CardNotAvailableError{CardID: cardID, Available: available}
	}
	return nil
}
