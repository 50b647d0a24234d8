package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/stretchr/testify/require"
)

func draftPool() []cards.Card {
	var out []cards.Card
	add := func(n int, rarity cards.Rarity, typeLine, prefix string) {
		for i := 0; i < n; i++ {
			out = append(out, cards.Card{
				ID:            fmt.Sprintf("%s-%03d", prefix, i),
				Name:          fmt.Sprintf("%s %d", prefix, i),
				Rarity:        rarity,
				TypeLine:      typeLine,
				ColorIdentity: []string{"G"},
				Booster:       true,
			})
		}
	}
	add(40, cards.RarityCommon, "Creature — Bear", "c")
	add(20, cards.RarityUncommon, "Instant", "u")
	add(10, cards.RarityRare, "Sorcery", "r")
	add(4, cards.RarityMythic, "Planeswalker", "m")
	add(5, cards.RarityCommon, "Basic Land — Forest", "land")
	return out
}

func testConfig(players int) Config {
	personalities := make([]Personality, players-1)
	for i := range personalities {
		personalities[i] = PersonalitySilver
	}
	return Config{
		SetCode:       "DTK",
		CardPool:      draftPool(),
		PlayerTarget:  players,
		HumanPlayerID: "human",
		Personalities: personalities,
	}
}

// startedSession builds a session with one human and players-1 silver bots
// and starts the draft.
func startedSession(t *testing.T, players int) Session {
	t.Helper()
	s, err := NewSession(testConfig(players))
	require.NoError(t, err)

	s = mustSubmit(t, s, Action{Type: ActionAddPlayer, PlayerID: "human", PlayerName: "Human", Human: true})
	for i := 1; i < players; i++ {
		s = mustSubmit(t, s, Action{
			Type:        ActionAddPlayer,
			PlayerID:    fmt.Sprintf("bot%d", i),
			PlayerName:  fmt.Sprintf("Bot %d", i),
			Personality: PersonalitySilver,
		})
	}
	return mustSubmit(t, s, Action{Type: ActionStartDraft})
}

func mustSubmit(t *testing.T, s Session, a Action) Session {
	t.Helper()
	next, _, err := s.Submit(a)
	require.NoError(t, err, "submit %s", a.Type)
	return next
}

func TestLifecycleSetupToActive(t *testing.T) {
	s, err := NewSession(testConfig(2))
	require.NoError(t, err)
	require.Equal(t, StatusSetup, s.Status())
	require.NotEmpty(t, s.ID())

	s = mustSubmit(t, s, Action{Type: ActionAddPlayer, PlayerID: "human", Human: true})
	s = mustSubmit(t, s, Action{Type: ActionAddPlayer, PlayerID: "bot1", Personality: PersonalitySilver})
	s = mustSubmit(t, s, Action{Type: ActionStartDraft})

	st := s.State()
	require.Equal(t, StatusActive, st.Status)
	require.Equal(t, 1, st.Round)
	require.Equal(t, 1, st.Pick)
	require.Equal(t, Clockwise, st.Direction)
	require.Len(t, st.Packs, TotalRounds)
	for r := range st.Packs {
		require.Len(t, st.Packs[r], 2, "round %d", r+1)
	}
	require.Len(t, s.History(), 3)
}

func TestStartDraftPacksAreDeterministic(t *testing.T) {
	setup := []Action{
		{Type: ActionAddPlayer, PlayerID: "human", Human: true},
		{Type: ActionAddPlayer, PlayerID: "bot1", Personality: PersonalitySilver},
		{Type: ActionStartDraft},
	}

	a, err := Replay("fixed-id", testConfig(2), setup)
	require.NoError(t, err)
	b, err := Replay("fixed-id", testConfig(2), setup)
	require.NoError(t, err)

	pa, pb := a.State().Packs, b.State().Packs
	for r := range pa {
		for seat := range pa[r] {
			require.Equal(t, len(pa[r][seat].Cards), len(pb[r][seat].Cards))
			for i := range pa[r][seat].Cards {
				require.Equal(t, pa[r][seat].Cards[i].ID, pb[r][seat].Cards[i].ID,
					"round %d seat %d pos %d", r+1, seat, i)
			}
		}
	}
}

func TestTwoPlayerScenario(t *testing.T) {
	s := startedSession(t, 2)

	humanPack := s.CurrentPack("human")
	botPack := s.CurrentPack("bot1")
	require.NotNil(t, humanPack)
	require.NotNil(t, botPack)
	require.Len(t, humanPack.Cards, 15)
	require.Len(t, botPack.Cards, 15)

	first := humanPack.Cards[0].ID
	s, events, err := s.Submit(Action{Type: ActionMakePick, PlayerID: "human", CardID: first})
	require.NoError(t, err)

	require.Len(t, s.PickedCards("human"), 1)
	require.Equal(t, first, s.PickedCards("human")[0].ID)

	// the pack the human picked from travels to the bot, one card lighter
	handedOff := s.CurrentPack("bot1")
	require.NotNil(t, handedOff)
	require.Len(t, handedOff.Cards, 14)
	require.False(t, handedOff.Contains(first))

	// the cascade gives the lone bot exactly one pick
	require.Len(t, s.PickedCards("bot1"), 1)

	picks := 0
	for _, e := range events {
		if e.Type == EvtCardPicked {
			picks++
		}
	}
	require.Equal(t, 2, picks)
	// bot pick lands in history as its own action
	require.Len(t, s.History(), 5)
}

func TestFailedSubmitLeavesSessionUnchanged(t *testing.T) {
	s := startedSession(t, 2)
	before := len(s.History())

	next, _, err := s.Submit(Action{Type: ActionMakePick, PlayerID: "human", CardID: "not-a-card"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCardNotAvailable))
	require.Len(t, next.History(), before)
	require.Len(t, next.PickedCards("human"), 0)
}

func TestUnknownActionRejected(t *testing.T) {
	s := startedSession(t, 2)
	_, _, err := s.Submit(Action{Type: "DANCE"})
	require.True(t, errors.Is(err, ErrUnknownAction))
}

func TestPickWithoutCardIDRejected(t *testing.T) {
	s := startedSession(t, 2)
	before := len(s.History())

	next, _, err := s.Submit(Action{Type: ActionMakePick, PlayerID: "human"})
	require.True(t, errors.Is(err, ErrInvalidPick))
	require.Len(t, next.History(), before)
}

// runDraft drives a full draft by always picking the human's first card.
func runDraft(t *testing.T, s Session) Session {
	t.Helper()
	for s.Status() == StatusActive {
		pack := s.CurrentPack("human")
		require.NotNil(t, pack, "human must hold a pack while active")
		require.NotEmpty(t, pack.Cards)
		s = mustSubmit(t, s, Action{Type: ActionMakePick, PlayerID: "human", CardID: pack.Cards[0].ID})
	}
	return s
}

func TestFullDraftConservation(t *testing.T) {
	for _, players := range []int{2, 4, 8} {
		t.Run(fmt.Sprintf("%d players", players), func(t *testing.T) {
			s := startedSession(t, players)
			st := s.State()

			generated := 0
			for _, row := range st.Packs {
				for _, p := range row {
					generated += len(p.Cards)
				}
			}

			s = runDraft(t, s)
			require.Equal(t, StatusComplete, s.Status())

			total := 0
			final := s.State()
			for _, p := range final.Players {
				require.Len(t, p.Picked, generated/players,
					"lockstep drafting gives every player the same pick count")
				total += len(p.Picked)
			}
			require.Equal(t, generated, total)

			// every generated card instance is picked exactly once
			remaining := map[string]int{}
			for _, row := range st.Packs {
				for _, p := range row {
					for _, c := range p.Cards {
						remaining[c.ID]++
					}
				}
			}
			for _, p := range final.Players {
				for _, c := range p.Picked {
					remaining[c.ID]--
				}
			}
			for id, n := range remaining {
				require.Zero(t, n, "card %s picked %d times too few/many", id, -n)
			}
		})
	}
}

func TestDirectionAlternatesByRound(t *testing.T) {
	s := startedSession(t, 2)
	require.Equal(t, Clockwise, s.State().Direction)

	seen := map[int]Direction{1: s.State().Direction}
	for s.Status() == StatusActive {
		pack := s.CurrentPack("human")
		s = mustSubmit(t, s, Action{Type: ActionMakePick, PlayerID: "human", CardID: pack.Cards[0].ID})
		seen[s.State().Round] = s.State().Direction
	}

	require.Equal(t, Clockwise, seen[1])
	require.Equal(t, Counterclockwise, seen[2])
	require.Equal(t, Clockwise, seen[3])
}

func TestPickAfterCompleteRejected(t *testing.T) {
	s := runDraft(t, startedSession(t, 2))
	_, _, err := s.Submit(Action{Type: ActionMakePick, PlayerID: "human", CardID: "c-000"})
	require.True(t, errors.Is(err, ErrDraftComplete))
}

func TestTimeOutPickTakesFirstCard(t *testing.T) {
	s := startedSession(t, 2)
	first := s.CurrentPack("human").Cards[0].ID

	s, _, err := s.Submit(Action{Type: ActionTimeOutPick, PlayerID: "human"})
	require.NoError(t, err)

	picked := s.PickedCards("human")
	require.Len(t, picked, 1)
	require.Equal(t, first, picked[0].ID)
	// the bot followed
	require.Len(t, s.PickedCards("bot1"), 1)
}

func TestUndoRestoresPreviousState(t *testing.T) {
	s := startedSession(t, 2)

	pack := s.CurrentPack("human")
	before := s.State()
	s2 := mustSubmit(t, s, Action{Type: ActionMakePick, PlayerID: "human", CardID: pack.Cards[0].ID})

	// undo removes the final history entry (the bot's cascade pick)
	s3, _, err := s2.Submit(Action{Type: ActionUndo})
	require.NoError(t, err)
	require.Len(t, s3.History(), len(s2.History())-1)
	require.Len(t, s3.PickedCards("human"), 1)
	require.Len(t, s3.PickedCards("bot1"), 0)

	// a second undo rewinds the human pick as well
	s4, _, err := s3.Submit(Action{Type: ActionUndo})
	require.NoError(t, err)
	require.Len(t, s4.History(), len(before.History))
	require.Len(t, s4.PickedCards("human"), 0)
	require.Equal(t, before.Round, s4.State().Round)
	require.Equal(t, s.ID(), s4.ID())

	// undone sessions regenerate identical packs
	cur := s4.CurrentPack("human")
	require.Equal(t, pack.Cards[0].ID, cur.Cards[0].ID)
}

func TestUndoOnEmptyHistoryFails(t *testing.T) {
	s, err := NewSession(testConfig(2))
	require.NoError(t, err)
	_, _, err = s.Submit(Action{Type: ActionUndo})
	require.True(t, errors.Is(err, ErrActionNotAllowed))
}

func TestReplayReconstructsState(t *testing.T) {
	s := startedSession(t, 4)
	for i := 0; i < 5; i++ {
		pack := s.CurrentPack("human")
		s = mustSubmit(t, s, Action{Type: ActionMakePick, PlayerID: "human", CardID: pack.Cards[0].ID})
	}

	rebuilt, err := Replay(s.ID(), s.State().Config, s.History())
	require.NoError(t, err)

	require.Equal(t, s.ID(), rebuilt.ID())
	require.Equal(t, s.Status(), rebuilt.Status())
	require.Len(t, rebuilt.History(), len(s.History()))
	rebuiltState := rebuilt.State()
	for _, p := range s.State().Players {
		rp := rebuiltState.PlayerByID(p.ID)
		require.NotNil(t, rp)
		require.Equal(t, len(p.Picked), len(rp.Picked))
		for i := range p.Picked {
			require.Equal(t, p.Picked[i].ID, rp.Picked[i].ID)
		}
	}
}

func TestReplayFailureAborts(t *testing.T) {
	s := startedSession(t, 2)
	history := append([]Action(nil), s.History()...)
	history = append(history, Action{Type: ActionMakePick, PlayerID: "ghost", CardID: "c-000"})

	_, err := Replay(s.ID(), s.State().Config, history)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestCanMakePick(t *testing.T) {
	s := startedSession(t, 2)
	pack := s.CurrentPack("human")

	require.True(t, s.CanMakePick("human", pack.Cards[0].ID))
	require.False(t, s.CanMakePick("human", "not-in-pack"))
	require.False(t, s.CanMakePick("ghost", pack.Cards[0].ID))
}

func TestLegalActions(t *testing.T) {
	s, err := NewSession(testConfig(2))
	require.NoError(t, err)
	require.Equal(t, []ActionType{ActionAddPlayer}, s.LegalActions("human"))

	s = startedSession(t, 2)
	legal := s.LegalActions("human")
	require.Contains(t, legal, ActionMakePick)
	require.Contains(t, legal, ActionTimeOutPick)
	require.Contains(t, legal, ActionUndo)
}

// erringPicker simulates a bot adapter fault.
type erringPicker struct{}

func (erringPicker) Pick([]cards.Card, []cards.Card, PickContext, Personality) (Decision, error) {
	return Decision{}, errors.New("model unavailable")
}

func TestBotFailureSurfacesAsBotError(t *testing.T) {
	s, err := NewSession(testConfig(2), WithPicker(erringPicker{}))
	require.NoError(t, err)
	s = mustSubmit(t, s, Action{Type: ActionAddPlayer, PlayerID: "human", Human: true})
	s = mustSubmit(t, s, Action{Type: ActionAddPlayer, PlayerID: "bot1", Personality: PersonalityBronze})
	s = mustSubmit(t, s, Action{Type: ActionStartDraft})

	pack := s.CurrentPack("human")
	next, _, err := s.Submit(Action{Type: ActionMakePick, PlayerID: "human", CardID: pack.Cards[0].ID})
	require.True(t, errors.Is(err, ErrBot))

	var be *BotError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "bot1", be.BotID)

	// the whole submit rolled back, including the human pick
	require.Len(t, next.PickedCards("human"), 0)
	require.Len(t, next.History(), len(s.History()))
}
