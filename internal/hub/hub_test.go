package hub

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/DoyleJ11/mtg-draft-backend/internal/lobby"
)

func newSession(t *testing.T) engine.Session {
	t.Helper()
	var pool []cards.Card
	for i := 0; i < 60; i++ {
		rarity := cards.RarityCommon
		switch {
		case i < 8:
			rarity = cards.RarityRare
		case i < 20:
			rarity = cards.RarityUncommon
		}
		pool = append(pool, cards.Card{
			ID:      fmt.Sprintf("card-%03d", i),
			Name:    fmt.Sprintf("Card %d", i),
			Rarity:  rarity,
			Booster: true,
		})
	}
	s, err := engine.NewSession(engine.Config{
		SetCode:       "DTK",
		CardPool:      pool,
		PlayerTarget:  2,
		HumanPlayerID: "human",
		Personalities: []engine.Personality{engine.PersonalityBronze},
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := NewHub(context.Background(), lobby.Options{})
	reply := make(chan *lobby.Lobby, 1)

	s := newSession(t)
	h.Inbox() <- CreateLobby{DraftID: s.ID(), Session: s, Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{DraftID: s.ID(), Reply: reply}
	lb2 := <-reply

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
}

func TestHub_Get_UnknownIsNil(t *testing.T) {
	h := NewHub(context.Background(), lobby.Options{})
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- GetLobby{DraftID: "nope", Reply: reply}
	if lb := <-reply; lb != nil {
		t.Fatalf("expected nil lobby for unknown draft, got %p", lb)
	}
}

func TestHub_Remove_ShutsLobbyDown(t *testing.T) {
	h := NewHub(context.Background(), lobby.Options{})
	reply := make(chan *lobby.Lobby, 1)

	s := newSession(t)
	h.Inbox() <- CreateLobby{DraftID: s.ID(), Session: s, Reply: reply}
	lb := <-reply

	out := make(chan lobby.Snapshot, 2)
	lb.Inbox() <- lobby.Join{ClientID: "c1", Outbox: out}
	<-out // join snapshot

	h.Inbox() <- RemoveLobby{DraftID: s.ID()}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected outbox close after removal, got snapshot")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("lobby did not shut down after removal")
	}

	h.Inbox() <- GetLobby{DraftID: s.ID(), Reply: reply}
	if got := <-reply; got != nil {
		t.Fatalf("expected lobby gone after removal")
	}
}
