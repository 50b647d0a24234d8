package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/DoyleJ11/mtg-draft-backend/internal/hub"
	"github.com/DoyleJ11/mtg-draft-backend/internal/lobby"
	"github.com/DoyleJ11/mtg-draft-backend/internal/types"
	"github.com/coder/websocket"
)

func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := r.URL.Query().Get("draft")
		if draftID == "" {
			http.Error(w, "missing draft", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{DraftID: draftID, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := randID(6)

		lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}
		defer func() { lb.Inbox() <- lobby.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{
					Type:    "StateSnapshot",
					Version: snap.Version,
					State:   &snap.State,
					Events:  snap.Events,
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (lobby.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			if cm.Type == "PrimeTimer" {
				lb.Inbox() <- lobby.PrimeTimer{}
				continue
			}

			action, ok := toEngineAction(cm)
			if !ok {
				writeError(r.Context(), conn, "unknown type")
				continue
			}

			verdict := make(chan error, 1)
			lb.Inbox() <- lobby.FromClient{Action: action, Err: verdict}
			if err := <-verdict; err != nil {
				writeError(r.Context(), conn, err.Error())
			}
		}
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func toEngineAction(m types.ClientMessage) (engine.Action, bool) {
	switch m.Type {
	case "AddPlayer":
		return engine.Action{
			Type:        engine.ActionAddPlayer,
			PlayerID:    m.PlayerID,
			PlayerName:  m.PlayerName,
			Human:       m.Human,
			Personality: engine.Personality(m.Personality),
		}, true
	case "StartDraft":
		return engine.Action{Type: engine.ActionStartDraft}, true
	case "MakePick":
		return engine.Action{Type: engine.ActionMakePick, PlayerID: m.PlayerID, CardID: m.CardID}, true
	case "TimeOutPick":
		return engine.Action{Type: engine.ActionTimeOutPick, PlayerID: m.PlayerID}, true
	case "Undo":
		return engine.Action{Type: engine.ActionUndo}, true
	default:
		return engine.Action{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
