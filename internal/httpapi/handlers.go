package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/mtg-draft-backend/internal/cards"
	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/DoyleJ11/mtg-draft-backend/internal/hub"
	"github.com/DoyleJ11/mtg-draft-backend/internal/lobby"
	"github.com/DoyleJ11/mtg-draft-backend/internal/store"
	"github.com/DoyleJ11/mtg-draft-backend/internal/types"
	"github.com/DoyleJ11/mtg-draft-backend/internal/wire"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CreateDraftRequest struct {
	SetCode       string               `json:"set_code"`
	PlayerTarget  int                  `json:"player_target"`
	HumanPlayerID string               `json:"human_player_id"`
	Personalities []engine.Personality `json:"personalities"`
	Cards         []cards.Card         `json:"cards"`
}

type CreateDraftResponse struct {
	DraftID string `json:"draft_id"`
}

func CreateDraft(h *hub.Hub, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		s, err := engine.NewSession(engine.Config{
			SetCode:       req.SetCode,
			CardPool:      req.Cards,
			PlayerTarget:  req.PlayerTarget,
			HumanPlayerID: req.HumanPlayerID,
			Personalities: req.Personalities,
		})
		if err != nil {
			writeEngineError(w, err)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.CreateLobby{DraftID: s.ID(), Session: s, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create draft", http.StatusInternalServerError)
			return
		}

		log.Infow("draft created", "draft", s.ID(), "set", req.SetCode, "target", req.PlayerTarget)
		writeJSON(w, http.StatusCreated, CreateDraftResponse{DraftID: s.ID()})
	}
}

// ResumeDraftRequest re-supplies the card pool that autosaves omit.
type ResumeDraftRequest struct {
	Cards []cards.Card `json:"cards"`
}

func ResumeDraft(h *hub.Hub, saves store.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "id")

		var req ResumeDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		data, err := saves.Load(r.Context(), draftID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no save for draft", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "load failed", http.StatusInternalServerError)
			return
		}

		s, err := wire.Deserialize(data, wire.LoadOptions{CardPool: req.Cards})
		if err != nil {
			log.Warnw("resume failed", "draft", draftID, "error", err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.EnsureLobby{DraftID: s.ID(), Session: s, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to resume draft", http.StatusInternalServerError)
			return
		}

		log.Infow("draft resumed", "draft", s.ID())
		writeJSON(w, http.StatusOK, CreateDraftResponse{DraftID: s.ID()})
	}
}

func GetDraft(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := lobbyView(h, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, types.ServerMessage{
			Type:    "StateSnapshot",
			Version: view.Version,
			State:   ptr(view.Session.State()),
		})
	}
}

type SubmitActionResponse struct {
	Version int          `json:"version"`
	State   engine.State `json:"state"`
}

func SubmitAction(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID := chi.URLParam(r, "id")

		var cm types.ClientMessage
		if err := json.NewDecoder(r.Body).Decode(&cm); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		action, ok := toEngineAction(cm)
		if !ok {
			http.Error(w, "unknown action type", http.StatusBadRequest)
			return
		}

		lb := lookupLobby(h, draftID)
		if lb == nil {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		verdict := make(chan error, 1)
		lb.Inbox() <- lobby.FromClient{Action: action, Err: verdict}
		if err := <-verdict; err != nil {
			writeEngineError(w, err)
			return
		}

		reply := make(chan lobby.View, 1)
		lb.Inbox() <- lobby.GetState{Reply: reply}
		view := <-reply
		writeJSON(w, http.StatusOK, SubmitActionResponse{Version: view.Version, State: view.Session.State()})
	}
}

type PlayerView struct {
	Player      engine.Player `json:"player"`
	CurrentPack *packView     `json:"current_pack,omitempty"`
	CanPick     bool          `json:"can_pick"`
}

type packView struct {
	ID    string       `json:"id"`
	Cards []cards.Card `json:"cards"`
}

func GetPlayer(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := lobbyView(h, w, r)
		if !ok {
			return
		}

		playerID := chi.URLParam(r, "pid")
		st := view.Session.State()
		player := st.PlayerByID(playerID)
		if player == nil {
			http.Error(w, "player not found", http.StatusNotFound)
			return
		}

		pv := PlayerView{Player: *player, CanPick: view.Session.CanMakePick(playerID, "")}
		if pack := view.Session.CurrentPack(playerID); pack != nil {
			pv.CurrentPack = &packView{ID: pack.ID, Cards: pack.Cards}
		}
		writeJSON(w, http.StatusOK, pv)
	}
}

// ExportPicks streams the draft's pick history as ML training samples.
func ExportPicks(h *hub.Hub, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := lobbyView(h, w, r)
		if !ok {
			return
		}

		data, err := wire.ExportPicks(view.Session)
		if err != nil {
			log.Errorw("export picks", "draft", view.Session.ID(), "error", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

func ListSaves(saves store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := saves.List(r.Context())
		if err != nil {
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Drafts []string `json:"drafts"`
		}{Drafts: ids})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupLobby(h *hub.Hub, draftID string) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.GetLobby{DraftID: draftID, Reply: reply}
	return <-reply
}

func lobbyView(h *hub.Hub, w http.ResponseWriter, r *http.Request) (lobby.View, bool) {
	draftID := chi.URLParam(r, "id")
	lb := lookupLobby(h, draftID)
	if lb == nil {
		http.Error(w, "draft not found", http.StatusNotFound)
		return lobby.View{}, false
	}
	reply := make(chan lobby.View, 1)
	lb.Inbox() <- lobby.GetState{Reply: reply}
	return <-reply, true
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

// writeEngineError maps the engine's typed errors onto HTTP statuses. The
// error text carries the context (card id, available cards, turn owner).
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, engine.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrUnknownAction),
		errors.Is(err, engine.ErrValidation),
		errors.Is(err, engine.ErrInvalidPick):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrInternalState), errors.Is(err, engine.ErrBot):
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, types.ServerMessage{Type: "Error", Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ptr[T any](v T) *T { return &v }
