package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/mtg-draft-backend/internal/hub"
	"github.com/DoyleJ11/mtg-draft-backend/internal/store"
	"github.com/DoyleJ11/mtg-draft-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, saves store.Store, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/drafts", CreateDraft(h, log))
	r.Get("/drafts", ListSaves(saves))
	r.Get("/drafts/{id}", GetDraft(h))
	r.Post("/drafts/{id}/actions", SubmitAction(h))
	r.Post("/drafts/{id}/resume", ResumeDraft(h, saves, log))
	r.Get("/drafts/{id}/players/{pid}", GetPlayer(h))
	r.Get("/drafts/{id}/export", ExportPicks(h, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h))
	return r
}
