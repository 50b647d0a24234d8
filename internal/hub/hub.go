// Package hub is the registry actor mapping draft ids to their lobby.
package hub

import (
	"context"

	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/DoyleJ11/mtg-draft-backend/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	DraftID string
	Session engine.Session
	Reply   chan *lobby.Lobby
}

type GetLobby struct {
	DraftID string
	Reply   chan *lobby.Lobby
}

type EnsureLobby struct {
	DraftID string
	Session engine.Session // only used if creation happens
	Reply   chan *lobby.Lobby
}

type RemoveLobby struct {
	DraftID string
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	opts    lobby.Options
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewHub starts the registry. Every lobby it spawns inherits opts (store,
// logger, pick timer).
func NewHub(parent context.Context, opts lobby.Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if lb := h.lobbies[msg.DraftID]; lb != nil {
					msg.Reply <- lb
					break
				}
				lb := lobby.NewLobby(h.ctx, msg.Session, h.opts)
				h.lobbies[msg.DraftID] = lb
				msg.Reply <- lb

			case GetLobby:
				msg.Reply <- h.lobbies[msg.DraftID] // May be nil

			case EnsureLobby:
				if lb := h.lobbies[msg.DraftID]; lb != nil {
					msg.Reply <- lb
					break
				}

				lb := lobby.NewLobby(h.ctx, msg.Session, h.opts)
				h.lobbies[msg.DraftID] = lb
				msg.Reply <- lb

			case RemoveLobby:
				if lb := h.lobbies[msg.DraftID]; lb != nil {
					lb.Inbox() <- lobby.Shutdown{}
				}
				delete(h.lobbies, msg.DraftID)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		lb.Inbox() <- lobby.Shutdown{}
	}
	clear(h.lobbies)
	h.cancel()
}
