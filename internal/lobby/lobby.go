// Package lobby hosts one draft session behind an actor goroutine. Session
// values are immutable; the lobby owns the single mutable "current" pointer
// and serializes every mutation through its inbox.
package lobby

import (
	"context"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/engine"
	"github.com/DoyleJ11/mtg-draft-backend/internal/store"
	"github.com/DoyleJ11/mtg-draft-backend/internal/wire"
	"go.uber.org/zap"
)

type Msg interface{ isLobbyMsg() }

// FromClient submits one action. Err receives the engine's verdict when the
// caller wants it; a nil channel means fire-and-forget.
type FromClient struct {
	Action engine.Action
	Err    chan error
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// PrimeTimer arms the pick timer for the human's current pick.
type PrimeTimer struct{}

func (PrimeTimer) isLobbyMsg() {}

// timerFired is internal; Gen guards against stale fires after the draft
// advanced for another reason.
type timerFired struct{ Gen int }

func (timerFired) isLobbyMsg() {}

// Snapshot is what clients receive on join and after every applied action.
type Snapshot struct {
	Version int            `json:"version"`
	State   engine.State   `json:"state"`
	Events  []engine.Event `json:"events,omitempty"`
}

// View reflects lobby internals without data races; used by tests and the
// HTTP query surface.
type View struct {
	Version    int
	NumClients int
	Session    engine.Session
}

type Lobby struct {
	inbox        chan Msg
	session      engine.Session
	version      int
	clients      map[string]chan Snapshot
	saves        store.Store
	log          *zap.SugaredLogger
	pickTimerSec int
	timerGen     int
	timer        *time.Timer
	ctx          context.Context
	cancel       context.CancelFunc
}

type Options struct {
	Store        store.Store
	Logger       *zap.SugaredLogger
	PickTimerSec int
}

func NewLobby(parent context.Context, initial engine.Session, opts Options) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	l := &Lobby{
		inbox:        make(chan Msg, 64), // Small buffer
		session:      initial,
		version:      0,
		clients:      make(map[string]chan Snapshot),
		saves:        opts.Store,
		log:          log,
		pickTimerSec: opts.PickTimerSec,
		ctx:          ctx,
		cancel:       cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Snapshot{Version: l.version, State: l.session.State()}

			case Leave:
				delete(l.clients, msg.ClientID)

			case FromClient:
				l.applyAction(msg.Action, msg.Err)

			case PrimeTimer:
				l.armTimer()

			case timerFired:
				if msg.Gen != l.timerGen {
					break // stale fire from a timer we already replaced
				}
				st := l.session.State()
				human := st.HumanPlayer()
				if human == nil || l.session.Status() != engine.StatusActive {
					break
				}
				l.log.Infow("pick timer expired", "draft", l.session.ID(), "player", human.ID)
				l.applyAction(engine.Action{Type: engine.ActionTimeOutPick, PlayerID: human.ID}, nil)

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					Session:    l.session,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) applyAction(a engine.Action, errc chan error) {
	next, events, err := l.session.Submit(a)
	if errc != nil {
		errc <- err
	}
	if err != nil {
		l.log.Debugw("action rejected",
			"draft", l.session.ID(), "action", a.Type, "player", a.PlayerID, "error", err)
		return
	}

	l.session = next
	l.version++
	l.broadcast(Snapshot{Version: l.version, State: l.session.State(), Events: events})
	l.persist(next)

	// the draft advanced, any armed timer is for a pick that no longer exists
	if l.timer != nil {
		l.armTimer()
	}
}

// armTimer starts (or restarts) the pick timer. Bumping the generation makes
// any in-flight fire from the previous timer a no-op.
func (l *Lobby) armTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	if l.session.Status() != engine.StatusActive {
		return
	}

	l.timerGen++
	gen := l.timerGen
	l.timer = time.AfterFunc(time.Duration(l.pickTimerSec)*time.Second, func() {
		select {
		case l.inbox <- timerFired{Gen: gen}:
		case <-l.ctx.Done():
		}
	})
}

// persist saves the session in the background. The state machine never waits
// on storage; a failed save only logs.
func (l *Lobby) persist(s engine.Session) {
	if l.saves == nil {
		return
	}
	go func() {
		data, err := wire.SerializeEnhanced(s, wire.Options{IncludeSetData: false})
		if err != nil {
			l.log.Errorw("serialize for autosave", "draft", s.ID(), "error", err)
			return
		}
		if err := l.saves.Save(context.Background(), s.ID(), data); err != nil {
			l.log.Errorw("autosave", "draft", s.ID(), "error", err)
		}
	}()
}

func (l *Lobby) shutdown() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
		}
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }
