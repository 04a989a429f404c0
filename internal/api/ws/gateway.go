package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/service"
)

const eventBuffer = 16

// session is one realtime connection. username and room are bound by an
// explicit join-room event, never inferred from authentication, and are
// guarded by the gateway mutex. The connection object itself carries no
// state the gateway depends on.
type session struct {
	id       string
	conn     *websocket.Conn
	events   chan domain.Event
	done     chan struct{}
	username string
	room     string
}

func (s *session) enqueue(event domain.Event) {
	select {
	case s.events <- event:
	default:
	}
}

// Gateway owns the realtime channel: room subscriptions for event delivery
// (distinct from chat-room membership), call signaling relay, and the
// unconditional cleanup that runs when a connection drops.
type Gateway struct {
	upgrader websocket.Upgrader
	presence *service.PresenceTracker
	calls    *service.CallService
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[string]map[string]*session
}

func NewGateway(presence *service.PresenceTracker, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		presence: presence,
		log:      log,
		sessions: make(map[string]*session),
		rooms:    make(map[string]map[string]*session),
	}
}

// AttachCalls closes the wiring loop: the coordinator broadcasts through the
// gateway, the gateway routes call events into the coordinator.
func (g *Gateway) AttachCalls(calls *service.CallService) {
	g.calls = calls
}

// Broadcast delivers the event to every subscriber of the room. Slow
// consumers drop events rather than block the caller.
func (g *Gateway) Broadcast(roomID string, event domain.Event) {
	g.mu.RLock()
	subscribers := make([]*session, 0, len(g.rooms[roomID]))
	for _, sess := range g.rooms[roomID] {
		subscribers = append(subscribers, sess)
	}
	g.mu.RUnlock()

	for _, sess := range subscribers {
		sess.enqueue(event)
	}
}

func (g *Gateway) Handle(ctx *gin.Context) {
	conn, err := g.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	sess := &session{
		id:     uuid.New().String(),
		conn:   conn,
		events: make(chan domain.Event, eventBuffer),
		done:   make(chan struct{}),
	}

	g.mu.Lock()
	g.sessions[sess.id] = sess
	g.mu.Unlock()

	g.log.Info("client connected", "session", sess.id)
	go sess.writePump()

	for {
		var event domain.Event
		if err := conn.ReadJSON(&event); err != nil {
			g.disconnect(sess)
			conn.Close()
			return
		}
		g.handleEvent(sess, event)
	}
}

// handleEvent routes a client event. Invalid or stale events are swallowed;
// the realtime channel never errors a client over a race it cannot avoid.
func (g *Gateway) handleEvent(sess *session, event domain.Event) {
	switch event.Type {
	case domain.EventJoinRoom:
		if event.Username == "" || event.Room == "" {
			return
		}
		g.joinRoom(sess, event.Username, event.Room)
	case domain.EventStartCall:
		if event.Username == "" || event.Room == "" {
			return
		}
		g.calls.StartOrJoin(event.Room, event.Username, event.IsVideo)
	case domain.EventJoinCall:
		if event.Username == "" || event.Room == "" {
			return
		}
		g.calls.Join(event.Room, event.Username)
	case domain.EventEndCall:
		if event.Username == "" || event.Room == "" {
			return
		}
		g.calls.Leave(event.Room, event.Username)
	default:
		g.log.Debug("ignoring unknown event", "type", event.Type, "session", sess.id)
	}
}

// joinRoom re-subscribes the session. Joining a new room implies leaving the
// previous one; subscribers of the old room get a user-left without the
// client sending an explicit leave.
func (g *Gateway) joinRoom(sess *session, username, room string) {
	g.mu.Lock()

	oldUsername := sess.username
	oldRoom := sess.room

	if oldRoom != "" {
		delete(g.rooms[oldRoom], sess.id)
		if len(g.rooms[oldRoom]) == 0 {
			delete(g.rooms, oldRoom)
		}
	}

	sess.username = username
	sess.room = room
	if g.rooms[room] == nil {
		g.rooms[room] = make(map[string]*session)
	}
	g.rooms[room][sess.id] = sess

	oldPeers := g.peersLocked(oldRoom, sess.id)
	newPeers := g.peersLocked(room, sess.id)
	g.mu.Unlock()

	// rebinding to a new username moves the presence count, so the old name
	// does not stay online after the connection drops
	if oldUsername != username {
		g.presence.Connect(username)
		if oldUsername != "" {
			g.presence.Disconnect(oldUsername)
		}
	}

	if oldRoom != "" && oldRoom != room {
		for _, peer := range oldPeers {
			peer.enqueue(domain.Event{Type: domain.EventUserLeft, Room: oldRoom, Username: oldUsername})
		}
	}
	for _, peer := range newPeers {
		peer.enqueue(domain.Event{Type: domain.EventUserJoined, Room: room, Username: username})
	}

	g.log.Info("client joined room", "session", sess.id, "username", username, "room", room)
}

// disconnect is the unconditional cleanup path: presence decrement, call
// leave, user-left broadcast. It runs even when the client vanished
// mid-operation.
func (g *Gateway) disconnect(sess *session) {
	g.mu.Lock()
	if _, ok := g.sessions[sess.id]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.sessions, sess.id)

	username, room := sess.username, sess.room
	if room != "" {
		delete(g.rooms[room], sess.id)
		if len(g.rooms[room]) == 0 {
			delete(g.rooms, room)
		}
	}
	peers := g.peersLocked(room, sess.id)
	g.mu.Unlock()

	close(sess.done)

	if username != "" {
		g.presence.Disconnect(username)
	}
	if username != "" && room != "" && g.calls != nil {
		g.calls.HandleDisconnect(username, room)
	}
	if username != "" && room != "" {
		for _, peer := range peers {
			peer.enqueue(domain.Event{Type: domain.EventUserLeft, Room: room, Username: username})
		}
	}

	g.log.Info("client disconnected", "session", sess.id, "username", username)
}

// peersLocked expects the gateway lock.
func (g *Gateway) peersLocked(room, excludeID string) []*session {
	if room == "" {
		return nil
	}
	peers := make([]*session, 0, len(g.rooms[room]))
	for id, sess := range g.rooms[room] {
		if id == excludeID {
			continue
		}
		peers = append(peers, sess)
	}
	return peers
}

func (s *session) writePump() {
	for {
		select {
		case event := <-s.events:
			if err := s.conn.WriteJSON(event); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
