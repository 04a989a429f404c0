package service

import (
	"log/slog"
	"sync"

	"github.com/immxrtalbeast/huddle/internal/domain"
)

// CallService runs the per-room call state machine: NoCall -> CallActive ->
// NoCall. A room has at most one active session; the session dies when its
// participant set empties. Sessions are ephemeral and never persisted.
//
// Mutation and the resulting event emission happen under one lock, so
// observers never see an active session with zero participants and two
// concurrent starts cannot both win.
type CallService struct {
	mu       sync.Mutex
	sessions map[string]*domain.CallSession
	notify   Broadcaster
	log      *slog.Logger
}

func NewCallService(notify Broadcaster, log *slog.Logger) *CallService {
	if log == nil {
		log = slog.Default()
	}
	return &CallService{
		sessions: make(map[string]*domain.CallSession),
		notify:   notify,
		log:      log,
	}
}

// StartOrJoin starts a call when the room has none, otherwise joins the
// existing one. The isVideo flag of a join request is ignored; the session's
// original flag is authoritative.
func (s *CallService) StartOrJoin(roomID, username string, isVideo bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[roomID]
	if !ok {
		sess = domain.NewCallSession(roomID, username, isVideo)
		s.sessions[roomID] = sess
		s.log.Info("call started", "room", roomID, "initiator", username, "video", isVideo)
		s.emit(domain.Event{
			Type:         domain.EventCallStarted,
			Room:         roomID,
			Initiator:    username,
			IsVideo:      isVideo,
			Participants: sess.ParticipantList(),
		})
		return
	}

	sess.Add(username)
	s.log.Info("call joined", "room", roomID, "username", username)
	s.emit(domain.Event{
		Type:         domain.EventCallUpdated,
		Room:         roomID,
		Participants: sess.ParticipantList(),
	})
}

// Join adds the user to an existing call. When no call is active this is a
// silent no-op: the user may have clicked join just after the call ended,
// and that race must not error the client.
func (s *CallService) Join(roomID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[roomID]
	if !ok {
		return
	}

	sess.Add(username)
	s.emit(domain.Event{
		Type:         domain.EventCallUpdated,
		Room:         roomID,
		Participants: sess.ParticipantList(),
	})
}

// Leave removes the user from the room's call. The last participant leaving
// ends the session.
func (s *CallService) Leave(roomID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[roomID]
	if !ok {
		return
	}

	sess.Remove(username)
	if sess.Empty() {
		delete(s.sessions, roomID)
		s.log.Info("call ended", "room", roomID)
		s.emit(domain.Event{Type: domain.EventCallEnded, Room: roomID})
		return
	}

	s.emit(domain.Event{
		Type:         domain.EventCallUpdated,
		Room:         roomID,
		Participants: sess.ParticipantList(),
	})
}

// HandleDisconnect is the unconditional cleanup path for dropped
// connections. Safe to call when the user never joined a call in that room.
func (s *CallService) HandleDisconnect(username, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[roomID]
	if !ok || !sess.Remove(username) {
		return
	}

	if sess.Empty() {
		delete(s.sessions, roomID)
		s.log.Info("call ended by disconnect", "room", roomID, "username", username)
		s.emit(domain.Event{Type: domain.EventCallEnded, Room: roomID})
		return
	}

	s.emit(domain.Event{
		Type:         domain.EventCallUpdated,
		Room:         roomID,
		Participants: sess.ParticipantList(),
	})
}

func (s *CallService) Active(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[roomID]
	return ok
}

func (s *CallService) Participants(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[roomID]; ok {
		return sess.ParticipantList()
	}
	return nil
}

func (s *CallService) emit(event domain.Event) {
	if s.notify != nil {
		s.notify.Broadcast(event.Room, event)
	}
}
