package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/immxrtalbeast/huddle/lib/logger/sl"
)

// RoomSummary is one entry of the room list, with live call flags joined
// from the coordinator.
type RoomSummary struct {
	ID               string
	Name             string
	Kind             domain.RoomKind
	CallActive       bool
	CallParticipants []string
}

// ChatSummary is one entry of a user's chat list.
type ChatSummary struct {
	ID          string
	Name        string
	Kind        domain.RoomKind
	LastMessage *domain.Message
}

// RoomDetail backs the link-sharing endpoint.
type RoomDetail struct {
	ID          string
	Name        string
	Kind        domain.RoomKind
	MemberCount int
}

// RoomService is the room registry. The in-memory state it owns is the
// source of truth for the running process; repositories trail behind as the
// durability layer and their failures are logged, not surfaced.
type RoomService struct {
	rooms    repository.RoomRepository
	profiles repository.ProfileRepository
	calls    CallInfo
	log      *slog.Logger

	mu            sync.RWMutex
	byID          map[string]*domain.Room
	order         []string
	profileByUser map[string]*domain.UserProfile

	idMu          sync.Mutex
	lastMessageID int64
}

func NewRoomService(rooms repository.RoomRepository, profiles repository.ProfileRepository, calls CallInfo, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		rooms:         rooms,
		profiles:      profiles,
		calls:         calls,
		log:           log,
		byID:          make(map[string]*domain.Room),
		profileByUser: make(map[string]*domain.UserProfile),
	}
}

// Load pulls rooms and profiles out of the store. A fresh store is seeded
// with the default group rooms.
func (s *RoomService) Load(ctx context.Context) error {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range rooms {
		s.byID[room.ID] = room
		s.order = append(s.order, room.ID)
		for _, msg := range room.Messages {
			if msg.ID > s.lastMessageID {
				s.lastMessageID = msg.ID
			}
		}
	}

	if len(s.byID) == 0 {
		s.seedDefaultRooms(ctx)
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	for _, profile := range profiles {
		s.profileByUser[profile.Username] = profile
	}

	s.log.Info("registry loaded", "rooms", len(s.byID), "profiles", len(s.profileByUser))
	return nil
}

func (s *RoomService) seedDefaultRooms(ctx context.Context) {
	seeds := []struct{ id, name string }{
		{"general", "General Chat"},
		{"random", "Random"},
		{"tech", "Tech Talk"},
	}
	for _, seed := range seeds {
		room := &domain.Room{
			ID:        seed.id,
			Name:      seed.name,
			Kind:      domain.RoomKindGroup,
			Admins:    []string{"admin"},
			CreatedAt: time.Now().UTC(),
		}
		s.byID[room.ID] = room
		s.order = append(s.order, room.ID)
		if err := s.rooms.Create(ctx, room); err != nil {
			s.log.Error("failed to persist seed room", "room", room.ID, sl.Err(err))
		}
	}
}

func (s *RoomService) CreateGroupRoom(ctx context.Context, name, creator string) (string, error) {
	const op = "service.room.create"

	if creator == "" {
		return "", ErrMissingUsername
	}
	roomID := domain.Slug(name)
	if roomID == "" {
		return "", ErrInvalidRoomName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[roomID]; ok {
		return "", repository.ErrRoomExists
	}

	room := domain.NewGroupRoom(roomID, name, creator)
	s.byID[roomID] = room
	s.order = append(s.order, roomID)
	s.addChatLocked(ctx, creator, roomID)

	if err := s.rooms.Create(ctx, room); err != nil {
		s.log.Error("failed to persist room", slog.String("op", op), sl.Err(err))
	}

	s.log.Info("room created", slog.String("op", op), "room", roomID, "creator", creator)
	return roomID, nil
}

// CreateOrGetPrivateRoom is idempotent on the unordered user pair.
func (s *RoomService) CreateOrGetPrivateRoom(ctx context.Context, username, target string) (string, error) {
	const op = "service.room.private"

	if username == "" || target == "" {
		return "", ErrMissingUsername
	}
	if username == target {
		return "", ErrSelfChat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		room := s.byID[id]
		room.Mutex.RLock()
		match := room.Kind == domain.RoomKindPrivate &&
			room.HasMember(username) && room.HasMember(target)
		room.Mutex.RUnlock()
		if match {
			return id, nil
		}
	}

	roomID := fmt.Sprintf("private-%d", time.Now().UnixMilli())
	for _, ok := s.byID[roomID]; ok; _, ok = s.byID[roomID] {
		roomID = fmt.Sprintf("private-%d", time.Now().UnixNano())
	}

	room := domain.NewPrivateRoom(roomID, "Chat with "+target, username, target)
	s.byID[roomID] = room
	s.order = append(s.order, roomID)
	s.addChatLocked(ctx, username, roomID)
	s.addChatLocked(ctx, target, roomID)

	if err := s.rooms.Create(ctx, room); err != nil {
		s.log.Error("failed to persist room", slog.String("op", op), sl.Err(err))
	}

	s.log.Info("private chat created", slog.String("op", op), "room", roomID)
	return roomID, nil
}

// PostMessage appends to the room log with a monotonically increasing id and
// persists the message before returning.
func (s *RoomService) PostMessage(ctx context.Context, roomID, author, text string, file *domain.FileRef, pollID string) (*domain.Message, error) {
	const op = "service.room.post"

	if author == "" {
		return nil, ErrMissingUsername
	}

	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:        s.nextMessageID(),
		Author:    author,
		CreatedAt: time.Now().UTC(),
		Text:      text,
		File:      file,
		PollID:    pollID,
	}
	if msg.Empty() {
		return nil, ErrEmptyMessage
	}

	room.Mutex.Lock()
	room.Messages = append(room.Messages, msg)
	room.Mutex.Unlock()

	if err := s.rooms.AppendMessage(ctx, roomID, msg); err != nil {
		s.log.Error("failed to persist message", slog.String("op", op), "room", roomID, sl.Err(err))
	}

	return msg, nil
}

// EditMessage mutates the text in place. Only the original author may edit.
func (s *RoomService) EditMessage(ctx context.Context, roomID string, messageID int64, newText, editor string) error {
	const op = "service.room.edit"

	if strings.TrimSpace(newText) == "" {
		return ErrEmptyMessage
	}

	room, err := s.room(roomID)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	var target *domain.Message
	for _, msg := range room.Messages {
		if msg.ID == messageID {
			target = msg
			break
		}
	}
	if target == nil {
		room.Mutex.Unlock()
		return ErrMessageNotFound
	}
	if target.Author != editor {
		room.Mutex.Unlock()
		return ErrNotMessageAuthor
	}
	target.Text = newText
	room.Mutex.Unlock()

	if err := s.rooms.UpdateMessage(ctx, roomID, target); err != nil {
		s.log.Error("failed to persist edit", slog.String("op", op), "room", roomID, sl.Err(err))
	}
	return nil
}

// ListMessages returns the log in append order. An unknown room is an error,
// distinct from a room with no messages.
func (s *RoomService) ListMessages(roomID string) ([]*domain.Message, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}

	room.Mutex.RLock()
	defer room.Mutex.RUnlock()

	result := make([]*domain.Message, len(room.Messages))
	copy(result, room.Messages)
	return result, nil
}

func (s *RoomService) ListRooms() []RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]RoomSummary, 0, len(s.order))
	for _, id := range s.order {
		room := s.byID[id]
		room.Mutex.RLock()
		summary := RoomSummary{ID: id, Name: room.Name, Kind: room.Kind}
		room.Mutex.RUnlock()
		if s.calls != nil {
			summary.CallActive = s.calls.Active(id)
			summary.CallParticipants = s.calls.Participants(id)
		}
		result = append(result, summary)
	}
	return result
}

func (s *RoomService) RoomDetail(roomID string) (*RoomDetail, error) {
	room, err := s.room(roomID)
	if err != nil {
		return nil, err
	}

	room.Mutex.RLock()
	defer room.Mutex.RUnlock()

	return &RoomDetail{
		ID:          room.ID,
		Name:        room.Name,
		Kind:        room.Kind,
		MemberCount: len(room.Members),
	}, nil
}

// UserChats lists the rooms recorded in the user's profile, newest metadata
// included, skipping dangling room ids.
func (s *RoomService) UserChats(username string) []ChatSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profileByUser[username]
	if !ok {
		return nil
	}

	result := make([]ChatSummary, 0, len(profile.Chats))
	for _, roomID := range profile.Chats {
		room, ok := s.byID[roomID]
		if !ok {
			continue
		}
		room.Mutex.RLock()
		summary := ChatSummary{ID: roomID, Name: room.Name, Kind: room.Kind}
		if n := len(room.Messages); n > 0 {
			summary.LastMessage = room.Messages[n-1]
		}
		room.Mutex.RUnlock()
		result = append(result, summary)
	}
	return result
}

// Profile returns the stored profile, or a default one for users that never
// touched theirs.
func (s *RoomService) Profile(username string) *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, ok := s.profileByUser[username]; ok {
		return profile
	}
	return domain.NewProfile(username)
}

func (s *RoomService) UpdateProfile(ctx context.Context, username, displayName, avatar string) error {
	const op = "service.room.profile"

	if username == "" {
		return repository.ErrUserNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile := s.ensureProfileLocked(username)
	if displayName != "" {
		profile.DisplayName = displayName
	}
	if avatar != "" {
		profile.Avatar = avatar
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.log.Error("failed to persist profile", slog.String("op", op), sl.Err(err))
	}
	return nil
}

// RenameUser is the registry half of the username-change transaction: every
// room's membership lists and every historical message author are rewritten.
// The registry write lock is held for the whole fan-out so no message post
// can interleave. Administrative operation, not a hot path.
func (s *RoomService) RenameUser(ctx context.Context, oldName, newName string) {
	const op = "service.room.rename"

	s.mu.Lock()
	defer s.mu.Unlock()

	if profile, ok := s.profileByUser[oldName]; ok {
		delete(s.profileByUser, oldName)
		profile.Username = newName
		s.profileByUser[newName] = profile
	}

	for _, id := range s.order {
		room := s.byID[id]
		room.Mutex.Lock()
		replaceAll(room.Admins, oldName, newName)
		replaceAll(room.Members, oldName, newName)
		for _, msg := range room.Messages {
			if msg.Author == oldName {
				msg.Author = newName
			}
		}
		room.Mutex.Unlock()
	}

	if err := s.rooms.RenameAuthor(ctx, oldName, newName); err != nil {
		s.log.Error("failed to persist author rename", slog.String("op", op), sl.Err(err))
	}
	if err := s.profiles.Rename(ctx, oldName, newName); err != nil {
		s.log.Error("failed to persist profile rename", slog.String("op", op), sl.Err(err))
	}

	s.log.Info("user renamed across registry", slog.String("op", op), "old", oldName, "new", newName)
}

func (s *RoomService) room(roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.byID[roomID]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return room, nil
}

// ensureProfileLocked expects the registry write lock.
func (s *RoomService) ensureProfileLocked(username string) *domain.UserProfile {
	profile, ok := s.profileByUser[username]
	if !ok {
		profile = domain.NewProfile(username)
		s.profileByUser[username] = profile
	}
	return profile
}

func (s *RoomService) addChatLocked(ctx context.Context, username, roomID string) {
	profile := s.ensureProfileLocked(username)
	profile.AddChat(roomID)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		s.log.Error("failed to persist profile", "username", username, sl.Err(err))
	}
}

// nextMessageID yields epoch-millisecond derived ids that never decrease,
// even for two messages inside the same millisecond.
func (s *RoomService) nextMessageID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= s.lastMessageID {
		id = s.lastMessageID + 1
	}
	s.lastMessageID = id
	return id
}

func replaceAll(names []string, oldName, newName string) {
	for i, n := range names {
		if n == oldName {
			names[i] = newName
		}
	}
}
