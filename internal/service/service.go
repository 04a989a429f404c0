package service

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/huddle/internal/domain"
)

var (
	ErrSelfChat           = errors.New("cannot create chat with yourself")
	ErrEmptyMessage       = errors.New("message payload is empty")
	ErrInvalidRoomName    = errors.New("room name is empty")
	ErrMissingUsername    = errors.New("username is required")
	ErrMessageNotFound    = errors.New("message not found")
	ErrNotMessageAuthor   = errors.New("only the author may edit a message")
	ErrTooFewOptions      = errors.New("at least 2 options required")
	ErrBadOptionIndex     = errors.New("option index out of range")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserInteractor interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Rename(ctx context.Context, oldName, newName string) error
}

type RoomInteractor interface {
	CreateGroupRoom(ctx context.Context, name, creator string) (string, error)
	CreateOrGetPrivateRoom(ctx context.Context, username, target string) (string, error)
	PostMessage(ctx context.Context, roomID, author, text string, file *domain.FileRef, pollID string) (*domain.Message, error)
	EditMessage(ctx context.Context, roomID string, messageID int64, newText, editor string) error
	ListMessages(roomID string) ([]*domain.Message, error)
	ListRooms() []RoomSummary
	RoomDetail(roomID string) (*RoomDetail, error)
	UserChats(username string) []ChatSummary
	Profile(username string) *domain.UserProfile
	UpdateProfile(ctx context.Context, username, displayName, avatar string) error
}

type PollInteractor interface {
	Create(ctx context.Context, question string, options []string, roomID, creator string) (*domain.Poll, error)
	Vote(ctx context.Context, pollID string, optionIndex int, username string) error
	ListForRoom(roomID string) []*domain.Poll
}

// Broadcaster delivers a realtime event to every subscriber of a room. The
// gateway implements it.
type Broadcaster interface {
	Broadcast(roomID string, event domain.Event)
}

// CallInfo is the registry's read-only view into the call coordinator, used
// to join live call flags onto room summaries.
type CallInfo interface {
	Active(roomID string) bool
	Participants(roomID string) []string
}
