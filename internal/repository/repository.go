package repository

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/huddle/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrPollNotFound  = errors.New("poll not found")
)

// The running process keeps its state in memory; repositories are the
// durability layer behind it. Each entity type is an independently loadable
// record set.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Rename(ctx context.Context, oldName, newName string) error
	List(ctx context.Context) ([]*domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	List(ctx context.Context) ([]*domain.Room, error)
	AppendMessage(ctx context.Context, roomID string, msg *domain.Message) error
	UpdateMessage(ctx context.Context, roomID string, msg *domain.Message) error
	RenameAuthor(ctx context.Context, oldName, newName string) error
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.UserProfile) error
	List(ctx context.Context) ([]*domain.UserProfile, error)
	Rename(ctx context.Context, oldName, newName string) error
}

type PollRepository interface {
	Create(ctx context.Context, poll *domain.Poll) error
	Update(ctx context.Context, poll *domain.Poll) error
	List(ctx context.Context) ([]*domain.Poll, error)
}
