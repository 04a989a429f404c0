package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/immxrtalbeast/huddle/internal/auth"
	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/immxrtalbeast/huddle/lib/logger/sl"
)

type UserService struct {
	users    repository.UserRepository
	hasher   auth.PasswordHasher
	registry *RoomService
	presence *PresenceTracker
	log      *slog.Logger
}

func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher, registry *RoomService, presence *PresenceTracker, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		users:    users,
		hasher:   hasher,
		registry: registry,
		presence: presence,
		log:      log,
	}
}

func (s *UserService) Register(ctx context.Context, username, password string) error {
	const op = "service.user.register"

	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.users.Create(ctx, &domain.User{Username: username, PasswordHash: hash}); err != nil {
		return err
	}

	s.log.Info("user registered", slog.String("op", op), "username", username)
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) error {
	const op = "service.user.login"

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		s.log.Error("login lookup failed", slog.String("op", op), sl.Err(err))
		return err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// Rename changes a username everywhere it appears: the user record, the
// profile key, presence, every room's membership lists and every historical
// message. Rare administrative operation; the registry serializes it against
// concurrent posts.
func (s *UserService) Rename(ctx context.Context, oldName, newName string) error {
	const op = "service.user.rename"

	if oldName == "" || newName == "" {
		return ErrInvalidCredentials
	}
	if oldName == newName {
		return repository.ErrUsernameTaken
	}

	if err := s.users.Rename(ctx, oldName, newName); err != nil {
		return err
	}

	s.registry.RenameUser(ctx, oldName, newName)
	s.presence.Rename(oldName, newName)

	s.log.Info("username changed", slog.String("op", op), "old", oldName, "new", newName)
	return nil
}
