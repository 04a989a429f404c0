package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/immxrtalbeast/huddle/internal/domain"
)

// The in-memory adapters back tests and serve as the fallback store when the
// database file cannot be opened. They hold the same pointers the services
// mutate, so "persisting" is bookkeeping only.

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return ErrUsernameTaken
	}
	r.users[user.Username] = user
	return nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[newName]; ok {
		return ErrUsernameTaken
	}
	user, ok := r.users[oldName]
	if !ok {
		return ErrUserNotFound
	}

	delete(r.users, oldName)
	user.Username = newName
	r.users[newName] = user
	return nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

type InMemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	order []string
}

func NewInMemoryRoomRepository() *InMemoryRoomRepository {
	return &InMemoryRoomRepository{rooms: make(map[string]*domain.Room)}
}

func (r *InMemoryRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return ErrRoomExists
	}
	r.rooms[room.ID] = room
	r.order = append(r.order, room.ID)
	return nil
}

func (r *InMemoryRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Room, 0, len(r.rooms))
	for _, id := range r.order {
		result = append(result, r.rooms[id])
	}
	return result, nil
}

func (r *InMemoryRoomRepository) AppendMessage(ctx context.Context, roomID string, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	// Registry and repository share the room pointer; the message is already
	// in the log.
	return nil
}

func (r *InMemoryRoomRepository) UpdateMessage(ctx context.Context, roomID string, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	return nil
}

func (r *InMemoryRoomRepository) RenameAuthor(ctx context.Context, oldName, newName string) error {
	return ctx.Err()
}

type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.UserProfile
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{profiles: make(map[string]*domain.UserProfile)}
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.Username] = profile
	return nil
}

func (r *InMemoryProfileRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.UserProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (r *InMemoryProfileRepository) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.profiles[oldName]
	if !ok {
		return nil
	}
	delete(r.profiles, oldName)
	profile.Username = newName
	r.profiles[newName] = profile
	return nil
}

type InMemoryPollRepository struct {
	mu    sync.RWMutex
	polls map[string]*domain.Poll
	order []string
}

func NewInMemoryPollRepository() *InMemoryPollRepository {
	return &InMemoryPollRepository{polls: make(map[string]*domain.Poll)}
}

func (r *InMemoryPollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.polls[poll.ID]; !ok {
		r.order = append(r.order, poll.ID)
	}
	r.polls[poll.ID] = poll
	return nil
}

func (r *InMemoryPollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.polls[poll.ID]; !ok {
		return ErrPollNotFound
	}
	r.polls[poll.ID] = poll
	return nil
}

func (r *InMemoryPollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Poll, 0, len(r.polls))
	for _, id := range r.order {
		result = append(result, r.polls[id])
	}
	return result, nil
}
