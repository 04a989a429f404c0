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

// PollService owns poll entities. A poll references its room by id only; the
// registry is never consulted.
type PollService struct {
	repo repository.PollRepository
	log  *slog.Logger

	mu         sync.Mutex
	polls      map[string]*domain.Poll
	order      []string
	lastPollMs int64
}

func NewPollService(repo repository.PollRepository, log *slog.Logger) *PollService {
	if log == nil {
		log = slog.Default()
	}
	return &PollService{
		repo:  repo,
		log:   log,
		polls: make(map[string]*domain.Poll),
	}
}

func (s *PollService) Load(ctx context.Context) error {
	polls, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load polls: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, poll := range polls {
		s.polls[poll.ID] = poll
		s.order = append(s.order, poll.ID)
	}
	return nil
}

func (s *PollService) Create(ctx context.Context, question string, options []string, roomID, creator string) (*domain.Poll, error) {
	const op = "service.poll.create"

	cleaned := make([]domain.PollOption, 0, len(options))
	for _, opt := range options {
		if text := strings.TrimSpace(opt); text != "" {
			cleaned = append(cleaned, domain.PollOption{Text: text, Voters: []string{}})
		}
	}
	if len(cleaned) < 2 {
		return nil, ErrTooFewOptions
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	poll := &domain.Poll{
		ID:        s.nextPollIDLocked(),
		Question:  question,
		Options:   cleaned,
		Creator:   creator,
		RoomID:    roomID,
		CreatedAt: time.Now().UTC(),
	}
	s.polls[poll.ID] = poll
	s.order = append(s.order, poll.ID)

	if err := s.repo.Create(ctx, poll); err != nil {
		s.log.Error("failed to persist poll", slog.String("op", op), sl.Err(err))
	}

	s.log.Info("poll created", slog.String("op", op), "poll", poll.ID, "room", roomID)
	return poll, nil
}

// Vote records a single active vote per user: the username is removed from
// every option before it lands on the target, so switching is implicit and
// repeating a vote is a no-op.
func (s *PollService) Vote(ctx context.Context, pollID string, optionIndex int, username string) error {
	const op = "service.poll.vote"

	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pollID]
	if !ok {
		return repository.ErrPollNotFound
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return ErrBadOptionIndex
	}

	for i := range poll.Options {
		voters := poll.Options[i].Voters[:0]
		for _, v := range poll.Options[i].Voters {
			if v != username {
				voters = append(voters, v)
			}
		}
		poll.Options[i].Voters = voters
	}
	poll.Options[optionIndex].Voters = append(poll.Options[optionIndex].Voters, username)

	if err := s.repo.Update(ctx, poll); err != nil {
		s.log.Error("failed to persist vote", slog.String("op", op), "poll", pollID, sl.Err(err))
	}
	return nil
}

// ListForRoom returns the room's polls in creation order.
func (s *PollService) ListForRoom(roomID string) []*domain.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Poll
	for _, id := range s.order {
		if poll := s.polls[id]; poll.RoomID == roomID {
			result = append(result, poll)
		}
	}
	return result
}

func (s *PollService) nextPollIDLocked() string {
	ms := time.Now().UnixMilli()
	if ms <= s.lastPollMs {
		ms = s.lastPollMs + 1
	}
	s.lastPollMs = ms
	return fmt.Sprintf("poll-%d", ms)
}
