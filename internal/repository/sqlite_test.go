package repository

import (
	"context"
	"testing"
	"time"

	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/repository/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Room{},
		&model.Message{},
		&model.Profile{},
		&model.Poll{},
	))
	return db
}

func TestSqliteUserRepository(t *testing.T) {
	repo := NewSqliteUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"}))
	require.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"}), ErrUsernameTaken)

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "h1", user.PasswordHash)

	_, err = repo.GetByUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSqliteUserRepository_Rename(t *testing.T) {
	repo := NewSqliteUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"}))
	require.NoError(t, repo.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h2"}))

	require.ErrorIs(t, repo.Rename(ctx, "alice", "bob"), ErrUsernameTaken)
	require.ErrorIs(t, repo.Rename(ctx, "ghost", "casper"), ErrUserNotFound)

	require.NoError(t, repo.Rename(ctx, "alice", "alicia"))

	_, err := repo.GetByUsername(ctx, "alice")
	require.ErrorIs(t, err, ErrUserNotFound)

	user, err := repo.GetByUsername(ctx, "alicia")
	require.NoError(t, err)
	require.Equal(t, "h1", user.PasswordHash)
}

func TestSqliteRoomRepository_RoundTrip(t *testing.T) {
	repo := NewSqliteRoomRepository(newTestDB(t))
	ctx := context.Background()

	room := domain.NewGroupRoom("tech-talk", "Tech Talk", "alice")
	require.NoError(t, repo.Create(ctx, room))
	require.ErrorIs(t, repo.Create(ctx, room), ErrRoomExists)

	first := &domain.Message{ID: 1000, Author: "alice", Text: "hi", CreatedAt: time.Now().UTC()}
	second := &domain.Message{
		ID:        1001,
		Author:    "bob",
		CreatedAt: time.Now().UTC(),
		File:      &domain.FileRef{URL: "/uploads/a.png", Filename: "a.png", MimeType: "image/png"},
	}
	require.NoError(t, repo.AppendMessage(ctx, room.ID, first))
	require.NoError(t, repo.AppendMessage(ctx, room.ID, second))

	rooms, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	loaded := rooms[0]
	require.Equal(t, "tech-talk", loaded.ID)
	require.Equal(t, domain.RoomKindGroup, loaded.Kind)
	require.Equal(t, []string{"alice"}, loaded.Admins)
	require.Len(t, loaded.Messages, 2)
	require.Equal(t, "hi", loaded.Messages[0].Text)
	require.NotNil(t, loaded.Messages[1].File)
	require.Equal(t, "image/png", loaded.Messages[1].File.MimeType)
}

func TestSqliteRoomRepository_UpdateMessage(t *testing.T) {
	repo := NewSqliteRoomRepository(newTestDB(t))
	ctx := context.Background()

	room := domain.NewGroupRoom("tech-talk", "Tech Talk", "alice")
	require.NoError(t, repo.Create(ctx, room))

	msg := &domain.Message{ID: 1000, Author: "alice", Text: "hi", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.AppendMessage(ctx, room.ID, msg))

	msg.Text = "hello"
	require.NoError(t, repo.UpdateMessage(ctx, room.ID, msg))

	missing := &domain.Message{ID: 42, Text: "x"}
	require.ErrorIs(t, repo.UpdateMessage(ctx, room.ID, missing), ErrRoomNotFound)

	rooms, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", rooms[0].Messages[0].Text)
}

func TestSqliteRoomRepository_RenameAuthor(t *testing.T) {
	repo := NewSqliteRoomRepository(newTestDB(t))
	ctx := context.Background()

	room := domain.NewPrivateRoom("private-1", "Chat with bob", "alice", "bob")
	require.NoError(t, repo.Create(ctx, room))

	require.NoError(t, repo.AppendMessage(ctx, room.ID, &domain.Message{ID: 1, Author: "alice", Text: "one", CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.AppendMessage(ctx, room.ID, &domain.Message{ID: 2, Author: "bob", Text: "two", CreatedAt: time.Now().UTC()}))

	require.NoError(t, repo.RenameAuthor(ctx, "alice", "alicia"))

	rooms, err := repo.List(ctx)
	require.NoError(t, err)

	loaded := rooms[0]
	require.Contains(t, loaded.Members, "alicia")
	require.NotContains(t, loaded.Members, "alice")
	require.Equal(t, "alicia", loaded.Messages[0].Author)
	require.Equal(t, "bob", loaded.Messages[1].Author)
}

func TestSqliteProfileRepository(t *testing.T) {
	repo := NewSqliteProfileRepository(newTestDB(t))
	ctx := context.Background()

	profile := &domain.UserProfile{
		Username:    "alice",
		DisplayName: "Alice",
		Chats:       []string{"general"},
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	profile.DisplayName = "Alice A."
	profile.Chats = append(profile.Chats, "private-1")
	require.NoError(t, repo.Upsert(ctx, profile))

	profiles, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Equal(t, "Alice A.", profiles[0].DisplayName)
	require.Equal(t, []string{"general", "private-1"}, profiles[0].Chats)

	require.NoError(t, repo.Rename(ctx, "alice", "alicia"))

	profiles, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "alicia", profiles[0].Username)
}

func TestSqlitePollRepository(t *testing.T) {
	repo := NewSqlitePollRepository(newTestDB(t))
	ctx := context.Background()

	poll := &domain.Poll{
		ID:       "poll-1",
		Question: "Lunch?",
		Options: []domain.PollOption{
			{Text: "pizza", Voters: []string{}},
			{Text: "sushi", Voters: []string{}},
		},
		Creator:   "alice",
		RoomID:    "general",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, poll))

	poll.Options[1].Voters = []string{"bob"}
	require.NoError(t, repo.Update(ctx, poll))
	require.ErrorIs(t, repo.Update(ctx, &domain.Poll{ID: "poll-0"}), ErrPollNotFound)

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	require.Equal(t, "Lunch?", polls[0].Question)
	require.Equal(t, []string{"bob"}, polls[0].Options[1].Voters)
}
