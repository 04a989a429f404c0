package repository

import (
	"context"
	"errors"

	"github.com/immxrtalbeast/huddle/internal/domain"
	"github.com/immxrtalbeast/huddle/internal/repository/model"
	"gorm.io/gorm"
)

type SqliteUserRepository struct {
	db *gorm.DB
}

func NewSqliteUserRepository(db *gorm.DB) *SqliteUserRepository {
	return &SqliteUserRepository{db: db}
}

func (r *SqliteUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	record := model.User{Username: user.Username, PasswordHash: user.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *SqliteUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record model.User
	err := r.db.WithContext(ctx).First(&record, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &domain.User{Username: record.Username, PasswordHash: record.PasswordHash}, nil
}

func (r *SqliteUserRepository) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.User{}).Where("username = ?", newName).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrUsernameTaken
		}

		res := tx.Model(&model.User{}).Where("username = ?", oldName).Update("username", newName)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *SqliteUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.User
	if err := r.db.WithContext(ctx).Order("username").Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.User, 0, len(records))
	for _, rec := range records {
		result = append(result, &domain.User{Username: rec.Username, PasswordHash: rec.PasswordHash})
	}
	return result, nil
}

type SqliteRoomRepository struct {
	db *gorm.DB
}

func NewSqliteRoomRepository(db *gorm.DB) *SqliteRoomRepository {
	return &SqliteRoomRepository{db: db}
}

func (r *SqliteRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	record := toModelRoom(room)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRoomExists
		}
		return err
	}
	return nil
}

func (r *SqliteRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.Room
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(records))
	for i := range records {
		result = append(result, toDomainRoom(&records[i]))
	}
	return result, nil
}

func (r *SqliteRoomRepository) AppendMessage(ctx context.Context, roomID string, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}

	record := toModelMessage(roomID, msg)
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *SqliteRoomRepository) UpdateMessage(ctx context.Context, roomID string, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg == nil {
		return errors.New("message is nil")
	}

	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ? AND room_id = ?", msg.ID, roomID).
		Update("text", msg.Text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// RenameAuthor rewrites the author column in bulk and the JSON-encoded
// membership lists room by room.
func (r *SqliteRoomRepository) RenameAuthor(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("author = ?", oldName).
			Update("author", newName).Error; err != nil {
			return err
		}

		var rooms []model.Room
		if err := tx.Find(&rooms).Error; err != nil {
			return err
		}
		for i := range rooms {
			room := &rooms[i]
			if !replaceName(room.Admins, oldName, newName) &&
				!replaceName(room.Members, oldName, newName) {
				continue
			}
			err := tx.Model(&model.Room{}).Where("id = ?", room.ID).Updates(map[string]any{
				"admins":  room.Admins,
				"members": room.Members,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceName(names []string, oldName, newName string) bool {
	replaced := false
	for i, n := range names {
		if n == oldName {
			names[i] = newName
			replaced = true
		}
	}
	return replaced
}

type SqliteProfileRepository struct {
	db *gorm.DB
}

func NewSqliteProfileRepository(db *gorm.DB) *SqliteProfileRepository {
	return &SqliteProfileRepository{db: db}
}

func (r *SqliteProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if profile == nil {
		return errors.New("profile is nil")
	}

	record := model.Profile{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Avatar:      profile.Avatar,
		Chats:       profile.Chats,
	}
	return r.db.WithContext(ctx).Save(&record).Error
}

func (r *SqliteProfileRepository) List(ctx context.Context) ([]*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.Profile
	if err := r.db.WithContext(ctx).Order("username").Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.UserProfile, 0, len(records))
	for _, rec := range records {
		result = append(result, &domain.UserProfile{
			Username:    rec.Username,
			DisplayName: rec.DisplayName,
			Avatar:      rec.Avatar,
			Chats:       rec.Chats,
		})
	}
	return result, nil
}

func (r *SqliteProfileRepository) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("username = ?", oldName).
		Update("username", newName).Error
}

type SqlitePollRepository struct {
	db *gorm.DB
}

func NewSqlitePollRepository(db *gorm.DB) *SqlitePollRepository {
	return &SqlitePollRepository{db: db}
}

func (r *SqlitePollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if poll == nil {
		return errors.New("poll is nil")
	}

	record := toModelPoll(poll)
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *SqlitePollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if poll == nil {
		return errors.New("poll is nil")
	}

	res := r.db.WithContext(ctx).
		Model(&model.Poll{}).
		Where("id = ?", poll.ID).
		Update("options", toModelOptions(poll.Options))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (r *SqlitePollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []model.Poll
	if err := r.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Poll, 0, len(records))
	for i := range records {
		result = append(result, toDomainPoll(&records[i]))
	}
	return result, nil
}

func toModelRoom(room *domain.Room) *model.Room {
	record := &model.Room{
		ID:        room.ID,
		Name:      room.Name,
		Kind:      string(room.Kind),
		Admins:    room.Admins,
		Members:   room.Members,
		CreatedAt: room.CreatedAt,
	}
	for _, msg := range room.Messages {
		record.Messages = append(record.Messages, toModelMessage(room.ID, msg))
	}
	return record
}

func toDomainRoom(record *model.Room) *domain.Room {
	room := &domain.Room{
		ID:        record.ID,
		Name:      record.Name,
		Kind:      domain.RoomKind(record.Kind),
		Admins:    record.Admins,
		Members:   record.Members,
		CreatedAt: record.CreatedAt,
	}
	for i := range record.Messages {
		room.Messages = append(room.Messages, toDomainMessage(&record.Messages[i]))
	}
	return room
}

func toModelMessage(roomID string, msg *domain.Message) model.Message {
	record := model.Message{
		ID:        msg.ID,
		RoomID:    roomID,
		Author:    msg.Author,
		Text:      msg.Text,
		PollID:    msg.PollID,
		CreatedAt: msg.CreatedAt,
	}
	if msg.File != nil {
		record.FileURL = msg.File.URL
		record.FileName = msg.File.Filename
		record.FileMime = msg.File.MimeType
	}
	return record
}

func toDomainMessage(record *model.Message) *domain.Message {
	msg := &domain.Message{
		ID:        record.ID,
		Author:    record.Author,
		Text:      record.Text,
		PollID:    record.PollID,
		CreatedAt: record.CreatedAt,
	}
	if record.FileURL != "" {
		msg.File = &domain.FileRef{
			URL:      record.FileURL,
			Filename: record.FileName,
			MimeType: record.FileMime,
		}
	}
	return msg
}

func toModelPoll(poll *domain.Poll) *model.Poll {
	return &model.Poll{
		ID:        poll.ID,
		Question:  poll.Question,
		Options:   toModelOptions(poll.Options),
		Creator:   poll.Creator,
		RoomID:    poll.RoomID,
		CreatedAt: poll.CreatedAt,
	}
}

func toModelOptions(options []domain.PollOption) []model.PollOption {
	out := make([]model.PollOption, 0, len(options))
	for _, opt := range options {
		out = append(out, model.PollOption{Text: opt.Text, Voters: opt.Voters})
	}
	return out
}

func toDomainPoll(record *model.Poll) *domain.Poll {
	poll := &domain.Poll{
		ID:        record.ID,
		Question:  record.Question,
		Creator:   record.Creator,
		RoomID:    record.RoomID,
		CreatedAt: record.CreatedAt,
	}
	for _, opt := range record.Options {
		poll.Options = append(poll.Options, domain.PollOption{Text: opt.Text, Voters: opt.Voters})
	}
	return poll
}
