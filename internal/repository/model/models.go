package model

import "time"

type User struct {
	Username     string `gorm:"size:255;primaryKey"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

type Room struct {
	ID        string    `gorm:"size:255;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Kind      string    `gorm:"size:32;not null"`
	Admins    []string  `gorm:"serializer:json"`
	Members   []string  `gorm:"serializer:json"`
	CreatedAt time.Time `gorm:"not null"`
	Messages  []Message `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

type Message struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	RoomID    string `gorm:"size:255;index;not null"`
	Author    string `gorm:"size:255;index;not null"`
	Text      string `gorm:"type:text"`
	FileURL   string `gorm:"size:512"`
	FileName  string `gorm:"size:255"`
	FileMime  string `gorm:"size:128"`
	PollID    string `gorm:"size:64"`
	CreatedAt time.Time
}

type Profile struct {
	Username    string   `gorm:"size:255;primaryKey"`
	DisplayName string   `gorm:"size:255"`
	Avatar      string   `gorm:"type:text"`
	Chats       []string `gorm:"serializer:json"`
	UpdatedAt   time.Time
}

type PollOption struct {
	Text   string   `json:"text"`
	Voters []string `json:"voters"`
}

type Poll struct {
	ID        string       `gorm:"size:64;primaryKey"`
	Question  string       `gorm:"size:1024;not null"`
	Options   []PollOption `gorm:"serializer:json"`
	Creator   string       `gorm:"size:255;not null"`
	RoomID    string       `gorm:"size:255;index;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}
