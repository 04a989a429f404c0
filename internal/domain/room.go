package domain

import (
	"strings"
	"sync"
	"time"
)

type RoomKind string

const (
	RoomKindGroup   RoomKind = "group"
	RoomKindPrivate RoomKind = "private"
)

// Room owns an ordered message log and a membership set. Group rooms use a
// slug id derived from the name; private rooms use a synthetic id and hold
// exactly two members.
type Room struct {
	Mutex     sync.RWMutex
	ID        string
	Name      string
	Kind      RoomKind
	Admins    []string
	Members   []string
	Messages  []*Message
	CreatedAt time.Time
}

func NewGroupRoom(id, name, creator string) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Kind:      RoomKindGroup,
		Admins:    []string{creator},
		Members:   []string{creator},
		CreatedAt: time.Now().UTC(),
	}
}

func NewPrivateRoom(id, name, userA, userB string) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Kind:      RoomKindPrivate,
		Admins:    []string{userA, userB},
		Members:   []string{userA, userB},
		CreatedAt: time.Now().UTC(),
	}
}

// Slug derives a group room id from its display name: lowercased, runs of
// whitespace collapsed to single hyphens.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// HasMember must be called with the room mutex held.
func (r *Room) HasMember(username string) bool {
	for _, m := range r.Members {
		if m == username {
			return true
		}
	}
	return false
}
