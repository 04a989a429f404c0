package domain

// User is an account record. Credentials are stored as an opaque hash
// produced by the configured authenticator.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// UserProfile carries presentation data and the ordered list of rooms the
// user belongs to. Profiles are created lazily on the first profile-affecting
// action.
type UserProfile struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Avatar      string   `json:"avatar,omitempty"`
	Chats       []string `json:"chats,omitempty"`
}

func NewProfile(username string) *UserProfile {
	return &UserProfile{
		Username:    username,
		DisplayName: username,
	}
}

func (p *UserProfile) AddChat(roomID string) {
	for _, id := range p.Chats {
		if id == roomID {
			return
		}
	}
	p.Chats = append(p.Chats, roomID)
}
