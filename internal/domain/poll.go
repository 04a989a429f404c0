package domain

import "time"

type PollOption struct {
	Text   string   `json:"text"`
	Voters []string `json:"votes"`
}

// Poll is a room-scoped question with single-choice voting. A user appears in
// at most one option's voter list; voting again moves the vote.
type Poll struct {
	ID        string       `json:"id"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	Creator   string       `json:"creator"`
	RoomID    string       `json:"room"`
	CreatedAt time.Time    `json:"createdAt"`
}

// VoterOption returns the index of the option the user currently votes for,
// or -1.
func (p *Poll) VoterOption(username string) int {
	for i, opt := range p.Options {
		for _, v := range opt.Voters {
			if v == username {
				return i
			}
		}
	}
	return -1
}
