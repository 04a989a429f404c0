package domain

import "time"

// CallSession is the single active voice/video signaling session of a room.
// It tracks participant membership only; media never flows through the
// server. Participant order is join order.
type CallSession struct {
	RoomID       string
	Initiator    string
	IsVideo      bool
	Participants []string
	StartedAt    time.Time
}

func NewCallSession(roomID, initiator string, isVideo bool) *CallSession {
	return &CallSession{
		RoomID:       roomID,
		Initiator:    initiator,
		IsVideo:      isVideo,
		Participants: []string{initiator},
		StartedAt:    time.Now().UTC(),
	}
}

// Add inserts the user into the participant set. Returns false when the user
// is already a participant.
func (s *CallSession) Add(username string) bool {
	for _, p := range s.Participants {
		if p == username {
			return false
		}
	}
	s.Participants = append(s.Participants, username)
	return true
}

// Remove drops the user from the participant set. Returns false when the
// user was not a participant.
func (s *CallSession) Remove(username string) bool {
	for i, p := range s.Participants {
		if p == username {
			s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
			return true
		}
	}
	return false
}

func (s *CallSession) Empty() bool {
	return len(s.Participants) == 0
}

// ParticipantList returns a copy safe to hand to event payloads.
func (s *CallSession) ParticipantList() []string {
	out := make([]string, len(s.Participants))
	copy(out, s.Participants)
	return out
}
