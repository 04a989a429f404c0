package domain

// Realtime event types, client to server.
const (
	EventJoinRoom  = "join-room"
	EventStartCall = "start-call"
	EventJoinCall  = "join-call"
	EventEndCall   = "end-call"
)

// Realtime event types, server to client.
const (
	EventUserJoined  = "user-joined"
	EventUserLeft    = "user-left"
	EventCallStarted = "call-started"
	EventCallUpdated = "call-updated"
	EventCallEnded   = "call-ended"
)

// Event is the wire message of the realtime channel, both directions.
type Event struct {
	Type         string   `json:"type"`
	Room         string   `json:"room,omitempty"`
	Username     string   `json:"username,omitempty"`
	Initiator    string   `json:"initiator,omitempty"`
	IsVideo      bool     `json:"isVideo,omitempty"`
	Participants []string `json:"participants,omitempty"`
}
