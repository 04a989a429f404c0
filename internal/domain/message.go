package domain

import "time"

// FileRef points at an uploaded file. Storage of the bytes themselves is an
// external concern; the message only records the reference.
type FileRef struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mimetype,omitempty"`
}

// Message is one entry in a room's append-only log. Exactly one of Text,
// File, PollID is set. Ids are epoch-millisecond derived and monotonically
// increasing across the whole registry.
type Message struct {
	ID        int64     `json:"id"`
	Author    string    `json:"username"`
	CreatedAt time.Time `json:"timestamp"`
	Text      string    `json:"message,omitempty"`
	File      *FileRef  `json:"file,omitempty"`
	PollID    string    `json:"pollId,omitempty"`
}

// Empty reports whether the message carries no payload at all.
func (m *Message) Empty() bool {
	return m.Text == "" && m.File == nil && m.PollID == ""
}
