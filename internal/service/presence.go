package service

import "sync"

// PresenceTracker keeps a live-connection count per user. A user stays
// online while at least one realtime connection remains, so closing one of
// several tabs does not flap presence.
type PresenceTracker struct {
	mu     sync.Mutex
	online map[string]int
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{online: make(map[string]int)}
}

func (p *PresenceTracker) Connect(username string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[username]++
	return p.online[username]
}

func (p *PresenceTracker) Disconnect(username string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count, ok := p.online[username]
	if !ok {
		return 0
	}
	if count <= 1 {
		delete(p.online, username)
		return 0
	}
	p.online[username] = count - 1
	return p.online[username]
}

func (p *PresenceTracker) Online(username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[username] > 0
}

// Count reports the number of distinct online users.
func (p *PresenceTracker) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.online)
}

// Rename carries the connection count over to the new name during a
// username change.
func (p *PresenceTracker) Rename(oldName, newName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if count, ok := p.online[oldName]; ok {
		delete(p.online, oldName)
		p.online[newName] += count
	}
}
