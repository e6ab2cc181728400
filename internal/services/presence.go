package services

import (
	"sync"
)

// Presence tracks which user holds each live chat connection. It is created
// once in main and owned by the hub; nothing survives a restart.
type Presence struct {
	mutex sync.RWMutex
	conns map[string]uint
}

// NewPresence creates an empty presence registry.
func NewPresence() *Presence {
	return &Presence{
		conns: make(map[string]uint),
	}
}

// Add maps a connection id to a user id.
func (p *Presence) Add(connID string, userID uint) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.conns[connID] = userID
}

// Remove drops the connection mapping and returns the user it belonged to.
// The second return is false when the connection was never registered.
func (p *Presence) Remove(connID string) (uint, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	userID, ok := p.conns[connID]
	if ok {
		delete(p.conns, connID)
	}
	return userID, ok
}

// ActiveUsers returns a consistent snapshot of connected user ids, one entry
// per user no matter how many connections they hold.
func (p *Presence) ActiveUsers() []uint {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	seen := make(map[uint]bool, len(p.conns))
	users := make([]uint, 0, len(p.conns))
	for _, userID := range p.conns {
		if !seen[userID] {
			seen[userID] = true
			users = append(users, userID)
		}
	}
	return users
}
