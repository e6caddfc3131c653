package chat

import (
	"sync"
	"time"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Store keeps per-session chat history. Entries expire so the demo chat
// endpoint cannot grow without bound.
type Store interface {
	Append(sessionID string, msg Message)
	History(sessionID string) []Message
}

type entry struct {
	messages []Message
	expires  time.Time
}

// MemoryStore is the in-process Store implementation. A janitor goroutine
// drops expired sessions.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Append(sessionID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expires) {
		e = &entry{}
		s.entries[sessionID] = e
	}
	e.messages = append(e.messages, msg)
	e.expires = s.now().Add(s.ttl)
}

func (s *MemoryStore) History(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok || s.now().After(e.expires) {
		return nil
	}
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for range ticker.C {
		s.sweep()
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}
