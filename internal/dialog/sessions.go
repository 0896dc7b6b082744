package dialog

import (
	"sync"
	"time"
)

type sessionEntry struct {
	sess     Session
	lastSeen time.Time
}

// Sessions keeps one Session per chat. Entries idle longer than ttl are
// dropped by EvictIdle, so an abandoned form silently falls back to the menu.
type Sessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	byChat  map[int64]*sessionEntry
	nowFunc func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:     ttl,
		byChat:  make(map[int64]*sessionEntry),
		nowFunc: time.Now,
	}
}

// Get returns the chat's session, creating an idle one on first touch
func (s *Sessions) Get(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byChat[chatID]
	if !ok {
		entry = &sessionEntry{}
		s.byChat[chatID] = entry
	}
	entry.lastSeen = s.nowFunc()
	return entry.sess
}

func (s *Sessions) Put(chatID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byChat[chatID] = &sessionEntry{
		sess:     sess,
		lastSeen: s.nowFunc(),
	}
}

// EvictIdle drops sessions that have not been touched for ttl and
// returns how many were dropped
func (s *Sessions) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.nowFunc().Add(-s.ttl)
	evicted := 0
	for chatID, entry := range s.byChat {
		if entry.lastSeen.Before(deadline) {
			delete(s.byChat, chatID)
			evicted++
		}
	}
	return evicted
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}
