package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/summarizetube/summarizetube-backend/internal/conversation"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps conversation sessions in memory and drops them after
// they have been idle for the configured TTL.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]*sessionItem
	ttl   time.Duration

	logger *logrus.Logger
	stop   chan struct{}
	once   sync.Once
}

type sessionItem struct {
	session    *conversation.Session
	expiration time.Time
}

const defaultSessionTTL = 2 * time.Hour

// NewSessionStore creates a store and starts its cleanup goroutine.
func NewSessionStore(ttl time.Duration, logger *logrus.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	ss := &SessionStore{
		items:  make(map[string]*sessionItem),
		ttl:    ttl,
		logger: logger,
		stop:   make(chan struct{}),
	}

	interval := time.Minute
	if ttl < 2*interval {
		interval = ttl / 2
	}
	go ss.cleanupExpired(interval)

	return ss
}

// Create starts a new idle session with a random ID.
func (ss *SessionStore) Create() *conversation.Session {
	session := conversation.New(uuid.New().String())

	ss.mu.Lock()
	ss.items[session.ID()] = &sessionItem{
		session:    session,
		expiration: time.Now().Add(ss.ttl),
	}
	ss.mu.Unlock()

	ss.logger.WithField("session_id", session.ID()).Debug("session created")
	return session
}

// Get returns the session and extends its lifetime.
func (ss *SessionStore) Get(id string) (*conversation.Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	item, exists := ss.items[id]
	if !exists || time.Now().After(item.expiration) {
		return nil, ErrSessionNotFound
	}

	item.expiration = time.Now().Add(ss.ttl)
	return item.session, nil
}

// Delete removes a session. Unknown IDs report ErrSessionNotFound.
func (ss *SessionStore) Delete(id string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, exists := ss.items[id]; !exists {
		return ErrSessionNotFound
	}
	delete(ss.items, id)
	return nil
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	n := 0
	now := time.Now()
	for _, item := range ss.items {
		if !now.After(item.expiration) {
			n++
		}
	}
	return n
}

// Close stops the cleanup goroutine.
func (ss *SessionStore) Close() {
	ss.once.Do(func() { close(ss.stop) })
}

// cleanupExpired periodically removes expired sessions
func (ss *SessionStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ss.stop:
			return
		case <-ticker.C:
			ss.removeExpired(time.Now())
		}
	}
}

func (ss *SessionStore) removeExpired(now time.Time) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	for id, item := range ss.items {
		if now.After(item.expiration) {
			delete(ss.items, id)
			ss.logger.WithField("session_id", id).Debug("session expired")
		}
	}
}
