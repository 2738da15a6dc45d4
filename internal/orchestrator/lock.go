package orchestrator

import "sync"

// sessionLocks keeps two runs of the same session from overlapping.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{held: make(map[string]bool)}
}

// tryLock reports false when the session is already running.
func (l *sessionLocks) tryLock(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[sessionID] {
		return false
	}
	l.held[sessionID] = true
	return true
}

func (l *sessionLocks) unlock(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, sessionID)
}
