package portal

import (
	"sync"

	"github.com/m2v/moodle-scraper/internal/session"
)

// CredentialStore holds the process-wide ambient credentials used by calls
// that omit them explicitly. The UI layer sets them once per user session
// and overwrites them on re-entry; they live until process exit and are
// never persisted.
type CredentialStore struct {
	mu    sync.RWMutex
	creds *session.Credentials
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Set replaces the stored credentials.
func (s *CredentialStore) Set(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &session.Credentials{Email: email, Password: password}
}

// Get returns a copy of the stored credentials, or nil when none were set.
func (s *CredentialStore) Get() *session.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil
	}
	c := *s.creds
	return &c
}
