package cache

import (
	"time"

	"storefront/domain/user"
)

// SessionState is the persisted sign-in slot.
type SessionState struct {
	User    user.User `json:"user"`
	Token   string    `json:"token,omitempty"`
	Offline bool      `json:"offline"`
	SavedAt time.Time `json:"savedAt"`
}

// Session returns the persisted session, if any.
func (s *Store) Session() (SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st SessionState
	if !s.load(keySession, &st) || st.User.ID == "" {
		return SessionState{}, false
	}
	return st, true
}

func (s *Store) SaveSession(st SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.User.Orders = nil
	st.SavedAt = s.now()
	return s.save(keySession, st)
}

func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(keySession)
}
