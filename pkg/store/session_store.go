package store

import (
	"encoding/json"

	"github.com/trailquest/trailquest-go/pkg/credential"
	"github.com/trailquest/trailquest-go/pkg/observability"
)

// Snapshot is everything the session layer persists, read back in one shot.
// Any field may be absent after a degraded read.
type Snapshot struct {
	User              *credential.UserProfile
	AccessCredential  string
	RefreshCredential string
}

// Complete reports whether the snapshot carries a full restorable session.
func (s Snapshot) Complete() bool {
	return s.User != nil && s.AccessCredential != "" && s.RefreshCredential != ""
}

// SessionStore is the typed persistence layer used by the session
// controller. Backend failures never reach the caller: they are logged and
// the operation behaves as a miss, so the application degrades to "no
// session" rather than crashing.
type SessionStore struct {
	backend Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewSessionStore wraps a Store backend
func NewSessionStore(backend Store, logger *observability.Logger, metrics *observability.Metrics) *SessionStore {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &SessionStore{
		backend: backend,
		logger:  logger.WithField("component", "store"),
		metrics: metrics,
	}
}

// SaveSession persists the full user + credential trio.
func (s *SessionStore) SaveSession(user *credential.UserProfile, access, refresh string) {
	profile, err := json.Marshal(user)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize user profile")
		s.metrics.ObserveStoreOperation("save_session", "error")
		return
	}

	ok := s.save(KeyUserProfile, profile)
	ok = s.save(KeyAccessCredential, []byte(access)) && ok
	ok = s.save(KeyRefreshCredential, []byte(refresh)) && ok
	if ok {
		s.metrics.ObserveStoreOperation("save_session", "success")
	} else {
		s.metrics.ObserveStoreOperation("save_session", "error")
	}
}

// SaveTokens persists a renewed access credential, and the refresh
// credential too when the server rotated it (empty means unchanged).
func (s *SessionStore) SaveTokens(access, refresh string) {
	ok := s.save(KeyAccessCredential, []byte(access))
	if refresh != "" {
		ok = s.save(KeyRefreshCredential, []byte(refresh)) && ok
	}
	if ok {
		s.metrics.ObserveStoreOperation("save_tokens", "success")
	} else {
		s.metrics.ObserveStoreOperation("save_tokens", "error")
	}
}

// Load reads back whatever the backend holds. A failing backend yields an
// empty snapshot.
func (s *SessionStore) Load() Snapshot {
	var snap Snapshot

	if data := s.get(KeyUserProfile); data != nil {
		var user credential.UserProfile
		if err := json.Unmarshal(data, &user); err != nil {
			s.logger.WithError(err).Warn("discarding unreadable user profile")
		} else {
			snap.User = &user
		}
	}
	if data := s.get(KeyAccessCredential); data != nil {
		snap.AccessCredential = string(data)
	}
	if data := s.get(KeyRefreshCredential); data != nil {
		snap.RefreshCredential = string(data)
	}

	s.metrics.ObserveStoreOperation("load", "success")
	return snap
}

// Clear removes all three records.
func (s *SessionStore) Clear() {
	if err := s.backend.Clear(); err != nil {
		s.logger.WithError(err).Error("failed to clear session records")
		s.metrics.ObserveStoreOperation("clear", "error")
		return
	}
	s.metrics.ObserveStoreOperation("clear", "success")
}

func (s *SessionStore) save(key string, value []byte) bool {
	if err := s.backend.Save(key, value); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("failed to save session record")
		return false
	}
	return true
}

func (s *SessionStore) get(key string) []byte {
	value, err := s.backend.Get(key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("failed to read session record, treating as absent")
		return nil
	}
	return value
}
