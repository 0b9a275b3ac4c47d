package store

// Persisted keys. These names are shared with the other TrailQuest clients
// so a session written by one is readable by another.
const (
	KeyAccessCredential  = "access_credential"
	KeyRefreshCredential = "refresh_credential"
	KeyUserProfile       = "user_profile"
)

// managedKeys lists every key Clear removes.
var managedKeys = []string{KeyAccessCredential, KeyRefreshCredential, KeyUserProfile}

// Store is durable key/value persistence for session records. Get returns
// (nil, nil) on a missing key. Implementations must make Clear remove all
// managed keys so a caller never observes a partially cleared session.
type Store interface {
	Save(key string, value []byte) error
	Get(key string) ([]byte, error)
	Remove(key string) error
	Clear() error
}
