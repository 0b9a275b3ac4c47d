package session

import "github.com/trailquest/trailquest-go/pkg/credential"

// Phase is the outer session state
type Phase int

const (
	// PhaseUninitialized is the state before Restore has run
	PhaseUninitialized Phase = iota
	// PhaseRestoring means persisted records are being loaded and checked
	PhaseRestoring
	// PhaseUnauthenticated means no session exists; the user must log in
	PhaseUnauthenticated
	// PhaseAuthenticated means a user and an access credential are present
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRestoring:
		return "restoring"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a consistent snapshot of the session. User and AccessCredential
// are always set or cleared together.
type State struct {
	Phase            Phase
	User             *credential.UserProfile
	AccessCredential string
	// Renewing reports an in-flight renewal; it does not change Phase
	Renewing bool
}

// IsAuthenticated reports whether a user and access credential are present
func (s State) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// IsInitializing reports whether the startup restore is still running
func (s State) IsInitializing() bool {
	return s.Phase == PhaseUninitialized || s.Phase == PhaseRestoring
}
