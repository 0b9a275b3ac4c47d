package credential

// Kind distinguishes the two credential lifetimes
type Kind string

const (
	// KindAccess is the short-lived credential attached to every
	// authenticated request
	KindAccess Kind = "access"
	// KindRefresh is the long-lived credential used only against the
	// renewal endpoint
	KindRefresh Kind = "refresh"
)

// UserProfile is the stable identity record for a logged-in user.
// A profile is present exactly when an access credential is present;
// the session layer sets and clears them as a pair.
type UserProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	// RenewalKey authorizes the refresh endpoint to mint new access
	// credentials for this user
	RenewalKey string `json:"renewal_key"`
}
