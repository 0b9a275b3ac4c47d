package authapi

import "github.com/trailquest/trailquest-go/pkg/credential"

// LoginRequest is the body of POST /auth/login. Identifier accepts either a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// LoginResponse is the success body of POST /auth/login
type LoginResponse struct {
	Success           bool                    `json:"success"`
	User              *credential.UserProfile `json:"user"`
	AccessCredential  string                  `json:"access_credential"`
	RefreshCredential string                  `json:"refresh_credential"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

// Account is the created-account payload of POST /auth/register
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RefreshRequest is the body of POST /auth/refresh
type RefreshRequest struct {
	RenewalKey        string `json:"renewal_key"`
	RefreshCredential string `json:"refresh_credential"`
}

// RefreshResponse is the success body of POST /auth/refresh. The refresh
// credential is only present when the server rotated it.
type RefreshResponse struct {
	AccessCredential  string `json:"access_credential"`
	RefreshCredential string `json:"refresh_credential,omitempty"`
}
