// Package credential defines the credential and user profile types shared by
// the TrailQuest SDK and implements expiry validation for access credentials.
//
// # Overview
//
// Credentials are opaque signed JWT strings issued by the TrailQuest auth
// service. The client never verifies signatures (it holds no key); it only
// decodes the registered exp claim to decide whether a credential is still
// usable and whether it is close enough to expiry that a proactive renewal
// should run.
//
// # Key Components
//
// Validator: answers the two expiry questions every caller has
//
//	v := credential.NewValidator()
//	if v.IsValid(token) && !v.IsExpiringSoon(token, 5*time.Minute) {
//		// safe to attach to a request without renewing first
//	}
//
// UserProfile: the stable identity record stored alongside the credentials
//
// Validation fails closed: a malformed token, a token without an exp claim,
// or an expired token are all reported as invalid.
package credential
