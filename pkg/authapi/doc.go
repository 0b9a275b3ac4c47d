// Package authapi implements the HTTP contract of the TrailQuest auth
// service: login, registration, credential renewal and logout.
//
// # Overview
//
// The client is deliberately thin. It does not hold session state and it
// never decides what a failure means for the session; that is the session
// controller's job. It maps the wire contract onto typed requests and
// responses and onto two error shapes: *httputil.APIError for any rejected
// operation (so the UI can render the server's message) and
// ErrCredentialRejected when the renewal endpoint refuses the refresh
// credential itself.
//
// The refresh credential is sent to the renewal endpoint and nowhere else.
package authapi
