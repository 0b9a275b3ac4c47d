// Package session owns the client credential lifecycle: acquiring a session
// on login, keeping the short-lived access credential fresh against the
// long-lived refresh credential, and tearing the session down on logout or
// terminal renewal failure.
//
// # Overview
//
// A Controller is the single authority over renewal. Any number of callers
// (outgoing API requests, UI guards, the built-in background check) may ask
// for a valid credential concurrently; when a renewal is needed, exactly one
// request reaches the auth service and every caller receives that one
// result. Renewal failure is never an error to the caller — it resolves to a
// defined state transition (the session clears and callers see an empty
// credential) so a dead session surfaces as "please log in", not as a crash.
//
// # Usage
//
//	ctl := session.New(session.Config{
//		Auth:     authapi.NewClient(baseURL, nil),
//		Store:    store.NewSessionStore(backend, logger, metrics),
//		Validator: credential.NewValidator(),
//	})
//	defer ctl.Close()
//
//	state := ctl.Restore(ctx)
//	if !state.IsAuthenticated() {
//		state, err = ctl.Login(ctx, "alice", secret)
//	}
//	token, _ := ctl.Token(ctx) // fast path: no I/O while the credential is fresh
//
// Controllers are plain values constructed with their dependencies; there is
// no package-level session, so tests run independent sessions side by side.
package session
