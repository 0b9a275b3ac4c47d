// Package store provides durable persistence for the three session records:
// the user profile, the access credential and the refresh credential.
//
// # Overview
//
// The Store interface is a plain key/value surface (Save/Get/Remove/Clear)
// with three well-known keys. Three backends are provided: an in-memory map
// for tests and ephemeral sessions, a JSON file for desktop use, and a
// SQLite database for hosts that already ship one.
//
// SessionStore is the typed layer the session controller talks to. It owns
// the degradation policy: a failing backend is logged and treated as a cache
// miss, so the application degrades to "no session" instead of crashing.
//
// # Usage
//
//	backend, _ := store.NewFileStore("/home/me/.trailquest/session.json")
//	sessions := store.NewSessionStore(backend, logger, nil)
//	snap := sessions.Load()
package store
