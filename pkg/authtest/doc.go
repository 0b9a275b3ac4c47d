// Package authtest provides an in-process fake of the TrailQuest auth
// service for tests.
//
// # Overview
//
// The fake speaks the real wire contract (login, register, refresh, logout)
// and signs real JWTs, so the credential validator sees the same token shape
// it sees in production. Tests can seed users, shorten credential lifetimes,
// force refresh failures, inject latency into the renewal endpoint, and read
// back how many renewal calls the "server" observed — which is how the
// single-flight guarantees are asserted.
//
// # Usage
//
//	srv := authtest.NewServer(authtest.WithAccessTTL(2 * time.Minute))
//	defer srv.Close()
//	srv.Seed("alice", "alice@example.com", "s3cret")
//
//	client := authapi.NewClient(srv.URL(), nil)
package authtest
