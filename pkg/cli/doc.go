// Package cli implements the trailquest command line client.
//
// # Commands
//
//	trailquest register -email ... -username ...
//	trailquest login -identifier ...
//	trailquest whoami
//	trailquest quests
//	trailquest leaderboard -quest <id>
//	trailquest logout
//
// The secret is read from TRAILQUEST_SECRET or prompted on stdin. Each
// invocation restores the persisted session, so a login survives across
// runs and credentials renew transparently when a command needs one.
package cli
