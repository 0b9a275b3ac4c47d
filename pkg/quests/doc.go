// Package quests is the domain API client for species-discovery quests,
// leaderboards and sighting reports.
//
// All calls go through a gateway-equipped http.Client, so credential
// attachment and renewal-and-retry happen transparently; this package is
// pure data fetching glue.
package quests
