// Package gateway is the outgoing-call interceptor every TrailQuest domain
// request goes through.
//
// # Overview
//
// Transport wraps an http.RoundTripper. Before each request it asks the
// session controller for a currently valid credential and attaches it as a
// bearer header; without one, the request goes out unauthenticated (some
// endpoints are public). When the server rejects a credential with a 401,
// the transport forces exactly one renewal through the controller's
// single-flight path and re-sends the request once. A second 401, or a
// failed renewal, propagates to the caller and fires the OnAuthRequired
// hook so the UI can route to login — never a third attempt.
//
// # Usage
//
//	client := gateway.NewClient(ctl,
//		gateway.WithOnAuthRequired(func() { ui.ShowLogin() }))
//	resp, err := client.Get(apiURL + "/quests")
package gateway
