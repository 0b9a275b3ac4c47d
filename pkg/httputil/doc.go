// Package httputil provides the JSON request/response plumbing shared by the
// TrailQuest API clients.
//
// # Overview
//
// Every TrailQuest endpoint speaks JSON and reports failures as a 4xx/5xx
// status with an {"error": "..."} body. NewJSONRequest builds requests whose
// bodies can be replayed (required by the gateway's retry-once policy) and
// DecodeResponse turns an error status into a typed *APIError carrying the
// server's message verbatim.
package httputil
