// Package config provides SDK configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// API settings:
//
//	TRAILQUEST_API_URL="https://api.trailquest.app"
//	TRAILQUEST_HTTP_TIMEOUT="15s"
//
// Session policy:
//
//	TRAILQUEST_REFRESH_WINDOW="300s"   # renew this close to expiry
//	TRAILQUEST_CHECK_INTERVAL="60s"    # background expiry check period
//
// Credential store:
//
//	TRAILQUEST_STORE_BACKEND="file"    # memory, file, sqlite
//	TRAILQUEST_STORE_PATH="$HOME/.trailquest/session.json"
//
// Observability:
//
//	TRAILQUEST_LOG_LEVEL="info"
//	TRAILQUEST_METRICS_ENABLED="false"
package config
