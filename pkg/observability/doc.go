// Package observability provides structured logging and Prometheus metrics
// for the TrailQuest SDK.
//
// # Overview
//
// Every SDK component accepts an optional *Logger and *Metrics. A nil logger
// falls back to a stdout JSON logger; a nil Metrics disables instrumentation.
// Host applications that already run a Prometheus registry pass it to
// NewMetrics so SDK series show up alongside their own.
//
// # Key Components
//
// Logger: structured JSON logging using stdlib slog
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("component", "session").Info("session restored")
//
// Metrics: renewal, gateway and store counters
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	m.RenewalsTotal.WithLabelValues("success").Inc()
package observability
