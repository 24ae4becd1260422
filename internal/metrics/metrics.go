// Package metrics records ledger and HTTP metrics.
// Implementations can export to Prometheus or discard everything.
package metrics

import (
	"net/http"
	"time"
)

// Recorder defines the interface for collecting ledger metrics.
type Recorder interface {
	// RecordOperation records one ledger operation (deposit, withdraw, transfer...)
	// and its outcome label (ok, not_found, insufficient_balance...).
	RecordOperation(op, outcome string, duration time.Duration)

	// RecordRequest records one served HTTP request.
	RecordRequest(method, route string, status int, duration time.Duration)

	// Handler exposes the collected metrics over HTTP.
	Handler() http.Handler
}

// NoOpRecorder is used when metrics are disabled.
type NoOpRecorder struct{}

// RecordOperation does nothing.
func (NoOpRecorder) RecordOperation(op, outcome string, duration time.Duration) {}

// RecordRequest does nothing.
func (NoOpRecorder) RecordRequest(method, route string, status int, duration time.Duration) {}

// Handler answers 404.
func (NoOpRecorder) Handler() http.Handler { return http.NotFoundHandler() }
