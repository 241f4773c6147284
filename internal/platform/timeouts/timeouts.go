// Package timeouts defines shared durations used by the web tier and its
// command. Keeping them in one place makes the values discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown limits how long pending spans may take to flush on exit.
const TelemetryShutdown = 5 * time.Second

// VerifyRedirect is the pause between a successful magic-link verification
// and navigation to the signed-in landing page, so the confirmation can be read.
const VerifyRedirect = 1500 * time.Millisecond
