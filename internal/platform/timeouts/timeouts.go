// Package timeouts defines shared timeout constants used by the daemon.
//
// Checkpoint writes deliberately have no timeout: a quit checkpoint must
// finish before the process exits.
package timeouts

import "time"

// ReadHeader limits how long the operations HTTP server waits for headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the operations HTTP server waits for in-flight
// requests during graceful shutdown.
const Shutdown = 5 * time.Second

// StorageDial caps the wait when connecting to a networked slot backend.
const StorageDial = 2 * time.Second
