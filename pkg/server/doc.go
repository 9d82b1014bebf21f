// Package server serves the live table over HTTP and WebSocket.
//
// Each WebSocket connection gets its own document, scope, and table.
// Commands arrive as binary frames, are applied to the session's table,
// and the resulting patch batch is sent back on the same connection.
// Prometheus metrics are exposed on /metrics.
package server
