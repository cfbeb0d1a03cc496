// Package server wraps http.Server with context-driven lifecycle and
// graceful shutdown. Run returns an errgroup-compatible closure so the
// binary can coordinate the listener with its background workers.
package server
