// Package sessionstore provides session.Store backends: Postgres for
// durable single-source-of-truth deployments, Redis where native key expiry
// and horizontal read scaling matter, and an in-process Memory store for
// tests. All three serialize writes per session id (upsert, last writer
// wins).
package sessionstore
