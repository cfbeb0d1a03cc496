// Package pg provides PostgreSQL connection management: a pgx pool with
// backoff-verified connectivity, goose-driven schema migrations embedded in
// the binary, a readiness healthcheck, and classification of the storage
// errors the rest of the service branches on.
package pg
