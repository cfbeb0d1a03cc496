// Package session implements server-side sessions keyed by an opaque random
// token. A Session tracks an optional authenticated user id and two
// independent lifecycle flags: Persist (written to durable storage at all)
// and Remembered (cookie outlives the browser session). The Manager
// validates expiry on load and commits end-of-request state back to a
// pluggable Store.
//
// Typical request flow:
//
//	sess, err := manager.GetByToken(ctx, token)
//	if err != nil {
//		sess, err = manager.New(ctx)
//	}
//	// ... handlers mutate sess ...
//	err = manager.Commit(ctx, sess)
package session
