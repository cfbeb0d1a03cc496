// Package cookie manages HTTP cookies with HMAC-SHA256 signing. The session
// transport signs the session token so a tampered cookie is rejected before
// any store lookup; plain Set/Get serve non-sensitive preferences like the
// dark-mode toggle. Multiple secrets allow key rotation: the newest signs,
// older ones still verify.
package cookie
