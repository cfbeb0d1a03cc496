// Package sessiontransport moves session tokens between clients and the
// server. The cookie transport stores the token in a signed HTTP cookie
// and degrades to a fresh anonymous session whenever the cookie is
// missing, tampered with or references a session that no longer exists.
package sessiontransport
