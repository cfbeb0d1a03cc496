package user

// User is an account record. Loaded read-only by authenticated requests;
// only signup creates rows.
type User struct {
	// ID is the stable numeric identifier, immutable after creation.
	ID int64

	// Username is unique and case-sensitive; used for login lookup.
	Username string

	// DisplayName is a mutable human-readable label with no uniqueness
	// constraint.
	DisplayName string

	// PasswordHash is the PHC-encoded salted credential hash.
	// Never the plaintext password.
	PasswordHash string

	// Permissions is the set of capability tokens granted to the account.
	Permissions Permissions
}

// Permissions is an unordered set of permission tokens.
// Membership is the only operation the authorization model needs.
type Permissions map[string]struct{}

// NewPermissions builds a set from the given tokens.
func NewPermissions(tokens ...string) Permissions {
	p := make(Permissions, len(tokens))
	for _, t := range tokens {
		p[t] = struct{}{}
	}
	return p
}

// Contains reports whether the set grants the given token.
func (p Permissions) Contains(token string) bool {
	_, ok := p[token]
	return ok
}

// Tokens returns the set's members in unspecified order.
func (p Permissions) Tokens() []string {
	tokens := make([]string, 0, len(p))
	for t := range p {
		tokens = append(tokens, t)
	}
	return tokens
}
