package permission

import "github.com/benwis/gatehouse/internal/user"

// Evaluator decides whether a user may perform the action named by a
// permission token. Call sites depend only on this interface, so a richer
// policy engine (roles, hierarchies, wildcard grants) can replace the set
// membership model without touching them.
type Evaluator interface {
	Has(u *user.User, token string) bool
}

// SetEvaluator grants a token exactly when it is a member of the user's
// permission set. No hierarchy, no wildcard expansion, no inheritance.
type SetEvaluator struct{}

// Has reports whether u holds token. A nil user holds nothing.
func (SetEvaluator) Has(u *user.User, token string) bool {
	if u == nil {
		return false
	}
	return u.Permissions.Contains(token)
}
