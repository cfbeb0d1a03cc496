package auth

import "strings"

// SignupPolicy decides whether a username may register. The gate is a
// deployment-level business rule, injected rather than hard-coded, so a
// closed personal instance and an open service share the same flow.
type SignupPolicy func(username string) bool

// AllowAll permits any username to register.
func AllowAll() SignupPolicy {
	return func(string) bool { return true }
}

// AllowList permits only the listed usernames. Comparison is exact, to
// match login's case-sensitive lookup.
func AllowList(usernames ...string) SignupPolicy {
	allowed := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		allowed[u] = struct{}{}
	}
	return func(username string) bool {
		_, ok := allowed[username]
		return ok
	}
}

// PolicyFromAllowedUsernames builds a SignupPolicy from a comma-separated
// configuration value. Empty means open registration.
func PolicyFromAllowedUsernames(raw string) SignupPolicy {
	names := splitTokens(raw)
	if len(names) == 0 {
		return AllowAll()
	}
	return AllowList(names...)
}

// splitTokens parses a comma-separated configuration value, trimming
// whitespace and dropping empty entries.
func splitTokens(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
