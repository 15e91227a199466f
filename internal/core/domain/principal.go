package domain

// Principal is the authenticated identity derived from a verified token.
// It lives for the duration of a single request and is never persisted.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Requirement declares who may invoke a protected operation: any of Roles,
// or — when AllowSelf is set — a plain USER acting on its own resources.
type Requirement struct {
	Roles     []Role
	AllowSelf bool
}

// Allowed evaluates a Requirement against a Principal and an optional target
// resource owner. It is a pure function and performs no I/O.
//
//  1. No principal → deny.
//  2. Principal's role is in the declared set → allow.
//  3. Self clause declared, principal is a USER and owns the target → allow.
//  4. Otherwise deny.
func Allowed(p *Principal, req Requirement, targetID string) bool {
	if p == nil {
		return false
	}
	for _, r := range req.Roles {
		if p.Role == r {
			return true
		}
	}
	if req.AllowSelf && p.Role == RoleUser && targetID != "" && p.ID == targetID {
		return true
	}
	return false
}
