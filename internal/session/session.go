package session

import (
	"context"
)

// Role codes assigned to dashboard users.
const (
	RoleAdmin   = 1
	RoleOfficer = 2
	RolePartner = 3
)

// Organization type codes.
const (
	OrgTypeProgram = 1
	OrgTypePartner = 2
)

// Session is the per-request identity record extracted from the request by
// the session middleware. It replaces the source system's ambient storage
// lookups with an explicitly passed object; this layer never refreshes or
// mutates it.
type Session struct {
	Token    string
	Policies []string
	Role     int
	OrgType  int
	OrgID    string
}

// HasAccess reports whether the session may see an affordance that requires
// the given policy, role, and organization-type sets.
//
// The rule is asymmetric on purpose: both the role set and the org-type set
// must be non-empty and contain the session's values, while an empty policy
// set means no policy is needed. This predicate only gates what the gateway
// exposes; the program backend remains the authority for every privileged
// action.
func (s *Session) HasAccess(requiredPolicies []string, requiredRoles, requiredOrgTypes []int) bool {
	if s == nil {
		return false
	}
	if len(requiredRoles) == 0 || !containsInt(requiredRoles, s.Role) {
		return false
	}
	if len(requiredOrgTypes) == 0 || !containsInt(requiredOrgTypes, s.OrgType) {
		return false
	}
	if len(requiredPolicies) == 0 {
		return true
	}
	return hasAllPolicies(s.Policies, requiredPolicies)
}

func containsInt(set []int, v int) bool {
	for _, m := range set {
		if m == v {
			return true
		}
	}
	return false
}

// hasAllPolicies reports whether granted is a superset of required.
func hasAllPolicies(granted, required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range granted {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type contextKey struct{}

// WithContext returns a child context carrying the session.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the session from the context.
// Returns nil if no session was attached.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok {
		return s
	}
	return nil
}
