package middleware

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbonimpa/agrigate/internal/session"
)

const (
	// SessionKey is the gin context key for the parsed session.
	SessionKey = "session"

	// AuthorizationHeader carries the bearer token forwarded to the upstream backend.
	AuthorizationHeader = "Authorization"
	// PoliciesHeader carries the session's granted policies as a JSON string array.
	PoliciesHeader = "X-User-Policies"
	// RoleHeader carries the session's numeric role.
	RoleHeader = "X-User-Role"
	// OrgTypeHeader carries the session's numeric organization type.
	OrgTypeHeader = "X-User-Org-Type"
	// OrgIDHeader carries the id of the session's own organization.
	OrgIDHeader = "X-User-Org"
)

// Session extracts the caller's session from request headers and stashes it
// in both the gin context and the request context, so handlers can gate
// affordances and the upstream client can attach the bearer token.
//
// Requests without a bearer token proceed without a session; gated routes
// reject them later. The gateway never decides authorization on its own;
// the upstream backend re-checks every privileged action.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(AuthorizationHeader))
		if token == "" {
			c.Next()
			return
		}

		sess := &session.Session{
			Token:    token,
			Policies: parsePolicies(c),
			Role:     parseIntHeader(c, RoleHeader),
			OrgType:  parseIntHeader(c, OrgTypeHeader),
			OrgID:    c.GetHeader(OrgIDHeader),
		}

		c.Set(SessionKey, sess)
		c.Request = c.Request.WithContext(session.WithContext(c.Request.Context(), sess))

		c.Next()
	}
}

// GetSession retrieves the session from the gin context.
// Returns nil if the request carried no usable session.
func GetSession(c *gin.Context) *session.Session {
	if v, exists := c.Get(SessionKey); exists {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// bearerToken strips the Bearer scheme from an Authorization header value.
// Returns an empty string for any other scheme.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// parsePolicies decodes the policies header. A missing or malformed header
// yields an empty policy set rather than an error; the session then simply
// fails policy checks.
func parsePolicies(c *gin.Context) []string {
	raw := c.GetHeader(PoliciesHeader)
	if raw == "" {
		return nil
	}

	var policies []string
	if err := json.Unmarshal([]byte(raw), &policies); err != nil {
		if log := GetLogger(c); log != nil {
			log.Warn("Malformed policies header", map[string]interface{}{
				"header": PoliciesHeader,
			})
		}
		return nil
	}
	return policies
}

// parseIntHeader reads a numeric-string header. Missing or malformed values
// become zero, which matches no required role or org type.
func parseIntHeader(c *gin.Context, name string) int {
	raw := c.GetHeader(name)
	if raw == "" {
		return 0
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if log := GetLogger(c); log != nil {
			log.Warn("Malformed numeric header", map[string]interface{}{
				"header": name,
			})
		}
		return 0
	}
	return n
}
