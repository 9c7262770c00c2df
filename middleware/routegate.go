package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Page sets for the route gate. Public-only pages bounce signed-in users
// to the quiz list; protected pages bounce anonymous users to the landing
// page. Anything else (including /api, which has its own auth) passes
// through untouched.
var (
	publicOnlyPages = map[string]bool{
		"/":         true,
		"/login":    true,
		"/register": true,
	}

	protectedPrefixes = []string{
		"/quizzes",
		"/create",
		"/profile",
	}
)

const (
	landingPage = "/"
	homePage    = "/quizzes"
)

// GateDecision returns where a request for path should be redirected, or
// "" to let it through. Pure per-request decision, no retries.
func GateDecision(path string, authenticated bool) string {
	if publicOnlyPages[path] {
		if authenticated {
			return homePage
		}
		return ""
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			if !authenticated {
				return landingPage
			}
			return ""
		}
	}
	return ""
}

// RouteGate enforces page-level session gating. Token verification failure
// is treated identically to having no session.
func RouteGate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false
		if token := sessionToken(c); token != "" {
			if _, err := verifier.ParseToken(token); err == nil {
				authenticated = true
			}
		}

		if target := GateDecision(c.Request.URL.Path, authenticated); target != "" {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
