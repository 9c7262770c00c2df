package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGateDecision(t *testing.T) {
	tests := []struct {
		path          string
		authenticated bool
		want          string
	}{
		// Public-only pages bounce signed-in users home.
		{"/", true, "/quizzes"},
		{"/login", true, "/quizzes"},
		{"/register", true, "/quizzes"},
		{"/", false, ""},
		{"/login", false, ""},

		// Protected pages bounce anonymous users to the landing page.
		{"/quizzes", false, "/"},
		{"/quizzes/abc123", false, "/"},
		{"/quizzes/abc123/play", false, "/"},
		{"/create", false, "/"},
		{"/profile", false, "/"},
		{"/quizzes", true, ""},
		{"/create", true, ""},
		{"/profile", true, ""},

		// Everything else passes through unchecked.
		{"/health", false, ""},
		{"/health", true, ""},
		{"/api/quizzes", false, ""},
		{"/favicon.ico", false, ""},
		// Prefix matching is per path segment.
		{"/createdocs", false, ""},
	}

	for _, tt := range tests {
		got := GateDecision(tt.path, tt.authenticated)
		assert.Equalf(t, tt.want, got, "path=%s authenticated=%v", tt.path, tt.authenticated)
	}
}

type stubVerifier struct{}

func (stubVerifier) ParseToken(token string) (string, error) {
	if token == "valid" {
		return "user-1", nil
	}
	return "", errors.New("bad token")
}

func gateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RouteGate(stubVerifier{}))
	for _, p := range []string{"/", "/login", "/quizzes", "/profile", "/health"} {
		router.GET(p, func(c *gin.Context) { c.Status(http.StatusOK) })
	}
	return router
}

func TestRouteGate_RedirectsAnonymousFromProtected(t *testing.T) {
	router := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRouteGate_RedirectsAuthenticatedFromPublicOnly(t *testing.T) {
	router := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "valid"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/quizzes", w.Header().Get("Location"))
}

func TestRouteGate_InvalidTokenIsNoSession(t *testing.T) {
	router := gateRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/quizzes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired-or-garbage"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRouteGate_PassThrough(t *testing.T) {
	router := gateRouter()

	for _, tc := range []struct {
		path   string
		cookie string
	}{
		{"/health", ""},
		{"/health", "valid"},
		{"/", ""},
		{"/quizzes", "valid"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
		}
		router.ServeHTTP(w, req)
		assert.Equalf(t, http.StatusOK, w.Code, "path=%s cookie=%q", tc.path, tc.cookie)
	}
}
