package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yashp387/Job-Board/internal/auth"
	"github.com/yashp387/Job-Board/internal/http/middlewares"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

func newTestJWT() *auth.Manager {
	return auth.NewManager("test-secret-key", time.Hour)
}

// bearerFor builds a real signed token so protected routes run through the
// same auth middleware as production.
func bearerFor(t *testing.T, m *auth.Manager, userID, email, role string) string {
	t.Helper()

	token, err := m.GenerateAccessToken(userID, email, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return "Bearer " + token
}

// setupRouter mounts one handler per test, optionally behind auth.
func setupRouter(method, path string, h gin.HandlerFunc, pre ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	all := append(append([]gin.HandlerFunc{}, pre...), h)
	r.Handle(method, path, all...)

	return r
}

func authedRouter(m *auth.Manager, method, path string, h gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	mw := middlewares.NewAuthMiddleware(m)

	pre := append([]gin.HandlerFunc{mw.RequireAuth()}, extra...)

	return setupRouter(method, path, h, pre...)
}

func doRequest(router http.Handler, method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}
