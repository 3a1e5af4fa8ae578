package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "middleware-test-secret"
	issuer = "installment-ledger-test"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", middleware.AuthMiddleware(secret, issuer))
	authed.GET("/whoami", func(c *gin.Context) {
		actor, _ := middleware.GetActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user": actor.UserID, "role": string(actor.Role)})
	})
	authed.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func call(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_AcceptsIssuedToken(t *testing.T) {
	token, err := middleware.IssueToken(domain.Actor{UserID: "acc-1", Role: domain.RolePayer}, secret, issuer, time.Hour, time.Now())
	require.NoError(t, err)

	w := call(newRouter(), "/whoami", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"acc-1","role":"payer"}`, w.Body.String())
}

func TestAuthMiddleware_UnknownRoleBecomesPayer(t *testing.T) {
	token, err := middleware.IssueToken(domain.Actor{UserID: "acc-1", Role: "superuser"}, secret, issuer, time.Hour, time.Now())
	require.NoError(t, err)

	w := call(newRouter(), "/admin", "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	r := newRouter()
	now := time.Now()
	expired, _ := middleware.IssueToken(domain.Actor{UserID: "acc-1"}, secret, issuer, time.Minute, now.Add(-time.Hour))
	wrongSecret, _ := middleware.IssueToken(domain.Actor{UserID: "acc-1"}, "other", issuer, time.Hour, now)
	wrongIssuer, _ := middleware.IssueToken(domain.Actor{UserID: "acc-1"}, secret, "someone-else", time.Hour, now)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + wrongSecret,
		"wrong issuer": "Bearer " + wrongIssuer,
	} {
		w := call(r, "/whoami", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestRequireAdmin(t *testing.T) {
	token, err := middleware.IssueToken(domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}, secret, issuer, time.Hour, time.Now())
	require.NoError(t, err)

	w := call(newRouter(), "/admin", "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIssueToken_RequiresSubject(t *testing.T) {
	_, err := middleware.IssueToken(domain.Actor{Role: domain.RoleAdmin}, secret, issuer, time.Hour, time.Now())
	assert.Error(t, err)
}
