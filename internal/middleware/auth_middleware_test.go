package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/internal/session"
	"travel_crm_backend/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts map[string]*models.Account

func (s stubAccounts) FindByID(id string) (*models.Account, error) {
	acc, ok := s[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return acc, nil
}

func newGate(t *testing.T) (*utils.TokenManager, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens, err := utils.NewTokenManager("test-secret-0123456789", time.Hour)
	require.NoError(t, err)
	return tokens, session.NewRedisStore(client)
}

func gatedEngine(tokens *utils.TokenManager, sessions session.Store, accounts AccountLookup, admin bool) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{AuthMiddleware(tokens, sessions), ApprovedAccountMiddleware(accounts)}
	if admin {
		chain = append(chain, AdminOnlyMiddleware())
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"account": c.GetString(ContextAccountID), "admin": c.GetBool(ContextIsAdmin)})
	})
	r.GET("/guarded", chain...)
	return r
}

func call(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, tokens *utils.TokenManager, sessions session.Store, sid, accountID string, admin bool) string {
	t.Helper()
	require.NoError(t, sessions.Create(context.Background(), sid, accountID, time.Hour))
	token, _, err := tokens.GenerateAccessToken(sid, accountID, accountID+"@example.com", admin)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	tokens, sessions := newGate(t)
	r := gatedEngine(tokens, sessions, stubAccounts{}, false)

	assert.Equal(t, http.StatusUnauthorized, call(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer not-a-jwt").Code)
}

func TestAuthMiddlewareRequiresLiveSession(t *testing.T) {
	tokens, sessions := newGate(t)
	accounts := stubAccounts{"acc-1": {ID: "acc-1", IsApproved: true}}
	r := gatedEngine(tokens, sessions, accounts, false)

	header := signIn(t, tokens, sessions, "sid-1", "acc-1", false)
	w := call(r, header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account":"acc-1"`)

	require.NoError(t, sessions.Revoke(context.Background(), "sid-1"))
	w = call(r, header)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session has ended")
}

func TestApprovedAccountMiddleware(t *testing.T) {
	tokens, sessions := newGate(t)
	accounts := stubAccounts{"pending": {ID: "pending"}}
	r := gatedEngine(tokens, sessions, accounts, false)

	w := call(r, signIn(t, tokens, sessions, "sid-p", "pending", false))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), utils.ErrCodeAccountNotApproved)

	w = call(r, signIn(t, tokens, sessions, "sid-g", "ghost", false))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	accounts["pending"].IsApproved = true
	w = call(r, signIn(t, tokens, sessions, "sid-p2", "pending", false))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOnlyUsesStoredRole(t *testing.T) {
	tokens, sessions := newGate(t)
	accounts := stubAccounts{
		"boss":   {ID: "boss", IsApproved: true, IsAdmin: true},
		"worker": {ID: "worker", IsApproved: true},
	}
	r := gatedEngine(tokens, sessions, accounts, true)

	// Token claims admin, the store says otherwise.
	w := call(r, signIn(t, tokens, sessions, "sid-w", "worker", true))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, signIn(t, tokens, sessions, "sid-b", "boss", false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestMetricsMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/ping"`)
	assert.Contains(t, w.Body.String(), `route="unmatched"`)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders(false))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
