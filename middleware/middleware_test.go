package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/types"
)

const testSecret = "test-secret"

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, p.UserID)
	})
	r.GET("/", handlers...)
	return r
}

func doRequest(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	verifier := services.NewTokenVerifier(testSecret)
	owner, err := verifier.IssueToken(types.Principal{UserID: "u-1", Role: models.RolePetOwner}, time.Hour)
	require.NoError(t, err)
	staff, err := verifier.IssueToken(types.Principal{UserID: "u-2", Role: models.RoleStaff}, time.Hour)
	require.NoError(t, err)
	forged, err := services.NewTokenVerifier("other-secret").IssueToken(types.Principal{UserID: "u-3", Role: models.RoleAdmin}, time.Hour)
	require.NoError(t, err)
	expired, err := verifier.IssueToken(types.Principal{UserID: "u-4", Role: models.RoleStaff}, -time.Minute)
	require.NoError(t, err)

	open := newRouter(AuthMiddleware(verifier))
	staffOnly := newRouter(AuthMiddleware(verifier), CapabilityMiddleware(models.ActionViewDashboard))

	tests := []struct {
		name   string
		router http.Handler
		token  string
		status int
		body   string
	}{
		{name: "missing token", router: open, status: http.StatusUnauthorized},
		{name: "forged token", router: open, token: forged, status: http.StatusUnauthorized},
		{name: "expired token", router: open, token: expired, status: http.StatusUnauthorized},
		{name: "owner allowed", router: open, token: owner, status: http.StatusOK, body: "u-1"},
		{name: "owner on staff route", router: staffOnly, token: owner, status: http.StatusForbidden},
		{name: "staff on staff route", router: staffOnly, token: staff, status: http.StatusOK, body: "u-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(tt.router, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestCapabilityMiddlewareWithoutPrincipal(t *testing.T) {
	w := doRequest(newRouter(CapabilityMiddleware(models.ActionRunSweeps)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCapabilityMiddleware(t *testing.T) {
	verifier := services.NewTokenVerifier(testSecret)
	tokens := map[models.Role]string{}
	for _, role := range []models.Role{models.RolePetOwner, models.RoleStaff, models.RoleManager, models.RoleAdmin} {
		token, err := verifier.IssueToken(types.Principal{UserID: "u-" + string(role), Role: role}, time.Hour)
		require.NoError(t, err)
		tokens[role] = token
	}

	tests := []struct {
		action models.Action
		role   models.Role
		status int
	}{
		{action: models.ActionNotifyUsers, role: models.RolePetOwner, status: http.StatusForbidden},
		{action: models.ActionNotifyUsers, role: models.RoleStaff, status: http.StatusOK},
		{action: models.ActionSubscribeOperations, role: models.RolePetOwner, status: http.StatusForbidden},
		{action: models.ActionSubscribeOperations, role: models.RoleAdmin, status: http.StatusOK},
		{action: models.ActionRunSweeps, role: models.RoleStaff, status: http.StatusForbidden},
		{action: models.ActionRunSweeps, role: models.RoleManager, status: http.StatusOK},
		{action: models.ActionManageFacilities, role: models.RoleStaff, status: http.StatusForbidden},
		{action: models.ActionCreatePet, role: models.RolePetOwner, status: http.StatusOK},
		// action chỉ cấp cho chủ sở hữu thì middleware không mở cho owner
		{action: models.ActionUpdatePet, role: models.RolePetOwner, status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.action), func(t *testing.T) {
			r := newRouter(AuthMiddleware(verifier), CapabilityMiddleware(tt.action))
			assert.Equal(t, tt.status, doRequest(r, tokens[tt.role]).Code)
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Now()

	assert.True(t, limiter.allow("user:a", now))
	assert.True(t, limiter.allow("user:a", now))
	assert.False(t, limiter.allow("user:a", now), "burst exhausted")
	assert.True(t, limiter.allow("user:b", now), "other principals keep their own budget")
	assert.True(t, limiter.allow("user:a", now.Add(time.Second)))
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	r := newRouter(NewRateLimiter(0.001, 1).Middleware())

	assert.Equal(t, http.StatusOK, doRequest(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, "").Code)
}
