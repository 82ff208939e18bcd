package middlewares

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/utils"
)

var secret = []byte("middleware-secret")

func newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":  c.MustGet(UserIDKey).(uuid.UUID).String(),
			"admin": c.GetBool(IsAdminKey),
		})
	})
	return r
}

func get(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	r := newRouter(Authenticate(secret))
	userID := uuid.New()

	valid, err := utils.GenerateToken(secret, userID, false, time.Hour)
	require.NoError(t, err)
	otherKey, err := utils.GenerateToken([]byte("another-secret"), userID, false, time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken(secret, userID, false, -time.Minute)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"too many parts", "Bearer " + valid + " extra", http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"subject is not a uuid", "Bearer " + noSubject, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"scheme is case insensitive", "bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(r, "/whoami", tt.header)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user":"`+userID.String()+`","admin":false}`, rec.Body.String())
			}
		})
	}
}

func TestAuthenticateRejectsOtherAlgorithms(t *testing.T) {
	r := newRouter(Authenticate(secret))
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "Bearer "+tok).Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(Authenticate(secret), RequireAdmin)

	user, err := utils.GenerateToken(secret, uuid.New(), false, time.Hour)
	require.NoError(t, err)
	admin, err := utils.GenerateToken(secret, uuid.New(), true, time.Hour)
	require.NoError(t, err)
	serviceRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		Role: utils.RoleServiceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/whoami", "Bearer "+user).Code)
	assert.Equal(t, http.StatusOK, get(r, "/whoami", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusOK, get(r, "/whoami", "Bearer "+serviceRole).Code)
}

func TestServiceRoleKeyWithoutSubject(t *testing.T) {
	r := newRouter(Authenticate(secret), RequireAdmin)
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		Role: utils.RoleServiceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "supabase",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	rec := get(r, "/whoami", "Bearer "+key)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"user":"`+uuid.Nil.String()+`","admin":true}`, rec.Body.String())

	// Only the service role may omit the subject.
	anon, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		Role: "anon",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "Bearer "+anon).Code)
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	r := newRouter(RequireAdmin)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/whoami", "").Code)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/steps/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get(r, "/steps/"+uuid.NewString(), "")
	get(r, "/steps/"+uuid.NewString(), "")
	get(r, "/nowhere", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/steps/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogging(logger))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	get(r, "/health", "")
	assert.Empty(t, buf.String())

	get(r, "/boom", "")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"route":"/boom"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
