package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusflow/sched-api/model"
	"campusflow/sched-api/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newGuardedRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	viper.Set("jwt.secret", "test-secret")
	viper.Set("jwt.lifetime_hours", 168)

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}))

	r := gin.New()
	r.Use(NewRequestIDMiddleware())

	r.GET("/protected", NewAuthMiddleware(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.MustGet("userID")})
	})

	r.GET("/maybe", NewOptionalAuthMiddleware(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})

	r.GET("/admin", NewAuthMiddleware(db), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, id, role string, active bool) {
	t.Helper()

	require.NoError(t, db.Create(&model.User{
		ID:           id,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        id + "@x.com",
		CountryCode:  "+44",
		Phone:        "70000" + id,
		PasswordHash: "$argon2id$",
		Verified:     true,
		Active:       active,
		Role:         role,
	}).Error)
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejections(t *testing.T) {
	r, db := newGuardedRouter(t)
	seedUser(t, db, "user1", model.RoleUser, true)

	valid, _, err := security.MakeSessionToken("user1")
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	forgedStr, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	ghost, _, err := security.MakeSessionToken("no-such-user")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"malformed token", "Bearer garbage", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forgedStr, http.StatusUnauthorized},
		{"expired", "Bearer " + expiredStr, http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghost, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(r, "/protected", tt.header).Code)
		})
	}
}

func TestAuthMiddlewareExpiredMessage(t *testing.T) {
	r, db := newGuardedRouter(t)
	seedUser(t, db, "user1", model.RoleUser, true)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	// Expired and invalid are distinguishable for client retry logic
	w := get(r, "/protected", "Bearer "+expiredStr)
	assert.Contains(t, w.Body.String(), "expired")

	w = get(r, "/protected", "Bearer garbage")
	assert.NotContains(t, w.Body.String(), "expired")
}

func TestAuthMiddlewareInactiveUser(t *testing.T) {
	r, db := newGuardedRouter(t)
	seedUser(t, db, "user1", model.RoleUser, false)

	token, _, err := security.MakeSessionToken("user1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "Bearer "+token).Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r, db := newGuardedRouter(t)
	seedUser(t, db, "user1", model.RoleUser, true)

	token, _, err := security.MakeSessionToken("user1")
	require.NoError(t, err)

	w := get(r, "/maybe", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user1")

	// Anonymous and broken tokens both fall through instead of rejecting
	w = get(r, "/maybe", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":""`)

	w = get(r, "/maybe", "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, db := newGuardedRouter(t)
	seedUser(t, db, "user1", model.RoleUser, true)
	seedUser(t, db, "admin1", model.RoleAdmin, true)

	userToken, _, err := security.MakeSessionToken("user1")
	require.NoError(t, err)

	adminToken, _, err := security.MakeSessionToken("admin1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "Bearer "+adminToken).Code)
}
