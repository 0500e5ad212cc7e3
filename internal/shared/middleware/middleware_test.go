package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventure/internal/shared/config"
	"eventure/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func accessClaims(userID uuid.UUID, role users.Role) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func runJWTAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/transactions", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	JWTAuth(testConfig())(c)
	return w, c
}

func TestJWTAuthAcceptsValidAccessToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, accessClaims(userID, users.RoleUser))

	w, c := runJWTAuth(t, "Bearer "+token)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, w.Code)

	auth, err := GetAuthContext(c)
	require.NoError(t, err)
	assert.Equal(t, userID, auth.UserID)
	assert.Equal(t, users.RoleUser, auth.Role)
	assert.False(t, auth.IsOrganizer())
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	userID := uuid.New()

	expired := accessClaims(userID, users.RoleUser)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	refresh := accessClaims(userID, users.RoleUser)
	refresh["type"] = "refresh"

	badRole := accessClaims(userID, users.RoleUser)
	badRole["role"] = "superuser"

	badUserID := accessClaims(userID, users.RoleUser)
	badUserID["user_id"] = "not-a-uuid"

	otherKey := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims(userID, users.RoleUser))
	forged, err := otherKey.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signing key", "Bearer " + forged},
		{"expired", "Bearer " + signToken(t, expired)},
		{"refresh token", "Bearer " + signToken(t, refresh)},
		{"unknown role", "Bearer " + signToken(t, badRole)},
		{"malformed user id", "Bearer " + signToken(t, badUserID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runJWTAuth(t, tt.authorization)
			assert.True(t, c.IsAborted())
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(role users.Role, mw gin.HandlerFunc) (*httptest.ResponseRecorder, *gin.Context) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/transactions/organizer", nil)
		c.Set(contextKeyAuth, AuthContext{UserID: uuid.New(), Role: role})
		mw(c)
		return w, c
	}

	t.Run("organizer passes", func(t *testing.T) {
		_, c := run(users.RoleOrganizer, RequireOrganizer())
		assert.False(t, c.IsAborted())
	})

	t.Run("admin passes organizer gate", func(t *testing.T) {
		_, c := run(users.RoleAdmin, RequireOrganizer())
		assert.False(t, c.IsAborted())
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		w, c := run(users.RoleUser, RequireOrganizer())
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthenticated is unauthorized", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/transactions/organizer", nil)
		RequireOrganizer()(c)
		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
