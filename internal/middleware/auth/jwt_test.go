package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func createValidJWT(participant, email string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   participant,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, _ := token.SignedString([]byte(testSecret))
	return tokenString
}

func runMiddleware(t *testing.T, authHeader string, skipPaths []string, path string) (*httptest.ResponseRecorder, *AuthUser) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *AuthUser
	handler := JWTMiddleware(JWTConfig{
		Secret:    testSecret,
		Logger:    zap.NewNop(),
		SkipPaths: skipPaths,
	})(func(c echo.Context) error {
		captured, _ = GetUserFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	assert.NoError(t, err)
	return rec, captured
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	token := createValidJWT("alice", "alice@example.com")

	rec, user := runMiddleware(t, "Bearer "+token, nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Participant)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, user := runMiddleware(t, "", nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	rec, user := runMiddleware(t, "Token abc", nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestJWTMiddleware_WrongSignature(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte("other-secret"))

	rec, user := runMiddleware(t, "Bearer "+tokenString, nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte(testSecret))

	rec, user := runMiddleware(t, "Bearer "+tokenString, nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestJWTMiddleware_MissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "alice@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	tokenString, _ := token.SignedString([]byte(testSecret))

	rec, user := runMiddleware(t, "Bearer "+tokenString, nil, "/api/v1/subscriptions")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
}

func TestRequireAuth_NoAuthenticatedUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	user, err := RequireAuth(c)

	// A route mounted without the middleware must still see a real error,
	// not a nil user behind a nil error.
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_AuthenticatedUser(t *testing.T) {
	token := createValidJWT("alice", "alice@example.com")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(JWTConfig{
		Secret: testSecret,
		Logger: zap.NewNop(),
	})(func(c echo.Context) error {
		user, err := RequireAuth(c)
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Participant)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_SkipPath(t *testing.T) {
	rec, user := runMiddleware(t, "", []string{"/webhook"}, "/webhook")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, user)
}
