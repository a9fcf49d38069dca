package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "42",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func runJWTAuth(t *testing.T, decorate func(*http.Request)) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/attachments")

	handler := JWTAuth(testSecret, nil)(func(c echo.Context) error {
		userID, _ := c.Get(UserIDKey).(uint)
		return c.JSON(http.StatusOK, map[string]uint{"userId": userID})
	})
	return rec, handler(c)
}

func TestJWTAuth_MissingToken(t *testing.T) {
	_, err := runJWTAuth(t, func(_ *http.Request) {})

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_ValidBearerToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())

	rec, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":42`)
}

func TestJWTAuth_ValidCookieToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())

	rec, err := runJWTAuth(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	headerToken := signToken(t, testSecret, validClaims())

	rec, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+headerToken)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token := signToken(t, []byte("another-secret-another-secret-32"), validClaims())

	_, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	_, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_RejectsUnsignedToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuth_MissingSubject(t *testing.T) {
	claims := validClaims()
	delete(claims, "sub")
	token := signToken(t, testSecret, claims)

	_, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Error(t, err)
}

func TestJWTAuth_NonNumericSubject(t *testing.T) {
	claims := validClaims()
	claims["sub"] = "not-a-number"
	token := signToken(t, testSecret, claims)

	_, err := runJWTAuth(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Error(t, err)
}
