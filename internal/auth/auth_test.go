package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *AuthManager {
	t.Helper()
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	return NewAuthManager(Config{
		JWTSecret:     "test-secret",
		JWTExpiration: 5,
		APIKeys:       []string{"key-1"},
		AllowedUsers:  []User{{Username: "ops", PasswordHash: hash, Role: "operator"}},
	})
}

func TestAuthenticateUser(t *testing.T) {
	am := newManager(t)

	role, err := am.AuthenticateUser("ops", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "operator", role)

	_, err = am.AuthenticateUser("ops", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = am.AuthenticateUser("nobody", "hunter2")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestJWTRoundTripAndExpiry(t *testing.T) {
	am := newManager(t)
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	am.now = func() time.Time { return base }

	token, expires, err := am.GenerateJWT("ops", "operator")
	require.NoError(t, err)
	require.Equal(t, base.Add(5*time.Minute), expires)

	claims, err := am.ValidateJWT(token)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Username)
	require.Equal(t, "operator", claims.Role)

	am.now = func() time.Time { return base.Add(6 * time.Minute) }
	_, err = am.ValidateJWT(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWTRejectsOtherSecret(t *testing.T) {
	other := NewAuthManager(Config{JWTSecret: "different"})
	token, _, err := other.GenerateJWT("ops", "operator")
	require.NoError(t, err)

	_, err = newManager(t).ValidateJWT(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAPIKey(t *testing.T) {
	am := newManager(t)
	require.True(t, am.ValidateAPIKey("key-1"))
	require.False(t, am.ValidateAPIKey("key-2"))
	require.False(t, am.ValidateAPIKey(""))
}

func TestMiddleware(t *testing.T) {
	am := newManager(t)
	token, _, err := am.GenerateJWT("ops", "operator")
	require.NoError(t, err)

	var sawClaims bool
	h := am.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawClaims = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header map[string]string
		want   int
		claims bool
	}{
		{name: "no credentials", want: http.StatusUnauthorized},
		{name: "good api key", header: map[string]string{"X-API-Key": "key-1"}, want: http.StatusNoContent},
		{name: "bad api key", header: map[string]string{"X-API-Key": "nope"}, want: http.StatusUnauthorized},
		{name: "good bearer", header: map[string]string{"Authorization": "Bearer " + token}, want: http.StatusNoContent, claims: true},
		{name: "bad bearer", header: map[string]string{"Authorization": "Bearer garbage"}, want: http.StatusUnauthorized},
		{name: "wrong scheme", header: map[string]string{"Authorization": "Basic abc"}, want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sawClaims = false
			req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, tc.claims, sawClaims)
		})
	}
}

func TestMiddlewareOpenWhenUnconfigured(t *testing.T) {
	am := NewAuthManager(Config{})
	require.False(t, am.Enabled())

	h := am.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEmptySecretTokenRejectedWithAPIKeysOnly(t *testing.T) {
	am := NewAuthManager(Config{APIKeys: []string{"k"}})
	require.True(t, am.Enabled())

	_, _, err := am.GenerateJWT("ops", "operator")
	require.ErrorIs(t, err, ErrNoSecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "intruder",
		Role:     "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(""))
	require.NoError(t, err)

	_, err = am.ValidateJWT(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	reached := false
	h := am.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, reached)
}
