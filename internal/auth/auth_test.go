package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/payflow/internal/auth"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return s
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    "https://auth.example",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestVerifier_Verify(t *testing.T) {
	v := auth.NewVerifier(secret, "https://auth.example")

	type testCase struct {
		name    string
		token   func(t *testing.T) string
		wantErr bool
	}

	tests := []testCase{
		{
			name:  "Valid",
			token: func(t *testing.T) string { return sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()) },
		},
		{
			name:    "WrongSecret",
			token:   func(t *testing.T) string { return sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()) },
			wantErr: true,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

				return sign(t, jwt.SigningMethodHS256, []byte(secret), c)
			},
			wantErr: true,
		},
		{
			name: "NoExpiry",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = nil

				return sign(t, jwt.SigningMethodHS256, []byte(secret), c)
			},
			wantErr: true,
		},
		{
			name: "WrongIssuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "https://evil.example"

				return sign(t, jwt.SigningMethodHS256, []byte(secret), c)
			},
			wantErr: true,
		},
		{
			name: "NoSubject",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Subject = ""

				return sign(t, jwt.SigningMethodHS256, []byte(secret), c)
			},
			wantErr: true,
		},
		{
			name:    "WrongAlgorithm",
			token:   func(t *testing.T) string { return sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims()) },
			wantErr: true,
		},
		{
			name:    "Garbage",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.token(t)

			p, err := v.Verify(raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, auth.ErrInvalidToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-123", p.UserID)
			assert.Equal(t, raw, p.Token)
		})
	}
}

func TestVerifier_Middleware(t *testing.T) {
	v := auth.NewVerifier(secret, "")

	var seen auth.Principal

	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		require.True(t, ok)

		seen = p

		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("MissingHeader", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
	})

	t.Run("Valid", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user-123", seen.UserID)
		assert.Equal(t, token, seen.Token)
	})
}
