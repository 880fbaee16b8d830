package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "eolos",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifier(t *testing.T) {
	v := NewVerifier(secret, "eolos")

	claims, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.EffectiveUserID())

	// sub is used when user_id is absent
	c := validClaims()
	c.UserID = ""
	c.RegisteredClaims.Subject = "user-2"
	claims, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte(secret), c))
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.EffectiveUserID())
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(secret, "eolos")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	noSubject := validClaims()
	noSubject.UserID = ""

	tokens := map[string]string{
		"wrong key":    sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte(secret), expired),
		"wrong issuer": sign(t, jwt.SigningMethodHS256, []byte(secret), wrongIssuer),
		"no expiry":    sign(t, jwt.SigningMethodHS256, []byte(secret), noExpiry),
		"no subject":   sign(t, jwt.SigningMethodHS256, []byte(secret), noSubject),
		"alg none":     sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims()),
		"garbage":      "not.a.token",
	}

	for name, tok := range tokens {
		_, err := v.Verify(tok)
		assert.Error(t, err, name)
	}
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier(secret, "")

	r := gin.New()
	r.GET("/me", RequireUser(v, nil), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims()), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", rec.Body.String())
			}
		})
	}
}
