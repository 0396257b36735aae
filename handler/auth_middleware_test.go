package handler

import (
	"bank-cards-api/config"
	"bank-cards-api/model"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func signedTestToken(t *testing.T, method jwt.SigningMethod, key interface{}) string {
	claims := &model.AppClaims{
		UserID: uuid.New().String(),
		Role:   string(model.RoleUser),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	assert.NoError(t, err)
	return token
}

func TestAuthMiddleware_SigningMethodPinned(t *testing.T) {
	config.AppConfig.JWT.SecretKey = "auth-middleware-test-secret"
	key := []byte(config.AppConfig.JWT.SecretKey)

	var reachedNext bool
	protected := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reachedNext = true
		_, ok := r.Context().Value(UserIDKey).(uuid.UUID)
		assert.True(t, ok, "user id should be in the request context")
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(token string) *httptest.ResponseRecorder {
		reachedNext = false
		req, _ := http.NewRequest("GET", "/api/cards", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		return rr
	}

	t.Run("HS256 token is accepted", func(t *testing.T) {
		rr := serve(signedTestToken(t, jwt.SigningMethodHS256, key))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, reachedNext)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		rr := serve(signedTestToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, reachedNext)
	})

	t.Run("HS512 token with the right key is rejected", func(t *testing.T) {
		// The signature itself verifies under the shared key; only the
		// method pin keeps this out.
		rr := serve(signedTestToken(t, jwt.SigningMethodHS512, key))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, reachedNext)
	})
}
