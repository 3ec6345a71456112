package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/woomsg/woomsg/internal/auth"
)

func TestAuth(t *testing.T) {
	signer := auth.NewCookieSigner("test-secret")

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 123, UserID(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		cookieValue    string
		expectedStatus int
	}{
		{
			name:           "valid cookie",
			cookieValue:    signer.Sign("123"),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid signature",
			cookieValue:    "123|invalid_signature",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-numeric value",
			cookieValue:    signer.Sign("not_an_int"),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.AddCookie(&http.Cookie{Name: "user_id", Value: tt.cookieValue})
			rr := httptest.NewRecorder()

			Auth(signer)(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		Auth(signer)(nextHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, 0, UserID(req.Context()))
}
