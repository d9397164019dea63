package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayush/second-brain/backend/internal/apperr"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(raw string) (string, error) {
	if raw == "broken" {
		return "", errors.New("keystore offline")
	}
	id, ok := s[raw]
	if !ok {
		return "", apperr.ErrUnauthenticated
	}
	return id, nil
}

func TestRequireAuth(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireAuth(stubVerifier{"good": "u-1"})(next)

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "Token Missing"},
		{"invalid", "forged", http.StatusUnauthorized, "Invalid Token"},
		{"verifier failure", "broken", http.StatusInternalServerError, "Server Error!"},
		{"valid", "good", http.StatusNoContent, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/content", nil)
			if tc.token != "" {
				req.Header.Set(TokenHeader, tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				assert.Contains(t, rec.Body.String(), tc.body)
				assert.Empty(t, seen)
			} else {
				assert.Equal(t, "u-1", seen)
			}
		})
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", UserIDFromContext(req.Context()))
	assert.Equal(t, "u-9", UserIDFromContext(WithUserID(req.Context(), "u-9")))
}
