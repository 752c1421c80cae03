package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woklearn/woklearn-api/internal/api"
	"github.com/woklearn/woklearn-api/internal/mocks"
)

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	users := mocks.NewMemoryUserStore()
	newTestUser(t, users, "alice", "password123")
	svc := newTestTokenService(users)
	handler := api.NewAuthHandler(svc)

	req := jsonRequest(t, http.MethodPost, "/api/auth/login", api.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.LoginResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(req.Context(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.DisplayName)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	users := mocks.NewMemoryUserStore()
	newTestUser(t, users, "bob", "password123")
	handler := api.NewAuthHandler(newTestTokenService(users))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "password123"},
		{"wrong password", "bob", "not-the-password"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := jsonRequest(t, http.MethodPost, "/api/auth/login", api.LoginRequest{
				Username: tc.username,
				Password: tc.password,
			})
			rec := httptest.NewRecorder()
			handler.Login(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials")
		})
	}
}

func TestLogin_MalformedRequests(t *testing.T) {
	t.Parallel()

	users := mocks.NewMemoryUserStore()
	handler := api.NewAuthHandler(newTestTokenService(users))

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		req := jsonRequest(t, http.MethodPost, "/api/auth/login", api.LoginRequest{Username: "alice"})
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
