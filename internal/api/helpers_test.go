package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/woklearn/woklearn-api/internal/api/shared"
	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/mocks"
	"github.com/woklearn/woklearn-api/internal/service/auth"
)

const (
	testSecret   = "test-secret-key-thats-at-least-32-chars"
	testIssuer   = "woklearn-api"
	testAudience = "woklearn-clients"
)

// newTestUser stores a user with a bcrypt hash of the password.
func newTestUser(t *testing.T, users *mocks.MemoryUserStore, username, password string, roles ...string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, password)
	require.NoError(t, err)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.HashedPassword = string(hashed)
	user.Password = ""
	user.Roles = roles

	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// newTestTokenService builds a token service against the given store with
// the wall clock.
func newTestTokenService(users *mocks.MemoryUserStore) auth.TokenService {
	return auth.NewTestTokenService(
		testSecret, testIssuer, testAudience, time.Hour,
		users, auth.NewBcryptVerifier(), time.Now,
	)
}

// jsonRequest builds an HTTP request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches decoded claims for the given user to the request context,
// mirroring what the authentication middleware does.
func asUser(r *http.Request, user *domain.User) *http.Request {
	claims := &auth.Claims{
		UserID:      user.ID,
		Role:        user.RoleLabel(),
		DisplayName: user.Username,
	}
	ctx := context.WithValue(r.Context(), shared.UserClaimsContextKey, claims)
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a JSON response body into the given struct.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}
