package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/mocks"
	"github.com/woklearn/woklearn-api/internal/service/auth"
)

const (
	testSecret   = "test-secret-key-thats-at-least-32-chars"
	testIssuer   = "woklearn-api"
	testAudience = "woklearn-clients"
	testLifetime = time.Hour
)

// seedUser creates a user with a bcrypt hash of the given password and stores
// it, returning the stored user.
func seedUser(t *testing.T, store *mocks.MemoryUserStore, username, password string, roles ...string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, password)
	require.NoError(t, err)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.HashedPassword = string(hashed)
	user.Password = ""
	user.Roles = roles

	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func newServiceAt(store *mocks.MemoryUserStore, now time.Time) auth.TokenService {
	return auth.NewTestTokenService(
		testSecret, testIssuer, testAudience, testLifetime,
		store, auth.NewBcryptVerifier(),
		func() time.Time { return now },
	)
}

func TestIssueToken_Success(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	user := seedUser(t, userStore, "alice", "password123")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newServiceAt(userStore, now)

	token, err := svc.IssueToken(context.Background(), "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "alice", claims.DisplayName)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, testAudience, claims.Audience)
	assert.Equal(t, now.Add(testLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.False(t, claims.IsAdministrator())
}

func TestIssueToken_AdministratorRoleClaim(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "root", "password123", domain.RoleAdministrator)
	svc := newServiceAt(userStore, time.Now())

	token, err := svc.IssueToken(context.Background(), "root", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdministrator, claims.Role)
	assert.True(t, claims.IsAdministrator())
}

func TestIssueToken_RoleCapturedAtIssuance(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	user := seedUser(t, userStore, "carol", "password123", domain.RoleAdministrator)
	svc := newServiceAt(userStore, time.Now())

	token, err := svc.IssueToken(context.Background(), "carol", "password123")
	require.NoError(t, err)

	// Demote after issuance; the outstanding token keeps the old role.
	user.Roles = nil
	require.NoError(t, userStore.Update(context.Background(), user))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdministrator())
}

func TestIssueToken_UnknownUsername(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	svc := newServiceAt(userStore, time.Now())

	token, err := svc.IssueToken(context.Background(), "nobody", "password123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)
}

func TestIssueToken_WrongPassword(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	user := seedUser(t, userStore, "bob", "password123")
	svc := newServiceAt(userStore, time.Now())

	token, err := svc.IssueToken(context.Background(), "bob", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)

	// The failed attempt is recorded against the account.
	stored, err := userStore.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.FailedLoginAttempts)
}

func TestIssueToken_FailureModesIndistinguishable(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "dave", "password123")
	svc := newServiceAt(userStore, time.Now())

	_, errUnknown := svc.IssueToken(context.Background(), "ghost", "password123")
	_, errWrongPw := svc.IssueToken(context.Background(), "dave", "not-the-password")

	assert.Equal(t, errUnknown, errWrongPw)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "eve", "password123")
	issuedAt := time.Now().UTC()
	svc := newServiceAt(userStore, issuedAt)

	token, err := svc.IssueToken(context.Background(), "eve", "password123")
	require.NoError(t, err)

	// Same secret, clock advanced past expiry.
	later := newServiceAt(userStore, issuedAt.Add(testLifetime+time.Minute))
	claims, err := later.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_StillValidJustBeforeExpiry(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "fred", "password123")
	issuedAt := time.Now().UTC()
	svc := newServiceAt(userStore, issuedAt)

	token, err := svc.IssueToken(context.Background(), "fred", "password123")
	require.NoError(t, err)

	almost := newServiceAt(userStore, issuedAt.Add(testLifetime-time.Second))
	_, err = almost.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "grace", "password123")
	now := time.Now()
	svc := newServiceAt(userStore, now)

	token, err := svc.IssueToken(context.Background(), "grace", "password123")
	require.NoError(t, err)

	other := auth.NewTestTokenService(
		"another-secret-key-also-32-characters!!", testIssuer, testAudience,
		testLifetime, userStore, auth.NewBcryptVerifier(),
		func() time.Time { return now },
	)
	claims, err := other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_IssuerMismatch(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "henry", "password123")
	now := time.Now()
	svc := newServiceAt(userStore, now)

	token, err := svc.IssueToken(context.Background(), "henry", "password123")
	require.NoError(t, err)

	other := auth.NewTestTokenService(
		testSecret, "some-other-issuer", testAudience,
		testLifetime, userStore, auth.NewBcryptVerifier(),
		func() time.Time { return now },
	)
	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_AudienceMismatch(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	seedUser(t, userStore, "iris", "password123")
	now := time.Now()
	svc := newServiceAt(userStore, now)

	token, err := svc.IssueToken(context.Background(), "iris", "password123")
	require.NoError(t, err)

	other := auth.NewTestTokenService(
		testSecret, testIssuer, "some-other-audience",
		testLifetime, userStore, auth.NewBcryptVerifier(),
		func() time.Time { return now },
	)
	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	svc := newServiceAt(userStore, time.Now())

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(context.Background(), tc.token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"

	svc, err := auth.NewTokenService(cfg, userStore, auth.NewBcryptVerifier(), nil)
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewTokenService_RejectsNilDependencies(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMemoryUserStore()
	cfg := testAuthConfig()

	_, err := auth.NewTokenService(cfg, nil, auth.NewBcryptVerifier(), nil)
	assert.Error(t, err)

	_, err = auth.NewTokenService(cfg, userStore, nil, nil)
	assert.Error(t, err)
}
