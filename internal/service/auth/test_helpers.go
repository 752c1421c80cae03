package auth

import (
	"time"

	"github.com/woklearn/woklearn-api/internal/events"
	"github.com/woklearn/woklearn-api/internal/store"
)

// NewTestTokenService creates a TokenService with a fixed time function for
// predictable expiry behavior in tests. Production code must use
// NewTokenService instead.
func NewTestTokenService(
	secret, issuer, audience string,
	lifetime time.Duration,
	userStore store.UserStore,
	verifier PasswordVerifier,
	timeFunc func() time.Time,
) TokenService {
	return &hmacTokenService{
		userStore:     userStore,
		verifier:      verifier,
		emitter:       events.NewNopEmitter(),
		signingKey:    []byte(secret),
		issuer:        issuer,
		audience:      audience,
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     0,
	}
}
