package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/config"
	"github.com/woklearn/woklearn-api/internal/events"
	"github.com/woklearn/woklearn-api/internal/platform/logger"
	"github.com/woklearn/woklearn-api/internal/store"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA256
// signing with a shared secret.
type hmacTokenService struct {
	userStore     store.UserStore
	verifier      PasswordVerifier
	emitter       events.Emitter
	signingKey    []byte
	issuer        string
	audience      string
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Allowed drift when validating time claims
}

// tokenClaims defines the JWT claims structure on the wire.
type tokenClaims struct {
	Role        string `json:"role"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService backed by the given credential
// store and password verifier, signing tokens per the auth configuration.
// Login outcomes are published on the emitter; pass nil to disable auditing.
func NewTokenService(
	cfg config.AuthConfig,
	userStore store.UserStore,
	verifier PasswordVerifier,
	emitter events.Emitter,
) (TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if emitter == nil {
		emitter = events.NewNopEmitter()
	}

	return &hmacTokenService{
		userStore:     userStore,
		verifier:      verifier,
		emitter:       emitter,
		signingKey:    []byte(cfg.JWTSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		tokenLifetime: time.Duration(cfg.TokenLifetimeSeconds) * time.Second,
		timeFunc:      time.Now,
		clockSkew:     2 * time.Minute,
	}, nil
}

// IssueToken implements TokenService.IssueToken.
func (s *hmacTokenService) IssueToken(ctx context.Context, username, password string) (string, error) {
	log := logger.FromContext(ctx)

	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same error as a wrong password: the two cases must stay
			// indistinguishable to the caller.
			log.Debug("login failed: unknown username")
			s.audit(ctx, events.NewAuditEvent(events.TypeLoginFailed, uuid.Nil,
				map[string]string{"reason": "unknown username"}))
			return "", ErrInvalidCredentials
		}
		log.Error("failed to look up user during login", "error", err)
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		// Bookkeeping signal only; no lockout policy is attached.
		if recErr := s.userStore.RecordFailedLogin(ctx, user.ID); recErr != nil {
			log.Warn("failed to record failed login attempt",
				"error", recErr,
				"user_id", user.ID)
		}
		log.Debug("login failed: password mismatch", "user_id", user.ID)
		s.audit(ctx, events.NewAuditEvent(events.TypeLoginFailed, user.ID,
			map[string]string{"reason": "password mismatch"}))
		return "", ErrInvalidCredentials
	}

	now := s.timeFunc()
	claims := tokenClaims{
		Role:        user.RoleLabel(),
		DisplayName: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			"error", err,
			"user_id", user.ID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	log.Debug("token issued",
		"user_id", user.ID,
		"role", claims.Role,
		"expiry", claims.ExpiresAt.Time)
	s.audit(ctx, events.NewAuditEvent(events.TypeLoginSucceeded, user.ID, nil))
	return signedToken, nil
}

// audit publishes an event best-effort; failures are logged and swallowed so
// auditing never breaks a login.
func (s *hmacTokenService) audit(ctx context.Context, event *events.AuditEvent) {
	if err := s.emitter.Emit(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to emit audit event",
			"error", err,
			"event_type", event.Type)
	}
}

// ValidateToken implements TokenService.ValidateToken.
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed", "error", err)
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Debug("token validation failed: malformed subject", "error", err)
		return nil, ErrInvalidToken
	}

	decoded := &Claims{
		UserID:      userID,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		Subject:     claims.Subject,
		Issuer:      claims.Issuer,
	}
	if len(claims.Audience) > 0 {
		decoded.Audience = claims.Audience[0]
	}
	if claims.NotBefore != nil {
		decoded.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}

	return decoded, nil
}
