package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService establishes caller identity. It verifies credentials against
// the credential store, issues signed bearer tokens, and validates tokens
// presented on subsequent requests.
type TokenService interface {
	// IssueToken verifies the username/password pair and returns a signed
	// bearer token on success. The caller's role membership is computed at
	// issuance time and embedded as a point-in-time claim: later role
	// changes are not observed until the user logs in again.
	//
	// Returns ErrInvalidCredentials for both unknown usernames and wrong
	// passwords. A wrong password additionally records a failed-login
	// signal against the account.
	IssueToken(ctx context.Context, username, password string) (string, error)

	// ValidateToken checks signature, issuer, audience and validity window,
	// returning the decoded claims on success. Fails with ErrExpiredToken
	// past expiry and ErrInvalidToken on any other mismatch.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the decoded claims of a verified bearer token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// Role is the single role label captured at issuance time:
	// "Administrator" or "User".
	Role string `json:"role"`

	// DisplayName is the username at login time. A later rename is not
	// reflected until the token is reissued.
	DisplayName string `json:"name"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	Issuer    string    `json:"iss,omitempty"`
	Audience  string    `json:"aud,omitempty"`
	NotBefore time.Time `json:"nbf,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
}

// IsAdministrator reports whether the token carries the administrator role.
func (c *Claims) IsAdministrator() bool {
	return c.Role == "Administrator"
}
