package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/service/auth"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	selfID := uuid.New()
	otherID := uuid.New()
	userClaims := &auth.Claims{UserID: selfID, Role: domain.RoleUser}
	adminClaims := &auth.Claims{UserID: selfID, Role: domain.RoleAdministrator}

	cases := []struct {
		name    string
		claims  *auth.Claims
		scope   auth.Scope
		ownerID uuid.UUID
		wantErr error
	}{
		{
			name:    "nil claims rejected",
			claims:  nil,
			scope:   auth.ScopeAnyAuthenticated,
			wantErr: auth.ErrMissingToken,
		},
		{
			name:    "zero user id rejected",
			claims:  &auth.Claims{Role: domain.RoleUser},
			scope:   auth.ScopeAnyAuthenticated,
			wantErr: auth.ErrMissingToken,
		},
		{
			name:   "any authenticated admits plain user",
			claims: userClaims,
			scope:  auth.ScopeAnyAuthenticated,
		},
		{
			name:   "any authenticated admits administrator",
			claims: adminClaims,
			scope:  auth.ScopeAnyAuthenticated,
		},
		{
			name:    "self only admits owner",
			claims:  userClaims,
			scope:   auth.ScopeSelfOnly,
			ownerID: selfID,
		},
		{
			name:    "self only rejects other user",
			claims:  userClaims,
			scope:   auth.ScopeSelfOnly,
			ownerID: otherID,
			wantErr: auth.ErrForbidden,
		},
		{
			name:    "self only rejects administrator acting on other user",
			claims:  adminClaims,
			scope:   auth.ScopeSelfOnly,
			ownerID: otherID,
			wantErr: auth.ErrForbidden,
		},
		{
			name:   "administrator only admits administrator",
			claims: adminClaims,
			scope:  auth.ScopeAdministratorOnly,
		},
		{
			name:    "administrator only rejects plain user",
			claims:  userClaims,
			scope:   auth.ScopeAdministratorOnly,
			wantErr: auth.ErrForbidden,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := auth.Authorize(tc.claims, tc.scope, tc.ownerID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
