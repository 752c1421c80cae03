package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("learner", "correct-horse-battery")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "learner", user.Username)
		assert.Equal(t, DefaultSkipLevel, user.SkipLevel)
		assert.Empty(t, user.Progress)
		assert.Empty(t, user.Roles)
	})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"empty username", "", "correct-horse-battery", ErrEmptyUsername},
		{"short password", "learner", "short", ErrPasswordTooShort},
		{"long password", "learner", string(make([]byte, 80)), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.username, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user without plaintext password", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Username:       "learner",
			HashedPassword: "$2a$10$hash",
			Progress:       map[string]int{},
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("negative guess count rejected", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Username:       "learner",
			HashedPassword: "$2a$10$hash",
			Progress:       map[string]int{"x": -1},
		}
		assert.ErrorIs(t, user.Validate(), ErrNegativeGuessCount)
	})

	t.Run("negative skip level rejected", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Username:       "learner",
			HashedPassword: "$2a$10$hash",
			SkipLevel:      -1,
		}
		assert.ErrorIs(t, user.Validate(), ErrNegativeSkipLevel)
	})
}

func TestUserRoles(t *testing.T) {
	t.Parallel()

	admin := &User{Roles: []string{RoleAdministrator}}
	plain := &User{}

	assert.True(t, admin.IsAdministrator())
	assert.Equal(t, RoleAdministrator, admin.RoleLabel())
	assert.False(t, plain.IsAdministrator())
	assert.Equal(t, RoleUser, plain.RoleLabel())
}

func TestUserProgress(t *testing.T) {
	t.Parallel()

	user := &User{
		Progress:  map[string]int{"a": 3, "b": 1, "c": 5},
		SkipLevel: 3,
	}

	assert.Equal(t, 3, user.GuessCount("a"))
	assert.Equal(t, 0, user.GuessCount("never-seen"))
	assert.Equal(t, 2, user.MasteredCount())

	// Skip level zero: every tracked painting is immediately mastered.
	user.SkipLevel = 0
	assert.Equal(t, len(user.Progress), user.MasteredCount())
}
