package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role names recognized by the application. There are exactly two privilege
// levels: plain users (no role entry) and administrators.
const (
	RoleAdministrator = "Administrator"
	RoleUser          = "User"
)

// DefaultSkipLevel is the number of correct answers after which a painting
// counts as learned for a freshly created user.
const DefaultSkipLevel = 3

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrNegativeSkipLevel   = errors.New("skip level cannot be negative")
	ErrNegativeGuessCount  = errors.New("guess counts cannot be negative")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered learner.
//
// Progress maps a painting ID (string form of its UUID) to the number of
// times the user has answered that painting correctly. Entries are inserted
// lazily; a missing entry means the painting has never been attempted and
// reads as zero. SkipLevel is the mastery threshold: a painting is learned
// once its count reaches or exceeds it.
type User struct {
	ID                  uuid.UUID      `json:"id"`
	Username            string         `json:"username"`
	Password            string         `json:"-"` // Plaintext, only populated during creation/updates
	HashedPassword      string         `json:"-"` // Never expose the password hash
	Roles               []string       `json:"roles"`
	Progress            map[string]int `json:"progress"`
	SkipLevel           int            `json:"skip_level"`
	FailedLoginAttempts int            `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// It generates a new UUID, an empty progress map and the default skip level.
// The caller is responsible for hashing the password before storage.
func NewUser(username, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Password:  password,
		Progress:  make(map[string]int),
		SkipLevel: DefaultSkipLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 { // bcrypt's practical input limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	if u.SkipLevel < 0 {
		return ErrNegativeSkipLevel
	}

	for _, count := range u.Progress {
		if count < 0 {
			return ErrNegativeGuessCount
		}
	}

	return nil
}

// IsAdministrator reports whether the user holds the Administrator role.
func (u *User) IsAdministrator() bool {
	return slices.Contains(u.Roles, RoleAdministrator)
}

// RoleLabel returns the single role label embedded into tokens issued for
// this user: "Administrator" if the user holds that role, "User" otherwise.
func (u *User) RoleLabel() string {
	if u.IsAdministrator() {
		return RoleAdministrator
	}
	return RoleUser
}

// GuessCount returns the recorded correct-answer count for the painting.
// A painting never attempted reads as zero.
func (u *User) GuessCount(paintingID string) int {
	return u.Progress[paintingID]
}

// MasteredCount returns the number of tracked paintings whose count has
// reached the user's skip level.
func (u *User) MasteredCount() int {
	mastered := 0
	for _, count := range u.Progress {
		if count >= u.SkipLevel {
			mastered++
		}
	}
	return mastered
}
