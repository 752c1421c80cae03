package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
)

// UserStore defines the interface for user data persistence, covering both
// the credential-store contract (lookup, password material, whole-record
// save) and the learning-progress operations.
//
// Concurrency note: the progress operations run as single atomic statements
// against the backing store rather than read-modify-write over the whole
// record, so two concurrent IncrementProgress calls for the same user never
// lose an increment.
type UserStore interface {
	// Create saves a new user to the store. The caller must have hashed the
	// password already. Returns ErrUsernameExists if the username is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username (case-sensitive).
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrAmbiguousMatch if more than one record carries the name.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update replaces an existing user's mutable fields (username, hashed
	// password, roles). Returns ErrUserNotFound if the user does not exist
	// and ErrUsernameExists when renaming onto a taken username.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all users, ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// RecordFailedLogin increments the user's failed-login counter. It is a
	// bookkeeping signal only; no lockout policy is attached to it.
	RecordFailedLogin(ctx context.Context, id uuid.UUID) error

	// IncrementProgress atomically increments the user's correct-answer
	// count for the painting, inserting the entry at zero first if absent,
	// and returns the new count.
	// Returns ErrUserNotFound if the user does not exist.
	IncrementProgress(ctx context.Context, id uuid.UUID, paintingID string) (int, error)

	// EnsureProgressEntry returns the user's count for the painting,
	// inserting a zero entry as a persisted side effect when absent. This is
	// the read-or-default-and-persist operation; it is intentionally not a
	// pure read.
	EnsureProgressEntry(ctx context.Context, id uuid.UUID, paintingID string) (int, error)

	// ClearProgress replaces the user's entire progress map with an empty one.
	ClearProgress(ctx context.Context, id uuid.UUID) error

	// SetSkipLevel overwrites the user's mastery threshold. Validation of
	// the level happens at the service layer before any write.
	SetSkipLevel(ctx context.Context, id uuid.UUID, level int) error

	// WithTx returns a UserStore bound to the provided transaction so that
	// multiple operations can execute atomically.
	WithTx(tx *sql.Tx) UserStore
}
