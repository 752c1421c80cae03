package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/platform/logger"
	"github.com/woklearn/woklearn-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
//
// Roles and progress are stored as JSONB columns; the progress operations
// mutate the JSONB document in a single UPDATE statement each, so concurrent
// calls for the same user never lose writes.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, the
// default logger is used.
func NewPostgresUserStore(db store.DBTX, log *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// userColumns is the column list shared by every user SELECT.
const userColumns = `id, username, hashed_password, roles, progress, skip_level,
	failed_login_attempts, created_at, updated_at`

// scanUser scans one user row, decoding the JSONB roles and progress columns.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		user         domain.User
		rolesJSON    []byte
		progressJSON []byte
	)

	err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&rolesJSON,
		&progressJSON,
		&user.SkipLevel,
		&user.FailedLoginAttempts,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rolesJSON, &user.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	if err := json.Unmarshal(progressJSON, &user.Progress); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	if user.Progress == nil {
		user.Progress = make(map[string]int)
	}

	return &user, nil
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	rolesJSON, err := json.Marshal(roleSlice(user.Roles))
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}
	progressJSON, err := json.Marshal(progressMap(user.Progress))
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	query := `
		INSERT INTO users (id, username, hashed_password, roles, progress,
			skip_level, failed_login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.HashedPassword,
		rolesJSON,
		progressJSON,
		user.SkipLevel,
		user.FailedLoginAttempts,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("user creation failed: username taken", "username", user.Username)
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		log.Error("failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: id %s", store.ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", MapError(err))
	}
	return user, nil
}

// GetByUsername implements store.UserStore.GetByUsername. The username column
// carries a unique constraint, but a multi-row result is still surfaced as
// ErrAmbiguousMatch rather than silently taking the first row.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var user *domain.User
	for rows.Next() {
		if user != nil {
			return nil, fmt.Errorf("%w: multiple users named %q", store.ErrAmbiguousMatch, username)
		}
		user, err = scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: username %q", store.ErrUserNotFound, username)
	}

	return user, nil
}

// Update implements store.UserStore.Update. It writes the identity fields
// only; progress and skip level belong to their dedicated operations.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rolesJSON, err := json.Marshal(roleSlice(user.Roles))
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}

	query := `
		UPDATE users
		SET username = $2, hashed_password = $3, roles = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.HashedPassword,
		rolesJSON,
		time.Now().UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("user update failed: username taken", "username", user.Username)
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		log.Error("failed to update user", "error", err, "user_id", user.ID)
		return fmt.Errorf("failed to update user: %w", MapError(err))
	}

	return s.checkUserAffected(result)
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", MapError(err))
	}
	return s.checkUserAffected(result)
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC`, userColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// RecordFailedLogin implements store.UserStore.RecordFailedLogin
func (s *PostgresUserStore) RecordFailedLogin(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1, updated_at = $2
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", MapError(err))
	}
	return s.checkUserAffected(result)
}

// IncrementProgress implements store.UserStore.IncrementProgress. The whole
// read-increment-write happens inside one UPDATE so concurrent increments
// for the same user are never lost.
func (s *PostgresUserStore) IncrementProgress(ctx context.Context, id uuid.UUID, paintingID string) (int, error) {
	query := `
		UPDATE users
		SET progress = jsonb_set(
				COALESCE(progress, '{}'::jsonb),
				ARRAY[$2],
				to_jsonb(COALESCE((progress ->> $2)::int, 0) + 1),
				true),
			updated_at = $3
		WHERE id = $1
		RETURNING (progress ->> $2)::int
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, id, paintingID, time.Now().UTC()).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%w: id %s", store.ErrUserNotFound, id)
		}
		return 0, fmt.Errorf("failed to increment progress: %w", MapError(err))
	}
	return count, nil
}

// EnsureProgressEntry implements store.UserStore.EnsureProgressEntry. An
// absent entry is inserted at zero; an existing entry is left untouched.
// Either way the stored count is returned.
func (s *PostgresUserStore) EnsureProgressEntry(ctx context.Context, id uuid.UUID, paintingID string) (int, error) {
	query := `
		UPDATE users
		SET progress = CASE
				WHEN jsonb_exists(COALESCE(progress, '{}'::jsonb), $2)
					THEN progress
				ELSE jsonb_set(COALESCE(progress, '{}'::jsonb), ARRAY[$2], '0'::jsonb, true)
			END,
			updated_at = $3
		WHERE id = $1
		RETURNING (progress ->> $2)::int
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, id, paintingID, time.Now().UTC()).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%w: id %s", store.ErrUserNotFound, id)
		}
		return 0, fmt.Errorf("failed to ensure progress entry: %w", MapError(err))
	}
	return count, nil
}

// ClearProgress implements store.UserStore.ClearProgress
func (s *PostgresUserStore) ClearProgress(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET progress = '{}'::jsonb, updated_at = $2
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to clear progress: %w", MapError(err))
	}
	return s.checkUserAffected(result)
}

// SetSkipLevel implements store.UserStore.SetSkipLevel
func (s *PostgresUserStore) SetSkipLevel(ctx context.Context, id uuid.UUID, level int) error {
	query := `
		UPDATE users
		SET skip_level = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, level, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set skip level: %w", MapError(err))
	}
	return s.checkUserAffected(result)
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// checkUserAffected converts a zero-rows-affected result into ErrUserNotFound.
func (s *PostgresUserStore) checkUserAffected(result sql.Result) error {
	if err := CheckRowsAffected(result, "user"); err != nil {
		if store.IsNotFoundError(err) {
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		return err
	}
	return nil
}

// roleSlice normalizes a nil role list to an empty JSON array.
func roleSlice(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}

// progressMap normalizes a nil progress map to an empty JSON object.
func progressMap(progress map[string]int) map[string]int {
	if progress == nil {
		return map[string]int{}
	}
	return progress
}
