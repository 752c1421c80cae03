// Package service contains the application services that sit between the
// HTTP layer and the stores.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/events"
	"github.com/woklearn/woklearn-api/internal/platform/logger"
	"github.com/woklearn/woklearn-api/internal/service/auth"
	"github.com/woklearn/woklearn-api/internal/store"
)

// ErrWrongPassword indicates the current password supplied for a password
// change does not match the stored hash.
var ErrWrongPassword = errors.New("current password is incorrect")

// UserService covers the account lifecycle: registration, removal, renames,
// password changes and the administrative listing. Authorization is enforced
// at the HTTP layer; these methods operate on whichever account they are
// given.
type UserService interface {
	// Register creates a new account with the default skip level and no
	// roles. Returns store.ErrUsernameExists when the name is taken and a
	// domain validation error for unusable credentials.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Delete removes an account. Returns store.ErrUserNotFound when it does
	// not exist.
	Delete(ctx context.Context, userID uuid.UUID) error

	// ChangeUsername renames an account. Returns store.ErrUserNotFound for a
	// missing account and store.ErrUsernameExists when the new name is taken.
	ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error

	// ChangePassword replaces an account's password after verifying the
	// current one. Returns ErrWrongPassword on a failed verification and
	// domain.ErrInvalidArgument when newPassword and repeated differ.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, repeated string) error

	// List returns every account, ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// SeedDefaultAdministrator creates the configured administrator account
	// if no account with that username exists yet. Called once at startup.
	SeedDefaultAdministrator(ctx context.Context, username, password string) error
}

// userService is the standard implementation of UserService.
type userService struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	emitter   events.Emitter
}

// Ensure userService implements UserService interface
var _ UserService = (*userService)(nil)

// NewUserService creates a UserService backed by the given store and
// password primitives. Account lifecycle changes are published on the
// emitter; pass nil to disable auditing.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	emitter events.Emitter,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if emitter == nil {
		emitter = events.NewNopEmitter()
	}

	return &userService{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		emitter:   emitter,
	}, nil
}

// Register implements UserService.Register.
func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := domain.NewUser(username, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info("account created", "user_id", user.ID, "username", user.Username)
	s.audit(ctx, events.NewAuditEvent(events.TypeUserRegistered, user.ID,
		map[string]string{"username": user.Username}))
	return user, nil
}

// Delete implements UserService.Delete.
func (s *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContext(ctx)

	if err := s.userStore.Delete(ctx, userID); err != nil {
		return err
	}

	log.Info("account deleted", "user_id", userID)
	s.audit(ctx, events.NewAuditEvent(events.TypeUserDeleted, userID, nil))
	return nil
}

// ChangeUsername implements UserService.ChangeUsername.
func (s *userService) ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	log := logger.FromContext(ctx)

	if newUsername == "" {
		return domain.ErrEmptyUsername
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Username = newUsername
	if err := s.userStore.Update(ctx, user); err != nil {
		return err
	}

	log.Info("username changed", "user_id", userID)
	return nil
}

// ChangePassword implements UserService.ChangePassword.
func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, repeated string) error {
	log := logger.FromContext(ctx)

	if newPassword != repeated {
		return fmt.Errorf("%w: password confirmation does not match", domain.ErrInvalidArgument)
	}
	if len(newPassword) < 8 {
		return domain.ErrPasswordTooShort
	}
	if len(newPassword) > 72 {
		return domain.ErrPasswordTooLong
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.verifier.Compare(user.HashedPassword, oldPassword); err != nil {
		log.Debug("password change rejected: current password mismatch", "user_id", userID)
		return ErrWrongPassword
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.HashedPassword = hashed
	if err := s.userStore.Update(ctx, user); err != nil {
		return err
	}

	log.Info("password changed", "user_id", userID)
	return nil
}

// List implements UserService.List.
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.List(ctx)
}

// SeedDefaultAdministrator implements UserService.SeedDefaultAdministrator.
func (s *userService) SeedDefaultAdministrator(ctx context.Context, username, password string) error {
	log := logger.FromContext(ctx)

	_, err := s.userStore.GetByUsername(ctx, username)
	if err == nil {
		log.Debug("default administrator already present", "username", username)
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to check for default administrator: %w", err)
	}

	user, err := domain.NewUser(username, password)
	if err != nil {
		return fmt.Errorf("invalid default administrator credentials: %w", err)
	}
	user.Roles = []string{domain.RoleAdministrator}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		// Lost a race against a concurrent seeder; the account exists.
		if errors.Is(err, store.ErrUsernameExists) {
			return nil
		}
		return err
	}

	log.Info("default administrator created", "user_id", user.ID, "username", username)
	return nil
}

// audit publishes an event best-effort; failures are logged and swallowed so
// auditing never breaks an account operation.
func (s *userService) audit(ctx context.Context, event *events.AuditEvent) {
	if err := s.emitter.Emit(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to emit audit event",
			"error", err,
			"event_type", event.Type)
	}
}
